package new

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Paintersrp/nt/internal/config"
	"github.com/Paintersrp/nt/internal/state"
)

func newTestState(t *testing.T) (*state.State, string) {
	t.Helper()
	notesDir := t.TempDir()
	s, err := state.FromConfig(config.NewDefaultConfig(notesDir))
	if err != nil {
		t.Fatalf("failed to build state: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, notesDir
}

func TestRunCreatesNoteInDefaultCategory(t *testing.T) {
	s, notesDir := newTestState(t)

	var out bytes.Buffer
	o := &options{vars: []string{"tags=['go']"}, date: "March 9, 2024"}
	if err := run(&out, s, o, "team-sync"); err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	notePath := filepath.Join(notesDir, "personal", "team-sync.md")
	data, err := os.ReadFile(notePath)
	if err != nil {
		t.Fatalf("expected note file at %s: %v", notePath, err)
	}
	content := string(data)
	for _, want := range []string{`title: "Team Sync"`, "date: 2024-03-09", "tags: ['go']"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in note:\n%s", want, content)
		}
	}
	if got := out.String(); got != "Created personal/team-sync.md\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRunUsesCategoryAndTemplateFlags(t *testing.T) {
	s, notesDir := newTestState(t)

	o := &options{template: "meeting_notes", category: "work"}
	if err := run(&bytes.Buffer{}, s, o, "standup"); err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(notesDir, "work", "standup.md"))
	if err != nil {
		t.Fatalf("expected note in work: %v", err)
	}
	content, _ := s.Templates.Content("meeting_notes")
	if len(data) == 0 || len(content) == 0 {
		t.Fatalf("expected rendered meeting notes")
	}
}

func TestRunSlashNameIsRelativeToRoot(t *testing.T) {
	s, notesDir := newTestState(t)

	if err := run(&bytes.Buffer{}, s, &options{}, "learning/go/generics"); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(notesDir, "learning", "go", "generics.md")); err != nil {
		t.Fatalf("expected nested note: %v", err)
	}
}

func TestRunRefusesExistingNote(t *testing.T) {
	s, notesDir := newTestState(t)

	existing := filepath.Join(notesDir, "personal", "todo.md")
	if err := os.MkdirAll(filepath.Dir(existing), 0o755); err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	if err := os.WriteFile(existing, []byte("keep me"), 0o644); err != nil {
		t.Fatalf("failed to write note: %v", err)
	}

	err := run(&bytes.Buffer{}, s, &options{}, "todo")
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected already exists error, got %v", err)
	}
	data, _ := os.ReadFile(existing)
	if string(data) != "keep me" {
		t.Fatalf("existing note was overwritten")
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	s, _ := newTestState(t)

	tests := map[string]*options{
		"../escape": {},
		"ok-name":   {template: "missing"},
		"ok-date":   {date: "not a date at all"},
		"ok-var":    {vars: []string{"novalue"}},
	}
	for name, o := range tests {
		if err := run(&bytes.Buffer{}, s, o, name); err == nil {
			t.Fatalf("expected error for %q %+v", name, o)
		}
	}
}

func TestRunOpensEditor(t *testing.T) {
	binDir := t.TempDir()
	logPath := filepath.Join(binDir, "args")
	script := "#!/bin/sh\necho \"$@\" > '" + logPath + "'\nexit 0\n"
	if err := os.WriteFile(filepath.Join(binDir, "nano"), []byte(script), 0o755); err != nil {
		t.Fatalf("failed to create nano stub: %v", err)
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	s, notesDir := newTestState(t)
	if err := run(&bytes.Buffer{}, s, &options{edit: true}, "draft"); err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("expected editor to run: %v", err)
	}
	if want := filepath.Join(notesDir, "personal", "draft.md"); strings.TrimSpace(string(data)) != want {
		t.Fatalf("editor got %q, want %q", strings.TrimSpace(string(data)), want)
	}
}
