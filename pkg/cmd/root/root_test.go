package root

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Paintersrp/nt/internal/config"
	"github.com/Paintersrp/nt/internal/constants"
	"github.com/Paintersrp/nt/internal/state"
)

func execute(t *testing.T, args ...string) (string, *state.State, error) {
	t.Helper()
	s := &state.State{}
	t.Cleanup(func() { s.Close() })

	cmd := NewCmdRoot(s)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), s, err
}

func TestListLoadsStateFromFlags(t *testing.T) {
	t.Setenv("NT_NOTES_DIR", "")
	notesDir := t.TempDir()
	note := filepath.Join(notesDir, "work", "plan.md")
	if err := os.MkdirAll(filepath.Dir(note), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(note, []byte("# Plan"), 0o644); err != nil {
		t.Fatalf("failed to write note: %v", err)
	}

	out, s, err := execute(t, "list", "--notes-dir", notesDir)
	if err != nil {
		t.Fatalf("execute returned error: %v", err)
	}
	if out != "work/plan.md\n" {
		t.Fatalf("unexpected output %q", out)
	}
	if s.Config == nil || s.Config.NotesDir != notesDir {
		t.Fatalf("expected state to be loaded for %s", notesDir)
	}
}

func TestNotesDirFromEnvironment(t *testing.T) {
	notesDir := t.TempDir()
	t.Setenv("NT_NOTES_DIR", notesDir)

	_, s, err := execute(t, "tree")
	if err != nil {
		t.Fatalf("execute returned error: %v", err)
	}
	if s.Config.NotesDir != notesDir {
		t.Fatalf("expected notes dir from environment, got %q", s.Config.NotesDir)
	}
}

func TestMissingNotesDirSuggestsInit(t *testing.T) {
	t.Setenv("NT_NOTES_DIR", "")
	missing := filepath.Join(t.TempDir(), "absent")

	_, _, err := execute(t, "list", "-d", missing)
	var initErr *config.ConfigInitError
	if !errors.As(err, &initErr) {
		t.Fatalf("expected ConfigInitError, got %v", err)
	}
	if !strings.Contains(err.Error(), "nt init") {
		t.Fatalf("expected init hint, got %v", err)
	}
}

func TestInitSkipsStateLoading(t *testing.T) {
	t.Setenv("NT_NOTES_DIR", "")
	notesDir := filepath.Join(t.TempDir(), "fresh")

	out, s, err := execute(t, "init", "-d", notesDir, "--editor", "vim")
	if err != nil {
		t.Fatalf("execute returned error: %v", err)
	}
	if !strings.Contains(out, "Notes directory:") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if s.Config == nil || s.Config.Editor.Default != "vim" {
		t.Fatalf("expected state from init")
	}
}

func TestBrowserNeedsTerminal(t *testing.T) {
	t.Setenv("NT_NOTES_DIR", "")
	origInteractive, origBrowser := isInteractive, runBrowser
	t.Cleanup(func() {
		isInteractive = origInteractive
		runBrowser = origBrowser
	})

	called := false
	runBrowser = func(*state.State) error {
		called = true
		return nil
	}

	isInteractive = func() bool { return false }
	if _, _, err := execute(t, "-d", t.TempDir()); !errors.Is(err, errNotInteractive) {
		t.Fatalf("expected errNotInteractive, got %v", err)
	}
	if called {
		t.Fatalf("browser should not start without a terminal")
	}

	isInteractive = func() bool { return true }
	if _, _, err := execute(t, "-d", t.TempDir()); err != nil {
		t.Fatalf("execute returned error: %v", err)
	}
	if !called {
		t.Fatalf("expected browser to start")
	}
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("execute returned error: %v", err)
	}
	if !strings.Contains(out, constants.Version) {
		t.Fatalf("expected version in %q", out)
	}
}
