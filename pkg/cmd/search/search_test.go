package search

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Paintersrp/nt/internal/config"
	"github.com/Paintersrp/nt/internal/state"
)

func newTestState(t *testing.T, files map[string]string) *state.State {
	t.Helper()
	notesDir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(notesDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", rel, err)
		}
	}

	s, err := state.FromConfig(config.NewDefaultConfig(notesDir))
	if err != nil {
		t.Fatalf("failed to build state: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunPrintsResultsByMatchCount(t *testing.T) {
	s := newTestState(t, map[string]string{
		"work/one.md": "# One\nGo is fun",
		"work/two.md": "# Two\ngo here\nand go there",
		"other.md":    "# Other\nnothing",
	})

	var out bytes.Buffer
	if err := run(&out, s, &options{}, "go"); err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	got := out.String()
	two := strings.Index(got, "(work/two.md, 2 matches)")
	one := strings.Index(got, "(work/one.md, 1 matches)")
	if two < 0 || one < 0 || two > one {
		t.Fatalf("expected two before one:\n%s", got)
	}
	if !strings.Contains(got, "     2: go here") {
		t.Fatalf("expected numbered matching line:\n%s", got)
	}
	if strings.Contains(got, "Other") {
		t.Fatalf("unexpected non-matching note:\n%s", got)
	}
}

func TestRunPathsOnly(t *testing.T) {
	s := newTestState(t, map[string]string{
		"a.md": "needle",
		"b.md": "hay",
	})

	var out bytes.Buffer
	if err := run(&out, s, &options{pathsOnly: true}, "NEEDLE"); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if out.String() != "a.md\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunNoMatches(t *testing.T) {
	s := newTestState(t, map[string]string{"a.md": "text"})

	var out bytes.Buffer
	if err := run(&out, s, &options{}, "absent"); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if out.String() != "No matches for \"absent\"\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestHighlightKeepsText(t *testing.T) {
	tests := map[string]string{
		"Go and GO and go": "go",
		"nothing here":     "zzz",
		"İstanbul go":      "go",
		"empty query":      " ",
	}
	for line, query := range tests {
		if got := highlight(line, query); got != line {
			t.Fatalf("highlight(%q, %q) = %q without a color profile", line, query, got)
		}
	}
}
