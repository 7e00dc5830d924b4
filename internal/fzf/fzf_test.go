package fzf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/Paintersrp/nt/internal/handler"
	"github.com/Paintersrp/nt/utils"
)

func writeNote(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write note: %v", err)
	}
	return path
}

func TestRunReturnsChosenNote(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "work/a.md", "---\ntitle: Alpha\ntags: [x, y]\n---\nbody")
	second := writeNote(t, dir, "work/b.md", "# Beta")

	f := NewFuzzyFinder(handler.NewFileHandler(dir), utils.PreviewOptions{}, "pick")

	var labels []string
	var optCount int
	f.find = func(slice interface{}, itemFunc func(int) string, opts ...fuzzyfinder.Option) (int, error) {
		files := slice.([]string)
		for i := range files {
			labels = append(labels, itemFunc(i))
		}
		optCount = len(opts)
		return 1, nil
	}

	got, err := f.Run("be")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got != second {
		t.Fatalf("expected %s, got %s", second, got)
	}

	if labels[0] != "Alpha [Tags: x, y] (work/a.md)" {
		t.Fatalf("unexpected label %q", labels[0])
	}
	if labels[1] != "Beta [No tags] (work/b.md)" {
		t.Fatalf("unexpected label %q", labels[1])
	}
	if optCount != 3 {
		t.Fatalf("expected preview, query and header options, got %d", optCount)
	}
}

func TestRunAbort(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "a.md", "# A")

	f := NewFuzzyFinder(handler.NewFileHandler(dir), utils.PreviewOptions{}, "")
	f.find = func(interface{}, func(int) string, ...fuzzyfinder.Option) (int, error) {
		return -1, fuzzyfinder.ErrAbort
	}

	if _, err := f.Run(""); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
}

func TestRunWithoutNotes(t *testing.T) {
	f := NewFuzzyFinder(handler.NewFileHandler(t.TempDir()), utils.PreviewOptions{}, "")
	if _, err := f.Run(""); err == nil || !strings.Contains(err.Error(), "no notes") {
		t.Fatalf("expected no notes error, got %v", err)
	}
}

func TestPreviewOutOfRange(t *testing.T) {
	f := NewFuzzyFinder(handler.NewFileHandler(t.TempDir()), utils.PreviewOptions{}, "")
	if got := f.renderMarkdownPreview(-1, 80, 20); got != "" {
		t.Fatalf("expected empty preview, got %q", got)
	}
}
