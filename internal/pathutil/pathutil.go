package pathutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideNotes is returned when a path resolves outside the notes root.
var ErrOutsideNotes = errors.New("path is outside the notes directory")

// NormalizePath converts Windows-style separators to the current platform's
// separator and cleans the result.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}
	replaced := strings.ReplaceAll(p, "\\", "/")
	return filepath.Clean(filepath.FromSlash(replaced))
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, p[1:]), nil
}

// NotesRelative returns target relative to notesDir using forward slashes.
func NotesRelative(notesDir, target string) (string, error) {
	rel, err := filepath.Rel(NormalizePath(notesDir), NormalizePath(target))
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// SplitCategory splits the path of target below notesDir into its top-level
// directory (the category) and the remaining path. Files directly in the
// notes root have no category.
func SplitCategory(notesDir, target string) (string, string, error) {
	rel, err := NotesRelative(notesDir, target)
	if err != nil {
		return "", "", err
	}

	rel = strings.TrimPrefix(rel, "./")
	if rel == "." || rel == "" {
		return "", "", nil
	}

	category, rest, found := strings.Cut(rel, "/")
	if !found {
		return "", category, nil
	}
	return category, rest, nil
}

// Resolve joins a user supplied path onto notesDir unless it is already
// absolute, and rejects results that escape notesDir.
func Resolve(notesDir, p string) (string, error) {
	p = NormalizePath(p)
	if !filepath.IsAbs(p) {
		p = filepath.Join(notesDir, p)
	}

	rel, err := filepath.Rel(NormalizePath(notesDir), p)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrOutsideNotes
	}
	return p, nil
}

// EnsureExt appends ext to name unless name already ends with it.
func EnsureExt(name, ext string) string {
	if strings.HasSuffix(name, ext) {
		return name
	}
	return name + ext
}
