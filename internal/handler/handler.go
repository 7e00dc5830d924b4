package handler

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Paintersrp/nt/internal/pathutil"
)

const noteExt = ".md"

// ErrNoteExists is returned by Create when the target file is already present.
var ErrNoteExists = errors.New("note already exists")

// FileHandler performs note file operations below a notes directory.
type FileHandler struct {
	notesDir string
}

func NewFileHandler(notesDir string) *FileHandler {
	return &FileHandler{notesDir: filepath.Clean(notesDir)}
}

func (h *FileHandler) Root() string {
	return h.notesDir
}

// Categories returns the non-hidden top-level directories, sorted by name.
func (h *FileHandler) Categories() ([]string, error) {
	entries, err := os.ReadDir(h.notesDir)
	if err != nil {
		return nil, fmt.Errorf("handler: reading categories: %w", err)
	}

	var categories []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			categories = append(categories, entry.Name())
		}
	}
	return categories, nil
}

// AllNotes returns every markdown note outside hidden directories, sorted.
func (h *FileHandler) AllNotes() ([]string, error) {
	return h.walkNotes(h.notesDir)
}

// NotesInCategory returns the notes below the named category directory. An
// unknown category has no notes.
func (h *FileHandler) NotesInCategory(category string) ([]string, error) {
	dir, err := pathutil.Resolve(h.notesDir, category)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("handler: %w", err)
	}
	if !info.IsDir() {
		return nil, nil
	}
	return h.walkNotes(dir)
}

func (h *FileHandler) walkNotes(dir string) ([]string, error) {
	var notes []string

	err := filepath.WalkDir(
		dir,
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path != dir && errors.Is(err, fs.ErrPermission) {
					if d != nil && d.IsDir() {
						return filepath.SkipDir
					}
					return nil
				}
				return err
			}

			name := d.Name()
			if path != dir && strings.HasPrefix(name, ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !d.IsDir() && filepath.Ext(name) == noteExt {
				notes = append(notes, path)
			}
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("handler: walking %s: %w", dir, err)
	}

	sort.Strings(notes)
	return notes, nil
}

// Read returns the contents of the note at path.
func (h *FileHandler) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("handler: read %s: %w", path, err)
	}
	return string(data), nil
}

// NotePath returns the path of the note name in category. The .md extension
// is added when missing. name may contain subdirectories.
func (h *FileHandler) NotePath(category, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("handler: note name is empty")
	}
	return pathutil.Resolve(h.notesDir, filepath.Join(category, pathutil.EnsureExt(name, noteExt)))
}

// Exists reports whether a regular file exists at path.
func (h *FileHandler) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Create writes a new note atomically. It fails with ErrNoteExists when path
// is already taken.
func (h *FileHandler) Create(path, content string) error {
	if h.Exists(path) {
		return fmt.Errorf("%w: %s", ErrNoteExists, path)
	}
	return h.Write(path, content)
}

// Write replaces the contents of path atomically: a temporary file in the
// same directory is synced and then renamed over the target.
func (h *FileHandler) Write(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("handler: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".nt-tmp-*")
	if err != nil {
		return fmt.Errorf("handler: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.WriteString(content); err != nil {
		return fmt.Errorf("handler: write temp: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("handler: chmod temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("handler: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("handler: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("handler: rename: %w", err)
	}
	success = true
	return nil
}

// Delete removes the note at path. Directories are refused.
func (h *FileHandler) Delete(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("handler: delete %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("handler: delete %s: is a directory", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("handler: delete %s: %w", path, err)
	}
	return nil
}

// Rel returns path relative to the notes directory with forward slashes.
func (h *FileHandler) Rel(path string) string {
	rel, err := pathutil.NotesRelative(h.notesDir, path)
	if err != nil {
		return path
	}
	return rel
}
