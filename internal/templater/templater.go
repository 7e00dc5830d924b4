// Package templater lists note templates and renders them into new notes.
//
// Templates are markdown files whose stem is the template name. Files in the
// user template directory shadow the defaults embedded in the binary.
package templater

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/Paintersrp/nt/internal/parser"
)

//go:embed templates
var embeddedTemplates embed.FS

const embeddedRoot = "templates"

// ErrTemplateNotFound is returned when no user or embedded template has the
// requested name.
var ErrTemplateNotFound = errors.New("template not found")

var descriptions = map[string]string{
	"budget_entry":  "Budget tracking with income, expenses, and savings",
	"daily_journal": "Daily reflection and logging",
	"general_note":  "General purpose note template",
	"learning_note": "Learning and educational content",
	"meeting_notes": "Meeting notes with agenda and action items",
	"project":       "Project planning and tracking",
}

const fallbackDescription = "Note template"

// Template describes one available template.
type Template struct {
	Name        string
	Filename    string
	Path        string
	Description string
	Embedded    bool
}

// Manager finds templates in a user directory and the built-in set.
type Manager struct {
	dir      string
	embedded fs.FS
	now      func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces the clock used for the implicit date binding.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithDefaults replaces the embedded default templates. fsys must hold the
// templates at its root.
func WithDefaults(fsys fs.FS) Option {
	return func(m *Manager) {
		m.embedded = fsys
	}
}

// NewManager returns a Manager for the templates in dir.
func NewManager(dir string, opts ...Option) *Manager {
	sub, err := fs.Sub(embeddedTemplates, embeddedRoot)
	if err != nil {
		panic(err)
	}

	m := &Manager{
		dir:      dir,
		embedded: sub,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the user template directory.
func (m *Manager) Dir() string {
	return m.dir
}

// List returns every available template sorted by name.
func (m *Manager) List() ([]Template, error) {
	found := make(map[string]Template)

	if m.dir != "" {
		entries, err := os.ReadDir(m.dir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading template directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
				continue
			}
			full := filepath.Join(m.dir, entry.Name())
			name := parser.Stem(entry.Name())
			content, err := os.ReadFile(full)
			if err != nil {
				if errors.Is(err, fs.ErrPermission) {
					continue
				}
				return nil, fmt.Errorf("reading template %s: %w", name, err)
			}
			found[name] = Template{
				Name:        name,
				Filename:    entry.Name(),
				Path:        full,
				Description: describe(name, content),
			}
		}
	}

	defaults, err := fs.ReadDir(m.embedded, ".")
	if err != nil {
		return nil, fmt.Errorf("reading default templates: %w", err)
	}
	for _, entry := range defaults {
		if entry.IsDir() || path.Ext(entry.Name()) != ".md" {
			continue
		}
		name := parser.Stem(entry.Name())
		if _, shadowed := found[name]; shadowed {
			continue
		}
		content, err := fs.ReadFile(m.embedded, entry.Name())
		if err != nil {
			return nil, err
		}
		found[name] = Template{
			Name:        name,
			Filename:    entry.Name(),
			Description: describe(name, content),
			Embedded:    true,
		}
	}

	templates := make([]Template, 0, len(found))
	for _, t := range found {
		templates = append(templates, t)
	}
	sort.Slice(templates, func(i, j int) bool {
		return templates[i].Name < templates[j].Name
	})
	return templates, nil
}

func describe(name string, content []byte) string {
	if fm, err := parser.ParseFrontMatter(content); err == nil && fm.Description != "" {
		return fm.Description
	}
	if d, ok := descriptions[name]; ok {
		return d
	}
	return fallbackDescription
}

// Content returns the raw body of the named template.
func (m *Manager) Content(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}

	if m.dir != "" {
		data, err := os.ReadFile(filepath.Join(m.dir, name+".md"))
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("reading template %s: %w", name, err)
		}
	}

	data, err := fs.ReadFile(m.embedded, name+".md")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
		}
		return "", err
	}
	return string(data), nil
}

// DefaultBindings returns the implicit bindings for a note written to
// outputPath: today's date and a title derived from the file name.
func (m *Manager) DefaultBindings(outputPath string) map[string]string {
	return map[string]string{
		"date":  m.now().Format("2006-01-02"),
		"title": TitleFromPath(outputPath),
	}
}

// RenderNote renders the named template for a note at outputPath. vars take
// precedence over the implicit bindings.
func (m *Manager) RenderNote(name, outputPath string, vars map[string]string) (string, error) {
	content, err := m.Content(name)
	if err != nil {
		return "", err
	}

	bindings := m.DefaultBindings(outputPath)
	for k, v := range vars {
		bindings[k] = v
	}
	return Render(content, bindings), nil
}

// CreateNote renders the named template to outputPath, creating parent
// directories as needed and overwriting any existing file.
func (m *Manager) CreateNote(name, outputPath string, vars map[string]string) error {
	rendered, err := m.RenderNote(name, outputPath, vars)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("creating note directory: %w", err)
	}
	if err := os.WriteFile(outputPath, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("writing note: %w", err)
	}
	return nil
}

// Install copies the embedded templates into the user template directory and
// reports how many files were written. Existing files are kept unless force
// is set.
func (m *Manager) Install(force bool) (int, error) {
	if m.dir == "" {
		return 0, errors.New("no template directory configured")
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating template directory: %w", err)
	}

	entries, err := fs.ReadDir(m.embedded, ".")
	if err != nil {
		return 0, err
	}

	written := 0
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".md" {
			continue
		}
		target := filepath.Join(m.dir, entry.Name())
		if !force {
			if _, err := os.Stat(target); err == nil {
				continue
			}
		}
		data, err := fs.ReadFile(m.embedded, entry.Name())
		if err != nil {
			return written, err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return written, fmt.Errorf("installing template %s: %w", entry.Name(), err)
		}
		written++
	}
	return written, nil
}

// TitleFromPath derives a note title from the file name of p: the stem with
// hyphens and underscores turned into spaces, then title-cased.
func TitleFromPath(p string) string {
	stem := parser.Stem(p)
	stem = strings.NewReplacer("-", " ", "_", " ").Replace(stem)
	return titleCase(stem)
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest, so "2nd-draft" becomes "2Nd-Draft".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inWord := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if inWord {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToTitle(r))
			}
			inWord = true
			continue
		}
		inWord = false
		b.WriteRune(r)
	}
	return b.String()
}
