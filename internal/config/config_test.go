package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeConfig(t *testing.T, notesDir, content string) string {
	t.Helper()
	path := DefaultPath(notesDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"NT_NOTES_DIR", "NT_TEMPLATES_DIR", "NT_DEFAULT_CATEGORY", "NT_DEFAULT_TEMPLATE",
		"NT_CATEGORIES", "NT_EDITOR_DEFAULT", "NT_EDITOR_ALTERNATIVES", "NT_EDITOR_ARGS",
		"NT_PREVIEW_STYLE", "NT_PREVIEW_WORD_WRAP", "NT_LOG_LEVEL", "NT_LOG_FILE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	clearEnv(t)
	notesDir := t.TempDir()

	cfg, err := Load(Options{NotesDir: notesDir})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	want := NewDefaultConfig(notesDir)
	if cfg.NotesDir != notesDir || cfg.TemplatesDir != want.TemplatesDir {
		t.Fatalf("unexpected directories: %q, %q", cfg.NotesDir, cfg.TemplatesDir)
	}
	if cfg.DefaultTemplate != "general_note" || cfg.DefaultCategory != "personal" {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
	if !reflect.DeepEqual(cfg.Categories, want.Categories) {
		t.Fatalf("unexpected categories: %v", cfg.Categories)
	}
	if cfg.Editor.Default != "nano" || !reflect.DeepEqual(cfg.Editor.Alternatives, []string{"vim", "vi"}) {
		t.Fatalf("unexpected editor config: %#v", cfg.Editor)
	}
	if cfg.Preview.Style != "dracula" || cfg.Preview.WordWrap != 100 {
		t.Fatalf("unexpected preview config: %#v", cfg.Preview)
	}
	if cfg.Path() != DefaultPath(notesDir) {
		t.Fatalf("unexpected config path %q", cfg.Path())
	}
	if cfg.LogFile() != DefaultLogFile(notesDir) {
		t.Fatalf("unexpected log file %q", cfg.LogFile())
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	clearEnv(t)
	notesDir := t.TempDir()
	writeConfig(t, notesDir, `
templates_dir: tpl
default_category: work
categories: [work, ideas]
editor:
  default: vim
  alternatives: [nano]
  args: ["+set wrap"]
preview:
  style: light
  word_wrap: 80
log:
  level: DEBUG
  file: logs/nt.log
`)

	cfg, err := Load(Options{NotesDir: notesDir})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.TemplatesDir != filepath.Join(notesDir, "tpl") {
		t.Fatalf("expected templates dir relative to notes dir, got %q", cfg.TemplatesDir)
	}
	if cfg.DefaultCategory != "work" || !reflect.DeepEqual(cfg.Categories, []string{"work", "ideas"}) {
		t.Fatalf("unexpected categories: %#v", cfg)
	}
	if cfg.DefaultTemplate != "general_note" {
		t.Fatalf("expected unset fields to keep defaults, got %q", cfg.DefaultTemplate)
	}
	if cfg.Editor.Default != "vim" || !reflect.DeepEqual(cfg.Editor.Args, []string{"+set wrap"}) {
		t.Fatalf("unexpected editor config: %#v", cfg.Editor)
	}
	if cfg.Preview.Style != "light" || cfg.Preview.WordWrap != 80 {
		t.Fatalf("unexpected preview config: %#v", cfg.Preview)
	}
	if cfg.Log.Level != "debug" || cfg.LogFile() != filepath.Join(notesDir, "logs", "nt.log") {
		t.Fatalf("unexpected log config: %#v", cfg.Log)
	}
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	notesDir := t.TempDir()
	writeConfig(t, notesDir, "editor:\n  default: vim\n")

	t.Setenv("NT_EDITOR_DEFAULT", "hx")
	t.Setenv("NT_PREVIEW_WORD_WRAP", "60")

	cfg, err := Load(Options{NotesDir: notesDir})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Editor.Default != "hx" {
		t.Fatalf("expected environment to override file, got %q", cfg.Editor.Default)
	}
	if cfg.Preview.WordWrap != 60 {
		t.Fatalf("expected word wrap from environment, got %d", cfg.Preview.WordWrap)
	}

	cfg, err = Load(Options{NotesDir: notesDir, Editor: "micro"})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Editor.Default != "micro" {
		t.Fatalf("expected explicit option to win, got %q", cfg.Editor.Default)
	}
}

func TestLoadNotesDirFromEnvironment(t *testing.T) {
	clearEnv(t)
	notesDir := t.TempDir()
	t.Setenv("NT_NOTES_DIR", notesDir)

	cfg, err := Load(Options{})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.NotesDir != notesDir {
		t.Fatalf("expected notes dir from environment, got %q", cfg.NotesDir)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	notesDir := t.TempDir()
	path := writeConfig(t, notesDir, `
default_template: ""
editor:
  default: ""
preview:
  style: neon
  word_wrap: -1
log:
  level: loud
`)

	_, err := Load(Options{NotesDir: notesDir})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != path {
		t.Fatalf("expected error to name %q, got %q", path, verr.Path)
	}

	fields := verr.Fields()
	for _, key := range []string{"default_template", "editor.default", "preview.style", "preview.word_wrap", "log.level"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("expected validation error for %s, got %v", key, fields)
		}
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	clearEnv(t)
	notesDir := t.TempDir()
	writeConfig(t, notesDir, "editor: [unterminated\n")

	if _, err := Load(Options{NotesDir: notesDir}); err == nil {
		t.Fatalf("expected error for malformed config")
	}
}

func TestLoadMissingExplicitConfigFile(t *testing.T) {
	clearEnv(t)
	notesDir := t.TempDir()

	_, err := Load(Options{NotesDir: notesDir, ConfigFile: filepath.Join(notesDir, "nope.yaml")})
	if err == nil {
		t.Fatalf("expected error for a missing explicit config file")
	}
}

func TestNotesDirExists(t *testing.T) {
	cfg := NewDefaultConfig(filepath.Join(t.TempDir(), "missing"))

	var initErr *ConfigInitError
	if err := cfg.NotesDirExists(); !errors.As(err, &initErr) {
		t.Fatalf("expected ConfigInitError, got %v", err)
	}

	cfg = NewDefaultConfig(t.TempDir())
	if err := cfg.NotesDirExists(); err != nil {
		t.Fatalf("expected existing notes dir to pass, got %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	notesDir := t.TempDir()

	cfg := NewDefaultConfig(notesDir)
	cfg.Categories = []string{"work"}
	if err := cfg.SetEditor("vim"); err != nil {
		t.Fatalf("SetEditor returned error: %v", err)
	}

	loaded, err := Load(Options{NotesDir: notesDir})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Editor.Default != "vim" {
		t.Fatalf("expected saved editor, got %q", loaded.Editor.Default)
	}
	if !reflect.DeepEqual(loaded.Categories, []string{"work"}) {
		t.Fatalf("expected saved categories, got %v", loaded.Categories)
	}
}

func TestSetEditorRejectsEmptyName(t *testing.T) {
	cfg := NewDefaultConfig(t.TempDir())
	if err := cfg.SetEditor("  "); err == nil {
		t.Fatalf("expected error for an empty editor name")
	}
	if _, err := os.Stat(cfg.Path()); !os.IsNotExist(err) {
		t.Fatalf("expected nothing to be written, stat err: %v", err)
	}
}
