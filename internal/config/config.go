// Package config loads and persists the nt configuration.
//
// Values are resolved in this order, highest first: explicit overrides from
// command line flags, NT_* environment variables (including those loaded from
// a .env file), the YAML config file, and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/nt/internal/constants"
	"github.com/Paintersrp/nt/internal/pathutil"
)

type EditorConfig struct {
	Default      string   `mapstructure:"default"      yaml:"default"      json:"default"`
	Alternatives []string `mapstructure:"alternatives" yaml:"alternatives" json:"alternatives"`
	Args         []string `mapstructure:"args"         yaml:"args"         json:"args"`
}

func (e EditorConfig) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Default, validation.Required),
		validation.Field(&e.Alternatives, validation.Each(validation.Required)),
	)
}

type PreviewConfig struct {
	Style    string `mapstructure:"style"     yaml:"style"     json:"style"`
	WordWrap int    `mapstructure:"word_wrap" yaml:"word_wrap" json:"word_wrap"`
}

// PreviewStyles are the glamour styles accepted for preview.style.
var PreviewStyles = []string{"auto", "dark", "light", "dracula", "pink", "ascii", "notty"}

func (p PreviewConfig) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Style, validation.Required, validation.In(toAny(PreviewStyles)...)),
		validation.Field(&p.WordWrap, validation.Min(0)),
	)
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" json:"level"`
	File  string `mapstructure:"file"  yaml:"file"  json:"file"`
}

// LogLevels are the accepted values for log.level.
var LogLevels = []string{"debug", "info", "warn", "error"}

func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.Required, validation.In(toAny(LogLevels)...)),
	)
}

type Config struct {
	NotesDir        string        `mapstructure:"notes_dir"        yaml:"notes_dir"        json:"notes_dir"`
	TemplatesDir    string        `mapstructure:"templates_dir"    yaml:"templates_dir"    json:"templates_dir"`
	DefaultCategory string        `mapstructure:"default_category" yaml:"default_category" json:"default_category"`
	DefaultTemplate string        `mapstructure:"default_template" yaml:"default_template" json:"default_template"`
	Categories      []string      `mapstructure:"categories"       yaml:"categories"       json:"categories"`
	Editor          EditorConfig  `mapstructure:"editor"           yaml:"editor"           json:"editor"`
	Preview         PreviewConfig `mapstructure:"preview"          yaml:"preview"          json:"preview"`
	Log             LogConfig     `mapstructure:"log"              yaml:"log"              json:"log"`

	path string
}

// Options carries explicit overrides, typically from command line flags.
// Empty fields are ignored.
type Options struct {
	ConfigFile string
	NotesDir   string
	Editor     string
}

// NewDefaultConfig returns the built-in configuration for notesDir.
func NewDefaultConfig(notesDir string) *Config {
	return &Config{
		NotesDir:        notesDir,
		TemplatesDir:    DefaultTemplatesDir(notesDir),
		DefaultCategory: "personal",
		DefaultTemplate: "general_note",
		Categories:      append([]string(nil), constants.DefaultCategories...),
		Editor: EditorConfig{
			Default:      "nano",
			Alternatives: []string{"vim", "vi"},
			Args:         []string{},
		},
		Preview: PreviewConfig{
			Style:    "dracula",
			WordWrap: 100,
		},
		Log: LogConfig{
			Level: "warn",
		},
		path: DefaultPath(notesDir),
	}
}

// DefaultPath is the config file location inside a notes directory.
func DefaultPath(notesDir string) string {
	return filepath.Join(
		notesDir,
		constants.ConfigDir,
		constants.ConfigFile+"."+constants.ConfigFileType,
	)
}

func DefaultTemplatesDir(notesDir string) string {
	return filepath.Join(notesDir, constants.ConfigDir, constants.TemplatesDir)
}

// DefaultLogFile is where the interactive browser logs when log.file is
// unset.
func DefaultLogFile(notesDir string) string {
	return filepath.Join(notesDir, constants.ConfigDir, constants.LogFile)
}

// Load resolves the configuration. A missing config file is not an error;
// defaults apply. The result is validated before it is returned.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	notesDir, err := resolveNotesDir(v, opts.NotesDir)
	if err != nil {
		return nil, err
	}

	defaults := NewDefaultConfig(notesDir)
	setDefaults(v, defaults)

	path := opts.ConfigFile
	if path == "" {
		path = defaults.path
	}
	path, err = pathutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}

	v.SetConfigFile(path)
	v.SetConfigType(constants.ConfigFileType)
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) || opts.ConfigFile != "" {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	if opts.NotesDir != "" {
		v.Set("notes_dir", notesDir)
	}
	if opts.Editor != "" {
		v.Set("editor.default", opts.Editor)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	cfg.path = path

	if err := cfg.normalize(notesDir); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, &ValidationError{Path: path, Err: err}
	}
	return cfg, nil
}

// resolveNotesDir picks the notes directory before the config file is read,
// since the file lives inside it: the flag, then NT_NOTES_DIR, then the
// working directory.
func resolveNotesDir(v *viper.Viper, flagValue string) (string, error) {
	dir := flagValue
	if dir == "" {
		dir = v.GetString("notes_dir")
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("config: resolving working directory: %w", err)
		}
		dir = wd
	}

	dir, err := pathutil.ExpandHome(dir)
	if err != nil {
		return "", err
	}
	return filepath.Abs(dir)
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("notes_dir", d.NotesDir)
	v.SetDefault("templates_dir", "")
	v.SetDefault("default_category", d.DefaultCategory)
	v.SetDefault("default_template", d.DefaultTemplate)
	v.SetDefault("categories", d.Categories)
	v.SetDefault("editor.default", d.Editor.Default)
	v.SetDefault("editor.alternatives", d.Editor.Alternatives)
	v.SetDefault("editor.args", d.Editor.Args)
	v.SetDefault("preview.style", d.Preview.Style)
	v.SetDefault("preview.word_wrap", d.Preview.WordWrap)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", "")
}

// normalize expands ~ and makes directory settings absolute. Relative
// templates_dir and log.file values are taken relative to the notes
// directory.
func (c *Config) normalize(fallbackNotesDir string) error {
	var err error

	if c.NotesDir == "" {
		c.NotesDir = fallbackNotesDir
	}
	if c.NotesDir, err = absPath(c.NotesDir, ""); err != nil {
		return err
	}

	if c.TemplatesDir == "" {
		c.TemplatesDir = DefaultTemplatesDir(c.NotesDir)
	}
	if c.TemplatesDir, err = absPath(c.TemplatesDir, c.NotesDir); err != nil {
		return err
	}

	if c.Log.File != "" {
		if c.Log.File, err = absPath(c.Log.File, c.NotesDir); err != nil {
			return err
		}
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Preview.Style = strings.ToLower(strings.TrimSpace(c.Preview.Style))
	return nil
}

func absPath(p, base string) (string, error) {
	p, err := pathutil.ExpandHome(p)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(p) && base != "" {
		p = filepath.Join(base, p)
	}
	return filepath.Abs(p)
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.NotesDir, validation.Required),
		validation.Field(&c.TemplatesDir, validation.Required),
		validation.Field(&c.DefaultCategory, validation.Required, validation.By(noSeparators)),
		validation.Field(&c.DefaultTemplate, validation.Required, validation.By(noSeparators)),
		validation.Field(&c.Categories, validation.Each(validation.Required, validation.By(noSeparators))),
		validation.Field(&c.Editor),
		validation.Field(&c.Preview),
		validation.Field(&c.Log),
	)
}

func noSeparators(value interface{}) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, `/\`) || s == "." || s == ".." {
		return errors.New("must be a plain name")
	}
	return nil
}

// Path returns the config file this configuration is read from and saved to.
func (c *Config) Path() string {
	return c.path
}

// NotesDirExists reports whether the configured notes directory is present.
// A missing directory is reported as a ConfigInitError.
func (c *Config) NotesDirExists() error {
	info, err := os.Stat(c.NotesDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &ConfigInitError{
				msg: fmt.Sprintf("notes directory %q does not exist, run `nt init` to create it", c.NotesDir),
			}
		}
		return err
	}
	if !info.IsDir() {
		return &ConfigInitError{msg: fmt.Sprintf("notes directory %q is not a directory", c.NotesDir)}
	}
	return nil
}

// LogFile returns log.file, or the default log location in the notes
// directory when it is unset.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return DefaultLogFile(c.NotesDir)
}

// Save writes the configuration as YAML to its config file.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = DefaultPath(c.NotesDir)
	}
	return c.SaveTo(c.path)
}

// SaveTo writes the configuration as YAML to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return &ValidationError{Path: path, Err: err}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encoding: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	c.path = path
	return nil
}

// SetEditor changes the default editor and persists the change.
func (c *Config) SetEditor(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("editor name cannot be empty")
	}
	c.Editor.Default = name
	return c.Save()
}

func toAny(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
