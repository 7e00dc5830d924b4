package constants

const (
	Version = `0.1.0`

	AppName        = `nt`
	EnvPrefix      = `NT`
	ConfigDir      = `.config`
	ConfigFile     = `config`
	ConfigFileType = `yaml`
	TemplatesDir   = `templates`
	LogFile        = `nt.log`
	NoteExt        = `.md`
)

// DefaultCategories are created by nt init.
var DefaultCategories = []string{"work", "personal", "journals", "learning", "budgets"}

// KnownEditors are offered by nt init when choosing a default editor.
var KnownEditors = []string{"nano", "vim", "nvim", "vi", "micro", "emacs", "hx", "code"}
