package initialize

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/erikgeiser/promptkit/selection"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/nt/internal/config"
	"github.com/Paintersrp/nt/internal/constants"
	"github.com/Paintersrp/nt/internal/editor"
	"github.com/Paintersrp/nt/internal/pathutil"
	"github.com/Paintersrp/nt/internal/state"
	"github.com/Paintersrp/nt/utils"
)

var (
	isInteractive = utils.IsInteractive
	selectEditor  = promptEditor
)

type options struct {
	editor string
	force  bool
}

func NewCmdInit(s *state.State) *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:     "init",
		Aliases: []string{"i", "initialize"},
		Short:   "Set up a notes directory.",
		Long: heredoc.Doc(`
			Creates the notes directory and its default categories, writes the
			configuration to .config/config.yaml and installs the built-in
			templates into .config/templates.

			Existing configuration and templates are kept unless --force is
			given. Without --editor, an interactive terminal is asked to pick
			one of the editors found on PATH.
		`),
		Example: heredoc.Doc(`
			nt init
			nt init --notes-dir ~/notes --editor nvim
		`),
		Args: cobra.NoArgs,
		// The notes directory may not exist yet, so the shared state is
		// built by run instead of the root command.
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			notesDir, _ := cmd.Flags().GetString("notes-dir")
			configFile, _ := cmd.Flags().GetString("config")
			return run(cmd.OutOrStdout(), s, o, notesDir, configFile)
		},
	}

	cmd.Flags().StringVarP(&o.editor, "editor", "e", "", "Default editor to configure")
	cmd.Flags().BoolVarP(&o.force, "force", "f", false, "Overwrite the existing config and templates")
	return cmd
}

func run(out io.Writer, s *state.State, o *options, notesDir, configFile string) error {
	if configFile != "" {
		expanded, err := pathutil.ExpandHome(configFile)
		if err != nil {
			return err
		}
		configFile = expanded
	}

	loadOpts := config.Options{NotesDir: notesDir, Editor: o.editor}
	if configFile != "" && fileExists(configFile) {
		loadOpts.ConfigFile = configFile
	}

	cfg, err := config.Load(loadOpts)
	if err != nil {
		return err
	}

	target := cfg.Path()
	if configFile != "" {
		target = configFile
	}
	existing := fileExists(target)

	if o.editor == "" && !existing && isInteractive() {
		choice, err := chooseEditor(editor.NewManager(cfg.Editor), cfg.Editor.Default)
		if err != nil {
			return err
		}
		cfg.Editor.Default = choice
	}

	if err := os.MkdirAll(cfg.NotesDir, 0o755); err != nil {
		return fmt.Errorf("creating notes directory: %w", err)
	}

	var created []string
	for _, category := range utils.AppendIfNotExists(cfg.Categories, cfg.DefaultCategory) {
		dir := filepath.Join(cfg.NotesDir, category)
		if _, err := os.Stat(dir); err == nil {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating category %s: %w", category, err)
		}
		created = append(created, category)
	}

	wroteConfig := false
	if !existing || o.force || o.editor != "" {
		if err := cfg.SaveTo(target); err != nil {
			return err
		}
		wroteConfig = true
	}

	loaded, err := state.FromConfig(cfg)
	if err != nil {
		return err
	}
	*s = *loaded

	installed, err := s.Templates.Install(o.force)
	if err != nil {
		return err
	}

	s.Logger.Info("initialized notes directory",
		"notes_dir", cfg.NotesDir,
		"categories", len(created),
		"templates", installed,
	)

	fmt.Fprintf(out, "%s %s\n", utils.HeaderStyle.Render("Notes directory:"), cfg.NotesDir)
	if len(created) > 0 {
		fmt.Fprintf(out, "Created categories: %v\n", created)
	}
	if wroteConfig {
		fmt.Fprintf(out, "Wrote config: %s\n", target)
	} else {
		fmt.Fprintf(out, "Kept existing config: %s\n", target)
	}
	fmt.Fprintf(out, "Installed %d templates into %s\n", installed, s.Templates.Dir())
	fmt.Fprintf(out, "Default editor: %s\n", cfg.Editor.Default)
	return nil
}

// chooseEditor asks for one of the known editors available on PATH. fallback
// is kept when none of them is installed.
func chooseEditor(m *editor.Manager, fallback string) (string, error) {
	var available []string
	for _, name := range constants.KnownEditors {
		if m.Available(name) {
			available = append(available, name)
		}
	}
	if len(available) == 0 {
		return fallback, nil
	}
	return selectEditor(available)
}

func promptEditor(choices []string) (string, error) {
	sel := selection.New("Choose your default editor.", choices)
	sel.Filter = nil
	return sel.RunPrompt()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
