package root

import (
	"errors"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/nt/internal/config"
	"github.com/Paintersrp/nt/internal/constants"
	"github.com/Paintersrp/nt/internal/state"
	"github.com/Paintersrp/nt/internal/tui/notes"
	"github.com/Paintersrp/nt/pkg/cmd/delete"
	"github.com/Paintersrp/nt/pkg/cmd/edit"
	"github.com/Paintersrp/nt/pkg/cmd/initialize"
	"github.com/Paintersrp/nt/pkg/cmd/list"
	"github.com/Paintersrp/nt/pkg/cmd/new"
	"github.com/Paintersrp/nt/pkg/cmd/open"
	"github.com/Paintersrp/nt/pkg/cmd/search"
	"github.com/Paintersrp/nt/pkg/cmd/settings"
	"github.com/Paintersrp/nt/pkg/cmd/templates"
	"github.com/Paintersrp/nt/pkg/cmd/tree"
	"github.com/Paintersrp/nt/utils"
)

var errNotInteractive = errors.New("the notes browser needs an interactive terminal, see nt --help for other commands")

var (
	isInteractive = utils.IsInteractive
	runBrowser    = notes.Run
)

// NewCmdRoot builds the nt command tree. s is filled in before any
// subcommand runs, once the flags are parsed.
func NewCmdRoot(s *state.State) *cobra.Command {
	opts := &config.Options{}

	cmd := &cobra.Command{
		Use:   constants.AppName,
		Short: "A personal markdown notebook for the terminal.",
		Long: heredoc.Doc(`
			nt keeps markdown notes in category directories below a single notes
			directory. Run it without arguments to browse, preview, create, edit,
			search and delete notes interactively.

			The notes directory comes from --notes-dir, then NT_NOTES_DIR, then
			the working directory. Settings live in .config/config.yaml inside it.
		`),
		Example: heredoc.Doc(`
			nt init --notes-dir ~/notes
			nt new standup -t meeting_notes -c work
			nt search "quarterly goals"
		`),
		Version:       constants.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return load(s, *opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isInteractive() {
				return errNotInteractive
			}
			return runBrowser(s)
		},
	}

	cmd.PersistentFlags().
		StringVarP(&opts.NotesDir, "notes-dir", "d", "", "Notes directory (default is $NT_NOTES_DIR or the working directory)")
	cmd.PersistentFlags().
		StringVar(&opts.ConfigFile, "config", "", "Config file (default is <notes-dir>/.config/config.yaml)")

	cmd.AddCommand(
		initialize.NewCmdInit(s),
		new.NewCmdNew(s),
		edit.NewCmdEdit(s),
		open.NewCmdOpen(s),
		delete.NewCmdDelete(s),
		list.NewCmdList(s),
		search.NewCmdSearch(s),
		tree.NewCmdTree(s),
		templates.NewCmdTemplates(s),
		settings.NewCmdSettings(s),
	)

	return cmd
}

func load(s *state.State, opts config.Options) error {
	loaded, err := state.NewState(opts)
	if err != nil {
		return err
	}
	*s = *loaded
	return nil
}
