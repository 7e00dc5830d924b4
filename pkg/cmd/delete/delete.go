package delete

import (
	"errors"
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/erikgeiser/promptkit/confirmation"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/nt/internal/state"
	"github.com/Paintersrp/nt/utils"
)

var (
	isInteractive = utils.IsInteractive
	confirm       = func(prompt string) (bool, error) {
		return confirmation.New(prompt, confirmation.No).RunPrompt()
	}
)

type options struct {
	yes bool
}

func NewCmdDelete(s *state.State) *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:     "delete <path>",
		Aliases: []string{"rm"},
		Short:   "Delete a note.",
		Long: heredoc.Doc(`
			Deletes the note at the given path, relative to the notes directory,
			after asking for confirmation. Directories are never removed.
		`),
		Example: heredoc.Doc(`
			nt delete work/old-plan
			nt rm scratch.md --yes
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), s, o, args[0])
		},
	}

	cmd.Flags().BoolVarP(&o.yes, "yes", "y", false, "Delete without asking")
	return cmd
}

func run(out io.Writer, s *state.State, o *options, name string) error {
	path, err := s.Handler.NotePath("", name)
	if err != nil {
		return err
	}
	rel := s.Handler.Rel(path)
	if !s.Handler.Exists(path) {
		return fmt.Errorf("note %s does not exist", rel)
	}

	if !o.yes {
		if !isInteractive() {
			return errors.New("refusing to delete without confirmation, pass --yes")
		}
		ok, err := confirm(fmt.Sprintf("Delete %s?", rel))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Delete cancelled")
			return nil
		}
	}

	if err := s.Handler.Delete(path); err != nil {
		return err
	}
	s.Logger.Info("deleted note", "path", rel)
	fmt.Fprintf(out, "Deleted %s\n", rel)
	return nil
}
