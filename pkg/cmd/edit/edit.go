package edit

import (
	"errors"
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/nt/internal/state"
)

func NewCmdEdit(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit <path>",
		Aliases: []string{"e"},
		Short:   "Open a note in the editor.",
		Long: heredoc.Doc(`
			Opens the note at the given path, relative to the notes directory, in
			the configured editor. The .md extension may be left off. A note that
			does not exist yet is created empty.
		`),
		Example: heredoc.Doc(`
			nt edit work/standup
			nt e personal/todo.md
		`),
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("expected a note path, try 'nt edit <path>' or 'nt open'")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), s, args[0])
		},
	}
	return cmd
}

func run(out io.Writer, s *state.State, name string) error {
	path, err := s.Handler.NotePath("", name)
	if err != nil {
		return err
	}

	s.Logger.Debug("opening editor", "path", s.Handler.Rel(path))
	ok, err := s.Editor.Launch(path)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(out, "Editor exited with an error")
	}
	return nil
}
