package open

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/nt/internal/fzf"
	"github.com/Paintersrp/nt/internal/state"
	"github.com/Paintersrp/nt/utils"
)

var (
	isInteractive = utils.IsInteractive
	pickNote      = func(s *state.State, query string) (string, error) {
		preview := utils.PreviewOptions{
			Style:    s.Config.Preview.Style,
			WordWrap: s.Config.Preview.WordWrap,
		}
		return fzf.NewFuzzyFinder(s.Handler, preview, "Open note").Run(query)
	}
)

func NewCmdOpen(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "open [query]",
		Aliases: []string{"o", "find"},
		Short:   "Fuzzy find a note and open it in the editor.",
		Long: heredoc.Doc(`
			Lists every note by title, tags and path in a fuzzy finder with a
			rendered preview. The chosen note is opened in the editor. Any
			arguments pre-fill the query.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isInteractive() {
				return errors.New("nt open needs an interactive terminal, use 'nt edit <path>' instead")
			}
			return run(cmd.OutOrStdout(), s, strings.Join(args, " "))
		},
	}
	return cmd
}

func run(out io.Writer, s *state.State, query string) error {
	path, err := pickNote(s, query)
	if err != nil {
		if errors.Is(err, fzf.ErrNoSelection) {
			fmt.Fprintln(out, "No note selected")
			return nil
		}
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
