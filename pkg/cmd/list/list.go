package list

import (
	"errors"
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/nt/internal/state"
)

func NewCmdList(s *state.State) *cobra.Command {
	var categories bool

	cmd := &cobra.Command{
		Use:     "list [category]",
		Aliases: []string{"ls"},
		Short:   "List notes.",
		Long: heredoc.Doc(`
			Prints the path of every note relative to the notes directory, or only
			the notes in the given category. --categories prints the category
			directories instead.
		`),
		Example: heredoc.Doc(`
			nt list
			nt list --categories
			nt ls work | xargs -I{} wc -l {}
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if categories {
				if len(args) > 0 {
					return errors.New("--categories takes no category argument")
				}
				return runCategories(cmd.OutOrStdout(), s)
			}
			category := ""
			if len(args) == 1 {
				category = args[0]
			}
			return run(cmd.OutOrStdout(), s, category)
		},
	}

	cmd.Flags().BoolVarP(&categories, "categories", "c", false, "List category directories instead of notes")
	return cmd
}

func runCategories(out io.Writer, s *state.State) error {
	categories, err := s.Handler.Categories()
	if err != nil {
		return err
	}
	for _, category := range categories {
		fmt.Fprintln(out, category)
	}
	return nil
}

func run(out io.Writer, s *state.State, category string) error {
	var (
		notes []string
		err   error
	)
	if category == "" {
		notes, err = s.Handler.AllNotes()
	} else {
		notes, err = s.Handler.NotesInCategory(category)
	}
	if err != nil {
		return err
	}

	for _, note := range notes {
		fmt.Fprintln(out, s.Handler.Rel(note))
	}
	return nil
}
