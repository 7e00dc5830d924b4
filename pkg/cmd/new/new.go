package new

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/nt/internal/handler"
	"github.com/Paintersrp/nt/internal/state"
	"github.com/Paintersrp/nt/utils"
)

type options struct {
	template string
	category string
	vars     []string
	date     string
	edit     bool
}

func NewCmdNew(s *state.State) *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:     "new <name>",
		Aliases: []string{"n"},
		Short:   "Create a note from a template.",
		Long: heredoc.Doc(`
			Renders a template into a new note. The note goes into --category, or
			the default category when the name has no slash. A name with slashes
			is taken relative to the notes directory.

			Templates receive "title" (from the file name) and "date" (today).
			--var key=value adds or overrides bindings and --date accepts most
			human date formats for the "date" binding.
		`),
		Example: heredoc.Doc(`
			nt new standup -t meeting_notes -c work
			nt new learning/go-generics --var tags="['go']"
			nt new retro --date "last friday" --edit
		`),
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("expected a single note name, try 'nt new <name>'")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), s, o, args[0])
		},
	}

	cmd.Flags().StringVarP(&o.template, "template", "t", "", "Template to use (default from config)")
	cmd.Flags().StringVarP(&o.category, "category", "c", "", "Category directory for the note (default from config)")
	cmd.Flags().StringArrayVar(&o.vars, "var", nil, "Template binding as key=value, repeatable")
	cmd.Flags().StringVar(&o.date, "date", "", "Date for the note, e.g. 2024-03-09 or \"March 9, 2024\"")
	cmd.Flags().BoolVarP(&o.edit, "edit", "e", false, "Open the note in the editor after creating it")
	return cmd
}

func run(out io.Writer, s *state.State, o *options, name string) error {
	name = strings.TrimSpace(name)
	if err := utils.ValidateNoteName(name); err != nil {
		return err
	}

	vars, err := utils.ParseVars(o.vars)
	if err != nil {
		return err
	}
	if o.date != "" {
		t, err := dateparse.ParseLocal(o.date)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", o.date, err)
		}
		vars["date"] = t.Format("2006-01-02")
	}

	tmpl := o.template
	if tmpl == "" {
		tmpl = s.Config.DefaultTemplate
	}

	category := o.category
	if category == "" && !strings.Contains(name, "/") {
		category = s.Config.DefaultCategory
	}

	path, err := s.Handler.NotePath(category, name)
	if err != nil {
		return err
	}
	rel := s.Handler.Rel(path)

	content, err := s.Templates.RenderNote(tmpl, path, vars)
	if err != nil {
		return err
	}
	if err := s.Handler.Create(path, content); err != nil {
		if errors.Is(err, handler.ErrNoteExists) {
			return fmt.Errorf("note %s already exists, use 'nt edit %s' to change it", rel, rel)
		}
		return err
	}

	s.Logger.Info("created note", "path", rel, "template", tmpl)
	fmt.Fprintf(out, "Created %s\n", rel)

	if !o.edit {
		return nil
	}
	ok, err := s.Editor.Launch(path)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(out, "Editor exited with an error")
	}
	return nil
}
