package templates

import (
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/nt/internal/state"
	"github.com/Paintersrp/nt/internal/templater"
	"github.com/Paintersrp/nt/utils"
)

func NewCmdTemplates(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"tmpl"},
		Short:   "List the available note templates.",
		Long: heredoc.Docf(`
			Lists the templates in the template directory followed by the built-in
			templates they do not shadow, with the variables each one uses.

			Run %[1]snt templates install%[1]s to copy the built-in templates into the
			template directory for editing.
		`, "`"),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.OutOrStdout(), s)
		},
	}

	cmd.AddCommand(newCmdInstall(s))
	return cmd
}

func newCmdInstall(s *state.State) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Copy the built-in templates into the template directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd.OutOrStdout(), s, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite templates that already exist")
	return cmd
}

func runList(out io.Writer, s *state.State) error {
	list, err := s.Templates.List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "No templates found")
		return nil
	}

	for _, t := range list {
		source := "built-in"
		if !t.Embedded {
			source = s.Handler.Rel(t.Path)
		}

		marker := ""
		if t.Name == s.Config.DefaultTemplate {
			marker = " *"
		}
		fmt.Fprintf(out, "%s%s %s\n",
			utils.HeaderStyle.Render(t.Name),
			marker,
			utils.MutedStyle.Render("("+source+")"),
		)
		fmt.Fprintf(out, "  %s\n", t.Description)

		content, err := s.Templates.Content(t.Name)
		if err != nil {
			return err
		}
		if vars := templater.Variables(content); len(vars) > 0 {
			fmt.Fprintf(out, "  variables: %s\n", strings.Join(vars, ", "))
		}
	}
	return nil
}

func runInstall(out io.Writer, s *state.State, force bool) error {
	n, err := s.Templates.Install(force)
	if err != nil {
		return err
	}
	s.Logger.Info("installed templates", "count", n, "dir", s.Templates.Dir())
	fmt.Fprintf(out, "Installed %d templates into %s\n", n, s.Templates.Dir())
	return nil
}
