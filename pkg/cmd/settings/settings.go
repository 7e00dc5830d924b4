package settings

import (
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/nt/internal/state"
)

func NewCmdSettings(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Aliases: []string{"settings"},
		Short:   "Show or change the configuration.",
		Long: heredoc.Doc(`
			Settings are read from the config file, NT_* environment variables and
			command line flags, in increasing order of precedence.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.OutOrStdout(), s)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration as YAML.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runShow(cmd.OutOrStdout(), s)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), s.Config.Path())
				return nil
			},
		},
		&cobra.Command{
			Use:     "editor <name>",
			Short:   "Set the default editor.",
			Example: "nt config editor nvim",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runEditor(cmd.OutOrStdout(), cmd.ErrOrStderr(), s, args[0])
			},
		},
	)
	return cmd
}

func runShow(out io.Writer, s *state.State) error {
	data, err := yaml.Marshal(s.Config)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	fmt.Fprintf(out, "# %s\n%s", s.Config.Path(), data)
	return nil
}

func runEditor(out, errOut io.Writer, s *state.State, name string) error {
	if !s.Editor.Available(name) {
		fmt.Fprintf(errOut, "Warning: %s was not found on PATH\n", name)
	}
	if err := s.Config.SetEditor(name); err != nil {
		return err
	}
	s.Logger.Info("default editor changed", "editor", name)
	fmt.Fprintf(out, "Default editor set to %s\n", name)
	return nil
}
