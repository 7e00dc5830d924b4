package search

import (
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/nt/internal/search"
	"github.com/Paintersrp/nt/internal/state"
	"github.com/Paintersrp/nt/utils"
)

var (
	terminalWidth = utils.TerminalWidth
	matchStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F5A97F")).Bold(true)
)

type options struct {
	pathsOnly bool
}

func NewCmdSearch(s *state.State) *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:     "search <query>",
		Aliases: []string{"s", "grep"},
		Short:   "Find notes containing text.",
		Long: heredoc.Doc(`
			Searches every note for the query, ignoring case, and prints the
			notes with the most matching lines first along with up to five of
			those lines.
		`),
		Example: heredoc.Doc(`
			nt search kubernetes
			nt search "action items" --paths
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), s, o, strings.Join(args, " "))
		},
	}

	cmd.Flags().BoolVarP(&o.pathsOnly, "paths", "l", false, "Print only the paths of matching notes")
	return cmd
}

func run(out io.Writer, s *state.State, o *options, query string) error {
	results, err := search.Search(s.Config.NotesDir, query)
	if err != nil {
		return err
	}
	s.Logger.Debug("search finished", "query", query, "results", len(results))

	if o.pathsOnly {
		for _, r := range results {
			fmt.Fprintln(out, r.RelativePath)
		}
		return nil
	}

	if len(results) == 0 {
		fmt.Fprintf(out, "No matches for %q\n", query)
		return nil
	}

	width := terminalWidth(0)
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s %s\n",
			utils.HeaderStyle.Render(r.Title),
			utils.MutedStyle.Render(fmt.Sprintf("(%s, %d matches)", r.RelativePath, r.Matches)),
		)
		for _, line := range r.Lines {
			text := highlight(line.Text, query)
			fmt.Fprintln(out, utils.Truncate(fmt.Sprintf("  %4d: %s", line.Number, text), width))
		}
	}
	return nil
}

// highlight styles every case-insensitive occurrence of query in line. Lines
// whose lower-cased form changes length are returned as is.
func highlight(line, query string) string {
	needle := strings.ToLower(query)
	lower := strings.ToLower(line)
	if strings.TrimSpace(needle) == "" || len(lower) != len(line) {
		return line
	}

	var b strings.Builder
	for {
		i := strings.Index(lower, needle)
		if i < 0 {
			b.WriteString(line)
			return b.String()
		}
		end := i + len(needle)
		b.WriteString(line[:i])
		b.WriteString(matchStyle.Render(line[i:end]))
		line, lower = line[end:], lower[end:]
	}
}
