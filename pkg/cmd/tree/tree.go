package tree

import (
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/nt/internal/state"
	"github.com/Paintersrp/nt/internal/tree"
	"github.com/Paintersrp/nt/utils"
)

type options struct {
	expandAll bool
}

func NewCmdTree(s *state.State) *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the notes directory as a tree.",
		Long: heredoc.Doc(`
			Prints the top level of the notes directory with the number of notes
			in each directory. Use --all to show every nested note.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), s, o)
		},
	}

	cmd.Flags().BoolVarP(&o.expandAll, "all", "a", false, "Expand every directory")
	return cmd
}

func run(out io.Writer, s *state.State, o *options) error {
	root, err := tree.Snapshot(s.Config.NotesDir)
	if err != nil {
		return err
	}
	if o.expandAll {
		root.ExpandAll()
	}

	fmt.Fprintln(out, utils.HeaderStyle.Render(root.Name+"/"))
	for _, node := range root.Flatten() {
		indent := strings.Repeat("  ", node.Depth+1)
		if node.IsDir {
			fmt.Fprintf(out, "%s%s %s\n",
				indent,
				utils.DirStyle.Render(node.Name+"/"),
				utils.MutedStyle.Render(fmt.Sprintf("(%d)", node.NoteCount())),
			)
			continue
		}
		fmt.Fprintf(out, "%s%s\n", indent, node.Name)
	}
	return nil
}
