// Package tree builds snapshots of a notes directory for display and carries
// the expanded state of directories across rebuilds.
package tree

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ConfigDirName is the only hidden directory kept in a snapshot.
const ConfigDirName = ".config"

const noteExt = ".md"

// Node is a directory or markdown file in a snapshot.
type Node struct {
	Name     string
	Path     string
	IsDir    bool
	Children []*Node
	Expanded bool

	// Depth is set by Flatten; top-level entries have depth 0.
	Depth int
}

// ExpandedSet holds the paths of expanded directories.
type ExpandedSet map[string]struct{}

// Snapshot walks root and returns a fully built tree.
//
// Within a directory, subdirectories come before files and each group is
// sorted by name. Hidden entries other than a .config directory are skipped,
// as are files without a .md suffix. Symlinked directories are not followed.
// A subdirectory that cannot be read for
// lack of permission has no children; other read errors are returned.
func Snapshot(root string) (*Node, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", abs)
	}

	name := filepath.Base(abs)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "notes"
	}

	node := &Node{Name: name, Path: abs, IsDir: true, Expanded: true}
	children, err := readChildren(abs)
	if err != nil {
		return nil, err
	}
	node.Children = children

	return node, nil
}

func readChildren(dir string) ([]*Node, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	children := make([]*Node, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") && name != ConfigDirName {
			continue
		}

		full := filepath.Join(dir, name)
		if !entry.IsDir() {
			if filepath.Ext(name) != noteExt {
				continue
			}
			children = append(children, &Node{
				Name: strings.TrimSuffix(name, noteExt),
				Path: full,
			})
			continue
		}

		child := &Node{Name: name, Path: full, IsDir: true}
		grandchildren, err := readChildren(full)
		switch {
		case err == nil:
			child.Children = grandchildren
		case errors.Is(err, fs.ErrPermission):
			child.Children = nil
		case errors.Is(err, fs.ErrNotExist):
			continue
		default:
			return nil, err
		}
		children = append(children, child)
	}

	sort.SliceStable(children, func(i, j int) bool {
		if children[i].IsDir != children[j].IsDir {
			return children[i].IsDir
		}
		return children[i].Name < children[j].Name
	})

	return children, nil
}

// RestoreExpansion marks every directory of root whose path is in expanded
// as expanded. The root itself is always expanded. Paths that no longer exist
// are ignored.
func RestoreExpansion(expanded ExpandedSet, root *Node) {
	if root == nil {
		return
	}
	root.Expanded = true

	var walk func(n *Node)
	walk = func(n *Node) {
		for _, child := range n.Children {
			if !child.IsDir {
				continue
			}
			if _, ok := expanded[child.Path]; ok {
				child.Expanded = true
			}
			walk(child)
		}
	}
	walk(root)
}

// ExpandedPaths collects the paths of the expanded directories under root,
// including root itself.
func ExpandedPaths(root *Node) ExpandedSet {
	set := make(ExpandedSet)
	if root == nil {
		return set
	}

	var walk func(n *Node)
	walk = func(n *Node) {
		if n.IsDir && n.Expanded {
			set[n.Path] = struct{}{}
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(root)
	return set
}

// Flatten returns the nodes visible below n in display order, setting each
// node's Depth. n itself is not included. Children of collapsed directories
// are skipped.
func (n *Node) Flatten() []*Node {
	var out []*Node

	var walk func(parent *Node, depth int)
	walk = func(parent *Node, depth int) {
		for _, child := range parent.Children {
			child.Depth = depth
			out = append(out, child)
			if child.IsDir && child.Expanded {
				walk(child, depth+1)
			}
		}
	}
	walk(n, 0)
	return out
}

// Find returns the node with the given path, or nil.
func (n *Node) Find(path string) *Node {
	if n == nil {
		return nil
	}
	if n.Path == path {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(path); found != nil {
			return found
		}
	}
	return nil
}

// NoteCount returns the number of markdown files below n.
func (n *Node) NoteCount() int {
	if n == nil {
		return 0
	}
	if !n.IsDir {
		return 1
	}
	count := 0
	for _, child := range n.Children {
		count += child.NoteCount()
	}
	return count
}

// ExpandAll expands every directory under n.
func (n *Node) ExpandAll() {
	if n == nil || !n.IsDir {
		return
	}
	n.Expanded = true
	for _, child := range n.Children {
		child.ExpandAll()
	}
}
