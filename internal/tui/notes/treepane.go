package notes

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Paintersrp/nt/internal/tree"
)

// rebuildRows flattens the tree and moves the cursor onto keep when it is
// still visible. Otherwise the cursor is clamped.
func (m *Model) rebuildRows(keep string) {
	m.rows = m.root.Flatten()

	if keep != "" {
		for i, n := range m.rows {
			if n.Path == keep {
				m.cursor = i
				break
			}
		}
	}
	m.clampCursor()
	m.ensureVisible()
	m.refreshPreview()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selected() *tree.Node {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor]
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
	m.ensureVisible()
	m.refreshPreview()
}

func (m *Model) ensureVisible() {
	_, _, height := m.paneSizes()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+height {
		m.offset = m.cursor - height + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *Model) toggle(n *tree.Node) {
	n.Expanded = !n.Expanded
	m.rebuildRows(n.Path)
}

// collapse closes the selected directory, or moves to the parent directory
// when there is nothing to close.
func (m *Model) collapse() {
	n := m.selected()
	if n == nil {
		return
	}
	if n.IsDir && n.Expanded {
		m.toggle(n)
		return
	}
	for i := m.cursor - 1; i >= 0; i-- {
		if m.rows[i].IsDir && m.rows[i].Depth == n.Depth-1 {
			m.cursor = i
			m.ensureVisible()
			m.refreshPreview()
			return
		}
	}
}

func (m *Model) expand() {
	n := m.selected()
	if n == nil || !n.IsDir || n.Expanded {
		return
	}
	m.toggle(n)
}

// reveal expands every directory between the root and path and selects path.
func (m *Model) reveal(path string) {
	rel, err := filepath.Rel(m.root.Path, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return
	}

	dir := m.root.Path
	parts := strings.Split(rel, string(filepath.Separator))
	for _, part := range parts[:len(parts)-1] {
		dir = filepath.Join(dir, part)
		if n := m.root.Find(dir); n != nil && n.IsDir {
			n.Expanded = true
		}
	}
	m.rebuildRows(path)
}

func (m *Model) renderTree(width, height int) string {
	if len(m.rows) == 0 {
		return textStyle.Render("No notes yet. Press n to create one.")
	}

	end := m.offset + height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	line := lipgloss.NewStyle().MaxWidth(width)
	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		n := m.rows[i]
		row := strings.Repeat("  ", n.Depth) + rowLabel(n)

		switch {
		case i == m.cursor:
			row = selectedItemStyle.Render(row)
		case n.IsDir:
			row = dirStyle.Render(row)
		default:
			row = textStyle.Render(row)
		}
		lines = append(lines, line.Render(row))
	}
	return strings.Join(lines, "\n")
}

func rowLabel(n *tree.Node) string {
	if !n.IsDir {
		return "  " + n.Name
	}
	if n.Expanded {
		return "▾ " + n.Name + "/"
	}
	return "▸ " + n.Name + "/"
}
