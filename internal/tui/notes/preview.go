package notes

import (
	"fmt"
	"os"

	"github.com/Paintersrp/nt/internal/tree"
	"github.com/Paintersrp/nt/utils"
)

// previewKey identifies a rendered preview. A note saved since the last
// render has a new modification time and misses the cache.
type previewKey struct {
	path    string
	modTime int64
	width   int
}

func (m *Model) previewOptions() utils.PreviewOptions {
	return utils.PreviewOptions{
		Style:    m.state.Config.Preview.Style,
		WordWrap: m.state.Config.Preview.WordWrap,
	}
}

// refreshPreview renders the selected entry into the preview viewport. It
// does nothing until the window size is known.
func (m *Model) refreshPreview() {
	if m.width == 0 {
		return
	}

	n := m.selected()
	if n == nil {
		m.previewPath = ""
		m.preview.SetContent(textStyle.Render("Nothing selected"))
		return
	}

	content := m.renderPreview(n)
	m.preview.SetContent(content)
	if n.Path != m.previewPath {
		m.preview.GotoTop()
	}
	m.previewPath = n.Path
}

func (m *Model) renderPreview(n *tree.Node) string {
	if n.IsDir {
		return textStyle.Render(fmt.Sprintf("%s/\n\n%d notes", n.Name, n.NoteCount()))
	}

	info, err := os.Stat(n.Path)
	if err != nil {
		return fmt.Sprintf("Error reading file: %v", err)
	}

	k := previewKey{path: n.Path, modTime: info.ModTime().UnixNano(), width: m.preview.Width}
	if out, ok := m.previews.Get(k); ok {
		return out
	}

	out := utils.RenderMarkdownPreview(n.Path, m.preview.Width, m.previewOptions())
	m.previews.Put(k, out)
	return out
}
