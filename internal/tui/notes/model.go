// Package notes implements the interactive notes browser: a directory tree on
// the left, a rendered preview on the right and a status bar below.
package notes

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Paintersrp/nt/internal/cache"
	"github.com/Paintersrp/nt/internal/state"
	"github.com/Paintersrp/nt/internal/tree"
)

type mode int

const (
	modeBrowse mode = iota
	modeTemplate
	modeName
	modeSearch
	modeResults
	modeConfirmDelete
)

const (
	minTreeWidth      = 24
	previewCacheSize  = 64
	statusBarHeight   = 1
	defaultStatusText = "Ready"
)

type editorFinishedMsg struct {
	path string
	err  error
}

type Model struct {
	state *state.State
	keys  *keyMap
	help  help.Model

	root   *tree.Node
	rows   []*tree.Node
	cursor int
	offset int

	preview     viewport.Model
	previewPath string
	previews    *cache.LRU[previewKey, string]

	mode        mode
	templates   list.Model
	nameInput   textinput.Model
	searchInput textinput.Model
	results     list.Model

	pendingTemplate string
	pendingDelete   string

	status    string
	statusErr bool

	copyPath func(string) error

	width  int
	height int
}

// New builds the browser for the notes directory of s.
func New(s *state.State) (*Model, error) {
	root, err := tree.Snapshot(s.Config.NotesDir)
	if err != nil {
		return nil, fmt.Errorf("reading notes directory: %w", err)
	}

	m := &Model{
		state:       s,
		keys:        newKeyMap(),
		help:        help.New(),
		root:        root,
		preview:     viewport.New(0, 0),
		previews:    cache.New[previewKey, string](previewCacheSize),
		templates:   newTemplateList(),
		results:     newResultList(),
		nameInput:   newInput("my-note-name"),
		searchInput: newInput("search notes"),
		copyPath:    clipboard.WriteAll,
		status:      defaultStatusText,
	}
	m.rebuildRows("")
	return m, nil
}

func (m *Model) Init() tea.Cmd {
	return m.watch()
}

func (m *Model) watch() tea.Cmd {
	if m.state.Watcher == nil {
		return nil
	}
	return m.state.Watcher.Start()
}

func (m *Model) logger() *slog.Logger {
	if m.state.Logger != nil {
		return m.state.Logger
	}
	return slog.Default()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case state.NotesChangedMsg:
		m.logger().Debug("reloading after change", slog.String("path", msg.Path))
		if err := m.reload(); err != nil {
			m.setError(fmt.Errorf("reloading notes: %w", err))
		}
		return m, m.watch()

	case state.NotesWatcherErrMsg:
		m.logger().Warn("watcher error", slog.Any("error", msg.Err))
		m.setError(fmt.Errorf("watching notes: %w", msg.Err))
		return m, m.watch()

	case editorFinishedMsg:
		return m, m.handleEditorFinished(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.forceQuit) {
			return m, tea.Quit
		}
		switch m.mode {
		case modeTemplate:
			return m, m.updateTemplateDialog(msg)
		case modeName:
			return m, m.updateNameDialog(msg)
		case modeSearch:
			return m, m.updateSearchDialog(msg)
		case modeResults:
			return m, m.updateResults(msg)
		case modeConfirmDelete:
			return m, m.updateConfirmDelete(msg)
		default:
			return m, m.updateBrowse(msg)
		}
	}

	// Non-key messages such as cursor blinks go to the active widget.
	var cmd tea.Cmd
	switch m.mode {
	case modeTemplate:
		m.templates, cmd = m.templates.Update(msg)
	case modeName:
		m.nameInput, cmd = m.nameInput.Update(msg)
	case modeSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case modeResults:
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

func (m *Model) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit

	case key.Matches(msg, m.keys.up):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.down):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.top):
		m.moveCursor(-len(m.rows))

	case key.Matches(msg, m.keys.bottom):
		m.moveCursor(len(m.rows))

	case key.Matches(msg, m.keys.collapse):
		m.collapse()

	case key.Matches(msg, m.keys.expand):
		m.expand()

	case key.Matches(msg, m.keys.open):
		if n := m.selected(); n != nil && n.IsDir {
			m.toggle(n)
			return nil
		}
		return m.editSelected()

	case key.Matches(msg, m.keys.edit):
		return m.editSelected()

	case key.Matches(msg, m.keys.create):
		m.openTemplateDialog()

	case key.Matches(msg, m.keys.remove):
		m.openDeleteConfirm()

	case key.Matches(msg, m.keys.search):
		return m.openSearchDialog()

	case key.Matches(msg, m.keys.refresh):
		if err := m.reload(); err != nil {
			m.setError(fmt.Errorf("refreshing: %w", err))
		} else {
			m.setStatus("Refreshed")
		}

	case key.Matches(msg, m.keys.yank):
		m.yankSelected()

	case key.Matches(msg, m.keys.scrollUp):
		m.preview.HalfViewUp()

	case key.Matches(msg, m.keys.scrollDn):
		m.preview.HalfViewDown()

	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
	}
	return nil
}

func (m *Model) editSelected() tea.Cmd {
	n := m.selected()
	if n == nil || n.IsDir {
		m.setError(errors.New("select a note to edit"))
		return nil
	}

	cmd, err := m.state.Editor.Command(n.Path)
	if err != nil {
		m.setError(err)
		return nil
	}

	m.logger().Info("opening editor", slog.String("path", n.Path), slog.String("editor", cmd.Path))
	m.setStatus(fmt.Sprintf("Editing %s", m.rel(n.Path)))

	path := n.Path
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{path: path, err: err}
	})
}

func (m *Model) handleEditorFinished(msg editorFinishedMsg) tea.Cmd {
	if msg.err != nil {
		var exitErr *exec.ExitError
		if errors.As(msg.err, &exitErr) {
			m.setError(fmt.Errorf("editor exited with status %d", exitErr.ExitCode()))
		} else {
			m.setError(fmt.Errorf("running editor: %w", msg.err))
		}
	} else {
		m.setStatus(fmt.Sprintf("Saved %s", m.rel(msg.path)))
	}

	if err := m.reload(); err != nil {
		m.setError(fmt.Errorf("reloading notes: %w", err))
		return nil
	}
	m.reveal(msg.path)
	return nil
}

func (m *Model) yankSelected() {
	n := m.selected()
	if n == nil {
		return
	}
	if err := m.copyPath(n.Path); err != nil {
		m.setError(fmt.Errorf("copying path: %w", err))
		return
	}
	m.setStatus(fmt.Sprintf("Copied %s", n.Path))
}

// reload rebuilds the tree from disk, keeping expanded directories and the
// selected entry when they still exist.
func (m *Model) reload() error {
	expanded := tree.ExpandedPaths(m.root)

	root, err := tree.Snapshot(m.state.Config.NotesDir)
	if err != nil {
		return err
	}
	tree.RestoreExpansion(expanded, root)

	keep := ""
	if n := m.selected(); n != nil {
		keep = n.Path
	}
	m.root = root
	m.rebuildRows(keep)
	return nil
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.logger().Debug("status error", slog.Any("error", err))
	m.status = err.Error()
	m.statusErr = true
}

func (m *Model) rel(path string) string {
	return m.state.Handler.Rel(path)
}

// paneSizes returns the width of the tree pane, the inner width of the right
// pane and the height shared by both.
func (m *Model) paneSizes() (treeWidth, rightWidth, bodyHeight int) {
	treeWidth = m.width / 3
	if treeWidth < minTreeWidth {
		treeWidth = minTreeWidth
	}
	if treeWidth > m.width {
		treeWidth = m.width
	}

	rightWidth = m.width - treeWidth - previewChrome - treeStyle.GetMarginRight()
	if rightWidth < 0 {
		rightWidth = 0
	}

	bodyHeight = m.height - statusBarHeight - lipgloss.Height(m.helpView())
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return treeWidth, rightWidth, bodyHeight
}

func (m *Model) layout() {
	m.help.Width = m.width
	_, rightWidth, bodyHeight := m.paneSizes()

	m.preview.Width = rightWidth
	m.preview.Height = bodyHeight - 1
	m.templates.SetSize(rightWidth, bodyHeight-1)
	m.results.SetSize(rightWidth, bodyHeight-1)
	m.nameInput.Width = rightWidth - 4
	m.searchInput.Width = rightWidth - 4

	m.ensureVisible()
	m.previewPath = ""
	m.refreshPreview()
}

func (m *Model) helpView() string {
	return m.help.View(m.keys)
}

func (m *Model) View() string {
	treeWidth, rightWidth, bodyHeight := m.paneSizes()

	left := treeStyle.
		Width(treeWidth).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(m.renderTree(treeWidth, bodyHeight))

	var right string
	switch m.mode {
	case modeTemplate, modeName, modeSearch, modeResults:
		right = m.renderDialog(rightWidth)
	default:
		right = fmt.Sprintf("%s\n%s", titleStyle.Render(m.previewTitle()), m.preview.View())
	}
	right = previewStyle.Render(
		lipgloss.NewStyle().
			Width(rightWidth).
			Height(bodyHeight).
			MaxHeight(bodyHeight).
			Render(right),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusView(), m.helpView())
}

func (m *Model) statusView() string {
	text := m.status
	if m.mode == modeConfirmDelete {
		text = fmt.Sprintf("Delete %s? (y/n)", m.rel(m.pendingDelete))
	}
	style := statusStyle
	if m.statusErr && m.mode != modeConfirmDelete {
		style = errorStyle
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(style(text))
}

func (m *Model) previewTitle() string {
	n := m.selected()
	if n == nil {
		return "Preview"
	}
	return filepath.ToSlash(m.rel(n.Path))
}

// Run starts the browser on the terminal and blocks until it exits.
func Run(s *state.State) error {
	if err := s.UseLogFile(); err != nil {
		return err
	}
	if _, err := s.StartWatcher(); err != nil {
		s.Logger.Warn("file watching disabled", slog.Any("error", err))
	}

	m, err := New(s)
	if err != nil {
		return err
	}

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running notes browser: %w", err)
	}
	return nil
}
