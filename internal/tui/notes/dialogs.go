package notes

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Paintersrp/nt/internal/constants"
	"github.com/Paintersrp/nt/internal/handler"
	"github.com/Paintersrp/nt/internal/pathutil"
	"github.com/Paintersrp/nt/internal/search"
	"github.com/Paintersrp/nt/internal/templater"
	"github.com/Paintersrp/nt/utils"
)

type templateItem struct {
	template templater.Template
}

func (i templateItem) Title() string       { return i.template.Name }
func (i templateItem) Description() string { return i.template.Description }
func (i templateItem) FilterValue() string { return i.template.Name }

type resultItem struct {
	result search.Result
}

func (i resultItem) Title() string { return i.result.Title }

func (i resultItem) Description() string {
	desc := fmt.Sprintf("%s · %d matches", i.result.RelativePath, i.result.Matches)
	if len(i.result.Lines) > 0 {
		desc += ": " + i.result.Lines[0].Text
	}
	return desc
}

func (i resultItem) FilterValue() string {
	return i.result.Title + " " + i.result.RelativePath
}

func newDialogList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.Styles.Title = titleStyle
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}

func newTemplateList() list.Model {
	return newDialogList("Select a template")
}

func newResultList() list.Model {
	return newDialogList("Search results")
}

func newInput(placeholder string) textinput.Model {
	t := textinput.New()
	t.Placeholder = placeholder
	t.CharLimit = 256
	t.Cursor.Style = cursorStyle
	t.PromptStyle = titleStyle
	t.TextStyle = textStyle
	return t
}

func (m *Model) openTemplateDialog() {
	templates, err := m.state.Templates.List()
	if err != nil {
		m.setError(fmt.Errorf("listing templates: %w", err))
		return
	}
	if len(templates) == 0 {
		m.setError(errors.New("no templates found"))
		return
	}

	items := make([]list.Item, len(templates))
	selected := 0
	for i, t := range templates {
		items[i] = templateItem{template: t}
		if t.Name == m.state.Config.DefaultTemplate {
			selected = i
		}
	}

	m.templates.ResetFilter()
	m.templates.SetItems(items)
	m.templates.Select(selected)
	m.mode = modeTemplate
	m.setStatus("Select a template...")
}

func (m *Model) updateTemplateDialog(msg tea.KeyMsg) tea.Cmd {
	if m.templates.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.cancel):
			m.mode = modeBrowse
			m.setStatus("Note creation cancelled")
			return nil

		case key.Matches(msg, m.keys.submit):
			item, ok := m.templates.SelectedItem().(templateItem)
			if !ok {
				return nil
			}
			m.pendingTemplate = item.template.Name
			m.mode = modeName
			m.nameInput.Reset()
			m.setStatus(fmt.Sprintf("Template '%s' selected. Enter note name...", item.template.Name))
			return m.nameInput.Focus()
		}
	}

	var cmd tea.Cmd
	m.templates, cmd = m.templates.Update(msg)
	return cmd
}

func (m *Model) updateNameDialog(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.cancel):
		m.nameInput.Blur()
		m.mode = modeBrowse
		m.setStatus("Note creation cancelled")
		return nil

	case key.Matches(msg, m.keys.submit):
		m.nameInput.Blur()
		m.mode = modeBrowse
		m.createNote(m.nameInput.Value())
		return nil
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return cmd
}

// targetDir picks the directory a new note named name goes into. Names with
// a slash are relative to the notes root. Other names go next to the
// selection, or into the default category when nothing is selected.
func (m *Model) targetDir(name string) string {
	root := m.state.Config.NotesDir
	if strings.Contains(name, "/") {
		return root
	}
	if n := m.selected(); n != nil {
		if n.IsDir {
			return n.Path
		}
		return filepath.Dir(n.Path)
	}
	return filepath.Join(root, m.state.Config.DefaultCategory)
}

func (m *Model) createNote(name string) {
	name = strings.TrimSpace(name)
	if err := utils.ValidateNoteName(name); err != nil {
		m.setError(err)
		return
	}

	path := filepath.Join(m.targetDir(name), filepath.FromSlash(pathutil.EnsureExt(name, constants.NoteExt)))
	path, err := pathutil.Resolve(m.state.Config.NotesDir, path)
	if err != nil {
		m.setError(err)
		return
	}

	rel := m.rel(path)
	content, err := m.state.Templates.RenderNote(m.pendingTemplate, path, nil)
	if err != nil {
		m.setError(fmt.Errorf("creating note from template '%s': %w", m.pendingTemplate, err))
		return
	}
	if err := m.state.Handler.Create(path, content); err != nil {
		if errors.Is(err, handler.ErrNoteExists) {
			m.setError(fmt.Errorf("note '%s' already exists", rel))
			return
		}
		m.setError(err)
		return
	}
	m.logger().Info("created note",
		slog.String("path", rel),
		slog.String("template", m.pendingTemplate),
	)

	if err := m.reload(); err != nil {
		m.setError(fmt.Errorf("reloading notes: %w", err))
		return
	}
	m.reveal(path)
	m.setStatus(fmt.Sprintf("Created note: %s", rel))
}

func (m *Model) openSearchDialog() tea.Cmd {
	m.mode = modeSearch
	m.searchInput.Reset()
	m.setStatus("Search notes...")
	return m.searchInput.Focus()
}

func (m *Model) updateSearchDialog(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.cancel):
		m.searchInput.Blur()
		m.mode = modeBrowse
		m.setStatus("Search cancelled")
		return nil

	case key.Matches(msg, m.keys.submit):
		m.searchInput.Blur()
		m.runSearch(m.searchInput.Value())
		return nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return cmd
}

func (m *Model) runSearch(query string) {
	results, err := search.Search(m.state.Config.NotesDir, query)
	if err != nil {
		m.mode = modeBrowse
		m.setError(err)
		return
	}
	if len(results) == 0 {
		m.mode = modeBrowse
		m.setStatus(fmt.Sprintf("No matches for %q", query))
		return
	}

	items := make([]list.Item, len(results))
	for i, r := range results {
		items[i] = resultItem{result: r}
	}
	m.results.Title = fmt.Sprintf("Results for %q", query)
	m.results.ResetFilter()
	m.results.SetItems(items)
	m.results.Select(0)
	m.mode = modeResults
	m.setStatus(fmt.Sprintf("Found %s for %q", plural(len(results), "result"), query))
}

func (m *Model) updateResults(msg tea.KeyMsg) tea.Cmd {
	if m.results.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.cancel):
			m.mode = modeBrowse
			m.setStatus("Search closed")
			return nil

		case key.Matches(msg, m.keys.submit):
			if item, ok := m.results.SelectedItem().(resultItem); ok {
				m.mode = modeBrowse
				m.reveal(item.result.Path)
				m.setStatus(fmt.Sprintf("Showing %s", item.result.RelativePath))
			}
			return nil

		case key.Matches(msg, m.keys.edit):
			if item, ok := m.results.SelectedItem().(resultItem); ok {
				m.mode = modeBrowse
				m.reveal(item.result.Path)
				return m.editSelected()
			}
			return nil
		}
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return cmd
}

func (m *Model) openDeleteConfirm() {
	n := m.selected()
	if n == nil || n.IsDir {
		m.setError(errors.New("select a note to delete"))
		return
	}
	m.pendingDelete = n.Path
	m.mode = modeConfirmDelete
}

func (m *Model) updateConfirmDelete(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.confirm):
		path := m.pendingDelete
		m.pendingDelete = ""
		m.mode = modeBrowse

		if err := m.state.Handler.Delete(path); err != nil {
			m.setError(err)
			return nil
		}
		m.logger().Info("deleted note", slog.String("path", m.rel(path)))
		if err := m.reload(); err != nil {
			m.setError(fmt.Errorf("reloading notes: %w", err))
			return nil
		}
		m.setStatus(fmt.Sprintf("Deleted note: %s", m.rel(path)))

	case key.Matches(msg, m.keys.decline):
		m.pendingDelete = ""
		m.mode = modeBrowse
		m.setStatus("Delete cancelled")
	}
	return nil
}

func (m *Model) renderDialog(width int) string {
	switch m.mode {
	case modeTemplate:
		return m.templates.View()

	case modeName:
		dir := m.rel(m.targetDir(m.nameInput.Value()))
		if dir == "." {
			dir = "/"
		}
		return dialogStyle.Render(fmt.Sprintf(
			"%s\n\n%s\n\n%s\n\n%s",
			titleStyle.Render("Create New Note"),
			textStyle.Render("Enter note name (without .md extension):"),
			m.nameInput.View(),
			renderHelpWithinWidth(width-4, fmt.Sprintf("template: %s · in: %s", m.pendingTemplate, dir)),
		))

	case modeSearch:
		return dialogStyle.Render(fmt.Sprintf(
			"%s\n\n%s\n\n%s",
			titleStyle.Render("Search"),
			m.searchInput.View(),
			renderHelpWithinWidth(width-4, "matches are case-insensitive"),
		))

	case modeResults:
		return m.results.View()
	}
	return ""
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
