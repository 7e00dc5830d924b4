package state

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/Paintersrp/nt/internal/pathutil"
)

// NotesChangedMsg reports a change below the notes directory. Path is
// relative to the notes directory with forward slashes.
type NotesChangedMsg struct {
	Path string
}

type NotesWatcherErrMsg struct {
	Err error
}

// NotesWatcher watches the notes directory tree with fsnotify and turns
// relevant events into bubbletea messages.
type NotesWatcher struct {
	watcher  *fsnotify.Watcher
	root     string
	done     chan struct{}
	once     sync.Once
	mu       sync.Mutex
	onChange func(string)
	onClose  func()
}

func NewNotesWatcher(root string) (*NotesWatcher, error) {
	normalized := pathutil.NormalizePath(root)
	if normalized == "" {
		return nil, errors.New("notes directory cannot be empty")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &NotesWatcher{
		watcher: w,
		root:    normalized,
		done:    make(chan struct{}),
	}

	if err := watcher.addRecursive(normalized); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return watcher, nil
}

// Start returns a command that blocks until the next relevant change and
// reports it. Callers re-issue the command after each message.
func (w *NotesWatcher) Start() tea.Cmd {
	if w == nil {
		return nil
	}

	return func() tea.Msg {
		for {
			select {
			case <-w.done:
				return nil
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}

				if event.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = w.addRecursive(event.Name)
					}
				}

				if !w.isRelevant(event) {
					continue
				}

				rel := w.relativePath(event.Name)
				if rel == "" {
					continue
				}

				if fn := w.changeHandler(); fn != nil {
					fn(rel)
				}
				return NotesChangedMsg{Path: rel}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				if err != nil {
					return NotesWatcherErrMsg{Err: err}
				}
			}
		}
	}
}

func (w *NotesWatcher) Close() error {
	if w == nil {
		return nil
	}

	var closeErr error
	w.once.Do(func() {
		close(w.done)
		closeErr = w.watcher.Close()
		w.mu.Lock()
		onClose := w.onClose
		w.mu.Unlock()
		if onClose != nil {
			onClose()
		}
	})

	return closeErr
}

// OnChange registers a callback that receives relative paths whenever the
// watcher reports a change.
func (w *NotesWatcher) OnChange(fn func(string)) {
	if w == nil {
		return
	}
	w.mu.Lock()
	w.onChange = fn
	w.mu.Unlock()
}

// OnClose registers a callback that is invoked exactly once when the watcher
// shuts down.
func (w *NotesWatcher) OnClose(fn func()) {
	if w == nil {
		return
	}
	w.mu.Lock()
	w.onClose = fn
	w.mu.Unlock()
}

func (w *NotesWatcher) changeHandler() func(string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.onChange
}

func (w *NotesWatcher) addRecursive(root string) error {
	normalized := pathutil.NormalizePath(root)
	return filepath.WalkDir(normalized, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return filepath.SkipDir
			}
			return err
		}

		if !d.IsDir() {
			return nil
		}
		if path != normalized && isHidden(d.Name()) {
			return filepath.SkipDir
		}

		return w.watcher.Add(path)
	})
}

// isRelevant keeps markdown changes and directory level changes that alter
// the tree. Removed or renamed paths can no longer be inspected, so any
// extensionless path is assumed to be a directory.
func (w *NotesWatcher) isRelevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	name := filepath.Base(event.Name)
	if isHidden(name) {
		return false
	}

	ext := filepath.Ext(name)
	if strings.EqualFold(ext, ".md") {
		return true
	}
	if event.Op&fsnotify.Write != 0 {
		return false
	}
	if event.Op&fsnotify.Create != 0 {
		info, err := os.Stat(event.Name)
		return err == nil && info.IsDir()
	}
	return ext == ""
}

func (w *NotesWatcher) relativePath(path string) string {
	rel, err := pathutil.NotesRelative(w.root, path)
	if err != nil {
		return ""
	}
	if rel == "." || rel == "" || strings.HasPrefix(rel, "..") {
		return ""
	}
	return rel
}

// isHidden mirrors the tree filter: dot entries are ignored except .config.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != ".config"
}
