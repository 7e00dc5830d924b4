// Package editor resolves and launches the external editor used to edit
// notes.
package editor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Paintersrp/nt/internal/config"
)

// ErrNoEditor is returned when neither the default editor nor any of the
// alternatives can be found on PATH.
var ErrNoEditor = errors.New("no suitable editor found")

type Manager struct {
	def          string
	alternatives []string
	args         []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func NewManager(cfg config.EditorConfig) *Manager {
	return &Manager{
		def:          cfg.Default,
		alternatives: append([]string(nil), cfg.Alternatives...),
		args:         append([]string(nil), cfg.Args...),
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
	}
}

// Candidates returns the configured editors in preference order, without
// duplicates.
func (m *Manager) Candidates() []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range append([]string{m.def}, m.alternatives...) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Available reports whether name can be found on PATH.
func (m *Manager) Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// AvailableEditors lists the configured editors that are installed.
func (m *Manager) AvailableEditors() []string {
	var out []string
	for _, name := range m.Candidates() {
		if m.Available(name) {
			out = append(out, name)
		}
	}
	return out
}

// Resolve returns the full path of the first available editor: the default,
// then each alternative in order.
func (m *Manager) Resolve() (string, error) {
	candidates := m.Candidates()
	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w, install one of: %s", ErrNoEditor, strings.Join(candidates, ", "))
}

// Command builds the editor invocation for path, creating an empty file
// there first if none exists. Standard streams are attached.
func (m *Manager) Command(path string) (*exec.Cmd, error) {
	if err := ensureFile(path); err != nil {
		return nil, err
	}

	bin, err := m.Resolve()
	if err != nil {
		return nil, err
	}

	args := append(append([]string(nil), m.args...), path)
	cmd := exec.Command(bin, args...)
	cmd.Stdin = m.Stdin
	cmd.Stdout = m.Stdout
	cmd.Stderr = m.Stderr
	return cmd, nil
}

// Launch runs the editor on path and waits for it to exit. It reports true
// when the editor exited with status zero. An error is returned only when the
// editor could not be started.
func (m *Manager) Launch(path string) (bool, error) {
	cmd, err := m.Command(path)
	if err != nil {
		return false, err
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, fmt.Errorf("running editor: %w", err)
	}
	return true, nil
}

func ensureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating note directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("creating note: %w", err)
	}
	return f.Close()
}
