package state

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Paintersrp/nt/internal/config"
	"github.com/Paintersrp/nt/internal/editor"
	"github.com/Paintersrp/nt/internal/handler"
	"github.com/Paintersrp/nt/internal/logging"
	"github.com/Paintersrp/nt/internal/templater"
)

// State bundles the services shared by every command.
type State struct {
	Config    *config.Config
	Templates *templater.Manager
	Handler   *handler.FileHandler
	Editor    *editor.Manager
	Logger    *slog.Logger
	Watcher   *NotesWatcher

	closeLog func() error
}

// NewState loads the configuration and builds the services on top of it. It
// fails with a config.ConfigInitError when the notes directory is missing.
func NewState(opts config.Options) (*State, error) {
	cfg, err := config.Load(opts)
	if err != nil {
		return nil, err
	}
	if err := cfg.NotesDirExists(); err != nil {
		return nil, err
	}
	return FromConfig(cfg)
}

// FromConfig builds a State for an already loaded configuration.
func FromConfig(cfg *config.Config) (*State, error) {
	logger, closeLog, err := logging.Open(cfg.Log, os.Stderr)
	if err != nil {
		return nil, err
	}

	return &State{
		Config:    cfg,
		Templates: templater.NewManager(cfg.TemplatesDir),
		Handler:   handler.NewFileHandler(cfg.NotesDir),
		Editor:    editor.NewManager(cfg.Editor),
		Logger:    logger,
		closeLog:  closeLog,
	}, nil
}

// UseLogFile redirects logging to the configured log file, falling back to
// the default file in the notes directory. The interactive browser calls
// this so records never land on the terminal it draws on.
func (s *State) UseLogFile() error {
	logCfg := s.Config.Log
	logCfg.File = s.Config.LogFile()

	logger, closeLog, err := logging.Open(logCfg, nil)
	if err != nil {
		return err
	}

	if s.closeLog != nil {
		_ = s.closeLog()
	}
	s.Logger = logger
	s.closeLog = closeLog
	return nil
}

// StartWatcher begins watching the notes directory for changes.
func (s *State) StartWatcher() (*NotesWatcher, error) {
	if s.Watcher != nil {
		return s.Watcher, nil
	}

	w, err := NewNotesWatcher(s.Config.NotesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create notes watcher: %w", err)
	}
	w.OnChange(func(rel string) {
		s.Logger.Debug("note changed", slog.String("path", rel))
	})
	w.OnClose(func() {
		s.Logger.Debug("notes watcher stopped", slog.String("root", s.Config.NotesDir))
	})
	s.Watcher = w
	return w, nil
}

// Close releases the watcher and the log file.
func (s *State) Close() error {
	if s == nil {
		return nil
	}

	var errs []error
	if s.Watcher != nil {
		if err := s.Watcher.Close(); err != nil {
			errs = append(errs, err)
		}
		s.Watcher = nil
	}
	if s.closeLog != nil {
		if err := s.closeLog(); err != nil {
			errs = append(errs, err)
		}
		s.closeLog = nil
	}

	return errors.Join(errs...)
}
