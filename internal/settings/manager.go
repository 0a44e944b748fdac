package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// Manager owns the current settings record and its on-disk copy.
//
// Reads return value copies, so callers can never mutate the current
// record in place. Updates go through [Manager.Update], which validates the
// candidate, bumps the revision, persists, and only then publishes it.
// An empty path disables persistence (in-memory settings only).
type Manager struct {
	mu      sync.RWMutex
	path    string
	current Settings
	logger  *slog.Logger
}

// NewManager loads settings from path, falling back to defaults when the
// file does not exist. Unknown or missing fields keep their defaults.
func NewManager(path string, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	current := Defaults()
	if path != "" {
		loaded, err := load(path)
		if err != nil {
			return nil, err
		}
		current = loaded
	}
	if err := current.Validate(); err != nil {
		return nil, fmt.Errorf("stored settings are invalid: %w", err)
	}

	return &Manager{
		path:    path,
		current: current,
		logger:  logger,
	}, nil
}

// Current returns a copy of the current settings record.
func (m *Manager) Current() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Update applies mutate to a copy of the current record, validates the
// result, assigns the next revision, saves it, and makes it current.
// The previous record is untouched if validation or the save fails.
func (m *Manager) Update(mutate func(Settings) Settings) (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := mutate(m.current)
	next.Revision = m.current.Revision + 1

	if err := next.Validate(); err != nil {
		return m.current, err
	}
	if err := m.save(next); err != nil {
		return m.current, err
	}

	m.current = next
	m.logger.Debug("settings updated", "revision", next.Revision)
	return next, nil
}

// Save persists the current record. Normally unnecessary, since Update
// saves as it goes; useful after constructing a manager with no file yet.
func (m *Manager) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.save(m.current)
}

func (m *Manager) save(s Settings) error {
	if m.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// load reads a settings file, starting from defaults so absent fields keep
// their documented values.
func load(path string) (Settings, error) {
	s := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("read settings: %w", err)
	}

	if err := toml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings: %w", err)
	}
	return s, nil
}
