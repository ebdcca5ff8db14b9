package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const (
	appDirName      = "stocklyzer"
	configFileName  = "config.json"
	defaultDebounce = 300 * time.Millisecond
)

// Manager owns config.json. Set persists single keys; Watch picks up edits
// made to the file by anything else.
type Manager struct {
	path     string
	debounce time.Duration

	mu       sync.RWMutex
	cfg      Config
	logger   zerolog.Logger
	onChange func(Config)
	watching bool

	// ownWrite is true while events caused by our own write may still arrive.
	ownWrite atomic.Bool
}

type ManagerOption func(*Manager)

// WithConfigPath uses path instead of DefaultPath.
func WithConfigPath(path string) ManagerOption {
	return func(m *Manager) {
		if path != "" {
			m.path = path
		}
	}
}

// DefaultPath is config.json under the user config directory, or under the
// working directory when there is none.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		if dir, err = os.Getwd(); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, appDirName, configFileName), nil
}

// NewManager opens the config file, creating it with defaults when missing.
// A file that fails validation is an error.
func NewManager(opts ...ManagerOption) (*Manager, error) {
	m := &Manager{debounce: defaultDebounce, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(m)
	}

	if m.path == "" {
		path, err := DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("locate config: %w", err)
		}
		m.path = path
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	cfg, err := readConfig(m.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		cfg = *DefaultConfigWithRoot(filepath.Dir(m.path))
		if err := writeConfig(m.path, cfg); err != nil {
			return nil, fmt.Errorf("write initial config: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", m.path, err)
	}

	m.cfg = cfg
	return m, nil
}

func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

func (m *Manager) Path() string {
	return m.path
}

// SetLogger replaces the logger used for reload diagnostics.
func (m *Manager) SetLogger(l zerolog.Logger) {
	m.mu.Lock()
	m.logger = l
	m.mu.Unlock()
}

func (m *Manager) log() *zerolog.Logger {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l := m.logger
	return &l
}

// Set changes one key, validates the result and writes the file. The
// stored config is untouched when any step fails.
func (m *Manager) Set(key, value string) error {
	m.mu.Lock()
	next := m.cfg
	if err := next.Set(key, value); err != nil {
		m.mu.Unlock()
		return err
	}
	if err := next.Validate(); err != nil {
		m.mu.Unlock()
		return err
	}
	if next == m.cfg {
		m.mu.Unlock()
		return nil
	}

	m.ownWrite.Store(true)
	time.AfterFunc(m.debounce, func() { m.ownWrite.Store(false) })
	if err := writeConfig(m.path, next); err != nil {
		m.ownWrite.Store(false)
		m.mu.Unlock()
		return err
	}
	m.cfg = next
	cb := m.onChange
	m.mu.Unlock()

	if cb != nil {
		cb(next)
	}
	return nil
}

// Watch calls onChange with every valid config written to the file by
// another process until ctx is done. Calling it again only replaces onChange.
func (m *Manager) Watch(ctx context.Context, onChange func(Config)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onChange = onChange
	if m.watching {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watcher: %w", err)
	}
	// editors and writeConfig replace the file, so watch its directory
	if err := w.Add(filepath.Dir(m.path)); err != nil {
		w.Close()
		return fmt.Errorf("watch config dir: %w", err)
	}

	m.watching = true
	go m.watch(ctx, w)
	return nil
}

func (m *Manager) watch(ctx context.Context, w *fsnotify.Watcher) {
	defer w.Close()

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != filepath.Clean(m.path) || m.ownWrite.Load() {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				settle = time.After(m.debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			m.log().Warn().Err(err).Msg("config watcher error")
		case <-settle:
			settle = nil
			m.reload()
		}
	}
}

func (m *Manager) reload() {
	cfg, err := readConfig(m.path)
	if err != nil {
		m.log().Error().Err(err).Str("path", m.path).Msg("config reload failed")
		return
	}
	if err := cfg.Validate(); err != nil {
		m.log().Error().Err(err).Str("path", m.path).Msg("config reload rejected")
		return
	}

	m.mu.Lock()
	if cfg == m.cfg {
		m.mu.Unlock()
		return
	}
	m.cfg = cfg
	cb := m.onChange
	logger := m.logger
	m.mu.Unlock()

	logger.Info().Str("path", m.path).Str("backend_url", cfg.BackendURL).Msg("config reloaded")
	if cb != nil {
		cb(cfg)
	}
}

// readConfig decodes path over the defaults so keys missing from older
// files keep their default values.
func readConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := *DefaultConfigWithRoot(filepath.Dir(path))
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// writeConfig replaces path atomically via a temp file in the same directory.
func writeConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.json")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp config: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}
