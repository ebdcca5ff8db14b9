package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestManagerCreatesAndUpdates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	mgr, err := NewManager(WithConfigPath(path))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	cfg := mgr.Get()
	if cfg.BackendURL != DefaultBackendURL {
		t.Fatalf("expected default backend %s, got %s", DefaultBackendURL, cfg.BackendURL)
	}
	cfg.BackendURL = "http://analytics.internal:9000/api"

	if err := mgr.Set("backend_url", cfg.BackendURL); err != nil {
		t.Fatalf("Set: %v", err)
	}

	updated := mgr.Get()
	if updated.BackendURL != cfg.BackendURL {
		t.Fatalf("expected backend url %s, got %s", cfg.BackendURL, updated.BackendURL)
	}

	reopened, err := NewManager(WithConfigPath(path))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := reopened.Get().BackendURL; got != cfg.BackendURL {
		t.Fatalf("expected persisted backend url %s, got %s", cfg.BackendURL, got)
	}
}

func TestManagerSetRejectsInvalidValues(t *testing.T) {
	mgr, err := NewManager(WithConfigPath(filepath.Join(t.TempDir(), "config.json")))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	if err := mgr.Set("backend_url", "ftp://example.com"); err == nil {
		t.Fatalf("expected error for non-http backend url")
	}
	if err := mgr.Set("request_timeout_ms", "0"); err == nil {
		t.Fatalf("expected error for zero timeout")
	}
	if err := mgr.Set("colour", "blue"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if got := mgr.Get(); got.BackendURL != DefaultBackendURL || got.RequestTimeoutMS != DefaultRequestTimeoutMS {
		t.Fatalf("rejected updates must not change config: %+v", got)
	}

	if err := mgr.Set("log_level", "debug"); err != nil {
		t.Fatalf("Set log_level: %v", err)
	}
	if got := mgr.Get().LogLevel; got != "debug" {
		t.Fatalf("expected log level debug, got %s", got)
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"backend_url":"https://stocks.example.com/api"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	mgr, err := NewManager(WithConfigPath(path))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	cfg := mgr.Get()
	if cfg.BackendURL != "https://stocks.example.com/api" {
		t.Fatalf("unexpected backend url %s", cfg.BackendURL)
	}
	if cfg.RequestTimeout() != 30*time.Second {
		t.Fatalf("expected default 30s timeout, got %s", cfg.RequestTimeout())
	}
}

func TestManagerWatchReloads(t *testing.T) {
	mgr, err := NewManager(WithConfigPath(filepath.Join(t.TempDir(), "config.json")))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	mgr.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan Config, 1)
	if err := mgr.Watch(ctx, func(cfg Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	}); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	cfg := mgr.Get()
	cfg.BackendURL = "http://127.0.0.1:8123/api"

	if err := writeConfig(mgr.Path(), cfg); err != nil {
		t.Fatalf("writeConfig: %v", err)
	}

	select {
	case got := <-reloaded:
		if got.BackendURL != cfg.BackendURL {
			t.Fatalf("expected reloaded backend %s, got %s", cfg.BackendURL, got.BackendURL)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher did not fire on config change")
	}
}

func TestManagerRejectsInvalidFileOnOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"backend_url":"ftp://nope"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewManager(WithConfigPath(path)); err == nil {
		t.Fatalf("expected validation error for ftp backend")
	}
}

func TestManagerWatchIgnoresInvalidEdit(t *testing.T) {
	mgr, err := NewManager(WithConfigPath(filepath.Join(t.TempDir(), "config.json")))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	mgr.debounce = 20 * time.Millisecond

	logs := &lockedBuffer{}
	mgr.SetLogger(zerolog.New(logs))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan Config, 1)
	if err := mgr.Watch(ctx, func(cfg Config) { changed <- cfg }); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if err := os.WriteFile(mgr.Path(), []byte(`{"request_timeout_ms":0}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case cfg := <-changed:
		t.Fatalf("invalid edit must not be applied: %+v", cfg)
	case <-time.After(500 * time.Millisecond):
	}
	if mgr.Get().RequestTimeoutMS != DefaultRequestTimeoutMS {
		t.Fatalf("stored config changed: %+v", mgr.Get())
	}
	if !strings.Contains(logs.String(), "config reload rejected") {
		t.Fatalf("expected rejection to be logged to the manager logger, got %q", logs.String())
	}
}

// lockedBuffer is written by the watch goroutine and read by the test.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
