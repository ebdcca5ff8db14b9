package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBackendURL       = "http://localhost:8000/api"
	DefaultRequestTimeoutMS = 30000
)

type Config struct {
	BackendURL       string `json:"backend_url"`
	RequestTimeoutMS int    `json:"request_timeout_ms"`

	LogLevel         string `json:"log_level"`
	LogFormat        string `json:"log_format"`
	LogToFile        bool   `json:"log_to_file"`
	LogDir           string `json:"log_dir"`
	LogRotationMB    int    `json:"log_rotation_mb"`
	LogRetentionDays int    `json:"log_retention_days"`

	// Debug forces the debug log level unless a flag overrides it.
	Debug bool `json:"debug"`
}

// DefaultConfigWithRoot returns the built-in defaults with log files placed under root.
func DefaultConfigWithRoot(root string) *Config {
	return &Config{
		BackendURL:       DefaultBackendURL,
		RequestTimeoutMS: DefaultRequestTimeoutMS,

		LogLevel:         "info",
		LogFormat:        "pretty",
		LogToFile:        false,
		LogDir:           filepath.Join(root, "logs"),
		LogRotationMB:    10,
		LogRetentionDays: 7,

		Debug: false,
	}
}

// LoadFromEnv overrides fields with STOCKLYZER_* environment variables when set.
func (c *Config) LoadFromEnv() {
	if val := os.Getenv("STOCKLYZER_BACKEND_URL"); val != "" {
		c.BackendURL = val
	}
	if val := os.Getenv("STOCKLYZER_TIMEOUT_MS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.RequestTimeoutMS = v
		}
	}

	if val := os.Getenv("STOCKLYZER_LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
	if val := os.Getenv("STOCKLYZER_LOG_FORMAT"); val != "" {
		c.LogFormat = val
	}
	if val := os.Getenv("STOCKLYZER_LOG_DIR"); val != "" {
		c.LogDir = val
		c.LogToFile = true
	}

	if val := os.Getenv("STOCKLYZER_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

func (c Config) Validate() error {
	u, err := url.Parse(strings.TrimSpace(c.BackendURL))
	if err != nil {
		return fmt.Errorf("invalid backend url %q: %w", c.BackendURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend url must use http or https, got %q", c.BackendURL)
	}
	if u.Host == "" {
		return fmt.Errorf("backend url %q has no host", c.BackendURL)
	}

	if c.RequestTimeoutMS <= 0 {
		return fmt.Errorf("request timeout must be positive, got %dms", c.RequestTimeoutMS)
	}

	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}

	switch c.LogFormat {
	case "pretty", "json":
	default:
		return fmt.Errorf("log format must be pretty or json, got %q", c.LogFormat)
	}

	if c.LogToFile && strings.TrimSpace(c.LogDir) == "" {
		return fmt.Errorf("log dir is required when file logging is enabled")
	}
	return nil
}

// Set assigns a single field by its JSON key, as used by `config set`.
func (c *Config) Set(key, value string) error {
	switch key {
	case "backend_url":
		c.BackendURL = value
	case "request_timeout_ms":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("request_timeout_ms: %w", err)
		}
		c.RequestTimeoutMS = v
	case "log_level":
		c.LogLevel = value
	case "log_format":
		c.LogFormat = value
	case "log_to_file":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("log_to_file: %w", err)
		}
		c.LogToFile = v
	case "log_dir":
		c.LogDir = value
	case "log_rotation_mb":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("log_rotation_mb: %w", err)
		}
		c.LogRotationMB = v
	case "log_retention_days":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("log_retention_days: %w", err)
		}
		c.LogRetentionDays = v
	case "debug":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("debug: %w", err)
		}
		c.Debug = v
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	if !c.LogToFile {
		return nil
	}
	path := strings.TrimSpace(c.LogDir)
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}
