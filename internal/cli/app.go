package cli

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dyike/stocklyzer/config"
	"github.com/dyike/stocklyzer/internal/api"
	"github.com/dyike/stocklyzer/internal/models"
	"github.com/dyike/stocklyzer/internal/pkg/logger"
)

// Version is reported by the version command and tagged on every log line.
const Version = "1.0.0"

// rootOptions are the persistent flags; empty values leave config untouched.
type rootOptions struct {
	configPath string
	backend    string
	logLevel   string
	logFormat  string
}

func (o *rootOptions) apply(cfg *config.Config) {
	if o.backend != "" {
		cfg.BackendURL = o.backend
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.logFormat != "" {
		cfg.LogFormat = o.logFormat
	}
}

// app is the state shared by all commands of one invocation. The effective
// config, logger and gateway are swapped together when the config file
// changes; the global logger is only set once, at startup.
type app struct {
	opts    *rootOptions
	manager *config.Manager
	logOut  io.Writer
	cfg     atomic.Pointer[config.Config]
	logger  atomic.Pointer[zerolog.Logger]
	gateway atomic.Pointer[api.Client]
}

// load reads the config file, layers .env, environment and flags over it,
// then initializes logging to logOut and the gateway.
func (a *app) load(logOut io.Writer) error {
	_ = godotenv.Load()
	a.logOut = logOut

	var opts []config.ManagerOption
	if a.opts.configPath != "" {
		opts = append(opts, config.WithConfigPath(a.opts.configPath))
	}
	manager, err := config.NewManager(opts...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.manager = manager

	cfg := a.effective(manager.Get())
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	if err := logger.Init(logConfig(cfg, logOut)); err != nil {
		return err
	}

	a.install(cfg, log.Logger)
	return nil
}

// effective layers environment and flags over the file config. Debug mode
// raises the log level; an explicit --log-level still wins.
func (a *app) effective(file config.Config) config.Config {
	cfg := file
	cfg.LoadFromEnv()
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}
	a.opts.apply(&cfg)
	return cfg
}

func (a *app) install(cfg config.Config, l zerolog.Logger) {
	a.cfg.Store(&cfg)
	a.logger.Store(&l)
	a.manager.SetLogger(l)
	a.gateway.Store(api.NewClient(cfg.BackendURL,
		api.WithTimeout(cfg.RequestTimeout()),
		api.WithLogger(l),
	))
}

// reload is the config watcher callback. Invalid edits keep the running config.
func (a *app) reload(file config.Config) {
	cfg := a.effective(file)
	if err := cfg.Validate(); err != nil {
		a.log().Warn().Err(err).Msg("ignoring invalid config change")
		return
	}
	l, err := logger.New(logConfig(cfg, a.logOut))
	if err != nil {
		a.log().Warn().Err(err).Msg("keeping previous logger")
		l = *a.log()
	}
	a.install(cfg, l)
	l.Info().Str("backend_url", cfg.BackendURL).Msg("gateway reconfigured")
}

// watch hot-reloads the config file until ctx is done.
func (a *app) watch(ctx context.Context) error {
	return a.manager.Watch(ctx, a.reload)
}

func (a *app) config() config.Config {
	return *a.cfg.Load()
}

func (a *app) client() *api.Client {
	return a.gateway.Load()
}

func (a *app) log() *zerolog.Logger {
	return a.logger.Load()
}

func logConfig(cfg config.Config, out io.Writer) logger.Config {
	return logger.Config{
		Level:          cfg.LogLevel,
		Format:         cfg.LogFormat,
		FileEnabled:    cfg.LogToFile,
		FilePath:       cfg.LogDir,
		RotationSize:   cfg.LogRotationMB,
		RetentionDays:  cfg.LogRetentionDays,
		ServiceName:    "stocklyzer",
		ServiceVersion: Version,
		Output:         out,
	}
}

// liveGateway forwards to whichever client the latest config produced, so
// views keep working across hot reloads.
type liveGateway struct {
	app *app
}

func (g liveGateway) CalculateCAPM(ctx context.Context, req models.CAPMRequest) (*models.CAPMResponse, error) {
	return g.app.client().CalculateCAPM(ctx, req)
}

func (g liveGateway) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResponse, error) {
	return g.app.client().Analyze(ctx, req)
}

func (g liveGateway) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error) {
	return g.app.client().Predict(ctx, req)
}
