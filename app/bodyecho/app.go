package bodyecho

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/httpbody/core/config"
	"github.com/dmitrymomot/httpbody/core/logger"
	"github.com/dmitrymomot/httpbody/core/server"
	"github.com/dmitrymomot/httpbody/integration/storage/s3"
)

type App struct {
	config  Config
	server  *server.Server
	storage *s3.Storage
	logger  *slog.Logger
}

type AppOption func(*App) error

func NewApp(ctx context.Context, opts ...AppOption) (*App, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}

	app := &App{config: cfg}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.logger == nil {
		app.logger = newLogger(app.config)
	}

	if app.server == nil {
		s, err := server.NewFromConfig(app.config.Server, server.WithLogger(app.logger))
		if err != nil {
			return nil, err
		}
		app.server = s
	}

	if app.storage == nil && app.config.S3.Bucket != "" {
		st, err := s3.New(ctx, app.config.S3)
		if err != nil {
			return nil, err
		}
		app.storage = st
	}

	return app, nil
}

func newLogger(cfg Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	switch cfg.Env {
	case "production":
		return logger.New(logger.WithProduction(cfg.AppName), logger.WithLevel(level))
	case "staging":
		return logger.New(logger.WithStaging(cfg.AppName), logger.WithLevel(level))
	default:
		return logger.New(logger.WithDevelopment(cfg.AppName), logger.WithLevel(level))
	}
}

// Run serves until ctx is cancelled, then shuts the server down.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(a.server.Run(ctx, a.Handler()))

	a.logger.InfoContext(ctx, "bodyecho started",
		logger.Component("app"),
		slog.String("addr", a.config.Server.Addr),
		slog.Bool("objects", a.storage != nil),
	)
	return g.Wait()
}

// Config returns the loaded configuration after options were applied.
func (a *App) Config() Config {
	return a.config
}

// WithConfig replaces the configuration loaded from the environment.
func WithConfig(cfg Config) AppOption {
	return func(app *App) error {
		app.config = cfg
		return nil
	}
}

func WithLogger(logger *slog.Logger) AppOption {
	return func(app *App) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = logger
		return nil
	}
}

func WithServer(server *server.Server) AppOption {
	return func(app *App) error {
		if server == nil {
			return errors.New("server cannot be nil")
		}
		app.server = server
		return nil
	}
}

func WithStorage(storage *s3.Storage) AppOption {
	return func(app *App) error {
		if storage == nil {
			return errors.New("storage cannot be nil")
		}
		app.storage = storage
		return nil
	}
}
