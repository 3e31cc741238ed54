package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/luulek/packforge/internal/config"
	"github.com/luulek/packforge/internal/ctxlog"
	"github.com/luulek/packforge/internal/proc"
	"github.com/luulek/packforge/internal/pypi"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	inR       io.Reader
	logger    *slog.Logger
	appConfig *Config
	plan      *config.Plan
	runner    proc.Runner
	resolver  pypi.VersionResolver
	workDir   string
}

// Option customizes an App, primarily so tests can substitute the
// subprocess runner and the version resolver.
type Option func(*App)

// WithRunner replaces the subprocess runner.
func WithRunner(r proc.Runner) Option {
	return func(a *App) { a.runner = r }
}

// WithResolver replaces the packager version resolver. Passing nil disables
// resolution, forcing the always-latest pip fallback.
func WithResolver(r pypi.VersionResolver) Option {
	return func(a *App) { a.resolver = r }
}

// WithStdin replaces the reader used for the pause-on-exit acknowledgement.
func WithStdin(in io.Reader) Option {
	return func(a *App) { a.inR = in }
}

// WithWorkDir overrides the directory artifact cleanup and the lock file are
// anchored to.
func WithWorkDir(dir string) Option {
	return func(a *App) { a.workDir = dir }
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and a validated
// build plan. A failure to load configuration is a fatal startup error and
// panics; the entrypoint recovers it into a clean exit.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, opts ...Option) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	plan, err := loader.Load(ctx, appConfig.ConfigPath)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Build plan loaded and validated.", "build", plan.Name)

	workDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to determine working directory: %w", err))
	}

	a := &App{
		outW:      outW,
		inR:       os.Stdin,
		logger:    logger,
		appConfig: appConfig,
		plan:      plan,
		runner:    &proc.Local{},
		workDir:   workDir,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Plan returns the loaded build plan. This is primarily for testing.
func (a *App) Plan() *config.Plan {
	return a.plan
}
