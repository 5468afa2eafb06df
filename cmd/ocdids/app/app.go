// Package app provides the application context and dependency management
// for the ocdids CLI: configuration, logging and the filesystem commands
// operate on.
package app

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/opencivicdata/ocdids/cmd/application"
	"github.com/opencivicdata/ocdids/pkg/errors"
)

// App represents the ocdids application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
	fs     afero.Fs
}

var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
// Configuration is loaded from .env files, the environment and the config
// file, and can be replaced using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		fs:      afero.NewOsFs(),
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.NewConfigError("app", "failed to load configuration", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Fs returns the filesystem.
func (a *App) Fs() afero.Fs {
	return a.fs
}

// Root returns the repository root.
func (a *App) Root() string {
	return a.config.Root
}

// UniqueFields returns the configured unique fields of country.
func (a *App) UniqueFields(country string) []string {
	return a.config.UniqueFieldsFor(country)
}

// StatsFormat returns the configured statistics format.
func (a *App) StatsFormat() string {
	return a.config.StatsFormat
}

// NoColor reports whether colored output is disabled.
func (a *App) NoColor() bool {
	return a.config.NoColor
}

// Shutdown performs graceful shutdown of the application. Compiles write
// atomically, so there is nothing to flush.
func (a *App) Shutdown(_ context.Context) error {
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithFs sets the filesystem (useful for testing).
func WithFs(fs afero.Fs) Option {
	return func(a *App) error {
		a.fs = fs
		return nil
	}
}
