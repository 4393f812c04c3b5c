// Package app wires configuration, logging, and the sync pipeline into the
// orch-csv CLI. It centralizes dependency setup so commands stay thin.
package app

import (
	"github.com/rs/zerolog"
)

// App holds the CLI's shared dependencies.
type App struct {
	version string
	commit  string
	date    string

	config *Config
	logger *zerolog.Logger
}

// Option customizes an App during construction.
type Option func(*App) error

// New creates an App with the given build information.
func New(version, commit, date string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
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

// Version returns the build version.
func (a *App) Version() string {
	return a.version
}

// Config returns the loaded configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}
