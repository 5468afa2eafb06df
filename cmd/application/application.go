// Package application provides the application interface for ocdids commands.
//
// Commands accept this interface rather than the concrete App type so they
// can be tested against a mock with an in-memory filesystem.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            c, err := compiler.New(app.Fs(), compiler.WithRoot(app.Root()))
//	            // ...
//	        },
//	    }
//	}
package application

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Application provides what commands need from the application.
type Application interface {
	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// Fs returns the filesystem fragments are read from and output is
	// written to.
	Fs() afero.Fs

	// Root returns the repository root directory.
	Root() string

	// UniqueFields returns the configured unique fields of country.
	UniqueFields(country string) []string

	// StatsFormat returns the configured statistics format
	// (table, json, yaml), or "" to auto-detect.
	StatsFormat() string

	// NoColor reports whether colored output is disabled.
	NoColor() bool

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
