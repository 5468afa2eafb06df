// Package application provides test doubles for the command application
// interface.
package application

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    FsFunc: func() afero.Fs { return fs },
//	    RootFunc: func() string { return "/repo" },
//	}
//	cmd := compile.NewCommand(mock)
type Mock struct {
	LoggerFunc       func() *zerolog.Logger
	FsFunc           func() afero.Fs
	RootFunc         func() string
	UniqueFieldsFunc func(country string) []string
	StatsFormatFunc  func() string
	NoColorFunc      func() bool
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// Fs returns a filesystem using the mock function or a fresh in-memory one.
func (m *Mock) Fs() afero.Fs {
	if m.FsFunc != nil {
		return m.FsFunc()
	}
	return afero.NewMemMapFs()
}

// Root returns the root using the mock function or ".".
func (m *Mock) Root() string {
	if m.RootFunc != nil {
		return m.RootFunc()
	}
	return "."
}

// UniqueFields returns unique fields using the mock function or none.
func (m *Mock) UniqueFields(country string) []string {
	if m.UniqueFieldsFunc != nil {
		return m.UniqueFieldsFunc(country)
	}
	return nil
}

// StatsFormat returns the stats format using the mock function or "table".
func (m *Mock) StatsFormat() string {
	if m.StatsFormatFunc != nil {
		return m.StatsFormatFunc()
	}
	return "table"
}

// NoColor returns the color setting using the mock function or true.
func (m *Mock) NoColor() bool {
	if m.NoColorFunc != nil {
		return m.NoColorFunc()
	}
	return true
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "unknown".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "unknown"
}
