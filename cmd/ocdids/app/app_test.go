package app

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// TestApp_New verifies app initialization.
func TestApp_New(t *testing.T) {
	app, err := New("1.0.0", "abc123", "2024-01-01", "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if app.Version() != "1.0.0" {
		t.Errorf("Version() = %s, want 1.0.0", app.Version())
	}
	if app.Commit() != "abc123" {
		t.Errorf("Commit() = %s, want abc123", app.Commit())
	}
	if app.Date() != "2024-01-01" {
		t.Errorf("Date() = %s, want 2024-01-01", app.Date())
	}
	if app.BuiltBy() != "test" {
		t.Errorf("BuiltBy() = %s, want test", app.BuiltBy())
	}
	if app.Logger() == nil {
		t.Error("Logger() returned nil")
	}
	if app.Config() == nil {
		t.Error("Config() returned nil")
	}
	if app.Fs() == nil {
		t.Error("Fs() returned nil")
	}
}

// TestApp_Options verifies functional options replace dependencies.
func TestApp_Options(t *testing.T) {
	fs := afero.NewMemMapFs()
	logger := zerolog.Nop()
	config := &Config{
		Root:         "/repo",
		StatsFormat:  "json",
		NoColor:      true,
		UniqueFields: map[string][]string{"us": {"census_geoid"}},
	}

	app, err := New("1.0.0", "test", "2024-01-01", "test",
		WithFs(fs),
		WithLogger(&logger),
		WithConfig(config),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if app.Fs() != fs {
		t.Error("Fs() did not return the configured filesystem")
	}
	if app.Logger() != &logger {
		t.Error("Logger() did not return the configured logger")
	}
	if app.Root() != "/repo" {
		t.Errorf("Root() = %s, want /repo", app.Root())
	}
	if app.StatsFormat() != "json" {
		t.Errorf("StatsFormat() = %s, want json", app.StatsFormat())
	}
	if !app.NoColor() {
		t.Error("NoColor() = false, want true")
	}
	if got := app.UniqueFields("US"); len(got) != 1 || got[0] != "census_geoid" {
		t.Errorf("UniqueFields(US) = %v, want [census_geoid]", got)
	}
	if got := app.UniqueFields("ca"); len(got) != 0 {
		t.Errorf("UniqueFields(ca) = %v, want none", got)
	}
}

// TestApp_Shutdown verifies shutdown is a no-op that succeeds.
func TestApp_Shutdown(t *testing.T) {
	app, err := New("1.0.0", "test", "2024-01-01", "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if err := app.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() failed: %v", err)
	}
}

// TestApp_ExecuteCompile runs the compile command end to end against an
// in-memory repository.
func TestApp_ExecuteCompile(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/repo/identifiers/country-us/states.csv": "id,name\n" +
			"ocd-division/country:us/state:ma,Massachusetts\n" +
			"ocd-division/country:us/state:al,Alabama\n",
		"/repo/identifiers/country-us/ma/counties.csv": "id,name\n" +
			"ocd-division/country:us/state:ma/county:suffolk,Suffolk\n",
	}
	for path, content := range files {
		if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile(%s) failed: %v", path, err)
		}
	}

	app, err := New("1.0.0", "test", "2024-01-01", "test",
		WithFs(fs),
		WithConfig(&Config{LogLevel: "error", LogOutput: "discard"}),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	err = app.Execute(context.Background(), []string{"compile", "us", "--root", "/repo", "--stats-format", "json", "--no-color"})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	got, err := afero.ReadFile(fs, "/repo/identifiers/country-us.csv")
	if err != nil {
		t.Fatalf("canonical file not written: %v", err)
	}
	want := "id,name\n" +
		"ocd-division/country:us/state:al,Alabama\n" +
		"ocd-division/country:us/state:ma,Massachusetts\n" +
		"ocd-division/country:us/state:ma/county:suffolk,Suffolk\n"
	if string(got) != want {
		t.Errorf("canonical file =\n%s\nwant\n%s", got, want)
	}
}

// TestApp_ExecuteUnknownCommand verifies unknown commands fail.
func TestApp_ExecuteUnknownCommand(t *testing.T) {
	app, err := New("1.0.0", "test", "2024-01-01", "test",
		WithFs(afero.NewMemMapFs()),
		WithConfig(&Config{LogOutput: "discard"}),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if err := app.Execute(context.Background(), []string{"frobnicate"}); err == nil {
		t.Error("Execute() succeeded for an unknown command")
	}
}

// TestApp_RegisteredCommands verifies the root command wiring.
func TestApp_RegisteredCommands(t *testing.T) {
	app, err := New("1.0.0", "test", "2024-01-01", "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	root := app.createRootCommand()
	for _, name := range []string{"compile", "corrections", "version"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("command %q not registered", name)
		}
	}
	for _, flag := range []string{"config", "verbose", "quiet", "no-color", "log-level"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s not registered", flag)
		}
	}
}
