package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/opencivicdata/ocdids/internal/config"
	"github.com/opencivicdata/ocdids/pkg/constants"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	// Repository configuration
	Root         string
	StatsFormat  string
	UniqueFields map[string][]string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (OCDIDS_ROOT, OCDIDS_UNIQUE_FIELDS_US, ...)
// 3. .env files
// 4. Config file (configFile, else ~/.ocdids.yaml or ./.ocdids.yaml)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	config.Setup()
	viper.SetDefault("log_format", "auto")
	viper.SetDefault("log_output", "stderr")

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(constants.ConfigName)

		// A missing default config file is fine.
		_ = viper.ReadInConfig()
	}

	cfg := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color") || os.Getenv("NO_COLOR") != "",

		ConfigFile: viper.ConfigFileUsed(),

		Root:         config.Root(),
		StatsFormat:  viper.GetString(config.KeyStatsFormat),
		UniqueFields: config.UniqueFields(),

		LogLevel:  viper.GetString("log_level"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", viper.GetString("log_format")),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", viper.GetString("log_output")),
	}

	return cfg, nil
}

// UniqueFieldsFor returns the unique fields configured for country.
func (c *Config) UniqueFieldsFor(country string) []string {
	if fields, ok := c.UniqueFields[strings.ToLower(country)]; ok {
		return fields
	}
	return config.UniqueFieldsFor(country)
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
