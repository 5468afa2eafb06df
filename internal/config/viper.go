// Package config resolves repository and per-country settings from viper,
// which merges the config file, environment and .env values.
package config

import (
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/hashicorp/go-set/v2"
	"github.com/spf13/viper"

	"github.com/opencivicdata/ocdids/pkg/constants"
)

// Configuration keys.
const (
	KeyRoot         = "root"
	KeyUniqueFields = "unique_fields"
	KeyStatsFormat  = "stats_format"
)

// EnvPrefix prefixes environment variables read through viper,
// e.g. OCDIDS_ROOT or OCDIDS_UNIQUE_FIELDS_US.
const EnvPrefix = "OCDIDS"

// uniqueFieldsEnv prefixes per-country unique field variables,
// e.g. OCDIDS_UNIQUE_FIELDS_CA=sgc.
var uniqueFieldsEnv = EnvPrefix + "_" + strings.ToUpper(KeyUniqueFields) + "_"

// Setup binds viper to the OCDIDS_ environment and registers the defaults.
func Setup() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	SetDefaults()
}

// SetDefaults registers the built-in defaults with viper.
func SetDefaults() {
	viper.SetDefault(KeyRoot, constants.DefaultRoot)
	for cc, fields := range constants.DefaultUniqueFields {
		viper.SetDefault(KeyUniqueFields+"."+cc, fields)
	}
}

// Root returns the configured repository root.
func Root() string {
	if root := viper.GetString(KeyRoot); root != "" {
		return root
	}
	return constants.DefaultRoot
}

// UniqueFieldsFor returns the unique fields configured for country. A value
// set in the config file or environment replaces the built-in default.
func UniqueFieldsFor(country string) []string {
	country = strings.ToLower(country)
	key := KeyUniqueFields + "." + country
	if viper.IsSet(key) {
		return clean(viper.GetStringSlice(key))
	}
	return slices.Clone(constants.DefaultUniqueFields[country])
}

// UniqueFields returns the unique fields of every country that has defaults,
// a config file entry or an OCDIDS_UNIQUE_FIELDS_<CC> variable.
func UniqueFields() map[string][]string {
	codes := set.From(slices.Collect(maps.Keys(constants.DefaultUniqueFields)))
	for cc := range viper.GetStringMap(KeyUniqueFields) {
		codes.Insert(strings.ToLower(cc))
	}
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if cc, ok := strings.CutPrefix(name, uniqueFieldsEnv); ok && cc != "" {
			codes.Insert(strings.ToLower(cc))
		}
	}

	out := make(map[string][]string, codes.Size())
	for _, cc := range codes.Slice() {
		out[cc] = UniqueFieldsFor(cc)
	}
	return out
}

// clean splits comma-separated entries, as supplied through environment
// variables, and drops blanks.
func clean(fields []string) []string {
	out := []string{}
	for _, f := range fields {
		for _, part := range strings.Split(f, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
