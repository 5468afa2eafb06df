package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func reset(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestRoot(t *testing.T) {
	reset(t)
	assert.Equal(t, ".", Root())

	viper.Set(KeyRoot, "/srv/ocd-division-ids")
	assert.Equal(t, "/srv/ocd-division-ids", Root())
}

func TestUniqueFieldsFor(t *testing.T) {
	reset(t)

	assert.Equal(t, []string{"census_geoid", "census_geoid_12", "census_geoid_14"}, UniqueFieldsFor("US"))
	assert.Empty(t, UniqueFieldsFor("ca"))

	viper.Set("unique_fields.ca", []string{"sgc"})
	assert.Equal(t, []string{"sgc"}, UniqueFieldsFor("ca"))

	viper.Set("unique_fields.us", "census_geoid, ,census_geoid_12")
	assert.Equal(t, []string{"census_geoid", "census_geoid_12"}, UniqueFieldsFor("us"))
}

func TestUniqueFields(t *testing.T) {
	reset(t)
	viper.Set(KeyUniqueFields, map[string]any{"CA": []string{"sgc"}})

	fields := UniqueFields()
	assert.Equal(t, []string{"sgc"}, fields["ca"])
	assert.Equal(t, []string{"census_geoid", "census_geoid_12", "census_geoid_14"}, fields["us"])
}

func TestUniqueFieldsFromEnv(t *testing.T) {
	reset(t)
	Setup()
	t.Setenv("OCDIDS_UNIQUE_FIELDS_US", "foo,bar")
	t.Setenv("OCDIDS_UNIQUE_FIELDS_CA", "sgc")

	assert.Equal(t, []string{"foo", "bar"}, UniqueFieldsFor("us"))
	assert.Equal(t, []string{"sgc"}, UniqueFieldsFor("CA"))

	fields := UniqueFields()
	assert.Equal(t, []string{"foo", "bar"}, fields["us"])
	assert.Equal(t, []string{"sgc"}, fields["ca"])
}
