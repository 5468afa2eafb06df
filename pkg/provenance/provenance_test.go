package provenance_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencivicdata/ocdids/pkg/provenance"
)

const ma = "ocd-division/country:us/state:ma"

func TestTrackerSources(t *testing.T) {
	tr := provenance.NewTracker()
	tr.Touch(ma, "a.csv")
	tr.Touch(ma, "a.csv")
	tr.Touch(ma, "b.csv")
	tr.Touch(ma, "a.csv")

	assert.Equal(t, []string{"a.csv", "b.csv", "a.csv"}, tr.Sources(ma))
	assert.Empty(t, tr.Sources("ocd-division/country:us"))

	// Returned slices are copies.
	got := tr.Sources(ma)
	got[0] = "mutated"
	assert.Equal(t, "a.csv", tr.Sources(ma)[0])
}

func TestTrackerFirstWriterWins(t *testing.T) {
	tr := provenance.NewTracker()
	tr.Track(ma, "name", provenance.Provenance{Source: "a.csv", Line: 2, Value: "Massachusetts"})
	tr.Track(ma, "name", provenance.Provenance{Source: "c.csv", Line: 5, Value: "MASSACHUSETTS"})

	p, ok := tr.FindByField(ma, "name")
	require.True(t, ok)
	assert.Equal(t, "a.csv", p.Source)
	assert.Equal(t, "Massachusetts", p.Value)

	_, ok = tr.FindByField(ma, "sameAs")
	assert.False(t, ok)

	fields := tr.FindByResource(ma)
	assert.Len(t, fields, 1)

	m := tr.Map()
	m[ma]["name"] = provenance.Provenance{Source: "mutated"}
	p, _ = tr.FindByField(ma, "name")
	assert.Equal(t, "a.csv", p.Source)
}

func TestSaveLoad(t *testing.T) {
	fs := afero.NewMemMapFs()

	missing, err := provenance.Load(fs, "prov.yaml")
	require.NoError(t, err)
	assert.Nil(t, missing)

	tr := provenance.NewTracker()
	tr.Track(ma, "name", provenance.Provenance{Source: "a.csv", Line: 2, Value: "Massachusetts"})

	require.NoError(t, provenance.Save(fs, "prov.yaml", &provenance.File{Country: "us", Records: tr.Map()}))

	data, err := afero.ReadFile(fs, "prov.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "country: us")

	loaded, err := provenance.Load(fs, "prov.yaml")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "us", loaded.Country)
	assert.Equal(t, tr.Map(), loaded.Records)
}
