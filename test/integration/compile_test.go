package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencivicdata/ocdids/pkg/compiler"
	"github.com/opencivicdata/ocdids/pkg/corrections"
	"github.com/opencivicdata/ocdids/pkg/errors"
	"github.com/opencivicdata/ocdids/pkg/logging"
)

// repository lays out a small identifier repository on disk.
func repository(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"identifiers/country-us/states.csv": "id,name,census_geoid\n" +
			"ocd-division/country:us/state:ma,Massachusetts,25\n" +
			"ocd-division/country:us/state:al,Alabama,01\n",
		"identifiers/country-us/census/places.csv": "id,name,census_geoid,validFrom\n" +
			"ocd-division/country:us/state:ma/place:boston,Boston,2507000,1822-03-04\n",
		"identifiers/country-us/aliases.csv": "id,sameAs,sameAsNote\n" +
			"ocd-division/country:us/state:ma/place:boston_city,ocd-division/country:us/state:ma/place:boston,renamed\n",
		"identifiers/country-us/census/notes.txt": "not a fragment\n",
		"corrections/country-us/typos.csv": "incorrectId,id,note\n" +
			"ocd-division/country:us/state:ma/place:bostn,ocd-division/country:us/state:ma/place:boston,typo\n",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestCompileOnDisk(t *testing.T) {
	root := repository(t)
	fs := afero.NewOsFs()

	c, err := compiler.New(fs,
		compiler.WithRoot(root),
		compiler.WithProvenance(filepath.Join(root, "provenance.yaml")),
		compiler.WithLogger(logging.NewNopLogger()),
	)
	require.NoError(t, err)

	result, err := c.Compile(context.Background(), "us")
	require.NoError(t, err)
	assert.True(t, result.Written)
	assert.Equal(t, 4, result.Stats.Records)
	assert.Equal(t, "United States", result.CountryName)

	data, err := os.ReadFile(filepath.Join(root, "identifiers", "country-us.csv"))
	require.NoError(t, err)
	assert.Equal(t, "id,name,sameAs,sameAsNote,census_geoid,validFrom\n"+
		"ocd-division/country:us/state:al,Alabama,,,01,\n"+
		"ocd-division/country:us/state:ma,Massachusetts,,,25,\n"+
		"ocd-division/country:us/state:ma/place:boston,Boston,,,2507000,1822-03-04\n"+
		"ocd-division/country:us/state:ma/place:boston_city,Boston,ocd-division/country:us/state:ma/place:boston,renamed,,\n",
		string(data))

	_, err = os.Stat(filepath.Join(root, "provenance.yaml"))
	assert.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(root, "identifiers"))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temporary files are left behind")
}

func TestCheckOnDisk(t *testing.T) {
	root := repository(t)
	fs := afero.NewOsFs()

	write, err := compiler.New(fs, compiler.WithRoot(root), compiler.WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	_, err = write.Compile(context.Background(), "us")
	require.NoError(t, err)

	check, err := compiler.New(fs, compiler.WithRoot(root), compiler.WithCheck(true), compiler.WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	result, err := check.Compile(context.Background(), "us")
	require.NoError(t, err)
	assert.False(t, result.Written)

	extra := filepath.Join(root, "identifiers", "country-us", "more.csv")
	require.NoError(t, os.WriteFile(extra, []byte("id,name\nocd-division/country:us/state:ri,Rhode Island\n"), 0o644))

	_, err = check.Compile(context.Background(), "us")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrOutOfDate)
}

func TestFailedCompileKeepsCanonicalFile(t *testing.T) {
	root := repository(t)
	fs := afero.NewOsFs()

	c, err := compiler.New(fs, compiler.WithRoot(root), compiler.WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	_, err = c.Compile(context.Background(), "us")
	require.NoError(t, err)

	canonical := filepath.Join(root, "identifiers", "country-us.csv")
	before, err := os.ReadFile(canonical)
	require.NoError(t, err)

	conflict := filepath.Join(root, "identifiers", "country-us", "z.csv")
	require.NoError(t, os.WriteFile(conflict, []byte("id,name\nocd-division/country:us/state:ma,Commonwealth of Massachusetts\n"), 0o644))

	_, err = c.Compile(context.Background(), "us")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrFieldConflict)

	after, err := os.ReadFile(canonical)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestCorrectionsOnDisk(t *testing.T) {
	root := repository(t)
	fs := afero.NewOsFs()

	c, err := compiler.New(fs, compiler.WithRoot(root), compiler.WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	_, err = c.Compile(context.Background(), "us")
	require.NoError(t, err)

	result, err := corrections.Compile(fs, root, "us", corrections.WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	require.Len(t, result.Corrections, 1)
	assert.Empty(t, result.Warnings)

	data, err := os.ReadFile(filepath.Join(root, "corrections", "country-us.csv"))
	require.NoError(t, err)
	assert.Equal(t, "incorrectId,id,note\n"+
		"ocd-division/country:us/state:ma/place:bostn,ocd-division/country:us/state:ma/place:boston,typo\n",
		string(data))
}
