package report

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/opencivicdata/ocdids/pkg/constants"
	"github.com/opencivicdata/ocdids/pkg/errors"
	"github.com/opencivicdata/ocdids/pkg/provenance"
	"github.com/opencivicdata/ocdids/pkg/records"
)

// WriteFile writes the canonical CSV of state to path. The data goes to a
// temporary file in the same directory which is then renamed over path, so
// path is either fully replaced or left untouched.
func WriteFile(fs afero.Fs, path string, state *records.State) error {
	data, err := Bytes(state)
	if err != nil {
		return errors.WrapIO("encode", path, err)
	}
	return AtomicWrite(fs, path, data)
}

// WriteProvenance writes the field provenance of state to path as YAML.
func WriteProvenance(fs afero.Fs, path string, state *records.State) error {
	return provenance.Save(fs, path, &provenance.File{
		Country: state.Country,
		Records: state.Sources.Map(),
	})
}

// AtomicWrite replaces path with data via a temporary sibling file.
func AtomicWrite(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = fs.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("write", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("close", tmpName, err)
	}
	if err := fs.Chmod(tmpName, constants.FilePermissions); err != nil {
		return errors.WrapIO("chmod", tmpName, err)
	}
	if err := fs.Rename(tmpName, path); err != nil {
		return errors.WrapIO("rename", path, err)
	}
	return nil
}
