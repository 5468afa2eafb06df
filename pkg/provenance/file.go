package provenance

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"

	"github.com/opencivicdata/ocdids/pkg/constants"
)

// File is the on-disk provenance document written next to a compile.
type File struct {
	Country string `yaml:"country"`
	Records Map    `yaml:"records"`
}

// Save writes f as YAML to path.
func Save(fs afero.Fs, path string, f *File) error {
	data, err := yaml.MarshalWithOptions(f, yaml.Indent(2))
	if err != nil {
		return fmt.Errorf("failed to encode provenance: %w", err)
	}
	return afero.WriteFile(fs, path, data, constants.FilePermissions)
}

// Load reads a provenance document from path.
// Returns nil, nil if the file doesn't exist.
func Load(fs afero.Fs, path string) (*File, error) {
	data, err := afero.ReadFile(fs, path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read provenance file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse provenance file: %w", err)
	}
	return &f, nil
}
