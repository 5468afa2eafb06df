package fragments

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/opencivicdata/ocdids/pkg/constants"
	"github.com/opencivicdata/ocdids/pkg/errors"
	"github.com/opencivicdata/ocdids/pkg/logging"
)

// Reader discovers and opens fragment files beneath a repository root.
type Reader struct {
	fs     afero.Fs
	root   string
	logger *zerolog.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger used for per-file notices.
func WithLogger(logger *zerolog.Logger) Option {
	return func(r *Reader) {
		r.logger = logger
	}
}

// NewReader creates a Reader over fsys rooted at root.
func NewReader(fsys afero.Fs, root string, opts ...Option) *Reader {
	r := &Reader{fs: fsys, root: root}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.OrDefault(r.logger)
	return r
}

// CountryDir returns the fragment directory of country.
func (r *Reader) CountryDir(country string) string {
	return filepath.Join(r.root, constants.IdentifiersDir, fmt.Sprintf(constants.CountryDirFormat, country))
}

// Discover lists every fragment of country in sorted order. Files ending in
// exceptions.csv and anything under a corrections directory are excluded.
func (r *Reader) Discover(country string) ([]string, error) {
	dir := r.CountryDir(country)

	info, err := r.fs.Stat(dir)
	if os.IsNotExist(err) {
		return nil, errors.NewNotFoundError("country directory", r.rel(dir))
	}
	if err != nil {
		return nil, errors.WrapIO("stat", dir, err)
	}
	if !info.IsDir() {
		return nil, errors.NewNotFoundError("country directory", r.rel(dir))
	}

	var paths []string
	err = afero.Walk(r.fs, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != dir && info.Name() == constants.CorrectionsDir {
				return filepath.SkipDir
			}
			return nil
		}
		name := info.Name()
		if !strings.HasSuffix(name, constants.CSVExt) || strings.HasSuffix(name, constants.ExceptionsSuffix) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, errors.WrapIO("walk", dir, err)
	}

	slices.Sort(paths)
	return paths, nil
}

// Open opens one fragment file. The caller must Close it.
func (r *Reader) Open(path string) (*Fragment, error) {
	file, err := r.fs.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}

	name := r.rel(path)
	r.logger.Debug().Str("file", name).Msg("Processing fragment")

	frag, err := open(file, name, r.logger)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return frag, nil
}

// Each opens every fragment of country in sorted order and passes it to fn.
// Fragments are closed after fn returns. Iteration stops at the first error
// or when ctx is done.
func (r *Reader) Each(ctx context.Context, country string, fn func(*Fragment) error) error {
	paths, err := r.Discover(country)
	if err != nil {
		return err
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.each(path, fn); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) each(path string, fn func(*Fragment) error) error {
	frag, err := r.Open(path)
	if err != nil {
		return err
	}
	defer frag.Close()
	return fn(frag)
}

// rel returns path relative to the root with forward slashes, falling back
// to path itself.
func (r *Reader) rel(path string) string {
	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
