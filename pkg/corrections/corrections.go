// Package corrections compiles a country's id corrections: rows mapping an
// incorrectId that appears in third-party data to the canonical id it
// should have been, with a free-text note.
//
// Corrections are read from corrections/country-<cc>/**/*.csv and written,
// sorted by incorrectId, to corrections/country-<cc>.csv. Every corrected id
// must be well formed; ids absent from the compiled canonical file and
// repeated incorrectIds are reported as warnings and skipped.
package corrections

import (
	"bytes"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-set/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/opencivicdata/ocdids/pkg/constants"
	"github.com/opencivicdata/ocdids/pkg/errors"
	"github.com/opencivicdata/ocdids/pkg/fragments"
	"github.com/opencivicdata/ocdids/pkg/logging"
	"github.com/opencivicdata/ocdids/pkg/ocdid"
	"github.com/opencivicdata/ocdids/pkg/report"
)

// Correction is one incorrectId to id mapping.
type Correction struct {
	IncorrectID string
	ID          string
	Note        string
	Source      string
}

// Result describes a successful corrections compile.
type Result struct {
	Country     string
	Output      string
	Files       []string
	Corrections []Correction // sorted by IncorrectID
	Warnings    []string
}

// Option configures Compile.
type Option func(*compiler)

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *compiler) {
		c.logger = logger
	}
}

type compiler struct {
	fs      afero.Fs
	root    string
	country string
	logger  *zerolog.Logger
	reader  *fragments.Reader
	result  *Result
}

// Compile merges the correction files of country beneath root and writes the
// compiled corrections file. Malformed ids abort the run and nothing is
// written.
func Compile(fsys afero.Fs, root, country string, opts ...Option) (*Result, error) {
	country = strings.ToLower(strings.TrimSpace(country))
	c := &compiler{fs: fsys, root: root, country: country}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrDefault(c.logger)
	c.reader = fragments.NewReader(fsys, root, fragments.WithLogger(c.logger))
	c.result = &Result{
		Country: country,
		Output:  filepath.Join(root, constants.CorrectionsDir, fmt.Sprintf(constants.CanonicalFileFormat, country)),
	}

	canonical, err := c.canonicalIDs()
	if err != nil {
		return nil, err
	}

	files, err := c.discover()
	if err != nil {
		return nil, err
	}

	byIncorrect := make(map[string]Correction)
	var problems []error
	for _, path := range files {
		rows, err := c.read(path)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if err := ocdid.Validate(row.ID); err != nil {
				var idErr *errors.InvalidIdentifierError
				if stderrors.As(err, &idErr) {
					idErr.File = row.Source
				}
				problems = append(problems, err)
				continue
			}
			if !canonical.Contains(row.ID) {
				c.warn(fmt.Sprintf("id %s in %s not present in country csv file", row.ID, row.Source))
				continue
			}
			if prev, seen := byIncorrect[row.IncorrectID]; seen {
				c.warn(fmt.Sprintf("incorrectId %s in %s seen before in %s", row.IncorrectID, row.Source, prev.Source))
				continue
			}
			byIncorrect[row.IncorrectID] = row
		}
	}
	if err := errors.Aggregate(country, problems...); err != nil {
		return nil, err
	}

	for _, key := range slices.Sorted(maps.Keys(byIncorrect)) {
		c.result.Corrections = append(c.result.Corrections, byIncorrect[key])
	}

	data, err := encode(c.result.Corrections)
	if err != nil {
		return nil, errors.WrapIO("encode", c.result.Output, err)
	}
	c.logger.Info().Str("file", c.result.Output).Int("corrections", len(c.result.Corrections)).Msg("Writing corrections file")
	if err := report.AtomicWrite(fsys, c.result.Output, data); err != nil {
		return nil, err
	}
	return c.result, nil
}

// canonicalIDs reads every id of the compiled canonical file, aliases included.
func (c *compiler) canonicalIDs() (*set.Set[string], error) {
	path := filepath.Join(c.root, constants.IdentifiersDir, fmt.Sprintf(constants.CanonicalFileFormat, c.country))
	if ok, _ := afero.Exists(c.fs, path); !ok {
		return nil, errors.NewNotFoundError("canonical file", path)
	}

	frag, err := c.reader.Open(path)
	if err != nil {
		return nil, err
	}
	defer frag.Close()

	ids := set.New[string](0)
	for {
		row, err := frag.Next()
		if stderrors.Is(err, io.EOF) {
			return ids, nil
		}
		if err != nil {
			return nil, err
		}
		ids.Insert(row.ID())
	}
}

// discover lists the correction files of the country in sorted order.
func (c *compiler) discover() ([]string, error) {
	dir := filepath.Join(c.root, constants.CorrectionsDir, fmt.Sprintf(constants.CountryDirFormat, c.country))
	if _, err := c.fs.Stat(dir); os.IsNotExist(err) {
		c.warn(fmt.Sprintf("no corrections directory %s", c.rel(dir)))
		return nil, nil
	}

	var paths []string
	err := afero.Walk(c.fs, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(info.Name(), constants.CSVExt) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapIO("walk", dir, err)
	}
	slices.Sort(paths)
	c.result.Files = paths
	return paths, nil
}

// read loads the rows of one correction file, requiring every column.
func (c *compiler) read(path string) ([]Correction, error) {
	frag, err := c.reader.Open(path)
	if stderrors.Is(err, errors.ErrMissingIDColumn) {
		return nil, &errors.MissingColumnError{File: c.rel(path), Column: constants.FieldID}
	}
	if err != nil {
		return nil, err
	}
	defer frag.Close()

	for _, col := range constants.CorrectionsFields {
		if !slices.Contains(frag.Fields, col) {
			return nil, &errors.MissingColumnError{File: frag.Name, Column: col}
		}
	}

	var rows []Correction
	for {
		row, err := frag.Next()
		if stderrors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, Correction{
			IncorrectID: row.Get(constants.FieldIncorrectID),
			ID:          row.ID(),
			Note:        row.Get(constants.FieldNote),
			Source:      fmt.Sprintf("%s:%d", frag.Name, row.Line),
		})
	}
}

func (c *compiler) rel(path string) string {
	if rel, err := filepath.Rel(c.root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}

func (c *compiler) warn(msg string) {
	c.logger.Warn().Msg(msg)
	c.result.Warnings = append(c.result.Warnings, msg)
}

func encode(rows []Correction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(constants.CorrectionsFields); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write([]string{r.IncorrectID, r.ID, r.Note}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
