// Package compiler runs the full compile pipeline for one country: read and
// merge fragments, resolve hierarchy and aliases, enforce integrity, then
// write the canonical file.
//
// Nothing is written unless every stage succeeds. All data problems found by
// the merge, resolve and check stages are reported together.
package compiler

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/biter777/countries"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/opencivicdata/ocdids/pkg/constants"
	"github.com/opencivicdata/ocdids/pkg/errors"
	"github.com/opencivicdata/ocdids/pkg/fragments"
	"github.com/opencivicdata/ocdids/pkg/integrity"
	"github.com/opencivicdata/ocdids/pkg/logging"
	"github.com/opencivicdata/ocdids/pkg/merger"
	"github.com/opencivicdata/ocdids/pkg/records"
	"github.com/opencivicdata/ocdids/pkg/report"
	"github.com/opencivicdata/ocdids/pkg/resolver"
)

var countryCode = regexp.MustCompile(`^[a-z]{2}$`)

// Compiler compiles countries from a repository on fs.
type Compiler struct {
	fs     afero.Fs
	opts   *options
	logger *zerolog.Logger
}

// Result describes a successful compile.
type Result struct {
	Country     string
	CountryName string // empty when the code is not an ISO 3166-1 country
	State       *records.State
	Stats       report.Summary
	Output      string // canonical file path
	Written     bool   // false in check mode
	Provenance  string // provenance file path, if written
	Warnings    []string
	Duration    time.Duration
}

// New creates a Compiler reading from and writing to fs.
func New(fs afero.Fs, opts ...Option) (*Compiler, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Compiler{fs: fs, opts: o, logger: logging.OrDefault(o.logger)}, nil
}

// OutputPath returns the canonical file path of country.
func (c *Compiler) OutputPath(country string) string {
	if c.opts.output != "" {
		return c.opts.output
	}
	return filepath.Join(c.opts.root, constants.IdentifiersDir, fmt.Sprintf(constants.CanonicalFileFormat, country))
}

// UniqueFields returns the configured unique fields of country, excluding id.
func (c *Compiler) UniqueFields(country string) []string {
	return c.opts.unique[country]
}

// Compile runs the pipeline for country. ctx is checked between stages.
func (c *Compiler) Compile(ctx context.Context, country string) (*Result, error) {
	start := time.Now()

	country = strings.ToLower(strings.TrimSpace(country))
	if !countryCode.MatchString(country) {
		return nil, errors.NewValidationError("country", country, "must be a two-letter country code")
	}

	logger := logging.Ctx(logging.WithCountry(logging.WithLogger(ctx, c.logger), country))
	result := &Result{Country: country, Output: c.OutputPath(country)}
	if cc := countries.ByName(strings.ToUpper(country)); cc != countries.Unknown {
		result.CountryName = cc.Info().Name
	} else {
		logger.Warn().Msg("Country code is not an ISO 3166-1 code")
	}

	state, err := c.run(ctx, logger, country)
	if err != nil {
		return nil, err
	}

	result.State = state
	result.Stats = report.Stats(state)
	result.Warnings = state.Warnings

	data, err := report.Bytes(state)
	if err != nil {
		return nil, errors.WrapIO("encode", result.Output, err)
	}

	if c.opts.check {
		if err := c.check(result.Output, data); err != nil {
			return nil, err
		}
		logger.Info().Str("file", result.Output).Msg("Canonical file is up to date")
	} else {
		logger.Info().Str("file", result.Output).Msg("Writing canonical file")
		if err := report.AtomicWrite(c.fs, result.Output, data); err != nil {
			return nil, err
		}
		result.Written = true
	}

	if c.opts.provenance != "" {
		if err := report.WriteProvenance(c.fs, c.opts.provenance, state); err != nil {
			return nil, err
		}
		result.Provenance = c.opts.provenance
	}

	result.Duration = time.Since(start)
	logger.Debug().Dur("duration", result.Duration).Int("records", state.Len()).Msg("Compile complete")
	return result, nil
}

// run executes the merge, resolve and check stages, joining their problems.
func (c *Compiler) run(ctx context.Context, logger *zerolog.Logger, country string) (*records.State, error) {
	ctx = logging.WithLogger(ctx, logger)

	mergeLogger := logging.Ctx(logging.WithStage(ctx, "merge"))
	m, err := merger.New(merger.WithLogger(mergeLogger))
	if err != nil {
		return nil, err
	}
	reader := fragments.NewReader(c.fs, c.opts.root, fragments.WithLogger(mergeLogger))

	var problems []error
	state, err := m.Run(ctx, reader, country)
	if err != nil {
		if !errors.IsIntegrityError(err) {
			return nil, err
		}
		problems = append(problems, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	problems = append(problems, resolver.New(logging.Ctx(logging.WithStage(ctx, "resolve"))).Resolve(state))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	unique := c.UniqueFields(country)
	logging.Ctx(logging.WithStage(ctx, "check")).Debug().Strs("unique", unique).Msg("Checking integrity")
	problems = append(problems, integrity.New(unique...).Check(state))

	if err := errors.Aggregate(country, problems...); err != nil {
		return nil, err
	}
	return state, nil
}

// check compares data with the existing canonical file at path.
func (c *Compiler) check(path string, data []byte) error {
	existing, err := afero.ReadFile(c.fs, path)
	if os.IsNotExist(err) {
		return &errors.OutOfDateError{Path: path, Diff: "canonical file does not exist"}
	}
	if err != nil {
		return errors.WrapIO("read", path, err)
	}
	if bytes.Equal(existing, data) {
		return nil
	}
	return &errors.OutOfDateError{Path: path, Diff: diff(existing, data)}
}

// diff renders the row-level difference between two canonical files.
func diff(committed, compiled []byte) string {
	want, errWant := csv.NewReader(bytes.NewReader(committed)).ReadAll()
	got, errGot := csv.NewReader(bytes.NewReader(compiled)).ReadAll()
	if errWant != nil || errGot != nil {
		return "committed file is not valid CSV"
	}
	if d := cmp.Diff(want, got); d != "" {
		return "(-committed +compiled):\n" + d
	}
	return "files differ only in formatting"
}
