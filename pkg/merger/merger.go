// Package merger folds fragment rows into the per-id records of a compile run.
//
// The first non-blank value seen for a field wins. A later fragment supplying
// a different non-blank value is a conflict; an equal value or a blank is not.
// Rows failing validation are skipped and reported together with conflicts
// once every fragment has been read.
package merger

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/rs/zerolog"

	"github.com/opencivicdata/ocdids/pkg/constants"
	"github.com/opencivicdata/ocdids/pkg/errors"
	"github.com/opencivicdata/ocdids/pkg/fragments"
	"github.com/opencivicdata/ocdids/pkg/logging"
	"github.com/opencivicdata/ocdids/pkg/ocdid"
	"github.com/opencivicdata/ocdids/pkg/provenance"
	"github.com/opencivicdata/ocdids/pkg/records"
)

// Merger merges fragments into a records.State.
type Merger struct {
	validators map[string]Validator
	fields     []string // validator keys, sorted
	logger     *zerolog.Logger
}

// New creates a Merger.
func New(opts ...Option) (*Merger, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Merger{
		validators: o.validators,
		fields:     slices.Sorted(maps.Keys(o.validators)),
		logger:     logging.OrDefault(o.logger),
	}, nil
}

// Run reads every fragment of country from reader into a fresh state.
//
// A malformed fragment aborts the run and is returned as is. Otherwise the
// state is always returned, together with an *errors.IntegrityError when any
// row was rejected or conflicted.
func (m *Merger) Run(ctx context.Context, reader *fragments.Reader, country string) (*records.State, error) {
	state := records.NewState(country)
	ctx = logging.WithLogger(ctx, m.logger)

	var problems []error
	err := reader.Each(ctx, country, func(frag *fragments.Fragment) error {
		found, err := m.merge(logging.WithFragment(ctx, frag.Name), state, frag)
		problems = append(problems, found...)
		return err
	})
	if err != nil {
		return nil, err
	}

	m.logger.Debug().
		Str("country", country).
		Int("fragments", len(state.Fragments)).
		Int("records", state.Len()).
		Int("problems", len(problems)).
		Msg("Merged fragments")

	return state, errors.Aggregate(country, problems...)
}

// Merge reads all rows of frag into state. Row-level problems are returned as
// an *errors.IntegrityError after the whole fragment has been read.
func (m *Merger) Merge(state *records.State, frag *fragments.Fragment) error {
	ctx := logging.WithFragment(logging.WithLogger(context.Background(), m.logger), frag.Name)
	problems, err := m.merge(ctx, state, frag)
	if err != nil {
		return err
	}
	return errors.Aggregate(state.Country, problems...)
}

// merge reads frag into state. ctx carries the fragment's logger.
func (m *Merger) merge(ctx context.Context, state *records.State, frag *fragments.Fragment) ([]error, error) {
	logger := logging.Ctx(ctx)
	state.Fragments = append(state.Fragments, frag.Name)
	if frag.Legacy {
		state.Warn(fmt.Sprintf("%s: proceeding in legacy mode, please add column headers to file", frag.Name))
	}

	var problems []error
	rows := 0
	for {
		row, err := frag.Next()
		if stderrors.Is(err, io.EOF) {
			logger.Debug().Int("rows", rows).Int("problems", len(problems)).Msg("Merged fragment")
			return problems, nil
		}
		if err != nil {
			return problems, err
		}
		rows++

		if rowErrs := m.validate(frag.Name, row); len(rowErrs) > 0 {
			problems = append(problems, rowErrs...)
			if id := row.ID(); id != "" {
				state.Reject(id)
			}
			continue
		}
		problems = append(problems, m.apply(state, frag.Name, row)...)
	}
}

// validate runs every registered validator against row.
func (m *Merger) validate(file string, row fragments.Row) []error {
	id := row.ID()
	if id == "" {
		return []error{&errors.InvalidIdentifierError{Reason: "missing id", File: file, Line: row.Line}}
	}

	var errs []error
	for _, field := range m.fields {
		value := row.Get(field)
		if value == "" && field != constants.FieldID {
			continue
		}
		if err := m.validators[field](value); err != nil {
			errs = append(errs, locate(err, field, id, file, row.Line))
		}
	}
	return errs
}

// apply folds a validated row into its record.
func (m *Merger) apply(state *records.State, file string, row fragments.Row) []error {
	id := row.ID()

	rec, exists := state.Get(id)
	if !exists {
		rec = records.New(id)
		state.Records[id] = rec
		state.TypeCounts[ocdid.Type(id)]++
		state.FieldCounts[constants.FieldID]++
	}
	prior := state.Sources.Sources(id)
	state.Sources.Touch(id, file)

	var conflicts []error
	for _, field := range row.Fields {
		value := row.Get(field)
		if field == constants.FieldID || value == "" {
			continue
		}

		current := rec.Get(field)
		switch current {
		case "":
			rec.Set(field, value)
			state.FieldCounts[field]++
			state.Sources.Track(id, field, provenance.Provenance{Source: file, Line: row.Line, Value: value})
		case value:
		default:
			conflict := &errors.FieldConflictError{
				ID:       id,
				Field:    field,
				Current:  current,
				Incoming: value,
				File:     file,
				Sources:  prior,
			}
			if p, ok := state.Sources.FindByField(id, field); ok {
				conflict.SetBy = p.Source
			}
			conflicts = append(conflicts, conflict)
		}
	}
	return conflicts
}

// locate attaches the row position to a validator error.
func locate(err error, field, id, file string, line int) error {
	var idErr *errors.InvalidIdentifierError
	if stderrors.As(err, &idErr) {
		located := *idErr
		located.File, located.Line = file, line
		return &located
	}
	var dateErr *errors.InvalidDateError
	if stderrors.As(err, &dateErr) {
		located := *dateErr
		located.Field, located.ID, located.File, located.Line = field, id, file, line
		return &located
	}
	return fmt.Errorf("%s:%d: %s on %s: %w", file, line, field, id, err)
}
