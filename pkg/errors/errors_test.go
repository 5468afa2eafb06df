package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/opencivicdata/ocdids/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{Resource: "country", ID: "zz"}
		assert.Equal(t, "country zz not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		wrapped := fmt.Errorf("discover: %w", pkgerrors.NewNotFoundError("country", "zz"))
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestInvalidIdentifierError(t *testing.T) {
	err := &pkgerrors.InvalidIdentifierError{
		ID:     "ocd-division/country:US",
		Reason: "must be lowercase",
		File:   "identifiers/country-us/states.csv",
		Line:   4,
	}
	assert.Equal(t, `invalid id "ocd-division/country:US": must be lowercase in identifiers/country-us/states.csv:4`, err.Error())
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidIdentifier)
	assert.True(t, pkgerrors.IsValidationError(err))
}

func TestInvalidDateError(t *testing.T) {
	base := errors.New("month out of range")
	err := &pkgerrors.InvalidDateError{Field: "validThrough", Value: "2020-13", ID: "ocd-division/country:us", Err: base}
	assert.Equal(t, `invalid validThrough "2020-13" on ocd-division/country:us`, err.Error())
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidDate)
	assert.ErrorIs(t, err, base)
}

func TestMissingIDColumnError(t *testing.T) {
	t.Run("headerless", func(t *testing.T) {
		err := &pkgerrors.MissingIDColumnError{File: "a.csv"}
		assert.Equal(t, "no column headers detected in a.csv", err.Error())
	})

	t.Run("header without id", func(t *testing.T) {
		err := &pkgerrors.MissingIDColumnError{File: "a.csv", Columns: []string{"name", "sameAs"}}
		assert.Equal(t, "no id column in a.csv (columns: name, sameAs)", err.Error())
		assert.ErrorIs(t, err, pkgerrors.ErrMissingIDColumn)
	})
}

func TestFieldConflictError(t *testing.T) {
	err := &pkgerrors.FieldConflictError{
		ID:       "ocd-division/country:us/state:ma",
		Field:    "name",
		Current:  "Massachusetts",
		SetBy:    "a.csv",
		Incoming: "MASSACHUSETTS",
		File:     "c.csv",
		Sources:  []string{"a.csv", "b.csv"},
	}

	msg := err.Error()
	assert.Contains(t, msg, "mismatch for attribute name on ocd-division/country:us/state:ma")
	assert.Contains(t, msg, `"Massachusetts" (from a.csv)`)
	assert.Contains(t, msg, `got "MASSACHUSETTS" from c.csv`)
	assert.Contains(t, msg, "\n   a.csv\n   b.csv")
	assert.ErrorIs(t, err, pkgerrors.ErrFieldConflict)
}

func TestMissingParentError(t *testing.T) {
	err := &pkgerrors.MissingParentError{
		Parents: []string{"ocd-division/country:us/state:ma/county:x"},
		Children: map[string][]string{
			"ocd-division/country:us/state:ma/county:x": {"ocd-division/country:us/state:ma/county:x/place:y"},
		},
	}
	assert.Equal(t,
		"1 unknown parents\n   ocd-division/country:us/state:ma/county:x (needed by ocd-division/country:us/state:ma/county:x/place:y)",
		err.Error())
	assert.ErrorIs(t, err, pkgerrors.ErrMissingParent)
}

func TestBrokenAliasError(t *testing.T) {
	t.Run("missing target", func(t *testing.T) {
		err := &pkgerrors.BrokenAliasError{ID: "a", Target: "b"}
		assert.Equal(t, "sameAs points to nonexistent id: a -> b", err.Error())
	})

	t.Run("chain", func(t *testing.T) {
		err := &pkgerrors.BrokenAliasError{ID: "a", Target: "b", Next: "c"}
		assert.Equal(t, "sameAs chain: a -> b -> c", err.Error())
		assert.ErrorIs(t, err, pkgerrors.ErrBrokenAlias)
	})
}

func TestMissingRequiredFieldError(t *testing.T) {
	err := &pkgerrors.MissingRequiredFieldError{
		Field:   "name",
		Records: []pkgerrors.RecordRef{{ID: "x", Sources: []string{"a.csv", "b.csv"}}},
	}
	assert.Equal(t, "1 records missing required field \"name\"\n   x from a.csv, b.csv", err.Error())
	assert.ErrorIs(t, err, pkgerrors.ErrMissingRequiredField)
}

func TestDuplicateUniqueValueError(t *testing.T) {
	err := &pkgerrors.DuplicateUniqueValueError{
		Duplicates: []pkgerrors.Duplicate{{Field: "census_geoid", Value: "25", IDs: []string{"a", "b"}}},
	}
	assert.Equal(t, "1 duplicate values in unique fields\n   census_geoid=25 on a, b", err.Error())
	assert.ErrorIs(t, err, pkgerrors.ErrDuplicateUniqueValue)
}

func TestAggregate(t *testing.T) {
	t.Run("nothing to report", func(t *testing.T) {
		assert.NoError(t, pkgerrors.Aggregate("us", nil, nil))
	})

	t.Run("flattens nested aggregates", func(t *testing.T) {
		inner := pkgerrors.Aggregate("us", &pkgerrors.BrokenAliasError{ID: "a", Target: "b"})
		err := pkgerrors.Aggregate("us", inner, &pkgerrors.MissingParentError{Parents: []string{"p"}})
		require.Error(t, err)

		var agg *pkgerrors.IntegrityError
		require.ErrorAs(t, err, &agg)
		assert.Len(t, agg.Errs, 2)
		assert.True(t, pkgerrors.IsIntegrityError(err))
		assert.ErrorIs(t, err, pkgerrors.ErrBrokenAlias)
		assert.ErrorIs(t, err, pkgerrors.ErrMissingParent)
	})

	t.Run("message enumerates problems", func(t *testing.T) {
		err := pkgerrors.Aggregate("ca", &pkgerrors.BrokenAliasError{ID: "a", Target: "b"})
		assert.Equal(t, "compile of country-ca failed with 1 problem:\n[1] sameAs points to nonexistent id: a -> b", err.Error())
	})

	t.Run("errors.As reaches members", func(t *testing.T) {
		err := pkgerrors.Aggregate("us", &pkgerrors.FieldConflictError{ID: "x", Field: "name"})
		var conflict *pkgerrors.FieldConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "x", conflict.ID)
	})
}

func TestParseError(t *testing.T) {
	t.Run("with line", func(t *testing.T) {
		err := &pkgerrors.ParseError{Format: "csv", File: "a.csv", Line: 3, Column: 7, Message: "bare quote"}
		assert.Equal(t, "parse error in csv at a.csv:3:7: bare quote", err.Error())
	})

	t.Run("wrap", func(t *testing.T) {
		base := errors.New("boom")
		err := pkgerrors.WrapParse("csv", "a.csv", base)
		assert.ErrorIs(t, err, base)
		assert.Nil(t, pkgerrors.WrapParse("csv", "a.csv", nil))
	})
}

func TestIOError(t *testing.T) {
	base := errors.New("permission denied")
	err := pkgerrors.WrapIO("write", "/tmp/out.csv", base)
	assert.Equal(t, "IO error during write of /tmp/out.csv: permission denied", err.Error())
	assert.ErrorIs(t, err, base)
	assert.Nil(t, pkgerrors.WrapIO("write", "x", nil))
}

func TestConfigError(t *testing.T) {
	err := pkgerrors.NewConfigError("compile", "country code must be two letters", nil)
	assert.Equal(t, "configuration error in compile: country code must be two letters", err.Error())
}

func TestOutOfDateError(t *testing.T) {
	err := &pkgerrors.OutOfDateError{Path: "identifiers/country-us.csv"}
	assert.ErrorIs(t, err, pkgerrors.ErrOutOfDate)
	assert.Contains(t, err.Error(), "re-run compile")
}
