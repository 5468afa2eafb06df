// Package records defines the merged view of one identifier and the run
// state threaded through the compile pipeline.
package records

import (
	"maps"
	"slices"

	"github.com/opencivicdata/ocdids/pkg/constants"
)

// Record is the merged view of one identifier. Reserved columns have named
// fields; any other column lands in Extra. An empty string means "no value".
type Record struct {
	ID           string
	Name         string
	SameAs       string
	SameAsNote   string
	ValidFrom    string
	ValidThrough string
	Extra        map[string]string
}

// New returns an empty record for id.
func New(id string) *Record {
	return &Record{ID: id}
}

// Get returns the value of the named column.
func (r *Record) Get(field string) string {
	switch field {
	case constants.FieldID:
		return r.ID
	case constants.FieldName:
		return r.Name
	case constants.FieldSameAs:
		return r.SameAs
	case constants.FieldSameAsNote:
		return r.SameAsNote
	case constants.FieldValidFrom:
		return r.ValidFrom
	case constants.FieldValidThrough:
		return r.ValidThrough
	default:
		return r.Extra[field]
	}
}

// Set assigns the named column. Setting an extra column to "" removes it.
func (r *Record) Set(field, value string) {
	switch field {
	case constants.FieldID:
		r.ID = value
	case constants.FieldName:
		r.Name = value
	case constants.FieldSameAs:
		r.SameAs = value
	case constants.FieldSameAsNote:
		r.SameAsNote = value
	case constants.FieldValidFrom:
		r.ValidFrom = value
	case constants.FieldValidThrough:
		r.ValidThrough = value
	default:
		if value == "" {
			delete(r.Extra, field)
			return
		}
		if r.Extra == nil {
			r.Extra = make(map[string]string)
		}
		r.Extra[field] = value
	}
}

// Has reports whether the named column holds a non-blank value.
func (r *Record) Has(field string) bool {
	return r.Get(field) != ""
}

// Fields returns the names of every column holding a value, sorted.
func (r *Record) Fields() []string {
	var fields []string
	for _, f := range []string{
		constants.FieldID, constants.FieldName, constants.FieldSameAs,
		constants.FieldSameAsNote, constants.FieldValidFrom, constants.FieldValidThrough,
	} {
		if r.Has(f) {
			fields = append(fields, f)
		}
	}
	fields = append(fields, slices.Collect(maps.Keys(r.Extra))...)
	slices.Sort(fields)
	return fields
}

// Values returns the record's values in the given column order.
func (r *Record) Values(columns []string) []string {
	row := make([]string, len(columns))
	for i, c := range columns {
		row[i] = r.Get(c)
	}
	return row
}
