// Package integrity enforces required fields and per-country uniqueness over
// a resolved state.
package integrity

import (
	"maps"
	"slices"

	"github.com/hashicorp/go-set/v2"

	"github.com/opencivicdata/ocdids/pkg/constants"
	"github.com/opencivicdata/ocdids/pkg/errors"
	"github.com/opencivicdata/ocdids/pkg/records"
)

// Checker holds the fields to enforce. id is always unique and name is
// always required, whether or not they are listed.
type Checker struct {
	Required []string
	Unique   []string
}

// New creates a Checker enforcing the default required fields and id
// uniqueness plus the given unique fields.
func New(unique ...string) *Checker {
	return &Checker{
		Required: slices.Clone(constants.RequiredFields),
		Unique:   unique,
	}
}

// Check runs every check over state and returns all failures together as an
// *errors.IntegrityError.
func (c *Checker) Check(state *records.State) error {
	ids := state.IDs()

	var problems []error
	for _, field := range c.required() {
		if err := checkRequired(state, ids, field); err != nil {
			problems = append(problems, err)
		}
	}
	if err := checkUnique(state, ids, c.unique()); err != nil {
		problems = append(problems, err)
	}
	return errors.Aggregate(state.Country, problems...)
}

func (c *Checker) required() []string {
	fields := set.From(constants.RequiredFields)
	fields.InsertSlice(c.Required)
	out := fields.Slice()
	slices.Sort(out)
	return out
}

// unique lists id first, then the configured fields in order without repeats.
func (c *Checker) unique() []string {
	seen := set.From([]string{constants.FieldID})
	out := []string{constants.FieldID}
	for _, f := range c.Unique {
		if f != "" && seen.Insert(f) {
			out = append(out, f)
		}
	}
	return out
}

func checkRequired(state *records.State, ids []string, field string) error {
	var missing []errors.RecordRef
	for _, id := range ids {
		if state.Records[id].Has(field) {
			continue
		}
		missing = append(missing, errors.RecordRef{ID: id, Sources: state.Sources.Sources(id)})
	}
	if len(missing) == 0 {
		return nil
	}
	return &errors.MissingRequiredFieldError{Field: field, Records: missing}
}

func checkUnique(state *records.State, ids []string, fields []string) error {
	var dups []errors.Duplicate
	for _, field := range fields {
		holders := make(map[string][]string)
		for _, id := range ids {
			value := state.Records[id].Get(field)
			if value == "" {
				continue
			}
			holders[value] = append(holders[value], id)
		}
		for _, value := range slices.Sorted(maps.Keys(holders)) {
			if len(holders[value]) > 1 {
				dups = append(dups, errors.Duplicate{Field: field, Value: value, IDs: holders[value]})
			}
		}
	}
	if len(dups) == 0 {
		return nil
	}
	return &errors.DuplicateUniqueValueError{Duplicates: dups}
}
