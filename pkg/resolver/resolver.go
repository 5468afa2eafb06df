// Package resolver checks the cross-record structure of a merged state:
// every identifier's parent must exist, and sameAs aliases must point at an
// existing record that is not itself an alias.
package resolver

import (
	"slices"

	"github.com/hashicorp/go-set/v2"
	"github.com/rs/zerolog"

	"github.com/opencivicdata/ocdids/pkg/constants"
	"github.com/opencivicdata/ocdids/pkg/errors"
	"github.com/opencivicdata/ocdids/pkg/logging"
	"github.com/opencivicdata/ocdids/pkg/ocdid"
	"github.com/opencivicdata/ocdids/pkg/provenance"
	"github.com/opencivicdata/ocdids/pkg/records"
)

// Resolver validates hierarchy and aliases.
type Resolver struct {
	logger *zerolog.Logger
}

// New creates a Resolver. A nil logger selects the default.
func New(logger *zerolog.Logger) *Resolver {
	return &Resolver{logger: logging.OrDefault(logger)}
}

// Resolve runs the parent and alias checks over state. The bare country
// identifier is an implicit parent and need not be a record. Aliases lacking a name
// inherit their target's name. Every problem found is returned together as an
// *errors.IntegrityError.
func (r *Resolver) Resolve(state *records.State) error {
	ids := state.IDs()

	var problems []error
	if err := r.parents(state, ids); err != nil {
		problems = append(problems, err)
	}
	problems = append(problems, r.aliases(state, ids)...)

	return errors.Aggregate(state.Country, problems...)
}

// Resolve runs a default Resolver over state.
func Resolve(state *records.State) error {
	return New(nil).Resolve(state)
}

func (r *Resolver) parents(state *records.State, ids []string) error {
	missing := set.New[string](0)
	children := make(map[string][]string)

	for _, id := range ids {
		parent := ocdid.Parent(id)
		if parent == "" || parent == ocdid.Root || ocdid.IsCountryRoot(parent) || state.Has(parent) {
			continue
		}
		// A rejected parent row is already reported by the merger.
		if state.Rejected(parent) {
			continue
		}
		missing.Insert(parent)
		children[parent] = append(children[parent], id)
	}

	if missing.Empty() {
		return nil
	}

	parents := missing.Slice()
	slices.Sort(parents)
	r.logger.Debug().Int("count", len(parents)).Msg("Unknown parents")
	return &errors.MissingParentError{Parents: parents, Children: children}
}

func (r *Resolver) aliases(state *records.State, ids []string) []error {
	var problems []error
	for _, id := range ids {
		rec := state.Records[id]
		if rec.SameAs == "" {
			continue
		}

		target, ok := state.Get(rec.SameAs)
		if !ok {
			problems = append(problems, &errors.BrokenAliasError{ID: id, Target: rec.SameAs})
			continue
		}
		if target.SameAs != "" {
			problems = append(problems, &errors.BrokenAliasError{ID: id, Target: rec.SameAs, Next: target.SameAs})
			continue
		}

		if rec.Name == "" && target.Name != "" {
			rec.Name = target.Name
			state.FieldCounts[constants.FieldName]++
			src, _ := state.Sources.FindByField(target.ID, constants.FieldName)
			state.Sources.Track(id, constants.FieldName, provenance.Provenance{
				Source: src.Source,
				Line:   src.Line,
				Value:  target.Name,
			})
			r.logger.Debug().Str("id", id).Str("target", target.ID).Msg("Inherited name from alias target")
		}
	}
	return problems
}
