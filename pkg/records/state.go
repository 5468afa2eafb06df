package records

import (
	"maps"
	"slices"

	"github.com/hashicorp/go-set/v2"

	"github.com/opencivicdata/ocdids/pkg/provenance"
)

// State is the mutable context of one compile run. The merger creates and
// fills it; the resolver, checker and writer receive it by pointer. It is
// never shared between runs.
type State struct {
	Country string

	// Records holds every merged record keyed by id.
	Records map[string]*Record

	// Sources attributes ids and fields to fragment files.
	Sources provenance.Tracker

	// FieldCounts counts records carrying a non-blank value per column.
	FieldCounts map[string]int

	// TypeCounts counts records per final-segment type.
	TypeCounts map[string]int

	// Fragments lists the fragment files read, in read order.
	Fragments []string

	// Warnings collects non-fatal notices such as legacy-format fragments.
	Warnings []string

	// rejected holds ids of rows that failed validation.
	rejected *set.Set[string]
}

// NewState creates an empty run state for country.
func NewState(country string) *State {
	return &State{
		Country:     country,
		Records:     make(map[string]*Record),
		Sources:     provenance.NewTracker(),
		FieldCounts: make(map[string]int),
		TypeCounts:  make(map[string]int),
		rejected:    set.New[string](0),
	}
}

// Len returns the number of merged records.
func (s *State) Len() int {
	return len(s.Records)
}

// Get returns the record for id, if any.
func (s *State) Get(id string) (*Record, bool) {
	rec, ok := s.Records[id]
	return rec, ok
}

// Has reports whether id is a known record.
func (s *State) Has(id string) bool {
	_, ok := s.Records[id]
	return ok
}

// IDs returns every record id in lexicographic order.
func (s *State) IDs() []string {
	return slices.Sorted(maps.Keys(s.Records))
}

// Sorted returns every record ordered by id.
func (s *State) Sorted() []*Record {
	ids := s.IDs()
	out := make([]*Record, len(ids))
	for i, id := range ids {
		out[i] = s.Records[id]
	}
	return out
}

// PresentFields returns every column with at least one non-blank value, sorted.
func (s *State) PresentFields() []string {
	var fields []string
	for f, n := range s.FieldCounts {
		if n > 0 {
			fields = append(fields, f)
		}
	}
	slices.Sort(fields)
	return fields
}

// Warn records a non-fatal notice.
func (s *State) Warn(msg string) {
	s.Warnings = append(s.Warnings, msg)
}

// Reject notes that a row for id failed validation and was skipped.
func (s *State) Reject(id string) {
	if s.rejected == nil {
		s.rejected = set.New[string](0)
	}
	s.rejected.Insert(id)
}

// Rejected reports whether a row for id failed validation.
func (s *State) Rejected(id string) bool {
	return s.rejected != nil && s.rejected.Contains(id)
}
