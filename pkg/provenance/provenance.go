// Package provenance attributes merged identifiers and their field values to
// the fragment files that supplied them.
package provenance

import (
	"maps"
	"slices"
)

// Provenance records where a field value came from.
type Provenance struct {
	Source string `yaml:"source" json:"source"` // fragment file path
	Line   int    `yaml:"line,omitempty" json:"line,omitempty"`
	Value  string `yaml:"value" json:"value"`
}

// Map holds field provenance keyed by id, then field name.
type Map map[string]map[string]Provenance

// Tracker records source attribution during a merge.
type Tracker interface {
	// Touch appends source to the ordered list of files that mentioned id.
	Touch(id, source string)

	// Track records who first supplied field of id. Later calls for the
	// same id and field are ignored: the first value is the kept value.
	Track(id, field string, p Provenance)

	// Sources returns the files that mentioned id, in read order.
	Sources(id string) []string

	// FindByField returns the provenance of one field.
	FindByField(id, field string) (Provenance, bool)

	// FindByResource returns the provenance of every field of id.
	FindByResource(id string) map[string]Provenance

	// Map returns a copy of the complete field provenance.
	Map() Map
}

// tracker is the default implementation.
type tracker struct {
	sources map[string][]string
	fields  Map
}

// NewTracker creates an empty tracker.
func NewTracker() Tracker {
	return &tracker{
		sources: make(map[string][]string),
		fields:  make(Map),
	}
}

// Touch appends source unless it is already the most recent entry, so a file
// listing the same id on several rows is named once per run of rows.
func (t *tracker) Touch(id, source string) {
	list := t.sources[id]
	if n := len(list); n > 0 && list[n-1] == source {
		return
	}
	t.sources[id] = append(list, source)
}

func (t *tracker) Track(id, field string, p Provenance) {
	fields, ok := t.fields[id]
	if !ok {
		fields = make(map[string]Provenance)
		t.fields[id] = fields
	}
	if _, seen := fields[field]; seen {
		return
	}
	fields[field] = p
}

func (t *tracker) Sources(id string) []string {
	return slices.Clone(t.sources[id])
}

func (t *tracker) FindByField(id, field string) (Provenance, bool) {
	p, ok := t.fields[id][field]
	return p, ok
}

func (t *tracker) FindByResource(id string) map[string]Provenance {
	return maps.Clone(t.fields[id])
}

func (t *tracker) Map() Map {
	out := make(Map, len(t.fields))
	for id, fields := range t.fields {
		out[id] = maps.Clone(fields)
	}
	return out
}
