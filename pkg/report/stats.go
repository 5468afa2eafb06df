package report

import (
	"cmp"
	"slices"

	"github.com/opencivicdata/ocdids/pkg/constants"
	"github.com/opencivicdata/ocdids/pkg/records"
)

// TypeCount is the number of records of one division type.
type TypeCount struct {
	Type  string `json:"type" yaml:"type"`
	Count int    `json:"count" yaml:"count"`
}

// FieldCount is the number of records carrying a value for one column.
type FieldCount struct {
	Field   string  `json:"field" yaml:"field"`
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Summary describes a compiled state.
type Summary struct {
	Country string       `json:"country" yaml:"country"`
	Records int          `json:"records" yaml:"records"`
	Types   []TypeCount  `json:"types" yaml:"types"`
	Fields  []FieldCount `json:"fields" yaml:"fields"`
}

// Stats summarizes state. Types and fields are ordered by descending count,
// ties broken by name.
func Stats(state *records.State) Summary {
	s := Summary{Country: state.Country, Records: state.Len()}

	for typ, n := range state.TypeCounts {
		s.Types = append(s.Types, TypeCount{Type: typ, Count: n})
	}
	slices.SortFunc(s.Types, func(a, b TypeCount) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Type, b.Type))
	})

	total := state.FieldCounts[constants.FieldID]
	for field, n := range state.FieldCounts {
		if n == 0 {
			continue
		}
		fc := FieldCount{Field: field, Count: n}
		if total > 0 {
			fc.Percent = 100 * float64(n) / float64(total)
		}
		s.Fields = append(s.Fields, fc)
	}
	slices.SortFunc(s.Fields, func(a, b FieldCount) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Field, b.Field))
	})

	return s
}
