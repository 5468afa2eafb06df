// Package report serializes a compiled state as the canonical CSV and
// summarizes it for the diagnostic stream.
package report

import (
	"bytes"
	"encoding/csv"
	"io"
	"slices"

	"github.com/opencivicdata/ocdids/pkg/constants"
	"github.com/opencivicdata/ocdids/pkg/records"
)

// Columns returns the output column order: the preferred columns that are
// present, in their fixed order, then every other present column sorted.
// A column is present when at least one record has a non-blank value for it.
func Columns(state *records.State) []string {
	present := state.PresentFields()

	columns := make([]string, 0, len(present))
	for _, c := range constants.PreferredColumns {
		if slices.Contains(present, c) {
			columns = append(columns, c)
		}
	}
	for _, c := range present {
		if !slices.Contains(constants.PreferredColumns, c) {
			columns = append(columns, c)
		}
	}
	return columns
}

// WriteCSV writes the header and one row per record, ordered by id.
func WriteCSV(w io.Writer, state *records.State) error {
	columns := Columns(state)

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, rec := range state.Sorted() {
		if err := cw.Write(rec.Values(columns)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Bytes returns the canonical CSV of state.
func Bytes(state *records.State) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
