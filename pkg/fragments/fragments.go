// Package fragments locates and reads the CSV fragment files that make up a
// country's identifier data.
//
// A fragment is either a "current" file whose first row is a header
// containing an id column, or a deprecated "legacy" file with exactly two
// unheaded columns, id and name. Legacy files are accepted with a warning.
package fragments

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/opencivicdata/ocdids/pkg/constants"
	pkgerrors "github.com/opencivicdata/ocdids/pkg/errors"
)

// legacyMarker identifies a headerless file: its first cell is already an id.
const legacyMarker = "ocd-division/country"

const utf8BOM = "\ufeff"

// Row is one data row of a fragment.
type Row struct {
	// Line is the 1-based line number the row starts on.
	Line int

	// Fields names each value, shared by every row of the fragment.
	Fields []string

	// Values holds the cells in Fields order.
	Values []string
}

// Get returns the value of the named column, or "" if the fragment has no
// such column or the row ends before it. Absent and blank are the same.
func (r Row) Get(field string) string {
	if i := slices.Index(r.Fields, field); i >= 0 && i < len(r.Values) {
		return r.Values[i]
	}
	return ""
}

// ID returns the row's id cell.
func (r Row) ID() string {
	return r.Get(constants.FieldID)
}

// Fragment is an open fragment file. Rows are produced lazily by Next.
type Fragment struct {
	// Name is the path relative to the repository root, used in messages.
	Name string

	// Fields are the column names, from the header or the legacy layout.
	Fields []string

	// Legacy is true for headerless two-column files.
	Legacy bool

	file    afero.File
	reader  *csv.Reader
	pending []string
	pendLn  int
}

// Next returns the next row, or io.EOF when the fragment is exhausted.
// Malformed CSV is reported as a *errors.ParseError naming the file and line.
func (f *Fragment) Next() (Row, error) {
	if f.pending != nil {
		row := Row{Line: f.pendLn, Fields: f.Fields, Values: f.pending}
		f.pending = nil
		return row, nil
	}
	if f.reader == nil {
		return Row{}, io.EOF
	}

	values, err := f.reader.Read()
	if errors.Is(err, io.EOF) {
		return Row{}, io.EOF
	}
	if err != nil {
		return Row{}, parseError(f.Name, err)
	}

	line, _ := f.reader.FieldPos(0)
	return Row{Line: line, Fields: f.Fields, Values: values}, nil
}

// Close releases the underlying file.
func (f *Fragment) Close() error {
	if f.file == nil {
		return nil
	}
	return f.file.Close()
}

// open peeks at the first row of file to decide between header and legacy
// layouts. name is used in messages.
func open(file afero.File, name string, logger *zerolog.Logger) (*Fragment, error) {
	reader := csv.NewReader(bufio.NewReader(file))
	reader.LazyQuotes = true

	frag := &Fragment{Name: name, file: file, reader: reader}

	first, err := reader.Read()
	if errors.Is(err, io.EOF) {
		logger.Warn().Str("file", name).Msg("Empty fragment")
		frag.reader = nil
		return frag, nil
	}
	if err != nil {
		return nil, parseError(name, err)
	}
	first[0] = strings.TrimPrefix(first[0], utf8BOM)

	if strings.Contains(first[0], legacyMarker) {
		if len(first) != len(constants.LegacyFields) {
			return nil, &pkgerrors.MissingIDColumnError{File: name}
		}
		logger.Warn().
			Str("file", name).
			Msg("Proceeding in legacy mode, please add column headers to file")
		frag.Legacy = true
		frag.Fields = slices.Clone(constants.LegacyFields)
		frag.pending = first
		frag.pendLn, _ = reader.FieldPos(0)
		return frag, nil
	}

	if !slices.Contains(first, constants.FieldID) {
		return nil, &pkgerrors.MissingIDColumnError{File: name, Columns: first}
	}
	if dup := duplicateColumn(first); dup != "" {
		return nil, &pkgerrors.ParseError{
			Format:  "csv",
			File:    name,
			Line:    1,
			Message: fmt.Sprintf("duplicate column %q", dup),
		}
	}
	// Rows may be shorter or longer than the header; missing cells are blank
	// and extra cells are ignored. Legacy files keep the two-cell width the
	// first read fixed.
	reader.FieldsPerRecord = -1
	frag.Fields = first
	return frag, nil
}

func duplicateColumn(header []string) string {
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		if seen[h] {
			return h
		}
		seen[h] = true
	}
	return ""
}

func parseError(name string, err error) error {
	var csvErr *csv.ParseError
	if !errors.As(err, &csvErr) {
		return pkgerrors.WrapParse("csv", name, err)
	}
	return &pkgerrors.ParseError{
		Format:  "csv",
		File:    name,
		Line:    csvErr.Line,
		Column:  csvErr.Column,
		Message: csvErr.Err.Error(),
		Err:     err,
	}
}
