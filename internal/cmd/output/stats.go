package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/opencivicdata/ocdids/pkg/report"
)

// StatsTables renders a compile summary as a types table and a fields table.
func StatsTables(s report.Summary) []Data {
	types := Data{
		Headers:         []string{"type", "count"},
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
	for _, t := range s.Types {
		types.Rows = append(types.Rows, []string{t.Type, strconv.Itoa(t.Count)})
	}

	fields := Data{
		Headers:         []string{"field", "count", "percent"},
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight},
	}
	for _, f := range s.Fields {
		fields.Rows = append(fields.Rows, []string{f.Field, strconv.Itoa(f.Count), fmt.Sprintf("%.0f%%", f.Percent)})
	}

	return []Data{types, fields}
}

// FormatStats writes a compile summary to w in the given format.
func FormatStats(w io.Writer, format Format, s report.Summary) error {
	formatter := NewFormatter(format)

	var data any = s
	if format == FormatTable || format == "" {
		data = StatsTables(s)
	}
	return formatter.Format(w, data)
}
