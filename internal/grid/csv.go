package grid

import "strings"

// DefaultExportName is the artifact name offered for CSV downloads.
const DefaultExportName = "data.csv"

// MarshalCSV renders a projection as CSV text: one header line of
// display labels, then one line per row in header order. Null cells
// become empty strings. A cell is quoted only when it contains a
// comma or a double quote; embedded quotes are escaped by doubling.
// Lines are joined with a single newline and there is no trailing
// newline. Note this quoting rule is narrower than encoding/csv's,
// which also quotes newlines and appends a final record separator.
func MarshalCSV(p Projection) string {
	lines := make([]string, 0, len(p.Rows)+1)

	labels := make([]string, len(p.Headers))
	for i, h := range p.Headers {
		labels[i] = escapeCell(h.Header)
	}
	lines = append(lines, strings.Join(labels, ","))

	for _, row := range p.Rows {
		cells := make([]string, len(p.Headers))
		for i, h := range p.Headers {
			cells[i] = escapeCell(CellString(row[h.Field]))
		}
		lines = append(lines, strings.Join(cells, ","))
	}

	return strings.Join(lines, "\n")
}

func escapeCell(s string) string {
	if !strings.ContainsAny(s, `,"`) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
