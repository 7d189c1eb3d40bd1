package grid

import (
	"fmt"
	"strings"
)

// Filter returns the rows matching every item of the filter model,
// preserving input order. The input slice is never mutated.
func Filter(rows []Row, items []FilterItem) []Row {
	if len(items) == 0 {
		return rows
	}

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if matchesAll(row, items) {
			out = append(out, row)
		}
	}
	return out
}

func matchesAll(row Row, items []FilterItem) bool {
	for _, it := range items {
		if !matchItem(row, it) {
			return false
		}
	}
	return true
}

// matchItem evaluates a single filter item against a row.
// An item with no filter value, or with an operator we don't handle,
// is vacuously true and never removes a row.
func matchItem(row Row, it FilterItem) bool {
	filterVal := CellString(it.Value)
	if filterVal == "" {
		return true
	}

	cellVal := strings.ToLower(CellString(row[it.Field]))
	filterVal = strings.ToLower(filterVal)

	switch it.Operator {
	case OpContains:
		return strings.Contains(cellVal, filterVal)
	case OpEquals:
		return cellVal == filterVal
	default:
		return true
	}
}

// CellString coerces a cell value to its string representation.
// Null (and a missing field) stringifies to "".
func CellString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
