package grid

import (
	"sort"
	"strings"
)

// Sort returns a new slice ordered by the first entry of the sort
// model. An empty model returns the input unchanged. The sort is
// stable: ties keep their original relative order, because row order
// carries meaning to the user.
//
// Null handling: a null (or missing) value sorts before any non-null
// value ascending, after it descending. Non-null values compare
// numerically when both sides are number-typed, lexicographically
// otherwise; descending inverts that comparison only.
func Sort(rows []Row, model []SortItem) []Row {
	if len(model) == 0 {
		return rows
	}
	// Single-column sort only; extra entries are ignored.
	item := model[0]
	if item.Field == "" || (item.Sort != SortAsc && item.Sort != SortDesc) {
		return rows
	}

	asc := item.Sort == SortAsc
	out := make([]Row, len(rows))
	copy(out, rows)

	sort.SliceStable(out, func(i, j int) bool {
		return compareRows(out[i][item.Field], out[j][item.Field], asc) < 0
	})
	return out
}

func compareRows(a, b any, asc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		if asc {
			return -1
		}
		return 1
	case b == nil:
		if asc {
			return 1
		}
		return -1
	}

	c := compareValues(a, b)
	if !asc {
		c = -c
	}
	return c
}

// compareValues compares two non-null cell values: numeric comparison
// when both are number-typed, string comparison otherwise. Strings are
// never coerced: "10" and "9" are text and compare lexicographically.
func compareValues(a, b any) int {
	fa, aOk := toFloat(a)
	fb, bOk := toFloat(b)
	if aOk && bOk {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(CellString(a), CellString(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
