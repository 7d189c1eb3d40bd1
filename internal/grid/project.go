package grid

// ── Export projection ──────────────────────────────────────
// Project derives the exact (headers, rows) pair a user currently
// sees, independent of the widget's rendering path, so an exporter
// can replay visibility, filtering, and sorting without DOM access.

// Header is one column of an export projection.
type Header struct {
	Header string `json:"header"`
	Field  string `json:"field"`
}

// Projection is the transient result of projecting a dataset through
// a view state. It is recomputed on every export call.
type Projection struct {
	Headers []Header `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// Project applies a view state to the full column registry and row
// set. Absent state pieces degrade to "no constraint": no order means
// registry order, no filter keeps all rows, and a sort on a hidden
// column is skipped because the user doesn't perceive it.
func Project(allColumns []Column, state ViewState, rows []Row) Projection {
	byField := make(map[string]Column, len(allColumns))
	for _, col := range allColumns {
		byField[col.Field] = col
	}

	orderedFields := state.OrderedFields
	if len(orderedFields) == 0 {
		orderedFields = make([]string, len(allColumns))
		for i, col := range allColumns {
			orderedFields[i] = col.Field
		}
	}

	// Visible fields in display order: only an explicit false hides.
	visible := make([]Column, 0, len(orderedFields))
	for _, field := range orderedFields {
		if vis, ok := state.ColumnVisibility[field]; ok && !vis {
			continue
		}
		col, ok := byField[field]
		if !ok {
			// Stale field with no descriptor, drop it.
			continue
		}
		visible = append(visible, col)
	}

	if len(state.FilterModel) > 0 {
		rows = Filter(rows, state.FilterModel)
	}

	if len(state.SortModel) > 0 && visibleField(visible, state.SortModel[0].Field) {
		rows = Sort(rows, state.SortModel)
	}

	headers := make([]Header, len(visible))
	for i, col := range visible {
		label := col.Header
		if label == "" {
			label = col.Field
		}
		headers[i] = Header{Header: label, Field: col.Field}
	}

	if rows == nil {
		rows = []Row{}
	}
	return Projection{Headers: headers, Rows: rows}
}

func visibleField(cols []Column, field string) bool {
	for _, c := range cols {
		if c.Field == field {
			return true
		}
	}
	return false
}
