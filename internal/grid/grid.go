package grid

// ── Grid view state ─────────────────────────────────────────
// Pure data types shared between the frontend grid widget, the
// persistence layer, and the export pipeline. The JSON field names
// match the grid widget's own state objects so a state snapshot can
// round-trip through storage unchanged.

// Row is a single row of cell values keyed by column field.
// A field absent from the map is treated as null everywhere.
type Row map[string]any

// Column describes one column of a dataset.
// Header is the display label; an empty Header falls back to Field.
type Column struct {
	Field  string `json:"field"`
	Header string `json:"header,omitempty"`
}

// SortItem is one entry of the grid's sort model.
// Sort is "asc" or "desc"; anything else disables the entry.
type SortItem struct {
	Field string `json:"field"`
	Sort  string `json:"sort"`
}

// FilterItem is one constraint of the grid's filter model.
// Items combine with logical AND. Operators other than "contains"
// and "equals" never exclude rows.
type FilterItem struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// ViewState is the full per-dataset grid state triple: column
// visibility + order, filter model, and sort model. It is persisted
// as one unit after every grid change and replayed on startup.
type ViewState struct {
	ColumnVisibility map[string]bool `json:"columnVisibilityModel"`
	OrderedFields    []string        `json:"orderedFields"`
	SortModel        []SortItem      `json:"sortModel"`
	FilterModel      []FilterItem    `json:"filterModel"`
}

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Operators with defined filter semantics. Any other token passes
// rows through unfiltered.
const (
	OpContains = "contains"
	OpEquals   = "equals"
)
