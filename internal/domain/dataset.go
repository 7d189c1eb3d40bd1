package domain

import (
	"encoding/json"
	"time"
)

// Dataset is a named tabular dataset displayed in the frontend grid.
// Column definitions live in ColumnsJSON; row data lives in DatasetRow.
// Source fields describe where the data was imported from (empty for
// hand-entered datasets) and drive the auto-refresh machinery.
type Dataset struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	SourceType       string    `json:"sourceType"`       // registered source type, "" for hand-entered
	SourceConfigJSON string    `json:"sourceConfigJson"` // source-specific options
	RefreshCron      string    `json:"refreshCron"`      // cron expression, empty = no schedule
	WatchPath        string    `json:"watchPath"`        // file to watch, empty = no watch
	AutoRefresh      bool      `json:"autoRefresh"`
	ColumnsJSON      string    `json:"columnsJson"` // JSON array of ColumnSpec
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ColumnSpec is one entry in a dataset's column configuration.
// Hidden marks columns that start out invisible in a fresh view state.
type ColumnSpec struct {
	Field  string `json:"field"`
	Header string `json:"header,omitempty"`
	Type   string `json:"type,omitempty"` // "text" | "number" | "boolean" | "datetime"
	Hidden bool   `json:"hidden,omitempty"`
}

// Columns decodes ColumnsJSON. A malformed config yields an empty slice.
func (d *Dataset) Columns() []ColumnSpec {
	var cols []ColumnSpec
	if err := json.Unmarshal([]byte(d.ColumnsJSON), &cols); err != nil {
		return nil
	}
	return cols
}

// DatasetRow is a single stored row. Cell values are keyed by column field
// in DataJSON; a field absent from the JSON reads as null.
type DatasetRow struct {
	ID        string    `json:"id"`
	DatasetID string    `json:"datasetId"`
	DataJSON  string    `json:"dataJson"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DatasetStore manages datasets and their rows.
type DatasetStore interface {
	CreateDataset(d *Dataset) error
	GetDataset(id string) (*Dataset, error)
	ListDatasets() ([]Dataset, error)
	UpdateDataset(d *Dataset) error
	DeleteDataset(id string) error

	CreateRow(r *DatasetRow) error
	GetRow(id string) (*DatasetRow, error)
	ListRows(datasetID string) ([]DatasetRow, error)
	UpdateRow(r *DatasetRow) error
	DeleteRow(id string) error
	DeleteRowsByDataset(datasetID string) error
	ReorderRows(datasetID string, rowIDs []string) error
}

// ViewStateStore is the durable key-value slot for grid view state.
// One JSON blob per dataset, overwritten wholesale on every change.
type ViewStateStore interface {
	// GetViewState returns the stored JSON, or ok=false when no slot exists.
	GetViewState(datasetID string) (stateJSON string, ok bool, err error)
	// SetViewState overwrites the slot for the dataset.
	SetViewState(datasetID, stateJSON string) error
	DeleteViewState(datasetID string) error
}
