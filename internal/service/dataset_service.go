package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gridbook/internal/domain"
	"gridbook/internal/grid"
	"gridbook/internal/source"
)

// ─────────────────────────────────────────────────────────────
// Dataset Service — business logic for datasets and their rows
// ─────────────────────────────────────────────────────────────

// DatasetService manages dataset and row CRUD plus source imports.
type DatasetService struct {
	store   domain.DatasetStore
	emitter EventEmitter
}

// NewDatasetService creates a DatasetService.
func NewDatasetService(store domain.DatasetStore, emitter EventEmitter) *DatasetService {
	return &DatasetService{store: store, emitter: emitter}
}

// DatasetStats holds summary statistics for a dataset.
type DatasetStats struct {
	RowCount    int       `json:"rowCount"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// StatsProvider is implemented by stores that can compute row stats.
type StatsProvider interface {
	GetDatasetStats(datasetID string) (int, time.Time, error)
}

// ── Dataset CRUD ───────────────────────────────────────────

func (s *DatasetService) CreateDataset(name string, cols []domain.ColumnSpec) (*domain.Dataset, error) {
	colsJSON, err := json.Marshal(cols)
	if err != nil {
		return nil, fmt.Errorf("marshal columns: %w", err)
	}
	d := &domain.Dataset{
		ID:               uuid.New().String(),
		Name:             name,
		SourceConfigJSON: "{}",
		ColumnsJSON:      string(colsJSON),
	}
	if err := s.store.CreateDataset(d); err != nil {
		return nil, fmt.Errorf("create dataset: %w", err)
	}
	return d, nil
}

func (s *DatasetService) GetDataset(id string) (*domain.Dataset, error) {
	return s.store.GetDataset(id)
}

func (s *DatasetService) ListDatasets() ([]domain.Dataset, error) {
	return s.store.ListDatasets()
}

func (s *DatasetService) RenameDataset(id, name string) error {
	d, err := s.store.GetDataset(id)
	if err != nil {
		return err
	}
	d.Name = name
	return s.store.UpdateDataset(d)
}

func (s *DatasetService) UpdateColumns(id string, cols []domain.ColumnSpec) error {
	d, err := s.store.GetDataset(id)
	if err != nil {
		return err
	}
	colsJSON, err := json.Marshal(cols)
	if err != nil {
		return fmt.Errorf("marshal columns: %w", err)
	}
	d.ColumnsJSON = string(colsJSON)
	return s.store.UpdateDataset(d)
}

// ConfigureSource attaches an import source and refresh settings to a dataset.
func (s *DatasetService) ConfigureSource(id, sourceType, configJSON, refreshCron, watchPath string, autoRefresh bool) error {
	if sourceType != "" {
		if _, err := source.Get(sourceType); err != nil {
			return err
		}
	}
	d, err := s.store.GetDataset(id)
	if err != nil {
		return err
	}
	d.SourceType = sourceType
	d.SourceConfigJSON = configJSON
	d.RefreshCron = refreshCron
	d.WatchPath = watchPath
	d.AutoRefresh = autoRefresh
	return s.store.UpdateDataset(d)
}

func (s *DatasetService) DeleteDataset(id string) error {
	return s.store.DeleteDataset(id)
}

func (s *DatasetService) GetDatasetStats(id string) (*DatasetStats, error) {
	sp, ok := s.store.(StatsProvider)
	if !ok {
		return nil, fmt.Errorf("store does not provide stats")
	}
	count, lastUpdated, err := sp.GetDatasetStats(id)
	if err != nil {
		return nil, err
	}
	return &DatasetStats{RowCount: count, LastUpdated: lastUpdated}, nil
}

// ── Row CRUD ───────────────────────────────────────────────

func (s *DatasetService) CreateRow(datasetID, dataJSON string) (*domain.DatasetRow, error) {
	row := &domain.DatasetRow{
		ID:        uuid.New().String(),
		DatasetID: datasetID,
		DataJSON:  dataJSON,
	}
	if err := s.store.CreateRow(row); err != nil {
		return nil, fmt.Errorf("create row: %w", err)
	}
	return row, nil
}

func (s *DatasetService) ListRows(datasetID string) ([]domain.DatasetRow, error) {
	return s.store.ListRows(datasetID)
}

func (s *DatasetService) UpdateRow(rowID, dataJSON string) error {
	row, err := s.store.GetRow(rowID)
	if err != nil {
		return err
	}
	row.DataJSON = dataJSON
	return s.store.UpdateRow(row)
}

func (s *DatasetService) DeleteRow(rowID string) error {
	return s.store.DeleteRow(rowID)
}

func (s *DatasetService) DuplicateRow(rowID string) (*domain.DatasetRow, error) {
	original, err := s.store.GetRow(rowID)
	if err != nil {
		return nil, err
	}
	dup := &domain.DatasetRow{
		ID:        uuid.New().String(),
		DatasetID: original.DatasetID,
		DataJSON:  original.DataJSON,
		SortOrder: original.SortOrder + 1,
	}
	if err := s.store.CreateRow(dup); err != nil {
		return nil, fmt.Errorf("duplicate row: %w", err)
	}
	return dup, nil
}

func (s *DatasetService) ReorderRows(datasetID string, rowIDs []string) error {
	return s.store.ReorderRows(datasetID, rowIDs)
}

// ── Grid adapters ──────────────────────────────────────────

// GridColumns converts the dataset's column config to grid columns.
func GridColumns(cols []domain.ColumnSpec) []grid.Column {
	out := make([]grid.Column, len(cols))
	for i, c := range cols {
		out[i] = grid.Column{Field: c.Field, Header: c.Header}
	}
	return out
}

// GridRows decodes stored rows into grid rows. A row with corrupt JSON
// decodes to an empty row rather than failing the whole dataset.
func GridRows(rows []domain.DatasetRow) []grid.Row {
	out := make([]grid.Row, len(rows))
	for i, r := range rows {
		var data grid.Row
		if err := json.Unmarshal([]byte(r.DataJSON), &data); err != nil {
			data = grid.Row{}
		}
		out[i] = data
	}
	return out
}

// ── Import ─────────────────────────────────────────────────

// ImportMode determines how imported records are written.
type ImportMode string

const (
	ImportReplace ImportMode = "replace" // delete all existing rows, insert fresh
	ImportAppend  ImportMode = "append"  // add rows without deleting existing
)

// ImportResult is the outcome of an import run.
type ImportResult struct {
	DatasetID   string        `json:"datasetId"`
	RowsRead    int           `json:"rowsRead"`
	RowsWritten int           `json:"rowsWritten"`
	Duration    time.Duration `json:"duration"`
}

// ImportFromSource pulls records from a registered source into a dataset.
// Replace mode resets the column config to exactly the discovered schema;
// append mode only adds columns that are missing.
func (s *DatasetService) ImportFromSource(ctx context.Context, datasetID, sourceType string, cfg source.Config, mode ImportMode) (*ImportResult, error) {
	start := time.Now()

	src, err := source.Get(sourceType)
	if err != nil {
		return nil, err
	}
	d, err := s.store.GetDataset(datasetID)
	if err != nil {
		return nil, err
	}
	if mode == "" {
		mode = ImportReplace
	}

	schema, err := src.Discover(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}

	recCh, errCh := src.Read(ctx, cfg)
	var records []source.Record
	for rec := range recCh {
		records = append(records, rec)
	}
	if err := <-errCh; err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	result := &ImportResult{DatasetID: datasetID, RowsRead: len(records)}

	if mode == ImportReplace {
		if err := s.store.DeleteRowsByDataset(datasetID); err != nil {
			return nil, fmt.Errorf("clear dataset: %w", err)
		}
		if err := s.resetColumns(d, schema); err != nil {
			return nil, fmt.Errorf("reset columns: %w", err)
		}
	} else {
		if err := s.ensureColumns(d, schema); err != nil {
			return nil, fmt.Errorf("ensure columns: %w", err)
		}
	}

	for i, rec := range records {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		dataJSON, _ := json.Marshal(rec.Data)
		row := &domain.DatasetRow{
			ID:        uuid.New().String(),
			DatasetID: datasetID,
			DataJSON:  string(dataJSON),
			SortOrder: i + 1,
		}
		if err := s.store.CreateRow(row); err != nil {
			return result, fmt.Errorf("create row %d: %w", i, err)
		}
		result.RowsWritten++
	}

	result.Duration = time.Since(start)
	if s.emitter != nil {
		s.emitter.Emit(ctx, "dataset:updated", map[string]string{"datasetId": datasetID})
	}
	return result, nil
}

// resetColumns replaces the column config to exactly match the schema.
// Hidden flags of surviving columns are preserved so an imported dataset
// keeps its configured invisible columns across refreshes.
func (s *DatasetService) resetColumns(d *domain.Dataset, schema *source.Schema) error {
	hidden := make(map[string]bool)
	for _, c := range d.Columns() {
		if c.Hidden {
			hidden[c.Field] = true
		}
	}

	cols := make([]domain.ColumnSpec, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		cols = append(cols, domain.ColumnSpec{
			Field:  f.Name,
			Type:   f.Type,
			Hidden: hidden[f.Name],
		})
	}

	colsJSON, err := json.Marshal(cols)
	if err != nil {
		return err
	}
	d.ColumnsJSON = string(colsJSON)
	return s.store.UpdateDataset(d)
}

// ensureColumns adds any schema fields missing from the column config.
func (s *DatasetService) ensureColumns(d *domain.Dataset, schema *source.Schema) error {
	cols := d.Columns()
	existing := make(map[string]bool, len(cols))
	for _, c := range cols {
		existing[c.Field] = true
	}

	changed := false
	for _, f := range schema.Fields {
		if existing[f.Name] {
			continue
		}
		cols = append(cols, domain.ColumnSpec{Field: f.Name, Type: f.Type})
		changed = true
	}
	if !changed {
		return nil
	}

	colsJSON, err := json.Marshal(cols)
	if err != nil {
		return err
	}
	d.ColumnsJSON = string(colsJSON)
	return s.store.UpdateDataset(d)
}

// ListSources returns the available import source descriptors.
func (s *DatasetService) ListSources() []source.Spec {
	return source.List()
}
