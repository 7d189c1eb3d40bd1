package service

import (
	"fmt"
	"log"
	"os"

	"gridbook/internal/domain"
	"gridbook/internal/grid"
)

// ─────────────────────────────────────────────────────────────
// Export Service — visible-data CSV export
// ─────────────────────────────────────────────────────────────
//
// Export always reflects what the user currently sees: the persisted
// view state drives filtering, sorting, column order, and visibility
// before the rows are serialized.

// ExportService builds projections and CSV artifacts for datasets.
type ExportService struct {
	store      domain.DatasetStore
	viewStates *ViewStateService
}

// NewExportService creates an ExportService.
func NewExportService(store domain.DatasetStore, viewStates *ViewStateService) *ExportService {
	return &ExportService{store: store, viewStates: viewStates}
}

// Projection resolves the currently visible data for a dataset.
// An unknown dataset yields an empty projection, not an error; export
// of nothing is a no-op, same as a grid that never mounted.
func (s *ExportService) Projection(datasetID string) grid.Projection {
	d, err := s.store.GetDataset(datasetID)
	if err != nil {
		log.Printf("export: dataset %s: %v", datasetID, err)
		return grid.Projection{Rows: []grid.Row{}}
	}

	cols := d.Columns()
	stored, err := s.store.ListRows(datasetID)
	if err != nil {
		log.Printf("export: rows for %s: %v", datasetID, err)
		return grid.Projection{Rows: []grid.Row{}}
	}

	state := s.viewStates.Load(datasetID, DefaultViewState(cols))
	return grid.Project(GridColumns(cols), state, GridRows(stored))
}

// CSV renders the dataset's visible data as a CSV document.
func (s *ExportService) CSV(datasetID string) string {
	return grid.MarshalCSV(s.Projection(datasetID))
}

// WriteCSV builds the CSV in memory and writes it to path in one shot.
// Fire-and-forget: no retries, no partial writes to clean up.
func (s *ExportService) WriteCSV(datasetID, path string) error {
	if path == "" {
		return fmt.Errorf("export path is empty")
	}
	csv := s.CSV(datasetID)
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
