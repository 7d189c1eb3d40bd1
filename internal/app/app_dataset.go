package app

import (
	"encoding/json"
	"fmt"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"gridbook/internal/domain"
	"gridbook/internal/service"
	"gridbook/internal/source"
)

// ============================================================
// Datasets
// ============================================================

func (a *App) ListDatasets() ([]domain.Dataset, error) {
	return a.datasets.ListDatasets()
}

func (a *App) GetDataset(id string) (*domain.Dataset, error) {
	return a.datasets.GetDataset(id)
}

func (a *App) CreateDataset(name, columnsJSON string) (*domain.Dataset, error) {
	var cols []domain.ColumnSpec
	if columnsJSON != "" {
		if err := json.Unmarshal([]byte(columnsJSON), &cols); err != nil {
			return nil, fmt.Errorf("parse columns: %w", err)
		}
	}
	return a.datasets.CreateDataset(name, cols)
}

func (a *App) RenameDataset(id, name string) error {
	return a.datasets.RenameDataset(id, name)
}

func (a *App) UpdateDatasetColumns(id, columnsJSON string) error {
	var cols []domain.ColumnSpec
	if err := json.Unmarshal([]byte(columnsJSON), &cols); err != nil {
		return fmt.Errorf("parse columns: %w", err)
	}
	return a.datasets.UpdateColumns(id, cols)
}

func (a *App) DeleteDataset(id string) error {
	return a.datasets.DeleteDataset(id)
}

func (a *App) GetDatasetStats(id string) (*service.DatasetStats, error) {
	return a.datasets.GetDatasetStats(id)
}

// ============================================================
// Rows
// ============================================================

func (a *App) ListDatasetRows(datasetID string) ([]domain.DatasetRow, error) {
	return a.datasets.ListRows(datasetID)
}

func (a *App) CreateDatasetRow(datasetID, dataJSON string) (*domain.DatasetRow, error) {
	return a.datasets.CreateRow(datasetID, dataJSON)
}

func (a *App) UpdateDatasetRow(rowID, dataJSON string) error {
	return a.datasets.UpdateRow(rowID, dataJSON)
}

func (a *App) DeleteDatasetRow(rowID string) error {
	return a.datasets.DeleteRow(rowID)
}

func (a *App) DuplicateDatasetRow(rowID string) (*domain.DatasetRow, error) {
	return a.datasets.DuplicateRow(rowID)
}

func (a *App) ReorderDatasetRows(datasetID string, rowIDs []string) error {
	return a.datasets.ReorderRows(datasetID, rowIDs)
}

// ============================================================
// Import sources
// ============================================================

// ListSources returns the available import source descriptors so the
// frontend can render the import form.
func (a *App) ListSources() []source.Spec {
	return a.datasets.ListSources()
}

// ConfigureDatasetSource attaches an import source and refresh settings.
// Watchers are rebuilt so new cron/watch settings take effect immediately.
func (a *App) ConfigureDatasetSource(id, sourceType, configJSON, refreshCron, watchPath string, autoRefresh bool) error {
	if err := a.datasets.ConfigureSource(id, sourceType, configJSON, refreshCron, watchPath, autoRefresh); err != nil {
		return err
	}
	a.refresh.RestartWatchers(a.ctx)
	return nil
}

// ImportDataset runs a one-off import from a source into a dataset.
func (a *App) ImportDataset(datasetID, sourceType, configJSON, mode string) (*service.ImportResult, error) {
	var cfg source.Config
	if err := json.Unmarshal([]byte(configJSON), &cfg); err != nil {
		return nil, fmt.Errorf("parse source config: %w", err)
	}
	return a.datasets.ImportFromSource(a.ctx, datasetID, sourceType, cfg, service.ImportMode(mode))
}

// RefreshDataset re-imports a dataset from its configured source.
func (a *App) RefreshDataset(datasetID string) (*service.ImportResult, error) {
	return a.refresh.Refresh(a.ctx, datasetID)
}

// PickCSVFile opens a native file picker for selecting a CSV file.
func (a *App) PickCSVFile() (string, error) {
	path, err := wailsRuntime.OpenFileDialog(a.ctx, wailsRuntime.OpenDialogOptions{
		Title: "Select CSV File",
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "CSV Files", Pattern: "*.csv;*.tsv"},
			{DisplayName: "All Files", Pattern: "*.*"},
		},
	})
	return path, err
}

// PickDatabaseFile opens a native file picker for selecting a SQLite file.
func (a *App) PickDatabaseFile() (string, error) {
	path, err := wailsRuntime.OpenFileDialog(a.ctx, wailsRuntime.OpenDialogOptions{
		Title: "Select Database File",
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "Database Files", Pattern: "*.db;*.sqlite;*.sqlite3;*.s3db"},
			{DisplayName: "All Files", Pattern: "*.*"},
		},
	})
	return path, err
}
