package app

import (
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"gridbook/internal/grid"
	"gridbook/internal/service"
)

// ============================================================
// Grid view state + export
// ============================================================

// LoadGridState returns the view state the grid should mount with.
// A missing or corrupt slot silently resolves to the defaults derived
// from the dataset's column config.
func (a *App) LoadGridState(datasetID string) (grid.ViewState, error) {
	d, err := a.datasets.GetDataset(datasetID)
	if err != nil {
		return grid.ViewState{}, err
	}
	return a.viewStates.Load(datasetID, service.DefaultViewState(d.Columns())), nil
}

// GridStateChanged receives the grid adapter's settled state after a
// change commit (sort, filter, column order, or visibility) and
// persists it wholesale. Called once per user interaction; the latest
// payload always wins.
func (a *App) GridStateChanged(datasetID, stateJSON string) error {
	if err := a.viewStates.SaveJSON(datasetID, stateJSON); err != nil {
		wailsRuntime.LogErrorf(a.ctx, "[Grid] rejecting state for %s: %v", datasetID, err)
		return err
	}
	return nil
}

// ResetGridState drops the persisted state so the next mount uses
// the column-config defaults.
func (a *App) ResetGridState(datasetID string) error {
	return a.viewStates.Reset(datasetID)
}

// GetVisibleData returns the dataset's rows exactly as the grid shows
// them: filtered, sorted, and projected onto the visible columns.
func (a *App) GetVisibleData(datasetID string) grid.Projection {
	return a.exports.Projection(datasetID)
}

// ExportDatasetCSV prompts for a target file and writes the dataset's
// currently visible data as CSV. Returns the chosen path, or an empty
// string when the user cancels.
func (a *App) ExportDatasetCSV(datasetID string) (string, error) {
	path, err := wailsRuntime.SaveFileDialog(a.ctx, wailsRuntime.SaveDialogOptions{
		Title:           "Export CSV",
		DefaultFilename: grid.DefaultExportName,
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "CSV Files", Pattern: "*.csv"},
		},
	})
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", nil // user cancelled
	}

	if err := a.exports.WriteCSV(datasetID, path); err != nil {
		wailsRuntime.LogErrorf(a.ctx, "[Export] %s: %v", datasetID, err)
		return "", err
	}
	wailsRuntime.LogInfof(a.ctx, "[Export] dataset %s -> %s", datasetID, path)
	return path, nil
}
