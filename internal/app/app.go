package app

import (
	"context"
	"os"
	"path/filepath"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"gridbook/internal/service"
	"gridbook/internal/storage"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx context.Context

	db *storage.DB

	datasets   *service.DatasetService
	viewStates *service.ViewStateService
	exports    *service.ExportService
	refresh    *service.RefreshService
	window     *service.WindowSettingsService
}

// New creates a new App.
func New() *App {
	return &App{}
}

// Emit implements service.EventEmitter by delegating to the Wails runtime.
func (a *App) Emit(ctx context.Context, event string, data any) {
	wailsRuntime.EventsEmit(ctx, event, data)
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "gridbook")
	dbPath := filepath.Join(dataDir, "gridbook.db")

	db, err := storage.New(dbPath)
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to open database: %v", err)
		return
	}
	a.db = db

	datasetStore := storage.NewDatasetStore(db)
	viewStateStore := storage.NewViewStateStore(db)

	a.datasets = service.NewDatasetService(datasetStore, a)
	a.viewStates = service.NewViewStateService(viewStateStore)
	a.exports = service.NewExportService(datasetStore, a.viewStates)
	a.refresh = service.NewRefreshService(datasetStore, a.datasets, a)
	a.window = service.NewWindowSettingsService(db)

	a.refresh.RestartWatchers(ctx)
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.refresh != nil {
		a.refresh.Stop()
		a.refresh.WaitRunning(ctx)
	}
	if a.db != nil {
		a.db.Close()
	}
}

// ============================================================
// Window settings
// ============================================================

func (a *App) LoadWindowSize() service.WindowSize {
	return a.window.LoadWindowSize()
}

func (a *App) SaveWindowSize(width, height int) error {
	return a.window.SaveWindowSize(width, height)
}
