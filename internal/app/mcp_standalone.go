package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	mcpserver "gridbook/internal/mcp"
	"gridbook/internal/service"
	"gridbook/internal/storage"
)

// noopEmitter is a no-op EventEmitter used in MCP-only mode (no Wails frontend).
type noopEmitter struct{}

func (noopEmitter) Emit(_ context.Context, _ string, _ any) {}

// ServeMCP runs the app as a standalone MCP server on stdin/stdout with no GUI.
// It initializes storage, services, and runs the MCP server until interrupted.
func ServeMCP() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "gridbook")
	dbPath := filepath.Join(dataDir, "gridbook.db")

	db, err := storage.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	datasetStore := storage.NewDatasetStore(db)
	viewStateStore := storage.NewViewStateStore(db)

	emitter := noopEmitter{}
	datasetsSvc := service.NewDatasetService(datasetStore, emitter)
	viewStatesSvc := service.NewViewStateService(viewStateStore)
	exportsSvc := service.NewExportService(datasetStore, viewStatesSvc)

	mcpSrv := mcpserver.New(ctx, mcpserver.Deps{
		Emitter:    emitter,
		Datasets:   datasetsSvc,
		ViewStates: viewStatesSvc,
		Exports:    exportsSvc,
	})

	if err := mcpSrv.ServeStdio(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
