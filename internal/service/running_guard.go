package service

import (
	"context"
	"sync"
)

// ExportedRunningGuard is an exported alias so _test packages can test the guard.
type ExportedRunningGuard = runningRefreshGuard

// ─────────────────────────────────────────────────────────────
// Refresh single-flight guard
// ─────────────────────────────────────────────────────────────

// runningRefreshGuard admits at most one in-flight refresh per dataset.
// A cron tick, a file-watch debounce, and a manual refresh can all fire
// for the same dataset; whoever locks first runs, the rest bail out.
// The zero value is ready to use.
type runningRefreshGuard struct {
	mu      sync.Mutex
	running map[string]struct{}
	wg      sync.WaitGroup
}

// TryLock admits datasetID for refreshing. A false return means a
// refresh for that dataset is already in flight; the caller must not
// proceed and must not call Unlock.
func (g *runningRefreshGuard) TryLock(datasetID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running == nil {
		g.running = make(map[string]struct{})
	}
	if _, ok := g.running[datasetID]; ok {
		return false
	}
	g.running[datasetID] = struct{}{}
	g.wg.Add(1)
	return true
}

// Unlock releases the dataset's slot. Call exactly once per successful
// TryLock, after the refresh finishes.
func (g *runningRefreshGuard) Unlock(datasetID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.running, datasetID)
	g.wg.Done()
}

// WaitAll blocks until every admitted refresh has unlocked, or until
// ctx is cancelled. Shutdown uses it to drain in-flight imports.
func (g *runningRefreshGuard) WaitAll(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
