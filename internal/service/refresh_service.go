package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"gridbook/internal/domain"
	"gridbook/internal/source"
)

// ─────────────────────────────────────────────────────────────
// Refresh Service — scheduled and file-triggered re-imports
// ─────────────────────────────────────────────────────────────

// RefreshService re-imports datasets from their configured sources,
// either on a cron schedule or when a watched file changes.
type RefreshService struct {
	store     domain.DatasetStore
	datasets  *DatasetService
	emitter   EventEmitter
	refreshes runningRefreshGuard

	// watcher / cron lifecycle
	watchCancel context.CancelFunc
	watcher     *fsnotify.Watcher
	cronSched   *cron.Cron
}

// NewRefreshService creates a RefreshService ready for use.
func NewRefreshService(store domain.DatasetStore, datasets *DatasetService, emitter EventEmitter) *RefreshService {
	return &RefreshService{
		store:    store,
		datasets: datasets,
		emitter:  emitter,
	}
}

// Refresh re-imports a single dataset from its configured source.
// Refreshes always run in replace mode so the grid mirrors the source.
func (s *RefreshService) Refresh(ctx context.Context, datasetID string) (*ImportResult, error) {
	// Prevent concurrent refresh of the same dataset.
	if !s.refreshes.TryLock(datasetID) {
		return nil, fmt.Errorf("dataset %s is already refreshing", datasetID)
	}
	defer s.refreshes.Unlock(datasetID)

	d, err := s.store.GetDataset(datasetID)
	if err != nil {
		return nil, err
	}
	if d.SourceType == "" {
		return nil, fmt.Errorf("dataset %s has no import source", datasetID)
	}

	var cfg source.Config
	if err := json.Unmarshal([]byte(d.SourceConfigJSON), &cfg); err != nil {
		return nil, fmt.Errorf("parse source config: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	return s.datasets.ImportFromSource(runCtx, datasetID, d.SourceType, cfg, ImportReplace)
}

// RestartWatchers tears down the current watcher/cron and rebuilds them
// from the auto-refresh datasets in the store.
func (s *RefreshService) RestartWatchers(ctx context.Context) {
	s.stopWatchers()

	all, err := s.store.ListDatasets()
	if err != nil {
		log.Printf("refresh: failed to list datasets: %v", err)
		return
	}
	var datasets []domain.Dataset
	for _, d := range all {
		if d.AutoRefresh && d.SourceType != "" {
			datasets = append(datasets, d)
		}
	}

	// ── Cron schedules ──
	var scheduled int
	c := cron.New()
	for _, d := range datasets {
		if d.RefreshCron == "" {
			continue
		}
		id := d.ID
		_, err := c.AddFunc(d.RefreshCron, func() {
			log.Printf("refresh cron: running dataset %s", id)
			if _, err := s.Refresh(ctx, id); err != nil {
				log.Printf("refresh cron: dataset %s failed: %v", id, err)
			}
		})
		if err != nil {
			log.Printf("refresh cron: invalid expression %q for dataset %s: %v", d.RefreshCron, d.ID, err)
			continue
		}
		scheduled++
	}
	if scheduled > 0 {
		c.Start()
		s.cronSched = c
		log.Printf("refresh cron: scheduled %d dataset(s)", scheduled)
	}

	// ── File watchers ──
	pathToDataset := make(map[string]string)
	for _, d := range datasets {
		if d.WatchPath == "" {
			continue
		}
		absPath, err := filepath.Abs(d.WatchPath)
		if err != nil {
			log.Printf("refresh watcher: bad path %q: %v", d.WatchPath, err)
			continue
		}
		pathToDataset[absPath] = d.ID
	}
	if len(pathToDataset) == 0 {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("refresh watcher: failed to create watcher: %v", err)
		return
	}
	s.watcher = watcher

	watchedDirs := make(map[string]bool)
	for absPath := range pathToDataset {
		dir := filepath.Dir(absPath)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				log.Printf("refresh watcher: failed to watch dir %q: %v", dir, err)
			} else {
				watchedDirs[dir] = true
			}
		}
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	s.watchCancel = cancel

	go func() {
		timers := make(map[string]*time.Timer)
		for {
			select {
			case <-watchCtx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				absPath, _ := filepath.Abs(event.Name)
				datasetID, ok := pathToDataset[absPath]
				if !ok {
					continue
				}
				// Editors fire bursts of writes; debounce to one refresh
				if t, exists := timers[datasetID]; exists {
					t.Stop()
				}
				id := datasetID
				timers[datasetID] = time.AfterFunc(500*time.Millisecond, func() {
					log.Printf("refresh watcher: file changed %q, refreshing dataset %s", absPath, id)
					if _, err := s.Refresh(ctx, id); err != nil {
						log.Printf("refresh watcher: refresh failed for dataset %s: %v", id, err)
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("refresh watcher: error: %v", err)
			}
		}
	}()

	log.Printf("refresh watcher: watching %d file(s)", len(pathToDataset))
}

// WaitRunning blocks until all running refreshes finish or ctx is cancelled.
// Used for graceful shutdown.
func (s *RefreshService) WaitRunning(ctx context.Context) {
	s.refreshes.WaitAll(ctx)
}

// Stop tears down all watchers and schedulers.
func (s *RefreshService) Stop() {
	s.stopWatchers()
}

func (s *RefreshService) stopWatchers() {
	if s.watchCancel != nil {
		s.watchCancel()
		s.watchCancel = nil
	}
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
	if s.cronSched != nil {
		s.cronSched.Stop()
		s.cronSched = nil
	}
}
