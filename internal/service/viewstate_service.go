package service

import (
	"encoding/json"
	"fmt"
	"log"

	"gridbook/internal/domain"
	"gridbook/internal/grid"
)

// ─────────────────────────────────────────────────────────────
// ViewState Service — durable grid view state per dataset
// ─────────────────────────────────────────────────────────────
//
// The frontend grid reports its settled state (sort model, filter
// model, column visibility, column order) after every change commit.
// The whole state is stored as one JSON slot per dataset and written
// wholesale, so the last notification always wins.

// ViewStateService loads and saves grid view state.
type ViewStateService struct {
	store domain.ViewStateStore
}

// NewViewStateService creates a ViewStateService.
func NewViewStateService(store domain.ViewStateStore) *ViewStateService {
	return &ViewStateService{store: store}
}

// Load returns the persisted view state for a dataset. A missing slot,
// a storage error, or unparsable JSON all degrade silently to defaults;
// a stale or corrupt slot must never block the grid from mounting.
func (s *ViewStateService) Load(datasetID string, defaults grid.ViewState) grid.ViewState {
	if s.store == nil {
		return defaults
	}

	stateJSON, ok, err := s.store.GetViewState(datasetID)
	if err != nil {
		log.Printf("view state: load %s: %v", datasetID, err)
		return defaults
	}
	if !ok {
		return defaults
	}

	var state grid.ViewState
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		log.Printf("view state: corrupt slot for %s: %v", datasetID, err)
		return defaults
	}
	return state
}

// Save overwrites the stored state for a dataset.
func (s *ViewStateService) Save(datasetID string, state grid.ViewState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal view state: %w", err)
	}
	return s.store.SetViewState(datasetID, string(data))
}

// SaveJSON stores a raw state payload as sent by the frontend grid
// adapter. The payload is validated before it replaces the slot so a
// malformed notification cannot poison future loads.
func (s *ViewStateService) SaveJSON(datasetID, stateJSON string) error {
	var state grid.ViewState
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		return fmt.Errorf("parse view state: %w", err)
	}
	return s.Save(datasetID, state)
}

// Reset removes the stored state so the next load falls back to defaults.
func (s *ViewStateService) Reset(datasetID string) error {
	return s.store.DeleteViewState(datasetID)
}

// DefaultViewState derives the initial view state from a dataset's
// column configuration: config order, hidden flags, no sort, no filter.
func DefaultViewState(cols []domain.ColumnSpec) grid.ViewState {
	state := grid.ViewState{
		ColumnVisibility: map[string]bool{},
		OrderedFields:    make([]string, 0, len(cols)),
	}
	for _, c := range cols {
		state.OrderedFields = append(state.OrderedFields, c.Field)
		if c.Hidden {
			state.ColumnVisibility[c.Field] = false
		}
	}
	return state
}
