package storage

import (
	"database/sql"
	"fmt"
	"time"

	"gridbook/internal/domain"
)

// ViewStateStore persists one grid view-state JSON slot per dataset.
type ViewStateStore struct {
	db *DB
}

// NewViewStateStore creates a new ViewStateStore.
func NewViewStateStore(db *DB) *ViewStateStore {
	return &ViewStateStore{db: db}
}

// GetViewState returns the saved state JSON for a dataset.
// ok is false when no state has been saved yet.
func (s *ViewStateStore) GetViewState(datasetID string) (string, bool, error) {
	var stateJSON string
	err := s.db.conn.QueryRow(
		`SELECT state_json FROM view_states WHERE dataset_id = ?`, datasetID,
	).Scan(&stateJSON)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("scan view state: %w", err)
	}
	return stateJSON, true, nil
}

// SetViewState inserts or replaces the state slot for a dataset.
func (s *ViewStateStore) SetViewState(datasetID, stateJSON string) error {
	_, err := s.db.conn.Exec(
		`INSERT INTO view_states (dataset_id, state_json, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(dataset_id) DO UPDATE SET
		   state_json = excluded.state_json, updated_at = excluded.updated_at`,
		datasetID, stateJSON, time.Now(),
	)
	return err
}

// DeleteViewState removes the saved state for a dataset.
func (s *ViewStateStore) DeleteViewState(datasetID string) error {
	_, err := s.db.conn.Exec(`DELETE FROM view_states WHERE dataset_id = ?`, datasetID)
	return err
}

var _ domain.ViewStateStore = (*ViewStateStore)(nil)
