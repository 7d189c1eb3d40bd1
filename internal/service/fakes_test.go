package service_test

import (
	"fmt"

	"gridbook/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// In-memory store fakes for service tests
// ─────────────────────────────────────────────────────────────

type memDatasetStore struct {
	datasets map[string]*domain.Dataset
	rows     map[string][]*domain.DatasetRow
}

func newMemDatasetStore() *memDatasetStore {
	return &memDatasetStore{
		datasets: make(map[string]*domain.Dataset),
		rows:     make(map[string][]*domain.DatasetRow),
	}
}

func (m *memDatasetStore) CreateDataset(d *domain.Dataset) error {
	m.datasets[d.ID] = d
	return nil
}

func (m *memDatasetStore) GetDataset(id string) (*domain.Dataset, error) {
	d, ok := m.datasets[id]
	if !ok {
		return nil, fmt.Errorf("dataset not found: %s", id)
	}
	return d, nil
}

func (m *memDatasetStore) ListDatasets() ([]domain.Dataset, error) {
	var out []domain.Dataset
	for _, d := range m.datasets {
		out = append(out, *d)
	}
	return out, nil
}

func (m *memDatasetStore) UpdateDataset(d *domain.Dataset) error {
	if _, ok := m.datasets[d.ID]; !ok {
		return fmt.Errorf("dataset not found: %s", d.ID)
	}
	m.datasets[d.ID] = d
	return nil
}

func (m *memDatasetStore) DeleteDataset(id string) error {
	delete(m.datasets, id)
	delete(m.rows, id)
	return nil
}

func (m *memDatasetStore) CreateRow(r *domain.DatasetRow) error {
	if r.SortOrder == 0 {
		r.SortOrder = len(m.rows[r.DatasetID]) + 1
	}
	m.rows[r.DatasetID] = append(m.rows[r.DatasetID], r)
	return nil
}

func (m *memDatasetStore) GetRow(id string) (*domain.DatasetRow, error) {
	for _, rows := range m.rows {
		for _, r := range rows {
			if r.ID == id {
				return r, nil
			}
		}
	}
	return nil, fmt.Errorf("row not found: %s", id)
}

func (m *memDatasetStore) ListRows(datasetID string) ([]domain.DatasetRow, error) {
	var out []domain.DatasetRow
	for _, r := range m.rows[datasetID] {
		out = append(out, *r)
	}
	return out, nil
}

func (m *memDatasetStore) UpdateRow(r *domain.DatasetRow) error {
	for _, rows := range m.rows {
		for i, existing := range rows {
			if existing.ID == r.ID {
				rows[i] = r
				return nil
			}
		}
	}
	return fmt.Errorf("row not found: %s", r.ID)
}

func (m *memDatasetStore) DeleteRow(id string) error {
	for datasetID, rows := range m.rows {
		for i, r := range rows {
			if r.ID == id {
				m.rows[datasetID] = append(rows[:i], rows[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (m *memDatasetStore) DeleteRowsByDataset(datasetID string) error {
	delete(m.rows, datasetID)
	return nil
}

func (m *memDatasetStore) ReorderRows(datasetID string, rowIDs []string) error {
	byID := make(map[string]*domain.DatasetRow)
	for _, r := range m.rows[datasetID] {
		byID[r.ID] = r
	}
	var reordered []*domain.DatasetRow
	for i, id := range rowIDs {
		if r, ok := byID[id]; ok {
			r.SortOrder = i + 1
			reordered = append(reordered, r)
		}
	}
	m.rows[datasetID] = reordered
	return nil
}

type memViewStateStore struct {
	states  map[string]string
	failGet bool
}

func newMemViewStateStore() *memViewStateStore {
	return &memViewStateStore{states: make(map[string]string)}
}

func (m *memViewStateStore) GetViewState(datasetID string) (string, bool, error) {
	if m.failGet {
		return "", false, fmt.Errorf("storage unavailable")
	}
	s, ok := m.states[datasetID]
	return s, ok, nil
}

func (m *memViewStateStore) SetViewState(datasetID, stateJSON string) error {
	m.states[datasetID] = stateJSON
	return nil
}

func (m *memViewStateStore) DeleteViewState(datasetID string) error {
	delete(m.states, datasetID)
	return nil
}
