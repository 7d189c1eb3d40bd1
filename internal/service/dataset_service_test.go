package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gridbook/internal/domain"
	"gridbook/internal/service"
	"gridbook/internal/source"
)

// ─────────────────────────────────────────────────────────────
// DatasetService tests — CRUD plus CSV-file import end-to-end
// ─────────────────────────────────────────────────────────────

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}
	return path
}

func TestDatasetService_CreateAndListRows(t *testing.T) {
	store := newMemDatasetStore()
	svc := service.NewDatasetService(store, &service.MockEmitter{})

	d, err := svc.CreateDataset("People", []domain.ColumnSpec{{Field: "name", Header: "Name"}})
	if err != nil {
		t.Fatalf("create dataset: %v", err)
	}
	if d.ID == "" {
		t.Fatal("expected generated dataset id")
	}

	if _, err := svc.CreateRow(d.ID, `{"name":"Jon"}`); err != nil {
		t.Fatalf("create row: %v", err)
	}
	if _, err := svc.CreateRow(d.ID, `{"name":"Arya"}`); err != nil {
		t.Fatalf("create row: %v", err)
	}

	rows, err := svc.ListRows(d.ID)
	if err != nil {
		t.Fatalf("list rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].SortOrder >= rows[1].SortOrder {
		t.Fatalf("sort order not increasing: %d, %d", rows[0].SortOrder, rows[1].SortOrder)
	}
}

func TestDatasetService_DuplicateRowCopiesData(t *testing.T) {
	store := newMemDatasetStore()
	svc := service.NewDatasetService(store, &service.MockEmitter{})

	d, _ := svc.CreateDataset("People", nil)
	row, _ := svc.CreateRow(d.ID, `{"name":"Jon"}`)

	dup, err := svc.DuplicateRow(row.ID)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if dup.ID == row.ID {
		t.Fatal("duplicate must get a fresh id")
	}
	if dup.DataJSON != row.DataJSON {
		t.Fatalf("duplicate data = %q, want %q", dup.DataJSON, row.DataJSON)
	}
}

func TestDatasetService_ConfigureSourceRejectsUnknownType(t *testing.T) {
	store := newMemDatasetStore()
	svc := service.NewDatasetService(store, &service.MockEmitter{})
	d, _ := svc.CreateDataset("People", nil)

	if err := svc.ConfigureSource(d.ID, "carrier_pigeon", "{}", "", "", false); err == nil {
		t.Fatal("expected error for unregistered source type")
	}
}

func TestDatasetService_ImportReplaceResetsRowsAndColumns(t *testing.T) {
	store := newMemDatasetStore()
	emitter := &service.MockEmitter{}
	svc := service.NewDatasetService(store, emitter)

	d, _ := svc.CreateDataset("People", []domain.ColumnSpec{{Field: "stale", Header: "Stale"}})
	svc.CreateRow(d.ID, `{"stale":"old"}`)

	path := writeTempCSV(t, "name,age\nJon,25\nArya,18\n")
	result, err := svc.ImportFromSource(context.Background(), d.ID, "csv_file",
		source.Config{"filePath": path}, service.ImportReplace)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.RowsRead != 2 || result.RowsWritten != 2 {
		t.Fatalf("result = %+v, want 2 read / 2 written", result)
	}

	rows, _ := svc.ListRows(d.ID)
	if len(rows) != 2 {
		t.Fatalf("rows after replace = %d, want 2 (old row gone)", len(rows))
	}

	updated, _ := svc.GetDataset(d.ID)
	cols := updated.Columns()
	if len(cols) != 2 || cols[0].Field != "name" || cols[1].Field != "age" {
		t.Fatalf("columns after replace = %+v, want name,age", cols)
	}

	if len(emitter.Events) == 0 || emitter.Events[len(emitter.Events)-1].Event != "dataset:updated" {
		t.Fatalf("expected dataset:updated emission, got %+v", emitter.Events)
	}
}

func TestDatasetService_ImportReplaceKeepsHiddenFlags(t *testing.T) {
	store := newMemDatasetStore()
	svc := service.NewDatasetService(store, &service.MockEmitter{})

	d, _ := svc.CreateDataset("People", []domain.ColumnSpec{
		{Field: "name", Header: "Name"},
		{Field: "age", Header: "Age", Hidden: true},
	})

	path := writeTempCSV(t, "name,age\nJon,25\n")
	if _, err := svc.ImportFromSource(context.Background(), d.ID, "csv_file",
		source.Config{"filePath": path}, service.ImportReplace); err != nil {
		t.Fatalf("import: %v", err)
	}

	updated, _ := svc.GetDataset(d.ID)
	for _, c := range updated.Columns() {
		if c.Field == "age" && !c.Hidden {
			t.Fatal("hidden flag lost across replace import")
		}
		if c.Field == "name" && c.Hidden {
			t.Fatal("visible column became hidden")
		}
	}
}

func TestDatasetService_ImportAppendKeepsExistingRows(t *testing.T) {
	store := newMemDatasetStore()
	svc := service.NewDatasetService(store, &service.MockEmitter{})

	d, _ := svc.CreateDataset("People", []domain.ColumnSpec{{Field: "name", Header: "Name"}})
	svc.CreateRow(d.ID, `{"name":"Existing"}`)

	path := writeTempCSV(t, "name,city\nJon,Winterfell\n")
	if _, err := svc.ImportFromSource(context.Background(), d.ID, "csv_file",
		source.Config{"filePath": path}, service.ImportAppend); err != nil {
		t.Fatalf("import: %v", err)
	}

	rows, _ := svc.ListRows(d.ID)
	if len(rows) != 2 {
		t.Fatalf("rows after append = %d, want 2", len(rows))
	}

	updated, _ := svc.GetDataset(d.ID)
	cols := updated.Columns()
	// Existing column kept, new one added.
	if len(cols) != 2 || cols[0].Field != "name" || cols[1].Field != "city" {
		t.Fatalf("columns after append = %+v, want name,city", cols)
	}
	if cols[0].Header != "Name" {
		t.Fatal("append must not clobber existing column config")
	}
}

func TestDatasetService_ImportUnknownSourceFails(t *testing.T) {
	store := newMemDatasetStore()
	svc := service.NewDatasetService(store, &service.MockEmitter{})
	d, _ := svc.CreateDataset("People", nil)

	_, err := svc.ImportFromSource(context.Background(), d.ID, "smoke_signals", nil, service.ImportReplace)
	if err == nil {
		t.Fatal("expected error for unknown source type")
	}
}

func TestDatasetService_ListSourcesIncludesBuiltins(t *testing.T) {
	svc := service.NewDatasetService(newMemDatasetStore(), &service.MockEmitter{})

	found := map[string]bool{}
	for _, spec := range svc.ListSources() {
		found[spec.Type] = true
	}
	for _, typ := range []string{"csv_file", "json_file", "http", "database", "mongodb"} {
		if !found[typ] {
			t.Fatalf("missing registered source %q (got %v)", typ, found)
		}
	}
}

func TestGridRows_CorruptRowDecodesEmpty(t *testing.T) {
	rows := service.GridRows([]domain.DatasetRow{
		{DataJSON: `{"name":"Jon"}`},
		{DataJSON: "{broken"},
	})
	if rows[0]["name"] != "Jon" {
		t.Fatalf("good row lost: %+v", rows[0])
	}
	if len(rows[1]) != 0 {
		t.Fatalf("corrupt row should be empty, got %+v", rows[1])
	}
}
