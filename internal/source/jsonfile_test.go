package source_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gridbook/internal/source"
)

func writeJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write json: %v", err)
	}
	return path
}

func TestJSONFile_ReadRootArray(t *testing.T) {
	path := writeJSON(t, `[{"name":"Jon","age":25},{"name":"Arya","age":18}]`)

	records := readAll(t, "json_file", source.Config{"filePath": path})
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Data["name"] != "Jon" {
		t.Errorf("name = %v, want Jon", records[0].Data["name"])
	}
	if records[0].Data["age"] != float64(25) {
		t.Errorf("age = %v, want 25", records[0].Data["age"])
	}
}

func TestJSONFile_DataPathNavigation(t *testing.T) {
	path := writeJSON(t, `{"data":{"items":[{"id":"a"},{"id":"b"}]}}`)

	records := readAll(t, "json_file", source.Config{"filePath": path, "dataPath": "data.items"})
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}

func TestJSONFile_NestedValuesSerialized(t *testing.T) {
	path := writeJSON(t, `[{"name":"Jon","tags":["a","b"]}]`)

	records := readAll(t, "json_file", source.Config{"filePath": path})
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Data["tags"] != `["a","b"]` {
		t.Errorf("tags = %v, want JSON string", records[0].Data["tags"])
	}
}

func TestJSONFile_BadDataPathErrors(t *testing.T) {
	path := writeJSON(t, `{"data":[]}`)

	src, err := source.Get("json_file")
	if err != nil {
		t.Fatalf("get source: %v", err)
	}

	_, err = src.Discover(context.Background(), source.Config{"filePath": path, "dataPath": "missing.key"})
	if err == nil {
		t.Fatal("expected error for bad data path")
	}
}

func TestJSONFile_DiscoverInfersTypes(t *testing.T) {
	path := writeJSON(t, `[{"name":"Jon","age":25,"active":true}]`)

	src, err := source.Get("json_file")
	if err != nil {
		t.Fatalf("get source: %v", err)
	}

	schema, err := src.Discover(context.Background(), source.Config{"filePath": path})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}

	types := map[string]string{}
	for _, f := range schema.Fields {
		types[f.Name] = f.Type
	}
	if types["name"] != "text" || types["age"] != "number" || types["active"] != "boolean" {
		t.Errorf("unexpected types: %v", types)
	}
}
