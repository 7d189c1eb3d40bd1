package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ── JSON File Source ────────────────────────────────────────
// Reads records from a local JSON file.

type jsonFileSource struct{}

func init() { Register(&jsonFileSource{}) }

func (s *jsonFileSource) Spec() Spec {
	return Spec{
		Type:  "json_file",
		Label: "JSON File",
		Icon:  "IconFileTypeJs",
		ConfigFields: []ConfigField{
			{Key: "filePath", Label: "File Path", Type: "file", Required: true, Help: "Absolute path to the JSON file"},
			{Key: "dataPath", Label: "Data Path", Type: "string", Required: false, Help: "Dot-separated path to the array (e.g., 'data.items'). Leave empty if root is an array."},
		},
	}
}

func (s *jsonFileSource) Discover(ctx context.Context, cfg Config) (*Schema, error) {
	records, err := readJSONFile(cfg)
	if err != nil {
		return nil, err
	}
	return inferSchema(records), nil
}

func (s *jsonFileSource) Read(ctx context.Context, cfg Config) (<-chan Record, <-chan error) {
	out := make(chan Record, 100)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		records, err := readJSONFile(cfg)
		if err != nil {
			errCh <- err
			return
		}
		for _, rec := range records {
			select {
			case out <- rec:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, errCh
}

func readJSONFile(cfg Config) ([]Record, error) {
	filePath, _ := cfg["filePath"].(string)
	if filePath == "" {
		return nil, fmt.Errorf("filePath is required")
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	if dataPath, ok := cfg["dataPath"].(string); ok && dataPath != "" {
		raw = navigatePath(raw, dataPath)
		if raw == nil {
			return nil, fmt.Errorf("invalid data path: %q not found", dataPath)
		}
	}

	return toRecords(raw), nil
}

// navigatePath walks a dot-separated path into nested maps.
func navigatePath(obj any, path string) any {
	parts := strings.Split(path, ".")
	current := obj
	for _, part := range parts {
		switch v := current.(type) {
		case map[string]any:
			current = v[part]
		default:
			return nil
		}
	}
	return current
}

// toRecords converts a raw JSON value into a slice of Records.
func toRecords(raw any) []Record {
	switch v := raw.(type) {
	case []any:
		records := make([]Record, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				records = append(records, Record{Data: flattenMap(m)})
			}
		}
		return records
	case map[string]any:
		// Single object becomes a single record.
		return []Record{{Data: flattenMap(v)}}
	default:
		return nil
	}
}

// flattenMap keeps scalar values as-is and serializes nested
// objects/arrays as JSON strings.
func flattenMap(m map[string]any) map[string]any {
	flat := make(map[string]any, len(m))
	for k, v := range m {
		switch v.(type) {
		case string, float64, bool, nil:
			flat[k] = v
		default:
			b, _ := json.Marshal(v)
			flat[k] = string(b)
		}
	}
	return flat
}
