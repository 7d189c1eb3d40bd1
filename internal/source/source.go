package source

import (
	"context"
	"fmt"
	"sync"
)

// ── Source ──────────────────────────────────────────────────
// A Source imports rows from an external system into a dataset.
// Implementations live in this package, one file per source type.
//
// Pattern: Airbyte connector protocol (spec → discover → read).

// Config is an opaque configuration map parsed per source type.
type Config map[string]any

// ConfigField describes a single configuration input for a source.
// The frontend auto-renders the import form from this spec.
type ConfigField struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Type     string   `json:"type"` // "string" | "select" | "textarea" | "password" | "file"
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"` // for "select" type
	Default  string   `json:"default,omitempty"`
	Help     string   `json:"help,omitempty"`
}

// Spec describes a source type: its label, icon, and required config fields.
type Spec struct {
	Type         string        `json:"type"`
	Label        string        `json:"label"`
	Icon         string        `json:"icon"` // Tabler icon name
	ConfigFields []ConfigField `json:"configFields"`
}

// Field describes a single column coming from a source.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"` // "text" | "number" | "boolean" | "datetime"
}

// Schema describes the shape of records coming from a source.
type Schema struct {
	Fields []Field `json:"fields"`
}

// FieldNames returns an ordered list of field names.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Record is a single row of data flowing from a source into a dataset.
type Record struct {
	Data map[string]any `json:"data"`
}

// Source is the interface every data source must implement.
type Source interface {
	// Spec returns metadata about this source type.
	Spec() Spec

	// Discover introspects the source and returns the expected schema.
	Discover(ctx context.Context, cfg Config) (*Schema, error)

	// Read streams records from the source into a channel.
	// The channel is closed when all records have been read or ctx is cancelled.
	// Errors are sent on the error channel (buffered size 1).
	Read(ctx context.Context, cfg Config) (<-chan Record, <-chan error)
}

// ── Registry ───────────────────────────────────────────────
// Compile-time registration via init() in each source file.

var (
	registryMu sync.RWMutex
	registry   = map[string]Source{}
)

// Register registers a source by its spec type.
// Called from init() in each source implementation file.
func Register(s Source) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[s.Spec().Type] = s
}

// Get returns a registered source by type, or an error if not found.
func Get(typ string) (Source, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[typ]
	if !ok {
		return nil, fmt.Errorf("unknown source type: %q", typ)
	}
	return s, nil
}

// List returns the specs of all registered sources.
func List() []Spec {
	registryMu.RLock()
	defer registryMu.RUnlock()
	specs := make([]Spec, 0, len(registry))
	for _, s := range registry {
		specs = append(specs, s.Spec())
	}
	return specs
}

// inferSchema derives a schema from a sample of records,
// preserving first-seen field order.
func inferSchema(records []Record) *Schema {
	seen := make(map[string]bool)
	schema := &Schema{}
	for _, rec := range records {
		for k, v := range rec.Data {
			if seen[k] {
				continue
			}
			seen[k] = true
			schema.Fields = append(schema.Fields, Field{Name: k, Type: inferFieldType(v)})
		}
	}
	return schema
}

func inferFieldType(v any) string {
	switch v.(type) {
	case float64, float32, int, int64:
		return "number"
	case bool:
		return "boolean"
	default:
		return "text"
	}
}
