package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ── MongoDB Source ──────────────────────────────────────────
// Imports documents from a MongoDB collection.

type mongoSource struct{}

func init() { Register(&mongoSource{}) }

func (s *mongoSource) Spec() Spec {
	return Spec{
		Type:  "mongodb",
		Label: "MongoDB",
		Icon:  "IconBrandMongodb",
		ConfigFields: []ConfigField{
			{Key: "uri", Label: "Connection URI", Type: "string", Required: true, Help: "mongodb:// or mongodb+srv:// connection string"},
			{Key: "database", Label: "Database", Type: "string", Required: true},
			{Key: "collection", Label: "Collection", Type: "string", Required: true},
			{Key: "filter", Label: "Filter", Type: "textarea", Required: false, Help: "Optional find filter as Extended JSON, e.g. {\"status\": \"active\"}"},
		},
	}
}

func (s *mongoSource) Discover(ctx context.Context, cfg Config) (*Schema, error) {
	discCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	records, err := findDocuments(discCtx, cfg, 10)
	if err != nil {
		return nil, err
	}
	return inferSchema(records), nil
}

func (s *mongoSource) Read(ctx context.Context, cfg Config) (<-chan Record, <-chan error) {
	out := make(chan Record, 100)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		readCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()

		records, err := findDocuments(readCtx, cfg, 0)
		if err != nil {
			errCh <- err
			return
		}
		for _, rec := range records {
			select {
			case out <- rec:
			case <-readCtx.Done():
				return
			}
		}
	}()

	return out, errCh
}

// findDocuments runs a Find on the configured collection and converts the
// documents to records. limit 0 means all documents.
func findDocuments(ctx context.Context, cfg Config, limit int64) ([]Record, error) {
	uri, _ := cfg["uri"].(string)
	dbName, _ := cfg["database"].(string)
	collName, _ := cfg["collection"].(string)
	if uri == "" || dbName == "" || collName == "" {
		return nil, fmt.Errorf("uri, database, and collection are required")
	}
	if !strings.HasPrefix(uri, "mongodb://") && !strings.HasPrefix(uri, "mongodb+srv://") {
		return nil, fmt.Errorf("uri must start with mongodb:// or mongodb+srv://")
	}

	filter, err := parseFilter(cfg)
	if err != nil {
		return nil, err
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	defer client.Disconnect(ctx)

	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := client.Database(dbName).Collection(collName).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	defer cursor.Close(ctx)

	var records []Record
	for cursor.Next(ctx) {
		var doc bson.D
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		data := make(map[string]any, len(doc))
		for _, elem := range doc {
			data[elem.Key] = formatBSONValue(elem.Value)
		}
		records = append(records, Record{Data: data})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor: %w", err)
	}
	return records, nil
}

// parseFilter decodes the optional filter config with Extended JSON so
// operator documents ($oid, $date, $gt, ...) survive the round trip.
func parseFilter(cfg Config) (bson.D, error) {
	raw, _ := cfg["filter"].(string)
	if strings.TrimSpace(raw) == "" {
		return bson.D{}, nil
	}

	var filter bson.D
	if err := bson.UnmarshalExtJSON([]byte(raw), false, &filter); err != nil {
		return nil, fmt.Errorf("parse filter: %w", err)
	}
	return filter, nil
}

// formatBSONValue flattens BSON-specific types to JSON-friendly ones.
func formatBSONValue(v any) any {
	switch val := v.(type) {
	case bson.ObjectID:
		return val.Hex()
	case bson.DateTime:
		return val.Time().Format(time.RFC3339)
	case bson.D:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	case bson.A:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	default:
		return val
	}
}
