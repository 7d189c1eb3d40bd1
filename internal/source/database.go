package source

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// ── Database Source ─────────────────────────────────────────
// Imports the result of a SQL query from MySQL, Postgres, or a
// SQLite file.

type databaseSource struct{}

func init() { Register(&databaseSource{}) }

func (s *databaseSource) Spec() Spec {
	return Spec{
		Type:  "database",
		Label: "SQL Database",
		Icon:  "IconDatabase",
		ConfigFields: []ConfigField{
			{Key: "driver", Label: "Driver", Type: "select", Required: true, Options: []string{"mysql", "postgres", "sqlite"}, Default: "postgres"},
			{Key: "host", Label: "Host", Type: "string", Required: false, Default: "localhost"},
			{Key: "port", Label: "Port", Type: "string", Required: false, Help: "Defaults to 3306 (MySQL) or 5432 (Postgres)"},
			{Key: "database", Label: "Database", Type: "string", Required: false, Help: "Database name, or file path for SQLite"},
			{Key: "username", Label: "Username", Type: "string", Required: false},
			{Key: "password", Label: "Password", Type: "password", Required: false},
			{Key: "sslMode", Label: "SSL Mode", Type: "select", Required: false, Options: []string{"disable", "require"}, Default: "disable"},
			{Key: "query", Label: "Query", Type: "textarea", Required: true, Help: "SELECT statement whose result becomes the dataset"},
		},
	}
}

func (s *databaseSource) Discover(ctx context.Context, cfg Config) (*Schema, error) {
	db, query, err := openFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	discCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	// LIMIT 0 would be ideal but is not portable; fetch one row's metadata.
	rows, err := db.QueryContext(discCtx, query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	schema := &Schema{Fields: make([]Field, len(cols))}
	for i, c := range cols {
		schema.Fields[i] = Field{Name: c, Type: "text"}
	}
	if types, err := rows.ColumnTypes(); err == nil {
		for i, ct := range types {
			switch ct.DatabaseTypeName() {
			case "INT", "INT4", "INT8", "BIGINT", "INTEGER", "DECIMAL", "NUMERIC", "FLOAT", "FLOAT8", "DOUBLE", "REAL":
				schema.Fields[i].Type = "number"
			case "BOOL", "BOOLEAN", "TINYINT":
				schema.Fields[i].Type = "boolean"
			case "DATE", "DATETIME", "TIMESTAMP", "TIMESTAMPTZ":
				schema.Fields[i].Type = "datetime"
			}
		}
	}
	return schema, nil
}

func (s *databaseSource) Read(ctx context.Context, cfg Config) (<-chan Record, <-chan error) {
	out := make(chan Record, 100)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		db, query, err := openFromConfig(cfg)
		if err != nil {
			errCh <- err
			return
		}
		defer db.Close()

		readCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()

		rows, err := db.QueryContext(readCtx, query)
		if err != nil {
			errCh <- fmt.Errorf("query: %w", err)
			return
		}
		defer rows.Close()

		cols, err := rows.Columns()
		if err != nil {
			errCh <- fmt.Errorf("columns: %w", err)
			return
		}

		for rows.Next() {
			values := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range values {
				ptrs[i] = &values[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				errCh <- fmt.Errorf("scan row: %w", err)
				return
			}

			data := make(map[string]any, len(cols))
			for i, c := range cols {
				data[c] = formatValue(values[i])
			}
			select {
			case out <- Record{Data: data}:
			case <-readCtx.Done():
				return
			}
		}
		if err := rows.Err(); err != nil {
			errCh <- fmt.Errorf("iterate: %w", err)
		}
	}()

	return out, errCh
}

func openFromConfig(cfg Config) (*sql.DB, string, error) {
	driver, _ := cfg["driver"].(string)
	query, _ := cfg["query"].(string)
	if query == "" {
		return nil, "", fmt.Errorf("query is required")
	}

	var dsn string
	switch driver {
	case "mysql":
		dsn = buildMySQLDSN(cfg)
	case "postgres":
		dsn = buildPostgresDSN(cfg)
	case "sqlite":
		path, _ := cfg["database"].(string)
		if path == "" {
			return nil, "", fmt.Errorf("database (file path) is required for sqlite")
		}
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	default:
		return nil, "", fmt.Errorf("unsupported driver: %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", driver, err)
	}
	// Sensible pool settings for a desktop app
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(10 * time.Minute)

	return db, query, nil
}

func buildMySQLDSN(cfg Config) string {
	port := configPort(cfg, 3306)
	user, _ := cfg["username"].(string)
	pass, _ := cfg["password"].(string)
	host, _ := cfg["host"].(string)
	dbName, _ := cfg["database"].(string)
	// Format: user:password@tcp(host:port)/dbname?parseTime=true
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		user, pass, host, port, dbName,
	)
	if sslMode, _ := cfg["sslMode"].(string); sslMode == "require" {
		dsn += "&tls=true"
	}
	return dsn
}

func buildPostgresDSN(cfg Config) string {
	port := configPort(cfg, 5432)
	user, _ := cfg["username"].(string)
	pass, _ := cfg["password"].(string)
	host, _ := cfg["host"].(string)
	dbName, _ := cfg["database"].(string)
	sslMode, _ := cfg["sslMode"].(string)
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pass, dbName, sslMode,
	)
}

func configPort(cfg Config, def int) int {
	switch v := cfg["port"].(type) {
	case float64:
		if v > 0 {
			return int(v)
		}
	case string:
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			return p
		}
	}
	return def
}

// formatValue converts a database value to a JSON-friendly one.
func formatValue(v any) any {
	if v == nil {
		return nil
	}
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return val
	}
}
