package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ── HTTP Source ─────────────────────────────────────────────
// Fetches rows from a REST API endpoint that returns JSON.

type httpSource struct{}

func init() { Register(&httpSource{}) }

func (s *httpSource) Spec() Spec {
	return Spec{
		Type:  "http",
		Label: "HTTP API",
		Icon:  "IconWorldWww",
		ConfigFields: []ConfigField{
			{Key: "url", Label: "URL", Type: "string", Required: true, Help: "Full URL to fetch (e.g., https://api.github.com/users/me/repos)"},
			{Key: "method", Label: "Method", Type: "select", Required: false, Options: []string{"GET", "POST"}, Default: "GET"},
			{Key: "headers", Label: "Headers", Type: "textarea", Required: false, Help: "JSON object of headers (e.g., {\"Authorization\": \"Bearer xxx\"})"},
			{Key: "body", Label: "Body", Type: "textarea", Required: false, Help: "Request body (for POST)"},
			{Key: "dataPath", Label: "Data Path", Type: "string", Required: false, Help: "Dot-separated path to the array in the response (e.g., 'data.items')"},
		},
	}
}

func (s *httpSource) Discover(ctx context.Context, cfg Config) (*Schema, error) {
	records, err := fetchHTTP(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return inferSchema(records), nil
}

func (s *httpSource) Read(ctx context.Context, cfg Config) (<-chan Record, <-chan error) {
	out := make(chan Record, 100)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		records, err := fetchHTTP(ctx, cfg)
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

func fetchHTTP(ctx context.Context, cfg Config) ([]Record, error) {
	url, _ := cfg["url"].(string)
	if url == "" {
		return nil, fmt.Errorf("url is required")
	}

	method, _ := cfg["method"].(string)
	if method == "" {
		method = "GET"
	}

	var bodyReader io.Reader
	if body, ok := cfg["body"].(string); ok && body != "" {
		bodyReader = strings.NewReader(body)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if headersStr, ok := cfg["headers"].(string); ok && headersStr != "" {
		var headers map[string]string
		if err := json.Unmarshal([]byte(headersStr), &headers); err == nil {
			for k, v := range headers {
				req.Header.Set(k, v)
			}
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	if dataPath, _ := cfg["dataPath"].(string); dataPath != "" {
		raw = navigatePath(raw, dataPath)
	}

	return toRecords(raw), nil
}
