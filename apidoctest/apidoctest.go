// Package apidoctest provides fixtures and HTTP helpers for testing code
// built on apidoc.
package apidoctest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/bjaus/apidoc"
)

// Seed is the faker seed used by Faker.
const Seed = 42

// Faker returns a faker with a fixed seed.
func Faker() *apidoc.Faker {
	return apidoc.NewFaker(apidoc.FakerConfig{Seed: Seed})
}

// Table is an in-memory route table.
type Table []apidoc.RouteRef

// NewTable creates a Table.
func NewTable(refs ...apidoc.RouteRef) Table { return refs }

// Routes implements apidoc.RouteTable.
func (t Table) Routes(_ context.Context) ([]apidoc.RouteRef, error) {
	return t, nil
}

// Route builds a RouteRef.
func Route(method, uri string, handler apidoc.HandlerID) apidoc.RouteRef {
	return apidoc.RouteRef{URI: uri, Methods: []string{method}, Handler: handler}
}

// NewSource creates a comment source from raw handler comments.
func NewSource(handlers map[apidoc.HandlerID]string) apidoc.MapSource {
	return apidoc.MapSource{Handlers: handlers, Containers: map[string]string{}}
}

// WriteTree writes files (relative path to content) under a fresh temporary
// directory and returns it.
func WriteTree(t testing.TB, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("apidoctest: create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("apidoctest: write %s: %v", name, err)
		}
	}
	return dir
}

// Client wraps an httptest.Server.
type Client struct {
	Server *httptest.Server
}

// NewClient starts a test server for h.
func NewClient(t testing.TB, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &Client{Server: srv}
}

// Response holds a fully read response.
type Response struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// JSON decodes the body into v.
func (r *Response) JSON(t testing.TB, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		t.Fatalf("apidoctest: decode body: %v", err)
	}
}

// Get sends a GET request.
func (c *Client) Get(t testing.TB, path string) *Response {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, c.Server.URL+path, nil)
	if err != nil {
		t.Fatalf("apidoctest: create request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("apidoctest: execute request: %v", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			t.Errorf("apidoctest: close body: %v", closeErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("apidoctest: read body: %v", err)
	}
	return &Response{Status: resp.StatusCode, Headers: resp.Header, Body: body}
}
