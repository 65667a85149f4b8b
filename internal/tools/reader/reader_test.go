package reader

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/webscout/webscout/internal/schema"
	"github.com/webscout/webscout/internal/service/dispatch"
	"github.com/webscout/webscout/internal/upstream/readerapi"
)

func newTestService(t *testing.T, upstreamURL string, fs afero.Fs) *dispatch.Service {
	t.Helper()
	client := readerapi.New(upstreamURL, "test-key", nil)
	s, err := dispatch.NewService(&dispatch.ServiceConfig{
		Adapter: AdapterName,
		Tools:   ToolSet(client, fs),
	})
	if err != nil {
		t.Fatalf("NewService() unexpected error: %v", err)
	}
	return s
}

func TestProcessReadURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		if payload["url"] != "https://example.com/post" {
			t.Errorf("expected the URL to be submitted for extraction, got %v", payload)
		}
		_, _ = w.Write([]byte(`{
			"code": 200,
			"status": "ok",
			"data": {"title": "A Post", "content": "Body text."}
		}`))
	}))
	defer server.Close()

	s := newTestService(t, server.URL, afero.NewMemMapFs())
	result, err := s.InvokeTool(context.Background(), ToolName, map[string]any{
		"type":  OperationRead,
		"input": "https://example.com/post",
	})
	if err != nil {
		t.Fatalf("InvokeTool() unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected a successful result, got error content %v", result.Content)
	}
	if len(result.Content) != 1 {
		t.Fatalf("expected exactly one content block, got %d", len(result.Content))
	}
	if result.Content[0].Text != "# A Post\n\nBody text." {
		t.Errorf("unexpected content %q", result.Content[0].Text)
	}
}

func TestProcessReadLocalFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		if payload["html"] != "<p>local content</p>" {
			t.Errorf("expected raw file content to be submitted, got %v", payload)
		}
		if _, ok := payload["url"]; ok {
			t.Error("local reads must not carry a url payload")
		}
		_, _ = w.Write([]byte(`{"code": 200, "status": "ok", "data": {"content": "local content"}}`))
	}))
	defer server.Close()

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/tmp/page.html", []byte("<p>local content</p>"), 0o644); err != nil {
		t.Fatalf("failed to seed test filesystem: %v", err)
	}

	s := newTestService(t, server.URL, fs)
	result, err := s.InvokeTool(context.Background(), ToolName, map[string]any{
		"type":  OperationRead,
		"input": "/tmp/page.html",
	})
	if err != nil {
		t.Fatalf("InvokeTool() unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected a successful result, got error content %v", result.Content)
	}
	if result.Content[0].Text != "local content" {
		t.Errorf("unexpected content %q", result.Content[0].Text)
	}
}

func TestProcessReadMissingFileIsRecovered(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called when the local read fails")
	}))
	defer server.Close()

	s := newTestService(t, server.URL, afero.NewMemMapFs())
	result, err := s.InvokeTool(context.Background(), ToolName, map[string]any{
		"type":  OperationRead,
		"input": "/does/not/exist.html",
	})
	if err != nil {
		t.Fatalf("a failed local read must be recovered, got error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError to be set")
	}
	if !strings.Contains(result.Content[0].Text, "/does/not/exist.html") {
		t.Errorf("error content %q does not name the missing resource", result.Content[0].Text)
	}
}

func TestProcessRejectsUnknownOperation(t *testing.T) {
	s := newTestService(t, "http://127.0.0.1:0", afero.NewMemMapFs())
	_, err := s.InvokeTool(context.Background(), ToolName, map[string]any{
		"type":  "summarize",
		"input": "https://example.com",
	})

	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *schema.ValidationError, got %v", err)
	}
	if verr.Param != "type" {
		t.Errorf("validation error names param %q, want 'type'", verr.Param)
	}
}

func TestProcessIgnoresExtraParameters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code": 200, "status": "ok", "data": {"content": "ok"}}`))
	}))
	defer server.Close()

	s := newTestService(t, server.URL, afero.NewMemMapFs())
	result, err := s.InvokeTool(context.Background(), ToolName, map[string]any{
		"type":       OperationRead,
		"input":      "https://example.com",
		"parameters": map[string]any{"depth": float64(1)},
	})
	if err != nil {
		t.Fatalf("InvokeTool() unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected a successful result")
	}
}
