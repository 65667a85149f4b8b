package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/webscout/webscout/internal/api"
	"github.com/webscout/webscout/pkg/types"
)

func TestListTools(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET method, got %s", r.Method)
		}
		if r.URL.Path != api.V0ApiPathPrefix+"/tools" {
			t.Errorf("Expected path %s/tools, got %s", api.V0ApiPathPrefix, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Expected Authorization 'Bearer test-token', got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"tools": [
				{"name": "search", "description": "Search the web", "inputSchema": {"type": "object"}},
				{"name": "process", "description": "Process a resource", "inputSchema": {"type": "object"}}
			]
		}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-token", server.Client())
	tools, err := c.ListTools()
	if err != nil {
		t.Fatalf("ListTools() unexpected error: %v", err)
	}
	if len(tools) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(tools))
	}
	if tools[0].Name != "search" || tools[1].Name != "process" {
		t.Errorf("unexpected tool names: %s, %s", tools[0].Name, tools[1].Name)
	}
}

func TestInvokeTool(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST method, got %s", r.Method)
		}
		if r.URL.Path != api.V0ApiPathPrefix+"/tools/invoke" {
			t.Errorf("Expected path %s/tools/invoke, got %s", api.V0ApiPathPrefix, r.URL.Path)
		}

		var request types.ToolInvokeRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		if request.Name != "search" {
			t.Errorf("Expected tool name 'search', got %q", request.Name)
		}
		if request.Arguments["query"] != "golang" {
			t.Errorf("Expected query argument, got %v", request.Arguments)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content": [{"type": "text", "text": "[]"}]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "", server.Client())
	result, err := c.InvokeTool(&types.ToolInvokeRequest{
		Name:      "search",
		Arguments: map[string]any{"query": "golang"},
	})
	if err != nil {
		t.Fatalf("InvokeTool() unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected a successful result")
	}
	if len(result.Content) != 1 || result.Content[0].Text != "[]" {
		t.Errorf("unexpected content %v", result.Content)
	}
}

func TestInvokeToolServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "unknown tool: nope"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "", server.Client())
	_, err := c.InvokeTool(&types.ToolInvokeRequest{Name: "nope"})
	if err == nil {
		t.Fatal("expected an error for a 404 response")
	}
	if !strings.Contains(err.Error(), "unknown tool: nope") {
		t.Errorf("error %q does not carry the server message", err)
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error %q does not carry the status code", err)
	}
}

func TestListToolsNonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	}))
	defer server.Close()

	c := NewClient(server.URL, "", server.Client())
	_, err := c.ListTools()
	if err == nil {
		t.Fatal("expected an error for a 502 response")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error %q does not carry the status code", err)
	}
}
