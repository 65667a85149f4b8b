package searchapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/webscout/webscout/internal/upstream"
)

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET method, got %s", r.Method)
		}
		if got := r.Header.Get("X-Subscription-Token"); got != "test-key" {
			t.Errorf("Expected X-Subscription-Token 'test-key', got %q", got)
		}
		if got := r.URL.Query().Get("q"); got != "golang context" {
			t.Errorf("Expected query 'golang context', got %q", got)
		}
		if got := r.URL.Query().Get("count"); got != "3" {
			t.Errorf("Expected count '3', got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"web": {
				"results": [
					{"title": "First", "url": "https://a.example", "description": "aaa"},
					{"title": "Second", "url": "https://b.example", "description": "bbb"},
					{"title": "Third", "url": "https://c.example", "description": "ccc"}
				]
			}
		}`))
	}))
	defer server.Close()

	client := New(server.URL, "test-key", server.Client())
	results, err := client.Search(context.Background(), "golang context", 3)
	if err != nil {
		t.Fatalf("Search() unexpected error: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	wantTitles := []string{"First", "Second", "Third"}
	for i, want := range wantTitles {
		if results[i].Title != want {
			t.Errorf("results[%d].Title = %q, want %q", i, results[i].Title, want)
		}
	}
}

func TestSearchUpstreamFailures(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantMessage string
	}{
		{
			name: "non-success status surfaces body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte("rate limit exceeded"))
			},
			wantMessage: "rate limit exceeded",
		},
		{
			name: "invalid response body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
			wantMessage: "failed to decode search API response",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := New(server.URL, "test-key", server.Client())
			_, err := client.Search(context.Background(), "x", 1)

			var uerr *upstream.Error
			if !errors.As(err, &uerr) {
				t.Fatalf("expected *upstream.Error, got %v", err)
			}
			if !strings.Contains(uerr.Error(), tt.wantMessage) {
				t.Errorf("error %q does not contain %q", uerr.Error(), tt.wantMessage)
			}
		})
	}
}

func TestSearchTransportErrorIsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := New(server.URL, "test-key", &http.Client{Timeout: time.Second})
	_, err := client.Search(context.Background(), "x", 1)

	var uerr *upstream.Error
	if !errors.As(err, &uerr) {
		t.Fatalf("expected *upstream.Error for transport failure, got %v", err)
	}
}

func TestSearchOmitsCountWhenZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("count") {
			t.Error("expected count query param to be omitted")
		}
		_, _ = w.Write([]byte(`{"web": {"results": []}}`))
	}))
	defer server.Close()

	client := New(server.URL, "test-key", server.Client())
	results, err := client.Search(context.Background(), "x", 0)
	if err != nil {
		t.Fatalf("Search() unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestNewDefaults(t *testing.T) {
	client := New("", "key", nil)
	if client.BaseURL != DefaultBaseURL {
		t.Errorf("expected default base URL %q, got %q", DefaultBaseURL, client.BaseURL)
	}
	if client.HTTP == nil {
		t.Fatal("expected a default HTTP client")
	}
	if client.HTTP.Timeout == 0 {
		t.Error("expected the default HTTP client to have a timeout")
	}
}
