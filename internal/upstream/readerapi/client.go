// Package readerapi provides a minimal client for the upstream content reader
// API, which fetches and/or extracts the textual content of web pages.
package readerapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/webscout/webscout/internal/upstream"
)

const (
	// DefaultBaseURL is the content reader endpoint used unless overridden.
	DefaultBaseURL = "https://r.jina.ai/"

	defaultTimeout = 60 * time.Second

	maxErrorBodyBytes = 512
)

// Client is a minimal HTTP client for the content reader API.
// Each extraction call performs exactly one network request.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// New returns a new reader client. If httpClient is nil, a default with a 60s
// timeout is used; extraction of large pages is slower than search.
func New(baseURL, apiKey string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{BaseURL: baseURL, APIKey: apiKey, HTTP: httpClient}
}

// Extraction is the extracted textual content of a resource.
type Extraction struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// readerResponse mirrors the subset of the upstream response body we consume.
type readerResponse struct {
	Code   int        `json:"code"`
	Status string     `json:"status"`
	Data   Extraction `json:"data"`
}

// ExtractURL asks the reader API to fetch the given URL and extract its
// textual content.
func (c *Client) ExtractURL(ctx context.Context, pageURL string) (*Extraction, error) {
	return c.extract(ctx, map[string]string{"url": pageURL})
}

// ExtractHTML submits raw HTML content to the reader API for extraction.
// It is used for local resources the upstream cannot fetch itself.
func (c *Client) ExtractHTML(ctx context.Context, html string) (*Extraction, error) {
	return c.extract(ctx, map[string]string{"html": html})
}

func (c *Client) extract(ctx context.Context, payload map[string]string) (*Extraction, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reader request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build reader request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, upstream.NewError("", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, upstream.Errorf(
			"reader API returned status %d: %s", resp.StatusCode, readErrorBody(resp.Body),
		)
	}

	var decoded readerResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, upstream.NewError("failed to decode reader API response", err)
	}

	return &decoded.Data, nil
}

func readErrorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBodyBytes))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
