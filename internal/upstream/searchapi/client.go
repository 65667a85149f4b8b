// Package searchapi provides a minimal client for the upstream web search API.
package searchapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/webscout/webscout/internal/upstream"
)

const (
	// DefaultBaseURL is the web search endpoint used unless overridden.
	DefaultBaseURL = "https://api.search.brave.com/res/v1/web/search"

	defaultTimeout = 30 * time.Second

	// maxErrorBodyBytes caps how much of an upstream error body is surfaced.
	maxErrorBodyBytes = 512
)

// Client is a minimal HTTP client for the web search API.
// Each Search call performs exactly one network request: no retries, no caching.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// New returns a new search client. If httpClient is nil, a default with a 30s
// timeout is used.
func New(baseURL, apiKey string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), APIKey: apiKey, HTTP: httpClient}
}

// Result is a single normalized search result.
type Result struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// searchResponse mirrors the subset of the upstream response body we consume.
type searchResponse struct {
	Web struct {
		Results []Result `json:"results"`
	} `json:"web"`
}

// Search queries the web search API and returns normalized results.
// Transport failures, timeouts and non-success responses are reported as
// *upstream.Error.
func (c *Client) Search(ctx context.Context, query string, count int) ([]Result, error) {
	reqURL, err := c.buildSearchURL(query, count)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, upstream.NewError("", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, upstream.Errorf(
			"search API returned status %d: %s", resp.StatusCode, readErrorBody(resp.Body),
		)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, upstream.NewError("failed to decode search API response", err)
	}

	return body.Web.Results, nil
}

func (c *Client) buildSearchURL(query string, count int) (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid search API base url: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	if count > 0 {
		q.Set("count", strconv.Itoa(count))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// readErrorBody reads a bounded snippet of an upstream error response body.
func readErrorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBodyBytes))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
