package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webscout/webscout/internal/migrations"
	"github.com/webscout/webscout/internal/model"
	"github.com/webscout/webscout/internal/service/audit"
	"github.com/webscout/webscout/internal/service/dispatch"
	"github.com/webscout/webscout/internal/telemetry"
	"github.com/webscout/webscout/internal/tools/search"
	"github.com/webscout/webscout/internal/upstream/searchapi"
	"go.uber.org/zap"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestSearchAdapterIntegration(t *testing.T) {
	// Setup test database
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Migrate(db)
	require.NoError(t, err)

	// Stub upstream search API
	upstreamServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "outage" {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("search backend down"))
			return
		}
		_, _ = w.Write([]byte(`{
			"web": {
				"results": [
					{"title": "Go", "url": "https://go.dev", "description": "The Go programming language"}
				]
			}
		}`))
	}))
	defer upstreamServer.Close()

	// Wire the dispatch service the way the start command does, with the
	// audit recorder backed by the test database.
	client := searchapi.New(upstreamServer.URL, "test-key", upstreamServer.Client())
	service, err := dispatch.NewService(&dispatch.ServiceConfig{
		Adapter: search.AdapterName,
		Tools:   search.ToolSet(client),
		Metrics: telemetry.NewNoopCustomMetrics(),
		Audit:   audit.NewDBRecorder(db, zap.NewNop()),
		Logger:  zap.NewNop(),
	})
	require.NoError(t, err)

	ctx := context.Background()

	// Successful call
	result, err := service.InvokeTool(ctx, search.ToolName, map[string]any{"query": "golang"})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	require.Len(t, result.Content, 1)
	assert.Contains(t, result.Content[0].Text, "https://go.dev")

	// Recovered upstream failure
	result, err = service.InvokeTool(ctx, search.ToolName, map[string]any{"query": "outage"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].Text, "search backend down")

	// Rejected call: validation fails before the upstream is reached
	_, err = service.InvokeTool(ctx, search.ToolName, map[string]any{
		"query": "golang",
		"count": float64(42),
	})
	require.Error(t, err)

	// Every call, including rejected and failed ones, leaves an audit row
	var calls []model.ToolCall
	require.NoError(t, db.Order("id").Find(&calls).Error)
	require.Len(t, calls, 3)

	assert.Equal(t, search.AdapterName, calls[0].Adapter)
	assert.Equal(t, search.ToolName, calls[0].Tool)
	assert.Equal(t, string(telemetry.ToolCallOutcomeSuccess), calls[0].Outcome)
	assert.Contains(t, string(calls[0].Arguments), "golang")

	assert.Equal(t, string(telemetry.ToolCallOutcomeError), calls[1].Outcome)
	assert.Contains(t, calls[1].Detail, "search backend down")

	assert.Equal(t, string(telemetry.ToolCallOutcomeRejected), calls[2].Outcome)
	assert.Contains(t, calls[2].Detail, "count")
}
