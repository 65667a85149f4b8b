// Package search defines the tool catalog of the search adapter.
package search

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/webscout/webscout/internal/schema"
	"github.com/webscout/webscout/internal/service/dispatch"
	"github.com/webscout/webscout/internal/upstream/searchapi"
)

// AdapterName identifies the search adapter in logs, metrics and audit records.
const AdapterName = "search"

// ToolName is the name of the web search tool.
const ToolName = "search"

const defaultResultCount = float64(5)

// ToolSet returns the tool catalog of the search adapter, bound to the given
// upstream client.
func ToolSet(client *searchapi.Client) []dispatch.ToolDef {
	return []dispatch.ToolDef{
		{
			Name: ToolName,
			Description: "Search the web. Returns a JSON array of results, " +
				"each with a title, url and description.",
			Schema: schema.InputSchema{
				Params: []schema.Param{
					{
						Name:        "query",
						Kind:        schema.KindString,
						Description: "The search query",
						Required:    true,
					},
					{
						Name:        "count",
						Kind:        schema.KindNumber,
						Description: "Number of results to return (1-10)",
						Minimum:     schema.Float(1),
						Maximum:     schema.Float(10),
						Default:     defaultResultCount,
					},
				},
			},
			Invoker: dispatch.InvokerFunc(func(ctx context.Context, args map[string]any) ([]string, error) {
				query, _ := args["query"].(string)
				count, _ := args["count"].(float64)

				results, err := client.Search(ctx, query, int(count))
				if err != nil {
					return nil, err
				}
				if results == nil {
					// serialize an empty result set as [], not null
					results = []searchapi.Result{}
				}

				payload, err := json.MarshalIndent(results, "", "  ")
				if err != nil {
					return nil, fmt.Errorf("failed to serialize search results: %w", err)
				}
				return []string{string(payload)}, nil
			}),
		},
	}
}
