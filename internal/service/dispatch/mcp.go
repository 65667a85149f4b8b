package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// BindTo registers all tools of this service on the given MCP server.
// The MCP transport handles message framing; protocol-level faults (unknown
// tool, invalid arguments) are returned as handler errors so the SDK surfaces
// them as JSON-RPC errors rather than tool results.
func (s *Service) BindTo(srv *server.MCPServer) error {
	for _, name := range s.order {
		def := s.tools[name]

		rawSchema, err := json.Marshal(def.Schema.Wire())
		if err != nil {
			return fmt.Errorf("failed to marshal input schema for tool %s: %w", def.Name, err)
		}

		tool := mcp.NewToolWithRawSchema(def.Name, def.Description, rawSchema)
		srv.AddTool(tool, s.mcpToolCallHandler(def.Name))
	}
	return nil
}

// mcpToolCallHandler adapts InvokeTool to the mcp-go tool handler signature.
func (s *Service) mcpToolCallHandler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := s.InvokeTool(ctx, name, req.GetArguments())
		if err != nil {
			return nil, err
		}

		content := make([]mcp.Content, 0, len(result.Content))
		for _, block := range result.Content {
			content = append(content, mcp.NewTextContent(block.Text))
		}
		return &mcp.CallToolResult{
			Content: content,
			IsError: result.IsError,
		}, nil
	}
}
