package types

// Tool describes a callable tool exposed by a webscout adapter server.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema ToolInputSchema `json:"inputSchema"`
}

// ToolInputSchema is the wire representation of a tool's input schema.
// It follows the JSON schema subset understood by MCP clients.
type ToolInputSchema struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
	Required   []string       `json:"required,omitempty"`
}

// ContentBlockTypeText is the only content block type produced by webscout tools.
const ContentBlockTypeText = "text"

// ContentBlock is a single unit of tool response payload.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolInvokeResult is the canonical envelope returned for every tool call.
// A recovered upstream failure is reported with IsError set and a human-readable
// message in Content; it is not a protocol-level error.
type ToolInvokeResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ToolInvokeRequest is the request body accepted by the HTTP tool invocation endpoint.
type ToolInvokeRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ServerMetadata holds metadata about a running webscout server.
type ServerMetadata struct {
	Version string `json:"version"`
}
