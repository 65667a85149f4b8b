package dispatch

import (
	"fmt"

	"github.com/webscout/webscout/internal/upstream"
	"github.com/webscout/webscout/pkg/types"
)

// okResult wraps the invoker's text payloads into a success envelope,
// one content block per payload, in order.
func okResult(texts []string) *types.ToolInvokeResult {
	content := make([]types.ContentBlock, 0, len(texts))
	for _, text := range texts {
		content = append(content, types.ContentBlock{
			Type: types.ContentBlockTypeText,
			Text: text,
		})
	}
	return &types.ToolInvokeResult{Content: content}
}

// errorResult wraps a recovered upstream failure into an isError envelope with
// a single text block describing the failure.
func errorResult(tool string, err *upstream.Error) *types.ToolInvokeResult {
	return &types.ToolInvokeResult{
		Content: []types.ContentBlock{
			{
				Type: types.ContentBlockTypeText,
				Text: fmt.Sprintf("%s failed: %s", tool, err.Error()),
			},
		},
		IsError: true,
	}
}
