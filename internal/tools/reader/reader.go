// Package reader defines the tool catalog of the content reader adapter.
package reader

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/webscout/webscout/internal/schema"
	"github.com/webscout/webscout/internal/service/dispatch"
	"github.com/webscout/webscout/internal/upstream"
	"github.com/webscout/webscout/internal/upstream/readerapi"
)

// AdapterName identifies the reader adapter in logs, metrics and audit records.
const AdapterName = "reader"

// ToolName is the name of the content processing tool.
const ToolName = "process"

// OperationRead extracts the textual content of a URL or local file.
const OperationRead = "read"

// ToolSet returns the tool catalog of the reader adapter, bound to the given
// upstream client. Local file paths are read through fs so the branch is
// testable with an in-memory filesystem.
//
// The policy for the input argument: a http(s) URL is fetched and extracted by
// the reader API itself; a local path is read from fs and its raw content is
// submitted to the reader API for extraction. Either way, exactly one upstream
// call is made.
func ToolSet(client *readerapi.Client, fs afero.Fs) []dispatch.ToolDef {
	return []dispatch.ToolDef{
		{
			Name: ToolName,
			Description: "Process a resource. The read operation extracts the " +
				"textual content of a URL or local file.",
			Schema: schema.InputSchema{
				Params: []schema.Param{
					{
						Name:        "type",
						Kind:        schema.KindEnum,
						Description: "The operation to perform",
						Required:    true,
						Enum:        []string{OperationRead},
					},
					{
						Name:        "input",
						Kind:        schema.KindString,
						Description: "A http(s) URL or a local file path",
						Required:    true,
					},
					{
						Name:        "parameters",
						Kind:        schema.KindObject,
						Description: "Reserved for operation-specific options",
					},
				},
			},
			Invoker: dispatch.InvokerFunc(func(ctx context.Context, args map[string]any) ([]string, error) {
				input, _ := args["input"].(string)

				extraction, err := extract(ctx, client, fs, input)
				if err != nil {
					return nil, err
				}
				return []string{formatExtraction(extraction)}, nil
			}),
		},
	}
}

func extract(ctx context.Context, client *readerapi.Client, fs afero.Fs, input string) (*readerapi.Extraction, error) {
	if isURL(input) {
		return client.ExtractURL(ctx, input)
	}

	// Failing to read the local resource is a recoverable invocation failure,
	// not a defect: the caller supplied the path and must be able to continue
	// the exchange after a bad one.
	content, err := afero.ReadFile(fs, input)
	if err != nil {
		return nil, upstream.NewError(fmt.Sprintf("failed to read local resource %q", input), err)
	}
	return client.ExtractHTML(ctx, string(content))
}

func isURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// formatExtraction renders an extraction as a single text payload, with the
// document title as a heading when the upstream provided one.
func formatExtraction(e *readerapi.Extraction) string {
	if e.Title == "" {
		return e.Content
	}
	return fmt.Sprintf("# %s\n\n%s", e.Title, e.Content)
}
