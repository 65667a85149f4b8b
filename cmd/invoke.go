package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/webscout/webscout/pkg/types"
)

var (
	invokeCmdServerURL string
	invokeCmdArgs      string
)

var invokeCmd = &cobra.Command{
	Use:   "invoke <name>",
	Short: "Invoke a tool on a running webscout server",
	Long: "Invokes a tool by name on a webscout server running in the http transport mode.\n" +
		"Arguments are supplied as a JSON object, eg:\n" +
		"    webscout invoke search --args '{\"query\": \"golang context\", \"count\": 3}'\n",
	Args: cobra.ExactArgs(1),
	RunE: runInvokeTool,
}

func init() {
	invokeCmd.Flags().StringVar(
		&invokeCmdServerURL,
		"server",
		"",
		fmt.Sprintf("URL of the webscout server (overrides env var %s)", ServerURLEnvVar),
	)
	invokeCmd.Flags().StringVar(
		&invokeCmdArgs,
		"args",
		"{}",
		"tool arguments as a JSON object",
	)
	rootCmd.AddCommand(invokeCmd)
}

func runInvokeTool(cmd *cobra.Command, args []string) error {
	var toolArgs map[string]any
	if err := json.Unmarshal([]byte(invokeCmdArgs), &toolArgs); err != nil {
		return fmt.Errorf("--args must be a valid JSON object: %w", err)
	}

	apiClient := newAPIClient(invokeCmdServerURL)

	result, err := apiClient.InvokeTool(&types.ToolInvokeRequest{
		Name:      args[0],
		Arguments: toolArgs,
	})
	if err != nil {
		return fmt.Errorf("failed to invoke tool '%s': %w", args[0], err)
	}

	if result.IsError {
		cmd.Println("The tool call failed:")
	}
	for _, block := range result.Content {
		cmd.Println(block.Text)
	}

	return nil
}
