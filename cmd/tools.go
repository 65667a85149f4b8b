package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var toolsCmdServerURL string

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools exposed by a running webscout server",
	Long: "Lists the name, description and input schema of every tool exposed by a webscout server\n" +
		"running in the http transport mode.",
	RunE: runListTools,
}

func init() {
	toolsCmd.Flags().StringVar(
		&toolsCmdServerURL,
		"server",
		"",
		fmt.Sprintf("URL of the webscout server (overrides env var %s)", ServerURLEnvVar),
	)
	rootCmd.AddCommand(toolsCmd)
}

func runListTools(cmd *cobra.Command, args []string) error {
	apiClient := newAPIClient(toolsCmdServerURL)

	tools, err := apiClient.ListTools()
	if err != nil {
		return fmt.Errorf("failed to list tools: %w", err)
	}

	for _, t := range tools {
		cmd.Println(t.Name)
		cmd.Println(t.Description)

		if len(t.InputSchema.Properties) == 0 {
			cmd.Println("This tool does not require any input parameters.")
			cmd.Println()
			continue
		}

		schemaJSON, err := json.MarshalIndent(t.InputSchema, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to render input schema for tool %s: %w", t.Name, err)
		}
		cmd.Println(string(schemaJSON))
		cmd.Println()
	}

	return nil
}
