// Package cmd contains the webscout CLI commands.
package cmd

import (
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/webscout/webscout/client"
	"github.com/webscout/webscout/pkg/version"
)

const (
	// ServerURLEnvVar configures the server URL used by client commands.
	ServerURLEnvVar = "WEBSCOUT_SERVER_URL"

	// AccessTokenEnvVar configures the bearer token used by client commands
	// and required by the server when set at startup.
	AccessTokenEnvVar = "WEBSCOUT_ACCESS_TOKEN"

	serverURLDefault = "http://127.0.0.1:8080"
)

var rootCmd = &cobra.Command{
	Use:     "webscout",
	Short:   "Expose web search and content reading as MCP tools",
	Version: version.GetVersion(),
	Long: "webscout runs small adapter servers that expose external web-data APIs\n" +
		"(a web search engine, a content reader) as MCP tools.\n\n" +
		"An agent connects over stdio (or streamable HTTP) and calls the tools\n" +
		"without knowing anything about the underlying HTTP APIs.",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newAPIClient constructs an API client for the commands that talk to a
// webscout server running in the http transport mode.
func newAPIClient(serverURL string) *client.Client {
	if serverURL == "" {
		serverURL = os.Getenv(ServerURLEnvVar)
	}
	if serverURL == "" {
		serverURL = serverURLDefault
	}
	return client.NewClient(serverURL, os.Getenv(AccessTokenEnvVar), http.DefaultClient)
}
