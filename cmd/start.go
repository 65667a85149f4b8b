package cmd

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/webscout/webscout/internal"
	"github.com/webscout/webscout/internal/api"
	"github.com/webscout/webscout/internal/config"
	"github.com/webscout/webscout/internal/db"
	"github.com/webscout/webscout/internal/migrations"
	"github.com/webscout/webscout/internal/service/audit"
	"github.com/webscout/webscout/internal/service/dispatch"
	"github.com/webscout/webscout/internal/telemetry"
	readertools "github.com/webscout/webscout/internal/tools/reader"
	searchtools "github.com/webscout/webscout/internal/tools/search"
	"github.com/webscout/webscout/internal/upstream/readerapi"
	"github.com/webscout/webscout/internal/upstream/searchapi"
	"github.com/webscout/webscout/pkg/version"
	"go.uber.org/zap"
)

const (
	BindPortEnvVar  = "PORT"
	BindPortDefault = "8080"

	AdapterEnvVar   = "WEBSCOUT_ADAPTER"
	TransportEnvVar = "WEBSCOUT_TRANSPORT"

	DBUrlEnvVar            = "DATABASE_URL"
	TelemetryEnabledEnvVar = "OTEL_ENABLED"

	SearchAPIKeyEnvVar = "SEARCH_API_KEY"
	SearchAPIURLEnvVar = "SEARCH_API_URL"
	ReaderAPIKeyEnvVar = "READER_API_KEY"
	ReaderAPIURLEnvVar = "READER_API_URL"

	// UpstreamTimeoutSecEnvVar configures the timeout (in seconds) for each
	// upstream API call. A timed-out call is reported as an upstream error.
	UpstreamTimeoutSecEnvVar = "UPSTREAM_TIMEOUT_SEC"
)

const (
	PostgresHostEnvVar     = "POSTGRES_HOST"
	PostgresPortEnvVar     = "POSTGRES_PORT"
	PostgresUserEnvVar     = "POSTGRES_USER"
	PostgresPasswordEnvVar = "POSTGRES_PASSWORD"
	PostgresDBEnvVar       = "POSTGRES_DB"
)

var (
	startServerCmdAdapter    string
	startServerCmdTransport  string
	startServerCmdBindPort   string
	startServerCmdConfigFile string
)

var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a webscout adapter server",
	Long: "Starts a webscout adapter server exposing web search and/or content reading tools.\n\n" +
		"By default the server speaks MCP over stdio, which is how agent hosts usually run it.\n" +
		"Use '--transport http' to serve the same tools over streamable HTTP plus a small REST API.\n\n" +
		"Each enabled adapter needs its upstream API key in the environment:\n" +
		"  SEARCH_API_KEY for the search adapter\n" +
		"  READER_API_KEY for the reader adapter\n" +
		"The server refuses to start when a required key is missing.\n\n" +
		"Set the DATABASE_URL environment variable (a sqlite file path or a postgres:// URL) to\n" +
		"record every tool invocation in an audit store.\n" +
		"For Postgres, you can also set individual connection details using the following environment\n" +
		"variables: POSTGRES_HOST, POSTGRES_PORT (default 5432), POSTGRES_USER (default postgres),\n" +
		"POSTGRES_PASSWORD, POSTGRES_DB (default postgres)\n",
	RunE: runStartServer,
}

func init() {
	startServerCmd.Flags().StringVar(
		&startServerCmdAdapter,
		"adapter",
		"",
		fmt.Sprintf(
			"adapter to serve: '%s' | '%s' | '%s' (overrides env var %s)",
			config.AdapterSearch, config.AdapterReader, config.AdapterAll, AdapterEnvVar,
		),
	)
	startServerCmd.Flags().StringVar(
		&startServerCmdTransport,
		"transport",
		"",
		fmt.Sprintf(
			"transport to serve on: '%s' | '%s' (overrides env var %s)",
			config.TransportStdio, config.TransportHTTP, TransportEnvVar,
		),
	)
	startServerCmd.Flags().StringVar(
		&startServerCmdBindPort,
		"port",
		"",
		fmt.Sprintf("port to bind the HTTP server to (overrides env var %s)", BindPortEnvVar),
	)
	startServerCmd.Flags().StringVar(
		&startServerCmdConfigFile,
		"config",
		"",
		"path to an optional YAML configuration file",
	)

	rootCmd.AddCommand(startServerCmd)
}

// loadServerConfig assembles the effective configuration.
// Precedence: command line flag > environment variable > config file > default.
func loadServerConfig() (*config.Config, error) {
	c := config.Default()

	if startServerCmdConfigFile != "" {
		loaded, err := config.Load(startServerCmdConfigFile)
		if err != nil {
			return nil, err
		}
		c = loaded
	}

	if v := os.Getenv(AdapterEnvVar); v != "" {
		c.Adapter = strings.ToLower(v)
	}
	if v := os.Getenv(TransportEnvVar); v != "" {
		c.Transport = strings.ToLower(v)
	}
	if v := os.Getenv(BindPortEnvVar); v != "" {
		c.Port = v
	}
	if v := os.Getenv(SearchAPIURLEnvVar); v != "" {
		c.Search.BaseURL = v
	}
	if v := os.Getenv(ReaderAPIURLEnvVar); v != "" {
		c.Reader.BaseURL = v
	}
	if v := os.Getenv(DBUrlEnvVar); v != "" {
		c.DatabaseURL = v
	}

	if startServerCmdAdapter != "" {
		c.Adapter = strings.ToLower(startServerCmdAdapter)
	}
	if startServerCmdTransport != "" {
		c.Transport = strings.ToLower(startServerCmdTransport)
	}
	if startServerCmdBindPort != "" {
		c.Port = startServerCmdBindPort
	}

	timeoutSec, err := getUpstreamTimeout()
	if err != nil {
		return nil, err
	}
	if timeoutSec > 0 {
		c.UpstreamTimeoutSec = timeoutSec
	}

	telemetryEnabled, err := isTelemetryEnabled(c.OtelEnabled)
	if err != nil {
		return nil, err
	}
	c.OtelEnabled = telemetryEnabled

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// isTelemetryEnabled returns true if telemetry should be enabled.
// If the env var is specified, it takes precedence over the config file value.
func isTelemetryEnabled(configured bool) (bool, error) {
	envTelemetryEnabled := os.Getenv(TelemetryEnabledEnvVar)
	if envTelemetryEnabled == "" {
		return configured, nil
	}

	switch strings.ToLower(envTelemetryEnabled) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf(
			"invalid value for %s environment variable: '%s', valid values are 'true' or 'false'",
			TelemetryEnabledEnvVar, envTelemetryEnabled,
		)
	}
}

// getUpstreamTimeout returns the configured upstream call timeout in seconds.
// Zero means each upstream client uses its own default.
func getUpstreamTimeout() (int, error) {
	timeoutStr := strings.TrimSpace(os.Getenv(UpstreamTimeoutSecEnvVar))
	if timeoutStr == "" {
		return 0, nil
	}
	timeout, err := strconv.Atoi(timeoutStr)
	if err != nil || timeout < 1 {
		return 0, fmt.Errorf(
			"invalid value for %s: '%s', must be a positive integer", UpstreamTimeoutSecEnvVar, timeoutStr,
		)
	}
	return timeout, nil
}

// getEnvOrFile returns the value of the given environment variable.
// If the environment variable is not set, it checks for a corresponding
// _FILE environment variable and reads the value from the file if it exists.
// If both are set, the value of the original environment variable takes precedence.
func getEnvOrFile(envVar string) (string, error) {
	val := os.Getenv(envVar)
	if val != "" {
		return val, nil
	}

	fileEnvVar := envVar + "_FILE"
	filePath := os.Getenv(fileEnvVar)
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", fileEnvVar, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	return "", nil
}

// getPostgresDSN constructs a Postgres DSN from individual Postgres-specific
// environment variables & files. It is used to provide an alternative way to
// specify Postgres connection details in case the user doesn't want to use a
// full DATABASE_URL. If POSTGRES_HOST is not set, this function assumes that
// Postgres-specific env vars are not being used and returns ok=false.
func getPostgresDSN() (string, bool, error) {
	host := os.Getenv(PostgresHostEnvVar)
	if host == "" {
		return "", false, nil
	}
	port := os.Getenv(PostgresPortEnvVar)
	if port == "" {
		port = "5432"
	}
	dbName, err := getEnvOrFile(PostgresDBEnvVar)
	if err != nil {
		return "", false, fmt.Errorf("failed to get postgres DB name: %w", err)
	}
	if dbName == "" {
		dbName = "postgres"
	}
	pgUser, err := getEnvOrFile(PostgresUserEnvVar)
	if err != nil {
		return "", false, fmt.Errorf("failed to get postgres user: %w", err)
	}
	if pgUser == "" {
		pgUser = "postgres"
	}
	password, err := getEnvOrFile(PostgresPasswordEnvVar)
	if err != nil {
		return "", false, fmt.Errorf("failed to get postgres password: %w", err)
	}
	// password can be empty, so no default value

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		url.QueryEscape(pgUser),
		url.QueryEscape(password),
		host,
		port,
		url.QueryEscape(dbName),
	)

	return dsn, true, nil
}

// newLogger builds the process logger. It always writes to stderr: in the
// stdio transport, stdout carries protocol messages and must stay clean.
func newLogger() (*zap.Logger, error) {
	conf := zap.NewProductionConfig()
	conf.OutputPaths = []string{"stderr"}
	conf.ErrorOutputPaths = []string{"stderr"}
	return conf.Build()
}

// buildToolSets constructs the tool catalogs for the enabled adapters.
// Each enabled adapter must have its upstream API key in the environment.
func buildToolSets(c *config.Config) (map[string][]dispatch.ToolDef, error) {
	var httpClient *http.Client
	if c.UpstreamTimeoutSec > 0 {
		httpClient = &http.Client{Timeout: time.Duration(c.UpstreamTimeoutSec) * time.Second}
	}

	toolSets := make(map[string][]dispatch.ToolDef)

	if c.Adapter == config.AdapterSearch || c.Adapter == config.AdapterAll {
		apiKey := os.Getenv(SearchAPIKeyEnvVar)
		if apiKey == "" {
			return nil, fmt.Errorf(
				"%s environment variable is required to run the search adapter", SearchAPIKeyEnvVar,
			)
		}
		searchClient := searchapi.New(c.Search.BaseURL, apiKey, httpClient)
		toolSets[searchtools.AdapterName] = searchtools.ToolSet(searchClient)
	}

	if c.Adapter == config.AdapterReader || c.Adapter == config.AdapterAll {
		apiKey := os.Getenv(ReaderAPIKeyEnvVar)
		if apiKey == "" {
			return nil, fmt.Errorf(
				"%s environment variable is required to run the reader adapter", ReaderAPIKeyEnvVar,
			)
		}
		readerClient := readerapi.New(c.Reader.BaseURL, apiKey, httpClient)
		toolSets[readertools.AdapterName] = readertools.ToolSet(readerClient, afero.NewOsFs())
	}

	return toolSets, nil
}

func runStartServer(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	conf, err := loadServerConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	otelConfig := &telemetry.Config{
		ServiceName: "webscout",
		Enabled:     conf.OtelEnabled,
	}
	otelProviders, err := telemetry.Init(cmd.Context(), otelConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize Opentelemetry providers: %v", err)
	}
	defer func() {
		if err := otelProviders.Shutdown(cmd.Context()); err != nil {
			logger.Warn("failed to shutdown opentelemetry providers", zap.Error(err))
		}
	}()

	// By default, a no-op metrics implementation is used so the dispatch path
	// never has to check whether metrics are enabled.
	metrics := telemetry.NewNoopCustomMetrics()
	if otelProviders.IsEnabled() {
		metrics, err = telemetry.NewOtelCustomMetrics(otelProviders.Meter)
		if err != nil {
			return fmt.Errorf("failed to create tool call metrics: %v", err)
		}
	}

	// the audit store is enabled only when a DSN is configured
	dsn := conf.DatabaseURL
	if dsn == "" {
		pgDSN, ok, err := getPostgresDSN()
		if err != nil {
			return fmt.Errorf("failed to get postgres DSN: %w", err)
		}
		if ok {
			dsn = pgDSN
		}
	}
	recorder := audit.NewNoopRecorder()
	if dsn != "" {
		dbConn, err := db.NewDBConnection(dsn)
		if err != nil {
			return err
		}
		if err := migrations.Migrate(dbConn); err != nil {
			return fmt.Errorf("failed to run migrations: %v", err)
		}
		recorder = audit.NewDBRecorder(dbConn, logger)
		logger.Info("tool call auditing enabled")
	}

	toolSets, err := buildToolSets(conf)
	if err != nil {
		return err
	}

	mcpServer := server.NewMCPServer(
		"webscout",
		version.GetVersion(),
		server.WithToolCapabilities(true),
	)

	services := make([]*dispatch.Service, 0, len(toolSets))
	for _, adapter := range []string{searchtools.AdapterName, readertools.AdapterName} {
		tools, ok := toolSets[adapter]
		if !ok {
			continue
		}
		svc, err := dispatch.NewService(&dispatch.ServiceConfig{
			Adapter: adapter,
			Tools:   tools,
			Metrics: metrics,
			Audit:   recorder,
			Logger:  logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create dispatch service for adapter %s: %v", adapter, err)
		}
		if err := svc.BindTo(mcpServer); err != nil {
			return fmt.Errorf("failed to register adapter %s tools: %v", adapter, err)
		}
		services = append(services, svc)
	}

	if conf.Transport == config.TransportStdio {
		logger.Info("serving MCP over stdio", zap.String("adapter", conf.Adapter))
		return server.ServeStdio(mcpServer)
	}

	accessToken := os.Getenv(AccessTokenEnvVar)
	if accessToken != "" {
		if err := internal.ValidateAccessToken(accessToken); err != nil {
			return fmt.Errorf("invalid %s: %v", AccessTokenEnvVar, err)
		}
	}

	opts := &api.ServerOptions{
		Port:             conf.Port,
		MCPServer:        mcpServer,
		DispatchServices: services,
		AccessToken:      accessToken,
		OtelProviders:    otelProviders,
		Logger:           logger,
	}
	s, err := api.NewServer(opts)
	if err != nil {
		return fmt.Errorf("failed to create server: %v", err)
	}

	cmd.Printf("webscout HTTP server listening on :%s\n", conf.Port)
	if err := s.Start(); err != nil {
		return fmt.Errorf("failed to run the server: %v", err)
	}

	return nil
}
