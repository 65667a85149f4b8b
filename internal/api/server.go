// Package api provides the HTTP serving mode of a webscout adapter server.
// It exposes the same tool surface as the stdio transport: the MCP proxy at
// /mcp plus a small REST API for listing and invoking tools directly.
package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/webscout/webscout/internal/service/dispatch"
	"github.com/webscout/webscout/internal/telemetry"
	"github.com/webscout/webscout/pkg/types"
	"github.com/webscout/webscout/pkg/version"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const (
	V0PathPrefix    = "/v0"
	V0ApiPathPrefix = "/api" + V0PathPrefix
)

// ServerOptions holds the dependencies for constructing a Server.
type ServerOptions struct {
	// Port is the TCP port to bind the HTTP server to.
	Port string

	// MCPServer is the MCP server instance carrying this adapter's tools.
	MCPServer *server.MCPServer

	// DispatchServices are the dispatch services behind the REST endpoints,
	// one per enabled adapter.
	DispatchServices []*dispatch.Service

	// AccessToken, when non-empty, enables bearer authentication on all
	// tool endpoints.
	AccessToken string

	OtelProviders *telemetry.Providers
	Logger        *zap.Logger
}

// Server serves a webscout adapter over HTTP.
type Server struct {
	port   string
	router *gin.Engine

	mcpServer *server.MCPServer
	services  []*dispatch.Service

	accessToken string

	otelProviders *telemetry.Providers
	logger        *zap.Logger
}

// NewServer initializes a new HTTP server for the given adapter services.
func NewServer(opts *ServerOptions) (*Server, error) {
	if opts.MCPServer == nil {
		return nil, fmt.Errorf("MCP server instance is required")
	}
	if len(opts.DispatchServices) == 0 {
		return nil, fmt.Errorf("at least one dispatch service is required")
	}

	s := &Server{
		port:          opts.Port,
		mcpServer:     opts.MCPServer,
		services:      opts.DispatchServices,
		accessToken:   opts.AccessToken,
		otelProviders: opts.OtelProviders,
		logger:        opts.Logger,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	s.router = s.setupRouter()
	return s, nil
}

// Start runs the HTTP server (blocking call).
func (s *Server) Start() error {
	if err := s.router.Run(":" + s.port); err != nil {
		return fmt.Errorf("failed to run the server: %w", err)
	}
	return nil
}

// Router exposes the root HTTP handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter sets up the Gin router with the MCP server and API endpoints.
func (s *Server) setupRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	// if otel is enabled, instrument gin and expose the prometheus endpoint
	if s.otelProviders.IsEnabled() {
		r.Use(otelgin.Middleware(s.otelProviders.ServiceName()))
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metadata", func(c *gin.Context) {
		c.JSON(http.StatusOK, &types.ServerMetadata{
			Version: version.GetVersion(),
		})
	})

	// MCP over streamable HTTP
	streamableHTTPServer := server.NewStreamableHTTPServer(s.mcpServer)
	r.Any("/mcp", s.checkAuth(), gin.WrapH(streamableHTTPServer))

	apiV0 := r.Group(V0ApiPathPrefix, s.checkAuth())
	{
		apiV0.GET("/tools", s.listToolsHandler())
		apiV0.POST("/tools/invoke", s.invokeToolHandler())
	}

	return r
}

// checkAuth enforces bearer authentication when an access token is configured.
func (s *Server) checkAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.accessToken == "" {
			c.Next()
			return
		}
		if c.GetHeader("Authorization") != "Bearer "+s.accessToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
