// Package dispatch implements the tool dispatch layer of a webscout adapter
// server: it holds the static tool registry, validates call arguments against
// each tool's declared schema, delegates to the tool's upstream invoker and
// normalizes the outcome into the canonical result envelope.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/webscout/webscout/internal/schema"
	"github.com/webscout/webscout/internal/service/audit"
	"github.com/webscout/webscout/internal/telemetry"
	"github.com/webscout/webscout/internal/upstream"
	"github.com/webscout/webscout/pkg/types"
	"go.uber.org/zap"
)

// Invoker performs the single upstream operation behind a tool.
// Arguments have already been validated and defaulted against the tool's
// schema. The returned strings become the text content blocks of the result,
// in order. A failed upstream call must be reported as *upstream.Error; any
// other error is treated as a defect and propagates to the protocol layer.
type Invoker interface {
	Invoke(ctx context.Context, args map[string]any) ([]string, error)
}

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(ctx context.Context, args map[string]any) ([]string, error)

func (f InvokerFunc) Invoke(ctx context.Context, args map[string]any) ([]string, error) {
	return f(ctx, args)
}

// ToolDef binds a tool's descriptor and input schema to its invoker.
type ToolDef struct {
	Name        string
	Description string
	Schema      schema.InputSchema
	Invoker     Invoker
}

// ServiceConfig holds the configuration parameters for initializing the Service.
type ServiceConfig struct {
	// Adapter is the name of the adapter this service serves ("search", "reader").
	Adapter string

	// Tools is the static tool catalog, in registration order.
	Tools []ToolDef

	Metrics telemetry.CustomMetrics
	Audit   audit.Recorder
	Logger  *zap.Logger
}

// Service is the tool dispatcher for one adapter server.
// The registry is populated once at construction and never mutated afterwards,
// so all methods are safe for concurrent use.
type Service struct {
	adapter string
	order   []string
	tools   map[string]ToolDef

	metrics telemetry.CustomMetrics
	audit   audit.Recorder
	logger  *zap.Logger
}

// NewService creates a new dispatch Service from the given tool catalog.
func NewService(c *ServiceConfig) (*Service, error) {
	if len(c.Tools) == 0 {
		return nil, fmt.Errorf("adapter %s declares no tools", c.Adapter)
	}

	s := &Service{
		adapter: c.Adapter,
		order:   make([]string, 0, len(c.Tools)),
		tools:   make(map[string]ToolDef, len(c.Tools)),
		metrics: c.Metrics,
		audit:   c.Audit,
		logger:  c.Logger,
	}
	if s.metrics == nil {
		s.metrics = telemetry.NewNoopCustomMetrics()
	}
	if s.audit == nil {
		s.audit = audit.NewNoopRecorder()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	for _, def := range c.Tools {
		if def.Name == "" {
			return nil, fmt.Errorf("adapter %s declares a tool with an empty name", c.Adapter)
		}
		if def.Invoker == nil {
			return nil, fmt.Errorf("tool %s has no invoker", def.Name)
		}
		if _, exists := s.tools[def.Name]; exists {
			return nil, fmt.Errorf("duplicate tool name %s", def.Name)
		}
		s.order = append(s.order, def.Name)
		s.tools[def.Name] = def
	}

	return s, nil
}

// Adapter returns the name of the adapter this service serves.
func (s *Service) Adapter() string {
	return s.adapter
}

// ListTools returns the descriptors of all registered tools, in registration
// order. It is pure and returns the same result on every call.
func (s *Service) ListTools() []types.Tool {
	tools := make([]types.Tool, 0, len(s.order))
	for _, name := range s.order {
		def := s.tools[name]
		tools = append(tools, types.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.Schema.Wire(),
		})
	}
	return tools
}

// InvokeTool dispatches a single tool call.
//
// An unknown tool name or an argument set that fails schema validation is a
// protocol-level fault and is returned as an error; the upstream invoker is
// never reached in either case. A failed upstream call is recovered into a
// result with IsError set. Any other invoker error propagates unrecovered.
func (s *Service) InvokeTool(ctx context.Context, name string, rawArgs map[string]any) (*types.ToolInvokeResult, error) {
	started := time.Now()
	outcome := telemetry.ToolCallOutcomeRejected
	detail := ""
	var args map[string]any

	defer func() {
		elapsed := time.Since(started)
		s.metrics.RecordToolCall(ctx, s.adapter, name, outcome, elapsed)
		s.audit.RecordToolCall(ctx, audit.Entry{
			Adapter:   s.adapter,
			Tool:      name,
			Outcome:   outcome,
			Arguments: args,
			Detail:    detail,
			Duration:  elapsed,
		})
	}()

	def, ok := s.tools[name]
	if !ok {
		detail = "unknown tool"
		return nil, &UnknownToolError{Name: name}
	}

	args, err := def.Schema.Validate(rawArgs)
	if err != nil {
		detail = err.Error()
		return nil, err
	}

	texts, err := def.Invoker.Invoke(ctx, args)
	if err != nil {
		var uerr *upstream.Error
		if !errors.As(err, &uerr) {
			// not an upstream failure: a defect in local processing,
			// surfaced to the protocol layer instead of being wrapped
			outcome = telemetry.ToolCallOutcomeError
			detail = err.Error()
			return nil, fmt.Errorf("tool %s failed: %w", name, err)
		}

		outcome = telemetry.ToolCallOutcomeError
		detail = uerr.Error()
		s.logger.Warn("upstream call failed",
			zap.String("tool", name), zap.Error(uerr))
		return errorResult(name, uerr), nil
	}

	outcome = telemetry.ToolCallOutcomeSuccess
	return okResult(texts), nil
}
