package mcpserver

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jonwraymond/nrcc-search/auth"
	"github.com/jonwraymond/nrcc-search/health"
	"github.com/jonwraymond/nrcc-search/observe"
	"github.com/jonwraymond/nrcc-search/resilience"
	"github.com/jonwraymond/nrcc-search/tool"
)

// ServerName is reported to MCP clients during initialization.
const ServerName = "nrcc-search"

// EndpointPath is where the MCP streamable HTTP transport is mounted.
const EndpointPath = "/mcp"

// Options configures a Server.
type Options struct {
	Version  string
	Searcher Searcher

	// Scope is config.ScopeOperation or config.ScopeShared.
	Scope string

	Limiter   *resilience.RateLimiter
	Validator *auth.Validator

	// Observer supplies logging, metrics, tracing and the /metrics handler.
	// Nil disables telemetry.
	Observer observe.Observer
}

// Server owns the MCP server, the assembled tool pipelines and the HTTP router.
type Server struct {
	mcp    *server.MCPServer
	stream *server.StreamableHTTPServer
	router chi.Router
	tools  map[string]tool.Func
	health *health.Aggregator
	logger observe.Logger
}

// New builds every pipeline and registers it with a fresh MCP server.
func New(opts Options) *Server {
	logger := observe.NopLogger()
	metrics := observe.NopMetrics()
	var traced *observe.Middleware
	if opts.Observer != nil {
		logger = opts.Observer.Logger()
		metrics = opts.Observer.Metrics()
		traced = observe.MiddlewareFromObserver(opts.Observer)
	}
	if opts.Limiter == nil {
		opts.Limiter = resilience.NewRateLimiter(resilience.RateLimiterConfig{})
	}
	if opts.Validator == nil {
		opts.Validator = auth.NewValidator(auth.Config{}, auth.WithLogger(logger), auth.WithMetrics(metrics))
	}

	guards := Guards{
		Limiter:   opts.Limiter,
		Validator: opts.Validator,
		Observe:   traced,
		Logger:    logger,
		Metrics:   metrics,
		Version:   opts.Version,
	}
	ops := NewOperations(opts.Searcher, logger)

	s := &Server{
		mcp: server.NewMCPServer(ServerName, opts.Version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		tools:  make(map[string]tool.Func, 2),
		health: health.NewAggregator(0),
		logger: logger,
	}

	s.register(chemicalsListTool(), Pipeline(ops.ChemicalsList, ToolChemicalsList, Identifier(opts.Scope, ToolChemicalsList), guards))
	s.register(chemicalDetailTool(), Pipeline(ops.ChemicalDetail, ToolChemicalDetail, Identifier(opts.Scope, ToolChemicalDetail), guards))

	s.health.Register(
		health.AuthChecker(opts.Validator),
		health.RateLimiterChecker(opts.Limiter),
	)

	s.stream = server.NewStreamableHTTPServer(s.mcp,
		server.WithEndpointPath(EndpointPath),
		server.WithHTTPContextFunc(auth.ContextFromRequest),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Handle(EndpointPath, s.stream)
	health.RegisterHandlers(r, s.health)
	if opts.Observer != nil {
		if h := opts.Observer.MetricsHandler(); h != nil {
			r.Handle("/metrics", h)
		}
	}
	s.router = r

	return s
}

func (s *Server) register(t mcp.Tool, fn tool.Func) {
	s.tools[t.Name] = fn
	s.mcp.AddTool(t, toolHandler(t.Name, fn, s.logger))
}

// toolHandler adapts a pipeline to mcp-go. Pipeline errors, including
// authentication and rate limit rejections, become tool error results
// carrying the error message. Rejections are expected client outcomes and
// log at info; anything else logs at error.
func toolHandler(name string, fn tool.Func, logger observe.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := fn(ctx, tool.Args(req.GetArguments()))
		if err == nil {
			return mcp.NewToolResultText(out), nil
		}

		switch {
		case resilience.IsRateLimited(err):
			logger.Info(ctx, "tool call rejected", observe.F("tool", name), observe.F("reason", "rate_limited"))
		case auth.IsAuthenticationError(err):
			logger.Info(ctx, "tool call rejected", observe.F("tool", name), observe.F("reason", "unauthenticated"))
		default:
			logger.Error(ctx, "tool call failed", observe.F("tool", name), observe.F("error", err.Error()))
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
}

// Handler returns the HTTP handler serving /mcp, the probes and /metrics.
func (s *Server) Handler() http.Handler {
	return s.router
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// Tool returns the assembled pipeline for name.
func (s *Server) Tool(name string) (tool.Func, bool) {
	fn, ok := s.tools[name]
	return fn, ok
}

// Health returns the aggregator behind the probe endpoints.
func (s *Server) Health() *health.Aggregator {
	return s.health
}

// Shutdown closes open MCP sessions.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.stream.Shutdown(ctx)
}
