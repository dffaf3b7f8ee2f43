package mcpserver

import (
	"github.com/jonwraymond/nrcc-search/auth"
	"github.com/jonwraymond/nrcc-search/config"
	"github.com/jonwraymond/nrcc-search/observe"
	"github.com/jonwraymond/nrcc-search/resilience"
	"github.com/jonwraymond/nrcc-search/tool"
)

// Tool names as seen by MCP clients.
const (
	ToolChemicalsList  = "search_chemicals_list"
	ToolChemicalDetail = "get_chemical_detail"
)

// Rate limit identifiers.
const (
	IdentifierChemicalsList  = "chemicals_list"
	IdentifierChemicalDetail = "chemical_detail"
	IdentifierShared         = "default"
)

// Identifier returns the quota key for toolName under scope.
func Identifier(scope, toolName string) resilience.IdentifierFunc {
	if scope == config.ScopeShared {
		return resilience.Constant(IdentifierShared)
	}
	switch toolName {
	case ToolChemicalsList:
		return resilience.Constant(IdentifierChemicalsList)
	case ToolChemicalDetail:
		return resilience.Constant(IdentifierChemicalDetail)
	default:
		return resilience.Constant(IdentifierShared)
	}
}

// Guards holds the shared pieces every pipeline is built from.
type Guards struct {
	Limiter   *resilience.RateLimiter
	Validator *auth.Validator
	Observe   *observe.Middleware
	Logger    observe.Logger
	Metrics   observe.Metrics
	Version   string
}

// Pipeline wraps core as observe(RateLimit(Auth(core))) for the named tool.
func Pipeline(core tool.Func, name string, identifier resilience.IdentifierFunc, g Guards) tool.Func {
	meta := observe.ToolMeta{Namespace: "nrcc", Name: name, Version: g.Version}

	var traced tool.Middleware
	if g.Observe != nil {
		traced = g.Observe.Tool(meta)
	}

	return tool.Chain(core,
		traced,
		resilience.RateLimit(g.Limiter, identifier,
			resilience.WithLogger(g.Logger),
			resilience.WithMetrics(g.Metrics),
		),
		auth.Middleware(g.Validator),
	)
}
