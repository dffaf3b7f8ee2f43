package resilience

import (
	"context"

	"github.com/jonwraymond/nrcc-search/observe"
	"github.com/jonwraymond/nrcc-search/tool"
)

// IdentifierFunc resolves the quota key for a call. It takes no arguments:
// quota is keyed by operation, not by caller.
type IdentifierFunc func() string

// Constant returns an IdentifierFunc that always yields id.
func Constant(id string) IdentifierFunc {
	return func() string { return id }
}

// Option configures the RateLimit middleware.
type Option func(*guardOptions)

type guardOptions struct {
	logger  observe.Logger
	metrics observe.Metrics
}

// WithLogger sets the logger used to report rejections.
func WithLogger(l observe.Logger) Option {
	return func(o *guardOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics sets where admission checks are recorded.
func WithMetrics(m observe.Metrics) Option {
	return func(o *guardOptions) {
		if m != nil {
			o.metrics = m
		}
	}
}

// RateLimit returns a middleware that checks rl before every call.
//
// The identifier is resolved once per call. A rejected call returns a
// *RateLimitError and the wrapped func is not invoked; an admitted call is
// forwarded and its result returned unchanged.
func RateLimit(rl *RateLimiter, identifier IdentifierFunc, opts ...Option) tool.Middleware {
	o := guardOptions{
		logger:  observe.NopLogger(),
		metrics: observe.NopMetrics(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if identifier == nil {
		identifier = Constant("default")
	}

	return func(next tool.Func) tool.Func {
		return func(ctx context.Context, args tool.Args) (string, error) {
			id := identifier()
			admitted := rl.Allow(id)
			o.metrics.RecordRateLimit(ctx, id, admitted)

			if !admitted {
				o.logger.Warn(ctx, "rate limit exceeded",
					observe.F("identifier", id),
					observe.F("max_calls", rl.config.MaxCalls),
					observe.F("window", rl.config.Window.String()),
				)
				return "", &RateLimitError{Identifier: id}
			}

			return next(ctx, args)
		}
	}
}
