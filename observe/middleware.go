package observe

import (
	"context"
	"time"

	"github.com/jonwraymond/nrcc-search/tool"
)

// Middleware wraps tool calls with tracing, metrics and logging.
//
// Contract:
//   - Concurrency: Wrap returns a func safe for concurrent use.
//   - Errors: errors from the wrapped func are recorded and returned unchanged.
//   - Ownership: arguments and results pass through untouched.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a Middleware. Nil components are replaced by no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = NopTracer()
	}
	if metrics == nil {
		metrics = NopMetrics()
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{tracer: tracer, metrics: metrics, logger: logger}
}

// MiddlewareFromObserver builds a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) *Middleware {
	return NewMiddleware(obs.Tracer(), obs.Metrics(), obs.Logger())
}

// Wrap instruments fn as the tool described by meta.
func (m *Middleware) Wrap(meta ToolMeta, fn tool.Func) tool.Func {
	toolLogger := m.logger.WithTool(meta)

	return func(ctx context.Context, args tool.Args) (string, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		result, err := fn(ctx, args)

		duration := time.Since(start)
		m.tracer.EndSpan(span, err)
		m.metrics.RecordExecution(ctx, meta, duration, err)

		fields := []Field{F("duration_ms", float64(duration.Milliseconds()))}
		if err != nil {
			fields = append(fields, F("error", err.Error()))
			toolLogger.Warn(ctx, "tool call failed", fields...)
		} else {
			toolLogger.Info(ctx, "tool call completed", fields...)
		}

		return result, err
	}
}

// Tool returns Wrap bound to meta as a tool.Middleware.
func (m *Middleware) Tool(meta ToolMeta) tool.Middleware {
	return func(next tool.Func) tool.Func {
		return m.Wrap(meta, next)
	}
}
