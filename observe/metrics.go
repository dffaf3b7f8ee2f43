package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records tool executions and the decisions of the guard layers.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordExecution records a tool execution with duration and error status.
	RecordExecution(ctx context.Context, meta ToolMeta, duration time.Duration, err error)

	// RecordAuth records one authentication decision (accept|reject|bypass).
	RecordAuth(ctx context.Context, method, decision string)

	// RecordRateLimit records one admission check for identifier.
	RecordRateLimit(ctx context.Context, identifier string, admitted bool)
}

type metricsImpl struct {
	totalCount    metric.Int64Counter
	errorCount    metric.Int64Counter
	durationHist  metric.Float64Histogram
	authDecisions metric.Int64Counter
	rateChecks    metric.Int64Counter
	rateRejects   metric.Int64Counter
}

// NewMetrics creates the instrument set on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	m := &metricsImpl{}
	var err error

	if m.totalCount, err = meter.Int64Counter(
		"nrcc.tool.calls",
		metric.WithDescription("Total number of tool calls"),
		metric.WithUnit("{call}"),
	); err != nil {
		return nil, err
	}

	if m.errorCount, err = meter.Int64Counter(
		"nrcc.tool.errors",
		metric.WithDescription("Total number of tool calls that returned an error"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, err
	}

	if m.durationHist, err = meter.Float64Histogram(
		"nrcc.tool.duration_ms",
		metric.WithDescription("Tool call duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	if m.authDecisions, err = meter.Int64Counter(
		"nrcc.auth.decisions",
		metric.WithDescription("Authentication decisions by method and outcome"),
		metric.WithUnit("{decision}"),
	); err != nil {
		return nil, err
	}

	if m.rateChecks, err = meter.Int64Counter(
		"nrcc.ratelimit.checks",
		metric.WithDescription("Rate limit admission checks"),
		metric.WithUnit("{check}"),
	); err != nil {
		return nil, err
	}

	if m.rateRejects, err = meter.Int64Counter(
		"nrcc.ratelimit.rejections",
		metric.WithDescription("Calls rejected by the rate limiter"),
		metric.WithUnit("{call}"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *metricsImpl) RecordExecution(ctx context.Context, meta ToolMeta, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("tool.id", meta.ToolID()),
		attribute.String("tool.name", meta.Name),
	}
	if meta.Namespace != "" {
		attrs = append(attrs, attribute.String("tool.namespace", meta.Namespace))
	}
	opt := metric.WithAttributes(attrs...)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *metricsImpl) RecordAuth(ctx context.Context, method, decision string) {
	m.authDecisions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("auth.method", method),
		attribute.String("auth.decision", decision),
	))
}

func (m *metricsImpl) RecordRateLimit(ctx context.Context, identifier string, admitted bool) {
	opt := metric.WithAttributes(attribute.String("ratelimit.identifier", identifier))
	m.rateChecks.Add(ctx, 1, opt)
	if !admitted {
		m.rateRejects.Add(ctx, 1, opt)
	}
}

type noopMetrics struct{}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics { return noopMetrics{} }

func (noopMetrics) RecordExecution(context.Context, ToolMeta, time.Duration, error) {}
func (noopMetrics) RecordAuth(context.Context, string, string)                      {}
func (noopMetrics) RecordRateLimit(context.Context, string, bool)                   {}
