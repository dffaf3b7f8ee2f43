package health

import (
	"context"
	"time"
)

// Status orders component states from best to worst.
type Status int

const (
	StatusHealthy Status = iota
	// StatusDegraded means the server answers calls but with weakened guarantees,
	// such as authentication being bypassed or a quota being exhausted.
	StatusDegraded
	StatusUnhealthy
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Result is one checker's report. Duration and Timestamp are filled in by the
// Aggregator when the checker leaves them zero.
type Result struct {
	Status    Status
	Message   string
	Details   map[string]any
	Duration  time.Duration
	Timestamp time.Time
	Error     error
}

func Healthy(message string) Result  { return Result{Status: StatusHealthy, Message: message} }
func Degraded(message string) Result { return Result{Status: StatusDegraded, Message: message} }

func Unhealthy(message string, err error) Result {
	return Result{Status: StatusUnhealthy, Message: message, Error: err}
}

// WithDetails returns r with details attached.
func (r Result) WithDetails(details map[string]any) Result {
	r.Details = details
	return r
}

// Checker reports the health of one component of the server.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

// CheckerFunc is a Checker built from a name and a check function.
type CheckerFunc struct {
	name string
	fn   func(context.Context) Result
}

// NewCheckerFunc returns a Checker named name that runs fn.
func NewCheckerFunc(name string, fn func(context.Context) Result) *CheckerFunc {
	return &CheckerFunc{name: name, fn: fn}
}

func (f *CheckerFunc) Name() string                     { return f.name }
func (f *CheckerFunc) Check(ctx context.Context) Result { return f.fn(ctx) }
