package resilience

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout is the upstream request budget used when none is configured.
const DefaultTimeout = 30 * time.Second

// TimeoutConfig holds the per-call deadline.
type TimeoutConfig struct {
	// Timeout is the budget for one call. Non-positive means DefaultTimeout.
	Timeout time.Duration
}

// Timeout bounds a single call with a deadline. One Timeout may be shared by
// concurrent callers.
type Timeout struct {
	budget time.Duration
}

// NewTimeout returns a Timeout for config.
func NewTimeout(config TimeoutConfig) *Timeout {
	budget := config.Timeout
	if budget <= 0 {
		budget = DefaultTimeout
	}
	return &Timeout{budget: budget}
}

// Execute calls op with a context that expires after the budget. It returns
// ErrTimeout when the budget runs out, even if op ignores its context.
// Cancellation of ctx itself is reported unchanged.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeoutCause(ctx, t.budget, ErrTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- op(ctx) }()

	var err error
	select {
	case err = <-done:
		if err == nil {
			return nil
		}
	case <-ctx.Done():
		err = ctx.Err()
	}
	if errors.Is(context.Cause(ctx), ErrTimeout) {
		return ErrTimeout
	}
	return err
}

// Config reports the effective configuration.
func (t *Timeout) Config() TimeoutConfig {
	return TimeoutConfig{Timeout: t.budget}
}
