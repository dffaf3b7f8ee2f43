package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/nrcc-search/auth"
	"github.com/jonwraymond/nrcc-search/resilience"
)

// RateLimiterChecker reports the limiter's configuration and the remaining
// quota of every tracked identifier. It is Degraded while any identifier is
// exhausted.
func RateLimiterChecker(rl *resilience.RateLimiter) Checker {
	return NewCheckerFunc("ratelimiter", func(context.Context) Result {
		cfg := rl.Config()
		remaining := make(map[string]int)
		var exhausted []string
		for _, id := range rl.Identifiers() {
			n := rl.Remaining(id)
			remaining[id] = n
			if n == 0 {
				exhausted = append(exhausted, id)
			}
		}

		details := map[string]any{
			"max_calls":      cfg.MaxCalls,
			"window_seconds": cfg.Window.Seconds(),
			"remaining":      remaining,
		}
		if len(exhausted) > 0 {
			return Degraded(fmt.Sprintf("quota exhausted for %v", exhausted)).WithDetails(details)
		}
		return Healthy("accepting calls").WithDetails(details)
	})
}

// AuthChecker is Degraded when no secret is configured and every call
// bypasses authentication.
func AuthChecker(v *auth.Validator) Checker {
	return NewCheckerFunc("auth", func(context.Context) Result {
		if !v.Enabled() {
			return Degraded("authentication disabled, calls are not authenticated").
				WithDetails(map[string]any{"mode": "bypass"})
		}
		return Healthy("authentication enforced").WithDetails(map[string]any{"mode": "enforced"})
	})
}
