package health

import (
	"context"
	"testing"
	"time"

	"github.com/jonwraymond/nrcc-search/auth"
	"github.com/jonwraymond/nrcc-search/resilience"
)

func TestRateLimiterChecker(t *testing.T) {
	rl := resilience.NewRateLimiter(resilience.RateLimiterConfig{MaxCalls: 2, Window: time.Minute})
	c := RateLimiterChecker(rl)

	if r := c.Check(context.Background()); r.Status != StatusHealthy {
		t.Fatalf("fresh limiter status = %v, want healthy", r.Status)
	}

	rl.Allow("chemicals_list")
	rl.Allow("chemical_detail")
	rl.Allow("chemical_detail")

	r := c.Check(context.Background())
	if r.Status != StatusDegraded {
		t.Fatalf("status = %v, want degraded", r.Status)
	}
	remaining := r.Details["remaining"].(map[string]int)
	if remaining["chemicals_list"] != 1 || remaining["chemical_detail"] != 0 {
		t.Errorf("remaining = %v", remaining)
	}
	if r.Details["max_calls"] != 2 {
		t.Errorf("max_calls = %v, want 2", r.Details["max_calls"])
	}
}

func TestAuthChecker(t *testing.T) {
	if r := AuthChecker(auth.NewValidator(auth.Config{})).Check(context.Background()); r.Status != StatusDegraded {
		t.Errorf("bypass status = %v, want degraded", r.Status)
	}
	if r := AuthChecker(auth.NewValidator(auth.Config{APIKey: "K"})).Check(context.Background()); r.Status != StatusHealthy {
		t.Errorf("enforced status = %v, want healthy", r.Status)
	}
}
