package resilience

import (
	"sort"
	"sync"
	"time"
)

const (
	// DefaultMaxCalls is the per-window quota used when none is configured.
	DefaultMaxCalls = 50

	// DefaultWindow is the window length used when none is configured.
	DefaultWindow = time.Hour
)

// RateLimiterConfig configures the rate limiter.
type RateLimiterConfig struct {
	// MaxCalls is the number of calls admitted per identifier per window.
	// Default: 50
	MaxCalls int

	// Window is the trailing span in which admitted calls are counted.
	// Default: 1 hour
	Window time.Duration

	// Now returns the current time. Default: time.Now
	Now func() time.Time
}

// RateLimiter admits at most MaxCalls calls per identifier within Window.
//
// It keeps the admission times of every identifier it has seen. Entries are
// pruned lazily on each check and identifiers are never forgotten.
type RateLimiter struct {
	config RateLimiterConfig

	mu    sync.Mutex
	calls map[string][]time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.MaxCalls <= 0 {
		config.MaxCalls = DefaultMaxCalls
	}
	if config.Window <= 0 {
		config.Window = DefaultWindow
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &RateLimiter{
		config: config,
		calls:  make(map[string][]time.Time),
	}
}

// Allow reports whether a call for identifier is admitted, and records it
// if so. A rejected call leaves the stored history unchanged.
func (rl *RateLimiter) Allow(identifier string) bool {
	now := rl.config.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	history := rl.pruneLocked(identifier, now)
	if len(history) >= rl.config.MaxCalls {
		return false
	}

	rl.calls[identifier] = append(history, now)
	return true
}

// Remaining returns how many more calls identifier may make in the current
// window.
func (rl *RateLimiter) Remaining(identifier string) int {
	now := rl.config.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	left := rl.config.MaxCalls - len(rl.pruneLocked(identifier, now))
	if left < 0 {
		return 0
	}
	return left
}

// Identifiers returns every identifier seen so far, sorted.
func (rl *RateLimiter) Identifiers() []string {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	ids := make([]string, 0, len(rl.calls))
	for id := range rl.calls {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Reset forgets all recorded calls.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.calls = make(map[string][]time.Time)
}

// Config returns the limiter configuration.
func (rl *RateLimiter) Config() RateLimiterConfig {
	return rl.config
}

// pruneLocked keeps only the entries younger than Window and stores the
// result back. Entries for a new identifier are created here.
func (rl *RateLimiter) pruneLocked(identifier string, now time.Time) []time.Time {
	history := rl.calls[identifier]

	kept := history[:0]
	for _, ts := range history {
		if now.Sub(ts) < rl.config.Window {
			kept = append(kept, ts)
		}
	}
	if kept == nil {
		kept = []time.Time{}
	}

	rl.calls[identifier] = kept
	return kept
}
