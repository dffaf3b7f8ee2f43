// Package resilience guards tool calls with a per-identifier call quota and
// bounds upstream work with timeouts.
//
// # Rate limiting
//
// RateLimiter is a fixed-window limiter with lazy pruning. Each identifier
// owns a list of admission timestamps; on every check the entries older than
// the window are dropped, and the call is admitted only while fewer than
// MaxCalls remain.
//
//	rl := resilience.NewRateLimiter(resilience.RateLimiterConfig{
//	    MaxCalls: 50,
//	    Window:   time.Hour,
//	})
//
//	search := tool.Chain(core,
//	    resilience.RateLimit(rl, resilience.Constant("chemicals_list")),
//	)
//
// State lives in memory for the life of the process. Distinct identifiers
// are independent and there is no global cap.
//
// # Timeouts
//
// Timeout runs an operation under a deadline and reports ErrTimeout when the
// deadline wins.
package resilience
