package resilience

import (
	"errors"
	"fmt"
)

// Sentinel errors for resilience operations.
var (
	// ErrRateLimitExceeded is matched by every RateLimitError.
	ErrRateLimitExceeded = errors.New("resilience: rate limit exceeded")

	// ErrTimeout is returned when an operation times out.
	ErrTimeout = errors.New("resilience: operation timed out")
)

// RateLimitError reports that the quota for Identifier is used up in the
// current window. The caller should back off and resubmit later.
type RateLimitError struct {
	Identifier string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s", e.Identifier)
}

// Unwrap lets errors.Is match ErrRateLimitExceeded.
func (e *RateLimitError) Unwrap() error {
	return ErrRateLimitExceeded
}

// IsRateLimited reports whether err is, or wraps, a rate limit rejection.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimitExceeded)
}
