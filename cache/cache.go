package cache

import (
	"context"
	"errors"
	"time"
	"unicode"
)

// MaxKeyLength bounds cache keys. Keys built by Key are far shorter.
const MaxKeyLength = 256

var (
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Cache holds upstream response bodies. Implementations must be safe for
// concurrent use. A miss is (nil, false), never an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value for ttl. A non-positive ttl stores nothing.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
}

// ValidateKey rejects blank keys, overlong keys and keys with whitespace
// other than inner spaces, or control characters.
func ValidateKey(key string) error {
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	blank := true
	for _, r := range key {
		if unicode.IsControl(r) {
			return ErrInvalidKey
		}
		if !unicode.IsSpace(r) {
			blank = false
		}
	}
	if blank {
		return ErrInvalidKey
	}
	return nil
}
