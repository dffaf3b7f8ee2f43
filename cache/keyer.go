package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer derives cache keys from an upstream endpoint and its request payload.
// The same endpoint and payload always yield the same key.
type Keyer interface {
	Key(endpoint string, payload any) (string, error)
}

// DefaultKeyer hashes the JSON encoding of the payload. encoding/json writes
// map keys in sorted order, so nested maps hash identically regardless of
// insertion order.
type DefaultKeyer struct{}

func NewDefaultKeyer() *DefaultKeyer { return &DefaultKeyer{} }

// Key returns nrcc:<endpoint>:<hash>, where hash is the first 16 hex
// characters of the SHA-256 digest.
func (DefaultKeyer) Key(endpoint string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("cache: encode payload: %w", err)
	}
	sum := sha256.Sum256(body)
	key := "nrcc:" + endpoint + ":" + hex.EncodeToString(sum[:8])
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return key, nil
}

var _ Keyer = DefaultKeyer{}
