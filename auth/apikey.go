package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
)

// APIKeyAuthenticator accepts exactly one configured shared key.
type APIKeyAuthenticator struct {
	expected [sha256.Size]byte
	enabled  bool
}

// NewAPIKeyAuthenticator creates an authenticator for key. An empty key
// leaves the strategy disabled.
func NewAPIKeyAuthenticator(key string) *APIKeyAuthenticator {
	if key == "" {
		return &APIKeyAuthenticator{}
	}
	return &APIKeyAuthenticator{
		expected: sha256.Sum256([]byte(key)),
		enabled:  true,
	}
}

// Name returns "api_key".
func (a *APIKeyAuthenticator) Name() string {
	return string(AuthMethodAPIKey)
}

// Enabled reports whether a key is configured.
func (a *APIKeyAuthenticator) Enabled() bool {
	return a.enabled
}

// Supports returns true when a key is configured and one was presented.
func (a *APIKeyAuthenticator) Supports(creds Credentials) bool {
	return a.enabled && creds.APIKey != ""
}

// Authenticate compares the presented key with the configured one byte for
// byte; whitespace is significant. Both sides are hashed first so the
// comparison time does not depend on either key's length or content.
func (a *APIKeyAuthenticator) Authenticate(_ context.Context, creds Credentials) (*AuthResult, error) {
	if creds.APIKey == "" {
		return AuthFailure(ErrAuthRequired, AuthMethodAPIKey, "no api key presented"), nil
	}

	sum := sha256.Sum256([]byte(creds.APIKey))
	if subtle.ConstantTimeCompare(sum[:], a.expected[:]) != 1 {
		return AuthFailure(ErrInvalidAPIKey, AuthMethodAPIKey, "api key mismatch"), nil
	}

	return AuthSuccess(&Identity{
		Principal: "api_key",
		Method:    AuthMethodAPIKey,
	}), nil
}

var _ Authenticator = (*APIKeyAuthenticator)(nil)
