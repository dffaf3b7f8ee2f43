package auth

import "time"

// AuthMethod indicates how authentication was performed.
type AuthMethod string

const (
	AuthMethodNone   AuthMethod = "none"
	AuthMethodJWT    AuthMethod = "jwt"
	AuthMethodAPIKey AuthMethod = "api_key"
	AuthMethodBypass AuthMethod = "bypass"
)

// Identity describes who made an accepted call. It is used for logging only.
type Identity struct {
	// Principal is the token subject, or a fixed label for API keys.
	Principal string

	// Method indicates how authentication was performed.
	Method AuthMethod

	// Claims holds the raw token claims (JWT only).
	Claims map[string]any

	// ExpiresAt is the token expiry (zero if none).
	ExpiresAt time.Time

	// IssuedAt is the token issue time (zero if none).
	IssuedAt time.Time
}

// IsAnonymous reports whether the call was let through in bypass mode.
func (id *Identity) IsAnonymous() bool {
	return id == nil || id.Method == AuthMethodBypass || id.Principal == ""
}

// AnonymousIdentity is attached to calls admitted in bypass mode.
func AnonymousIdentity() *Identity {
	return &Identity{
		Principal: "anonymous",
		Method:    AuthMethodBypass,
	}
}
