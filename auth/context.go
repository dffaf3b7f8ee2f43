package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey int

const (
	identityKey contextKey = iota
	headersKey
)

// Header names consulted when a call carries no credential arguments.
const (
	HeaderAPIKey        = "X-API-Key"
	HeaderAuthorization = "Authorization"
	bearerPrefix        = "Bearer "
)

// WithIdentity returns a new context with the given identity attached.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the identity from the context.
// Returns nil if no identity is present.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}

// PrincipalFromContext returns the principal of the attached identity, or "".
func PrincipalFromContext(ctx context.Context) string {
	if id := IdentityFromContext(ctx); id != nil {
		return id.Principal
	}
	return ""
}

// WithHeaders returns a new context carrying transport headers.
func WithHeaders(ctx context.Context, headers http.Header) context.Context {
	return context.WithValue(ctx, headersKey, headers)
}

// HeadersFromContext retrieves transport headers from the context.
func HeadersFromContext(ctx context.Context) http.Header {
	h, _ := ctx.Value(headersKey).(http.Header)
	return h
}

// ContextFromRequest copies the request headers into ctx. Its signature
// matches the HTTP context hook of the MCP streamable server.
func ContextFromRequest(ctx context.Context, r *http.Request) context.Context {
	return WithHeaders(ctx, r.Header.Clone())
}

// CredentialsFromContext reads credentials from transport headers:
// X-API-Key for the API key, "Authorization: Bearer <jwt>" for the token.
func CredentialsFromContext(ctx context.Context) Credentials {
	h := HeadersFromContext(ctx)
	if h == nil {
		return Credentials{}
	}

	creds := Credentials{APIKey: h.Get(HeaderAPIKey)}
	if v := h.Get(HeaderAuthorization); strings.HasPrefix(v, bearerPrefix) {
		creds.Token = strings.TrimSpace(strings.TrimPrefix(v, bearerPrefix))
	}
	return creds
}
