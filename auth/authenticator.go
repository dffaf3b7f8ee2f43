package auth

import (
	"context"

	"github.com/jonwraymond/nrcc-search/tool"
)

// Argument names that carry credentials in a tool call.
const (
	ArgAPIKey = "api_key"
	ArgToken  = "token"
)

// Credentials are what a caller presented. Either field may be empty.
type Credentials struct {
	APIKey string
	Token  string
}

// IsEmpty reports whether no credential was presented.
func (c Credentials) IsEmpty() bool {
	return c.APIKey == "" && c.Token == ""
}

// SplitCredentials separates credential arguments from the business
// arguments. The returned Args never contain api_key or token.
func SplitCredentials(args tool.Args) (Credentials, tool.Args) {
	creds := Credentials{
		APIKey: args.String(ArgAPIKey),
		Token:  args.String(ArgToken),
	}
	return creds, args.Without(ArgAPIKey, ArgToken)
}

// Authenticator is one credential strategy.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Supports is true only when the strategy is configured and the matching
//   credential was presented.
// - Authenticate returns a failed AuthResult for bad credentials; a non-nil
//   error is reserved for internal failures.
type Authenticator interface {
	// Name returns a unique identifier for this authenticator.
	Name() string

	// Supports returns true if this authenticator should decide the call.
	Supports(creds Credentials) bool

	// Authenticate validates the credential it supports.
	Authenticate(ctx context.Context, creds Credentials) (*AuthResult, error)
}

// AuthResult is the result of an authentication attempt.
type AuthResult struct {
	// Authenticated is true if authentication succeeded.
	Authenticated bool

	// Identity is set when Authenticated is true.
	Identity *Identity

	// Error is the rejection reason when Authenticated is false.
	Error error

	// Method is the strategy that produced the result.
	Method AuthMethod

	// Detail is a log-only explanation (e.g. the parser error). It never
	// reaches the caller.
	Detail string
}

// AuthSuccess creates a successful authentication result.
func AuthSuccess(identity *Identity) *AuthResult {
	return &AuthResult{
		Authenticated: true,
		Identity:      identity,
		Method:        identity.Method,
	}
}

// AuthFailure creates a failed authentication result.
func AuthFailure(reason error, method AuthMethod, detail string) *AuthResult {
	return &AuthResult{
		Error:  reason,
		Method: method,
		Detail: detail,
	}
}
