package auth

import (
	"context"

	"github.com/jonwraymond/nrcc-search/observe"
)

// Decision is the verdict on one call.
type Decision int

const (
	// Reject refuses the call.
	Reject Decision = iota
	// Accept admits the call with a verified identity.
	Accept
	// Bypass admits the call because no secret is configured.
	Bypass
)

func (d Decision) String() string {
	switch d {
	case Accept:
		return "accept"
	case Bypass:
		return "bypass"
	default:
		return "reject"
	}
}

// Outcome is the result of Validate.
type Outcome struct {
	Decision Decision

	// Method is the strategy that decided, or AuthMethodNone.
	Method AuthMethod

	// Identity is set on Accept and Bypass.
	Identity *Identity

	// Err is an *AuthenticationError on Reject.
	Err error
}

// Config selects the active strategies.
type Config struct {
	// APIKey is the shared key. Empty disables key authentication.
	APIKey string

	// JWTSecret is the HS256 signing secret. Empty disables tokens.
	JWTSecret string
}

// Enabled reports whether any secret is configured.
func (c Config) Enabled() bool {
	return c.APIKey != "" || c.JWTSecret != ""
}

// Validator decides whether presented credentials admit a call.
//
// Strategies are consulted in order; the first one that Supports the
// credentials decides, and a failure there is final. API keys come before
// tokens.
type Validator struct {
	authenticators []Authenticator
	enabled        bool
	logger         observe.Logger
	metrics        observe.Metrics
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithLogger sets the logger used to report every decision.
func WithLogger(l observe.Logger) ValidatorOption {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithMetrics sets where decisions are counted.
func WithMetrics(m observe.Metrics) ValidatorOption {
	return func(v *Validator) {
		if m != nil {
			v.metrics = m
		}
	}
}

// WithAuthenticators replaces the strategies built from Config. Used to plug
// in a custom JWT configuration.
func WithAuthenticators(auths ...Authenticator) ValidatorOption {
	return func(v *Validator) {
		v.authenticators = auths
	}
}

// NewValidator creates a Validator for cfg.
func NewValidator(cfg Config, opts ...ValidatorOption) *Validator {
	v := &Validator{
		authenticators: []Authenticator{
			NewAPIKeyAuthenticator(cfg.APIKey),
			NewJWTAuthenticator(JWTConfig{Secret: []byte(cfg.JWTSecret)}),
		},
		enabled: cfg.Enabled(),
		logger:  observe.NopLogger(),
		metrics: observe.NopMetrics(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Enabled reports whether authentication is enforced.
func (v *Validator) Enabled() bool {
	return v.enabled
}

// Validate decides on creds. It never returns raw credentials in Err.
func (v *Validator) Validate(ctx context.Context, creds Credentials) Outcome {
	if !v.enabled {
		v.logger.Warn(ctx, "no authentication configured, skipping authentication")
		v.metrics.RecordAuth(ctx, string(AuthMethodBypass), Bypass.String())
		return Outcome{
			Decision: Bypass,
			Method:   AuthMethodBypass,
			Identity: AnonymousIdentity(),
		}
	}

	for _, a := range v.authenticators {
		if !a.Supports(creds) {
			continue
		}

		result, err := a.Authenticate(ctx, creds)
		if err != nil {
			v.logger.Error(ctx, "authentication error", observe.F("method", a.Name()), observe.F("error", err.Error()))
			return v.reject(ctx, AuthMethod(a.Name()), ErrAuthRequired)
		}
		if !result.Authenticated {
			v.logger.Warn(ctx, "authentication failed",
				observe.F("method", string(result.Method)),
				observe.F("reason", result.Error.Error()),
				observe.F("detail", result.Detail),
			)
			return v.reject(ctx, result.Method, result.Error)
		}

		v.logger.Info(ctx, "authentication successful",
			observe.F("method", string(result.Method)),
			observe.F("principal", result.Identity.Principal),
		)
		v.metrics.RecordAuth(ctx, string(result.Method), Accept.String())
		return Outcome{
			Decision: Accept,
			Method:   result.Method,
			Identity: result.Identity,
		}
	}

	v.logger.Warn(ctx, "authentication required", observe.F("credentials_presented", !creds.IsEmpty()))
	return v.reject(ctx, AuthMethodNone, ErrAuthRequired)
}

func (v *Validator) reject(ctx context.Context, method AuthMethod, reason error) Outcome {
	v.metrics.RecordAuth(ctx, string(method), Reject.String())
	return Outcome{
		Decision: Reject,
		Method:   method,
		Err:      &AuthenticationError{Reason: reason},
	}
}
