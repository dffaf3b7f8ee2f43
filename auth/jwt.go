package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod is the only algorithm accepted for tokens.
var SigningMethod = jwt.SigningMethodHS256

// JWTConfig configures the JWT authenticator.
type JWTConfig struct {
	// Secret is the HMAC signing secret. Empty disables the strategy.
	Secret []byte

	// PrincipalClaim is the claim holding the caller identity.
	// Default: "sub"
	PrincipalClaim string

	// Leeway tolerates clock skew on exp/iat checks. Default: 0
	Leeway time.Duration

	// Now overrides the clock used for expiry checks. Default: time.Now
	Now func() time.Time
}

// JWTAuthenticator validates HS256 tokens signed with one static secret.
type JWTAuthenticator struct {
	config JWTConfig
	parser *jwt.Parser
}

// NewJWTAuthenticator creates a new JWT authenticator.
func NewJWTAuthenticator(config JWTConfig) *JWTAuthenticator {
	if config.PrincipalClaim == "" {
		config.PrincipalClaim = "sub"
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{SigningMethod.Alg()}),
		jwt.WithTimeFunc(config.Now),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if config.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(config.Leeway))
	}

	return &JWTAuthenticator{
		config: config,
		parser: jwt.NewParser(opts...),
	}
}

// Name returns "jwt".
func (a *JWTAuthenticator) Name() string {
	return string(AuthMethodJWT)
}

// Enabled reports whether a signing secret is configured.
func (a *JWTAuthenticator) Enabled() bool {
	return len(a.config.Secret) > 0
}

// Supports returns true when a secret is configured and a token was presented.
func (a *JWTAuthenticator) Supports(creds Credentials) bool {
	return a.Enabled() && creds.Token != ""
}

// Authenticate verifies the token signature and expiry. Expired, malformed
// and badly signed tokens are all reported as ErrInvalidToken.
func (a *JWTAuthenticator) Authenticate(_ context.Context, creds Credentials) (*AuthResult, error) {
	tokenString := strings.TrimSpace(strings.TrimPrefix(creds.Token, bearerPrefix))
	if tokenString == "" {
		return AuthFailure(ErrAuthRequired, AuthMethodJWT, "no token presented"), nil
	}

	claims := jwt.MapClaims{}
	token, err := a.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return a.config.Secret, nil
	})
	if err != nil {
		return AuthFailure(ErrInvalidToken, AuthMethodJWT, err.Error()), nil
	}
	if !token.Valid {
		return AuthFailure(ErrInvalidToken, AuthMethodJWT, "token not valid"), nil
	}

	return AuthSuccess(a.buildIdentity(claims)), nil
}

func (a *JWTAuthenticator) buildIdentity(claims jwt.MapClaims) *Identity {
	identity := &Identity{
		Principal: "unknown",
		Method:    AuthMethodJWT,
		Claims:    make(map[string]any, len(claims)),
	}
	for k, v := range claims {
		identity.Claims[k] = v
	}

	if principal, ok := claims[a.config.PrincipalClaim].(string); ok && principal != "" {
		identity.Principal = principal
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		identity.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		identity.IssuedAt = iat.Time
	}
	return identity
}

// ErrInvalidTTL is returned by IssueToken for a non-positive ttl; tokens
// without exp are rejected by JWTAuthenticator.
var ErrInvalidTTL = errors.New("auth: token ttl must be positive")

// IssueToken signs an HS256 token for subject that expires after ttl.
func IssueToken(secret []byte, subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", ErrInvalidTTL
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(SigningMethod, claims).SignedString(secret)
}

var _ Authenticator = (*JWTAuthenticator)(nil)
