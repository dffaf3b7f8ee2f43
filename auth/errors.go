package auth

import "errors"

// Sentinel errors for authentication.
var (
	// ErrAuthentication is matched by every rejection.
	ErrAuthentication = errors.New("auth: authentication failed")

	ErrInvalidAPIKey = errors.New("invalid api key")
	ErrInvalidToken  = errors.New("invalid token")
	ErrAuthRequired  = errors.New("authentication required")
)

// AuthenticationError is returned when a call is rejected. Its message is
// the generic reason category only, never the presented credential.
type AuthenticationError struct {
	// Reason is one of ErrInvalidAPIKey, ErrInvalidToken or ErrAuthRequired.
	Reason error
}

func (e *AuthenticationError) Error() string {
	if e.Reason == nil {
		return ErrAuthRequired.Error()
	}
	return e.Reason.Error()
}

// Unwrap exposes both the reason and ErrAuthentication to errors.Is.
func (e *AuthenticationError) Unwrap() []error {
	return []error{e.Reason, ErrAuthentication}
}

// IsAuthenticationError reports whether err is, or wraps, a rejection.
func IsAuthenticationError(err error) bool {
	return errors.Is(err, ErrAuthentication)
}
