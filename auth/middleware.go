package auth

import (
	"context"

	"github.com/jonwraymond/nrcc-search/tool"
)

// Middleware returns a tool middleware that authenticates every call.
//
// Credentials come from the api_key and token arguments. When neither is
// present, the X-API-Key and Authorization headers carried in the context
// are used instead. The credential arguments are removed before the wrapped
// func runs. On Reject the wrapped func is not invoked and an
// *AuthenticationError is returned.
func Middleware(v *Validator) tool.Middleware {
	return func(next tool.Func) tool.Func {
		return func(ctx context.Context, args tool.Args) (string, error) {
			creds, rest := SplitCredentials(args)
			if creds.IsEmpty() {
				creds = CredentialsFromContext(ctx)
			}

			outcome := v.Validate(ctx, creds)
			if outcome.Decision == Reject {
				return "", outcome.Err
			}

			return next(WithIdentity(ctx, outcome.Identity), rest)
		}
	}
}
