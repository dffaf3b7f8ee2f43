package tool

import "context"

// Args holds the named arguments of a single tool call.
type Args map[string]any

// String returns the string argument for key, or "" if absent or not a string.
func (a Args) String(key string) string {
	if a == nil {
		return ""
	}
	s, _ := a[key].(string)
	return s
}

// Without returns a copy of a with the given keys removed.
// The receiver is never modified.
func (a Args) Without(keys ...string) Args {
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Func is a tool operation. It returns the user-visible text result.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: implementations should honor cancellation/deadlines.
// - Errors: a non-nil error aborts the call; it is surfaced to the caller.
type Func func(ctx context.Context, args Args) (string, error)

// Middleware decorates a Func.
type Middleware func(Func) Func

// Chain wraps fn with mws. The first middleware is the outermost, so
// Chain(fn, a, b) behaves like a(b(fn)).
func Chain(fn Func, mws ...Middleware) Func {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		fn = mws[i](fn)
	}
	return fn
}
