package secret

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const refPrefix = "secretref:"

// ErrUnknownProvider is returned for a reference naming an unregistered provider.
var ErrUnknownProvider = errors.New("secret: provider is not registered")

// Resolver resolves secret references using registered providers.
type Resolver struct {
	providers map[string]Provider
	strict    bool
}

// NewResolver creates a resolver. When strict is set, a provider returning
// an empty value is an error.
func NewResolver(strict bool, providers ...Provider) *Resolver {
	r := &Resolver{
		providers: make(map[string]Provider),
		strict:    strict,
	}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// DefaultResolver returns a strict resolver with the env and file providers.
func DefaultResolver() *Resolver {
	return NewResolver(true, EnvProvider{}, FileProvider{})
}

// Register registers a provider with the resolver.
func (r *Resolver) Register(provider Provider) {
	if r == nil || provider == nil {
		return
	}
	if r.providers == nil {
		r.providers = make(map[string]Provider)
	}
	r.providers[provider.Name()] = provider
}

// ResolveValue resolves value if it is a secret reference and returns it
// unchanged otherwise.
func (r *Resolver) ResolveValue(ctx context.Context, value string) (string, error) {
	providerName, ref, ok := ParseSecretRef(value)
	if !ok {
		if strings.HasPrefix(value, refPrefix) {
			return "", fmt.Errorf("malformed secret reference, want %s<provider>:<ref>", refPrefix)
		}
		return value, nil
	}
	if r == nil {
		return "", fmt.Errorf("%q: %w", providerName, ErrUnknownProvider)
	}

	provider, ok := r.providers[providerName]
	if !ok {
		return "", fmt.Errorf("%q: %w", providerName, ErrUnknownProvider)
	}
	resolved, err := provider.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	if r.strict && resolved == "" {
		return "", fmt.Errorf("secret provider %q returned empty value", providerName)
	}
	return resolved, nil
}

// ResolveAll resolves each pointed-to value in place, stopping at the first error.
func (r *Resolver) ResolveAll(ctx context.Context, values ...*string) error {
	for _, v := range values {
		if v == nil {
			continue
		}
		out, err := r.ResolveValue(ctx, *v)
		if err != nil {
			return err
		}
		*v = out
	}
	return nil
}

// ParseSecretRef parses a full secret reference of the form:
//
//	secretref:<provider>:<ref>
func ParseSecretRef(value string) (provider string, ref string, ok bool) {
	if !strings.HasPrefix(value, refPrefix) {
		return "", "", false
	}
	parts := strings.SplitN(strings.TrimPrefix(value, refPrefix), ":", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
