package cache

import "time"

// Policy configures caching behavior.
type Policy struct {
	// DefaultTTL is used when no TTL is given. Zero disables caching.
	DefaultTTL time.Duration

	// MaxTTL clamps override TTLs. Zero means no maximum.
	MaxTTL time.Duration
}

// DefaultPolicy caches for 5 minutes, never longer than an hour.
func DefaultPolicy() Policy {
	return Policy{
		DefaultTTL: 5 * time.Minute,
		MaxTTL:     time.Hour,
	}
}

// NoCachePolicy returns a policy that disables caching entirely.
func NoCachePolicy() Policy {
	return Policy{}
}

// PolicyWithTTL returns DefaultPolicy with DefaultTTL replaced by ttl.
// A ttl <= 0 disables caching.
func PolicyWithTTL(ttl time.Duration) Policy {
	if ttl <= 0 {
		return NoCachePolicy()
	}
	p := DefaultPolicy()
	p.DefaultTTL = ttl
	if ttl > p.MaxTTL {
		p.MaxTTL = ttl
	}
	return p
}

// ShouldCache returns true if caching is enabled by this policy.
func (p Policy) ShouldCache() bool {
	return p.DefaultTTL > 0
}

// EffectiveTTL returns the TTL to use, applying defaults and clamping.
func (p Policy) EffectiveTTL(override time.Duration) time.Duration {
	ttl := override
	if ttl <= 0 {
		ttl = p.DefaultTTL
	}
	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		ttl = p.MaxTTL
	}
	return ttl
}
