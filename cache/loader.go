package cache

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// LoadFunc fetches a value on a cache miss.
type LoadFunc func(ctx context.Context) ([]byte, error)

// Loader reads through a Cache. Concurrent misses for the same key share
// one LoadFunc call. Errors are never cached.
type Loader struct {
	cache  Cache
	policy Policy
	group  singleflight.Group
}

// NewLoader creates a Loader. A nil cache is allowed and disables storage
// while keeping miss coalescing.
func NewLoader(c Cache, policy Policy) *Loader {
	return &Loader{cache: c, policy: policy}
}

// Load returns the cached value for key or calls load to produce it.
// The second result reports whether the value came from the cache.
//
// The shared load runs detached from the caller's cancellation, so a caller
// that gives up does not fail the others waiting on the same key. Each caller
// stops waiting when its own ctx is done. load must bound itself.
func (l *Loader) Load(ctx context.Context, key string, load LoadFunc) ([]byte, bool, error) {
	useCache := l.cache != nil && l.policy.ShouldCache()
	if useCache {
		if v, ok := l.cache.Get(ctx, key); ok {
			return v, true, nil
		}
	}

	shared := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (any, error) {
		body, err := load(shared)
		if err != nil {
			return nil, err
		}
		if useCache {
			_ = l.cache.Set(shared, key, body, l.policy.EffectiveTTL(0))
		}
		return body, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.([]byte), false, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}
