// Package cache stores upstream NRCC response bodies.
//
// It provides a Cache interface with a memory implementation, SHA-256-based
// key derivation from request payloads, TTL policies, and a Loader that
// coalesces concurrent misses for the same key into one upstream call.
package cache
