// Package cachebackend implements the key→value store with per-entry TTL
// and a size cap described in spec.md §4.1, plus a Redis-backed variant for
// deployments that need the cache to survive process restarts.
package cachebackend

import "context"

// Backend is the interface the Summary Cache builds on; the Permission
// Cache does not use it. ttlSeconds <= 0 means "no expiry".
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) bool
	// Clear removes every key starting with prefix, or every key when
	// prefix is empty, returning the count removed.
	Clear(ctx context.Context, prefix string) int
	HealthCheck(ctx context.Context) bool
	Initialize(ctx context.Context) error
	Close(ctx context.Context) error
}
