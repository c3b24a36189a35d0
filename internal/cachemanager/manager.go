package cachemanager

import (
	"context"
	"time"
)

// CacheManager is a typed cache with per-entry TTLs. Implementations must be
// safe for concurrent use.
type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key string) (V, bool)
	Set(ctx context.Context, key string, value V, ttl time.Duration)
	Flush(ctx context.Context) error
}
