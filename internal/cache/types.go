package cache

import "context"

// Cache is a byte-oriented cache keyed by blob name.
// Returned slices must be treated as read-only.
type Cache interface {
	// Get returns a cached value. ok=false if missing.
	Get(ctx context.Context, key string) (b []byte, ok bool)
	// Set caches a value. The caller must not modify b afterwards.
	Set(ctx context.Context, key string, b []byte)
	// Invalidate removes entries matching the predicate.
	Invalidate(predicate func(key string) bool)
	// Stats returns hit and miss counts.
	Stats() (hits, misses int64)
	// Size returns the cached bytes.
	Size() int64
}
