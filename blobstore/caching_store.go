package blobstore

import (
	"context"
	"runtime"

	"github.com/hupe1980/seqdata/internal/cache"
	"github.com/hupe1980/seqdata/internal/resource"
	"golang.org/x/sync/errgroup"
)

// CachingStore wraps a Store and keeps whole blobs in a byte-bounded LRU.
//
// Field blobs are small and read whole, so caching by name avoids the block
// bookkeeping a range cache needs. Remote backends benefit most: a cached
// example costs no round trip on later epochs.
type CachingStore struct {
	inner       Store
	cache       cache.Cache
	concurrency int
}

type cachingOptions struct {
	sharded     bool
	rc          *resource.Controller
	concurrency int
}

// CachingOption configures a CachingStore.
type CachingOption func(*cachingOptions)

// WithShardedCache spreads entries over independent LRU shards. Use it when
// many workers share one store.
func WithShardedCache() CachingOption {
	return func(o *cachingOptions) {
		o.sharded = true
	}
}

// WithMemoryController accounts cached bytes against rc.
func WithMemoryController(rc *resource.Controller) CachingOption {
	return func(o *cachingOptions) {
		o.rc = rc
	}
}

// WithPrefetchConcurrency bounds the parallel fetches of Prefetch.
func WithPrefetchConcurrency(n int) CachingOption {
	return func(o *cachingOptions) {
		o.concurrency = n
	}
}

// NewCachingStore creates a CachingStore holding at most capacity bytes.
func NewCachingStore(inner Store, capacity int64, optFns ...CachingOption) *CachingStore {
	o := cachingOptions{}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.concurrency <= 0 {
		o.concurrency = 4 * runtime.GOMAXPROCS(0)
	}

	var c cache.Cache
	if o.sharded {
		c = cache.NewShardedLRU(capacity, o.rc)
	} else {
		c = cache.NewLRU(capacity, o.rc)
	}
	return &CachingStore{inner: inner, cache: c, concurrency: o.concurrency}
}

// Open serves the blob from the cache, loading it whole on a miss.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	data, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}
	return &memoryBlob{data: data}, nil
}

// Put invalidates the cached copy and writes through.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.cache.Invalidate(func(key string) bool { return key == name })
	return s.inner.Put(ctx, name, data)
}

// List is passed through uncached.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Prefetch loads the named blobs into the cache in parallel. It stops at the
// first error.
func (s *CachingStore) Prefetch(ctx context.Context, names []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, name := range names {
		g.Go(func() error {
			_, err := s.load(gctx, name)
			return err
		})
	}
	return g.Wait()
}

// Stats returns cache hits and misses.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.cache.Stats()
}

// CachedBytes returns the bytes currently held.
func (s *CachingStore) CachedBytes() int64 {
	return s.cache.Size()
}

func (s *CachingStore) load(ctx context.Context, name string) ([]byte, error) {
	if data, ok := s.cache.Get(ctx, name); ok {
		return data, nil
	}
	data, err := ReadAll(ctx, s.inner, name)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, name, data)
	return data, nil
}
