package dataset

import (
	"context"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

type batchOptions struct {
	concurrency int
	cache       *GroupCache
	cacheKey    uint64
}

// BatchOption configures a BucketBatcher.
type BatchOption func(*batchOptions)

// WithLoadConcurrency bounds how many examples of one batch are loaded in
// parallel. Values <= 0 use GOMAXPROCS.
func WithLoadConcurrency(n int) BatchOption {
	return func(o *batchOptions) {
		o.concurrency = n
	}
}

// WithGroupCache shares the grouping through c. Batchers whose upstream order
// is identical pass the same key and compute the grouping once; a different
// key replaces the cached grouping.
func WithGroupCache(c *GroupCache, key uint64) BatchOption {
	return func(o *batchOptions) {
		o.cache = c
		o.cacheKey = key
	}
}

// GroupCache holds the grouping of the most recent key. Batchers sharing a
// cache must use the same batch size and resolution.
type GroupCache struct {
	mu     sync.Mutex
	key    uint64
	groups [][]int
}

// NewGroupCache returns an empty cache.
func NewGroupCache() *GroupCache {
	return &GroupCache{}
}

func (c *GroupCache) load(ctx context.Context, key uint64, compute func(context.Context) ([][]int, error)) ([][]int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.groups != nil && c.key == key {
		return c.groups, nil
	}
	groups, err := compute(ctx)
	if err != nil {
		return nil, err
	}
	c.key, c.groups = key, groups
	return groups, nil
}

// BucketBatcher groups examples of similar input length into padded batches.
//
// Examples are assigned to bucket isz/resolution, stably sorted by bucket
// (ties keep the upstream order) and sliced into consecutive groups of
// batchSize. The last group may be smaller than batchSize.
//
// The grouping depends on the upstream order, so it is computed on first use
// and cached until Reset.
type BucketBatcher struct {
	data       Dataset[Record]
	sizes      Dataset[Record]
	batchSize  int
	resolution int
	opts       batchOptions

	mu     sync.Mutex
	groups atomic.Pointer[[][]int]
}

// NewBucketBatcher creates a batcher over data, using sizes for lengths.
// batchSize <= 0 disables grouping: every example becomes its own batch.
func NewBucketBatcher(data, sizes Dataset[Record], batchSize, resolution int, optFns ...BatchOption) (*BucketBatcher, error) {
	if data.Size() != sizes.Size() {
		return nil, &DatasetSizeMismatchError{Data: data.Size(), Sizes: sizes.Size()}
	}
	if resolution <= 0 {
		resolution = 1
	}
	o := batchOptions{}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.concurrency <= 0 {
		o.concurrency = runtime.GOMAXPROCS(0)
	}
	return &BucketBatcher{
		data:       data,
		sizes:      sizes,
		batchSize:  batchSize,
		resolution: resolution,
		opts:       o,
	}, nil
}

// Size implements Dataset.
func (b *BucketBatcher) Size() int {
	n := b.data.Size()
	if b.batchSize <= 0 {
		return n
	}
	return (n + b.batchSize - 1) / b.batchSize
}

// BatchSize returns the configured batch size.
func (b *BucketBatcher) BatchSize() int {
	return b.batchSize
}

// Get implements Dataset.
func (b *BucketBatcher) Get(ctx context.Context, i int) (*Batch, error) {
	if i < 0 || i >= b.Size() {
		return nil, &IndexOutOfRangeError{Index: i, Size: b.Size()}
	}
	if b.batchSize <= 0 {
		rec, err := b.data.Get(ctx, i)
		if err != nil {
			return nil, err
		}
		batch, err := Merge([]Record{rec})
		if err != nil {
			return nil, err
		}
		batch.Indices = []int{i}
		return batch, nil
	}

	groups, err := b.load(ctx)
	if err != nil {
		return nil, err
	}
	members := groups[i]

	recs := make([]Record, len(members))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.concurrency)
	for k, idx := range members {
		g.Go(func() error {
			rec, err := b.data.Get(gctx, idx)
			if err != nil {
				return err
			}
			recs[k] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch, err := Merge(recs)
	if err != nil {
		return nil, err
	}
	batch.Indices = slices.Clone(members)
	return batch, nil
}

// Groups returns a copy of the upstream indices of every batch, computing the
// bucket order on first use.
func (b *BucketBatcher) Groups(ctx context.Context) ([][]int, error) {
	groups, err := b.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([][]int, len(groups))
	for i, g := range groups {
		out[i] = slices.Clone(g)
	}
	return out, nil
}

func (b *BucketBatcher) load(ctx context.Context) ([][]int, error) {
	if g := b.groups.Load(); g != nil {
		return *g, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if g := b.groups.Load(); g != nil {
		return *g, nil
	}
	compute := b.computeGroups
	if c := b.opts.cache; c != nil {
		compute = func(ctx context.Context) ([][]int, error) {
			return c.load(ctx, b.opts.cacheKey, b.computeGroups)
		}
	}
	groups, err := compute(ctx)
	if err != nil {
		return nil, err
	}
	b.groups.Store(&groups)
	return groups, nil
}

// Reset drops the cached grouping. Call it after the upstream order changed.
func (b *BucketBatcher) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.groups.Store(nil)
}

func (b *BucketBatcher) computeGroups(ctx context.Context) ([][]int, error) {
	n := b.sizes.Size()
	buckets := make([]int, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.concurrency)
	const chunk = 1024
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				isz, _, err := ReadSizes(gctx, b.sizes, i)
				if err != nil {
					return err
				}
				buckets[i] = isz / b.resolution
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(x, y int) int { return buckets[x] - buckets[y] })

	groups := make([][]int, 0, b.Size())
	for start := 0; start < n; start += b.batchSize {
		groups = append(groups, order[start:min(start+b.batchSize, n)])
	}
	return groups, nil
}
