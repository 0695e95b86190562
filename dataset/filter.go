package dataset

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/seqdata/internal/conv"
	"golang.org/x/sync/errgroup"
)

// Predicate decides whether an example with input length isz and target
// length tsz is admissible. Implementations must be pure.
type Predicate interface {
	Admit(isz, tsz int) bool
}

// PredicateFunc adapts a function to Predicate.
type PredicateFunc func(isz, tsz int) bool

// Admit implements Predicate.
func (f PredicateFunc) Admit(isz, tsz int) bool { return f(isz, tsz) }

// AdmitAll admits every example.
var AdmitAll Predicate = PredicateFunc(func(int, int) bool { return true })

// LengthRule admits examples an encoder with receptive field KernelWidth and
// stride DownsampleFactor can align:
//
//	isz >= max(KernelWidth + tsz*DownsampleFactor, MinInputSize)
//	isz <= MaxInputSize
//	MinTargetSize <= tsz <= MaxTargetSize
//
// A zero MaxInputSize or MaxTargetSize means unbounded.
type LengthRule struct {
	KernelWidth      int
	DownsampleFactor int
	MinInputSize     int
	MaxInputSize     int
	MinTargetSize    int
	MaxTargetSize    int
}

// Admit implements Predicate.
func (r LengthRule) Admit(isz, tsz int) bool {
	if isz < max(r.KernelWidth+tsz*r.DownsampleFactor, r.MinInputSize) {
		return false
	}
	if r.MaxInputSize > 0 && isz > r.MaxInputSize {
		return false
	}
	if tsz < r.MinTargetSize {
		return false
	}
	if r.MaxTargetSize > 0 && tsz > r.MaxTargetSize {
		return false
	}
	return true
}

// FilterResult is the ordered set of admitted indices.
type FilterResult struct {
	bm      *roaring.Bitmap
	indices []int
	total   int
}

// Indices returns the admitted indices in ascending order.
func (f *FilterResult) Indices() []int { return f.indices }

// Count returns the number of admitted indices.
func (f *FilterResult) Count() int { return len(f.indices) }

// Total returns the number of scanned records.
func (f *FilterResult) Total() int { return f.total }

// Contains reports whether index i was admitted.
func (f *FilterResult) Contains(i int) bool {
	return i >= 0 && f.bm.Contains(uint32(i))
}

// Subset returns the admitted indices as a static IndexMap.
func (f *FilterResult) Subset() Subset { return Subset(f.indices) }

// Bitmap returns a copy of the admitted set.
func (f *FilterResult) Bitmap() *roaring.Bitmap { return f.bm.Clone() }

type filterOptions struct {
	concurrency int
	chunk       int
}

// FilterOption configures Filter.
type FilterOption func(*filterOptions)

// WithFilterConcurrency bounds the number of goroutines reading size records.
// Values <= 0 use GOMAXPROCS.
func WithFilterConcurrency(n int) FilterOption {
	return func(o *filterOptions) {
		o.concurrency = n
	}
}

// WithFilterChunk sets how many consecutive records one goroutine scans.
func WithFilterChunk(n int) FilterOption {
	return func(o *filterOptions) {
		if n > 0 {
			o.chunk = n
		}
	}
}

// Filter scans the size view and returns the indices whose isz/tsz fields
// satisfy p. A record without numeric isz or tsz aborts the scan with
// MalformedSizeRecordError.
func Filter(ctx context.Context, sizes Dataset[Record], p Predicate, optFns ...FilterOption) (*FilterResult, error) {
	o := filterOptions{chunk: 1024}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.concurrency <= 0 {
		o.concurrency = runtime.GOMAXPROCS(0)
	}
	if p == nil {
		p = AdmitAll
	}

	n := sizes.Size()
	if n > 0 {
		if _, err := conv.IntToUint32(n - 1); err != nil {
			return nil, fmt.Errorf("filter: %w", err)
		}
	}

	var (
		mu    sync.Mutex
		parts []*roaring.Bitmap
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for start := 0; start < n; start += o.chunk {
		end := min(start+o.chunk, n)
		g.Go(func() error {
			local := roaring.New()
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				isz, tsz, err := ReadSizes(gctx, sizes, i)
				if err != nil {
					return err
				}
				if p.Admit(isz, tsz) {
					local.Add(uint32(i))
				}
			}
			mu.Lock()
			parts = append(parts, local)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bm := roaring.New()
	if len(parts) > 0 {
		bm = roaring.FastOr(parts...)
	}
	arr := bm.ToArray()
	indices := make([]int, len(arr))
	for i, v := range arr {
		indices[i] = int(v)
	}
	return &FilterResult{bm: bm, indices: indices, total: n}, nil
}

// ReadSizes returns the isz and tsz fields of size record i.
func ReadSizes(ctx context.Context, sizes Dataset[Record], i int) (isz, tsz int, err error) {
	rec, err := sizes.Get(ctx, i)
	if err != nil {
		return 0, 0, err
	}
	isz, ok := rec.Int(FieldInputSize)
	if !ok {
		return 0, 0, &MalformedSizeRecordError{Index: i, Field: FieldInputSize}
	}
	tsz, ok = rec.Int(FieldTargetSize)
	if !ok {
		return 0, 0, &MalformedSizeRecordError{Index: i, Field: FieldTargetSize}
	}
	return isz, tsz, nil
}
