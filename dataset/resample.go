package dataset

import (
	"context"
	"fmt"
)

// Resampled exposes a base dataset through an IndexMap.
type Resampled[T any] struct {
	base Dataset[T]
	m    IndexMap
	size int
}

// Resample wraps base behind m.
//
// With m == nil and size < 0 it returns base itself. With m == nil and
// size >= 0 the result has the given size and indexes base directly, wrapping
// around past base.Size(). Otherwise the logical size is size if >= 0, else
// m's own size if it has one, else base.Size().
func Resample[T any](base Dataset[T], m IndexMap, size int) Dataset[T] {
	if m == nil && size < 0 {
		return base
	}
	if m == nil {
		m = Modulo{N: base.Size()}
	}
	if size < 0 {
		size = base.Size()
		if s, ok := m.(Sizer); ok && s.Size() >= 0 {
			size = s.Size()
		}
	}
	return &Resampled[T]{base: base, m: m, size: size}
}

// Size implements Dataset.
func (r *Resampled[T]) Size() int {
	return r.size
}

// Get implements Dataset.
func (r *Resampled[T]) Get(ctx context.Context, i int) (T, error) {
	var zero T
	if i < 0 || i >= r.size {
		return zero, &IndexOutOfRangeError{Index: i, Size: r.size}
	}
	j, err := r.m.Map(i)
	if err != nil {
		return zero, fmt.Errorf("resample %d: %w", i, err)
	}
	return r.base.Get(ctx, j)
}

// Resample starts a new epoch for maps that keep per-epoch state.
func (r *Resampled[T]) Resample() {
	if rs, ok := r.m.(Resetter); ok {
		rs.Reset()
	}
}

// IndexMap returns the map in use.
func (r *Resampled[T]) IndexMap() IndexMap {
	return r.m
}

// Base returns the wrapped dataset.
func (r *Resampled[T]) Base() Dataset[T] {
	return r.base
}
