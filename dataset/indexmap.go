package dataset

import "fmt"

// IndexMap remaps a derived index onto an index of the upstream dataset.
//
// Map must be pure for the lifetime of an epoch: the same input yields the
// same output until Reset (if the map implements Resetter).
type IndexMap interface {
	Map(i int) (int, error)
}

// Sizer is implemented by index maps with an intrinsic logical size.
type Sizer interface {
	Size() int
}

// Resetter is implemented by index maps holding per-epoch state.
type Resetter interface {
	Reset()
}

// Identity maps every index onto itself.
type Identity struct{}

// Map implements IndexMap.
func (Identity) Map(i int) (int, error) { return i, nil }

// Modulo maps i onto i mod N. It backs size overrides without a custom map,
// where indices past the upstream size wrap around.
type Modulo struct {
	N int
}

// Map implements IndexMap.
func (m Modulo) Map(i int) (int, error) {
	if m.N <= 0 {
		return 0, &IndexOutOfRangeError{Index: i, Size: m.N}
	}
	return i % m.N, nil
}

// Range maps [0, Len) onto [Start, Start+Len).
type Range struct {
	Start int
	Len   int
}

// Map implements IndexMap.
func (r Range) Map(i int) (int, error) {
	if i < 0 || i >= r.Len {
		return 0, &IndexOutOfRangeError{Index: i, Size: r.Len}
	}
	return r.Start + i, nil
}

// Size implements Sizer.
func (r Range) Size() int { return r.Len }

// Subset is a static list of upstream indices.
type Subset []int

// Map implements IndexMap.
func (s Subset) Map(i int) (int, error) {
	if i < 0 || i >= len(s) {
		return 0, &IndexOutOfRangeError{Index: i, Size: len(s)}
	}
	return s[i], nil
}

// Size implements Sizer.
func (s Subset) Size() int { return len(s) }

// Shuffle maps indices through a shared random permutation, optionally
// narrowed to its first k entries.
type Shuffle struct {
	perm *Permutation
	k    int
}

// NewShuffle returns a shuffle over [0, n). k < 0 or k > n keeps all n
// entries; otherwise only the first k entries of each epoch's permutation are
// visible. The full permutation is always generated before narrowing.
func NewShuffle(n, k int, seed uint64) *Shuffle {
	return ShuffleOf(NewPermutation(n, seed), k)
}

// ShuffleOf builds a Shuffle on an existing permutation.
func ShuffleOf(p *Permutation, k int) *Shuffle {
	if k < 0 || k > p.Len() {
		k = p.Len()
	}
	return &Shuffle{perm: p, k: k}
}

// Map implements IndexMap.
func (s *Shuffle) Map(i int) (int, error) {
	if i < 0 || i >= s.k {
		return 0, &IndexOutOfRangeError{Index: i, Size: s.k}
	}
	return s.perm.Get()[:s.k][i], nil
}

// Size implements Sizer.
func (s *Shuffle) Size() int { return s.k }

// Reset implements Resetter.
func (s *Shuffle) Reset() { s.perm.Reset() }

// Permutation returns the shared permutation.
func (s *Shuffle) Permutation() *Permutation { return s.perm }

// Indices returns the visible part of the current epoch's permutation.
func (s *Shuffle) Indices() []int { return s.perm.Get()[:s.k] }

type composed struct {
	outer, inner IndexMap
}

// Compose returns the map i -> inner.Map(outer.Map(i)). The logical size is
// the outer map's size when it has one.
func Compose(outer, inner IndexMap) IndexMap {
	switch {
	case outer == nil:
		return inner
	case inner == nil:
		return outer
	}
	return &composed{outer: outer, inner: inner}
}

func (c *composed) Map(i int) (int, error) {
	j, err := c.outer.Map(i)
	if err != nil {
		return 0, err
	}
	k, err := c.inner.Map(j)
	if err != nil {
		return 0, fmt.Errorf("compose: %w", err)
	}
	return k, nil
}

func (c *composed) Size() int {
	if s, ok := c.outer.(Sizer); ok {
		return s.Size()
	}
	if s, ok := c.inner.(Sizer); ok {
		return s.Size()
	}
	return -1
}

func (c *composed) Reset() {
	if r, ok := c.outer.(Resetter); ok {
		r.Reset()
	}
	if r, ok := c.inner.(Resetter); ok {
		r.Reset()
	}
}
