package dataset

import (
	"math/rand/v2"
	"sync"
	"sync/atomic"
)

// Permutation is a lazily materialized random permutation of [0, n) shared by
// every reader of one epoch.
//
// The first Get of an epoch generates the permutation while holding the lock;
// concurrent callers block and then observe the same buffer. The returned
// slice is read-only. Reset ends the epoch.
type Permutation struct {
	n    int
	seed uint64

	mu    sync.Mutex
	epoch uint64
	cur   atomic.Pointer[[]int]

	generations atomic.Uint64
}

// NewPermutation creates a permutation of [0, n). The sequence of permutations
// over successive epochs is fully determined by seed.
func NewPermutation(n int, seed uint64) *Permutation {
	if n < 0 {
		n = 0
	}
	return &Permutation{n: n, seed: seed}
}

// Len returns n.
func (p *Permutation) Len() int {
	return p.n
}

// Get returns the permutation of the current epoch, generating it if needed.
func (p *Permutation) Get() []int {
	if v := p.cur.Load(); v != nil {
		return *v
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if v := p.cur.Load(); v != nil {
		return *v
	}
	rng := rand.New(rand.NewPCG(p.seed, p.epoch))
	perm := rng.Perm(p.n)
	p.cur.Store(&perm)
	p.generations.Add(1)
	return perm
}

// Reset discards the current permutation; the next Get generates a new one.
func (p *Permutation) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cur.Store(nil)
	p.epoch++
}

// Materialized reports whether the current epoch's permutation exists.
func (p *Permutation) Materialized() bool {
	return p.cur.Load() != nil
}

// Epoch returns the number of Reset calls so far.
func (p *Permutation) Epoch() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.epoch
}

// Generations returns how many permutations have been generated.
func (p *Permutation) Generations() uint64 {
	return p.generations.Load()
}
