package testutil

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/hupe1980/seqdata/blobstore"
	"github.com/hupe1980/seqdata/dataset"
	"github.com/hupe1980/seqdata/reader"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed uint64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewPCG(seed, seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewPCG(r.seed, r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// IntN returns a non-negative pseudo-random number in [0,n).
func (r *RNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}

// Sequence returns a sequence of frames x channels values in [-1, 1).
func (r *RNG) Sequence(frames, channels int) *dataset.Sequence {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, frames*channels)
	for i := range data {
		data[i] = r.rand.Float32()*2 - 1
	}
	return dataset.NewSequence(data, channels)
}

// Tokens returns n tokens drawn uniformly from vocab, joined by spaces.
func (r *RNG) Tokens(vocab []string, n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, n)
	for i := range out {
		out[i] = vocab[r.rand.IntN(len(vocab))]
	}
	return strings.Join(out, " ")
}

// Examples generates n examples with input lengths in [minLen, maxLen] and
// target lengths in [1, maxTokens].
func (r *RNG) Examples(n, minLen, maxLen, channels int, vocab []string, maxTokens int) []Example {
	out := make([]Example, n)
	for i := range out {
		frames := minLen + r.IntN(maxLen-minLen+1)
		out[i] = Example{
			Input:  r.Sequence(frames, channels),
			Target: r.Tokens(vocab, 1+r.IntN(maxTokens)),
			Words:  fmt.Sprintf("utterance %d", i+1),
		}
	}
	return out
}

// Example is one example written by a Fixture.
type Example struct {
	Input  *dataset.Sequence
	Target string
	Words  string
}

// Fixture describes the data directory layout to write.
type Fixture struct {
	Dir         string
	InputField  string
	TargetField string
	// WordsField is skipped when empty.
	WordsField  string
	Compression reader.Compression
}

// DefaultFixture uses the field names of a standard data directory.
func DefaultFixture(dir string) Fixture {
	return Fixture{Dir: dir, InputField: "in", TargetField: "tgt", WordsField: "wrd"}
}

// Write stores examples as %09d.<field> blobs numbered from 1.
func (f Fixture) Write(ctx context.Context, store blobstore.Store, examples []Example) error {
	prefix := strings.TrimSuffix(f.Dir, "/")
	if prefix != "" {
		prefix += "/"
	}
	for i, ex := range examples {
		id := i + 1
		blob, err := reader.EncodeFeatures(ex.Input, f.Compression)
		if err != nil {
			return err
		}
		if err := store.Put(ctx, fmt.Sprintf("%s%09d.%s", prefix, id, f.InputField), blob); err != nil {
			return err
		}
		if f.TargetField != "" {
			if err := store.Put(ctx, fmt.Sprintf("%s%09d.%s", prefix, id, f.TargetField), []byte(ex.Target)); err != nil {
				return err
			}
		}
		if f.WordsField != "" {
			if err := store.Put(ctx, fmt.Sprintf("%s%09d.%s", prefix, id, f.WordsField), []byte(ex.Words)); err != nil {
				return err
			}
		}
	}
	return nil
}
