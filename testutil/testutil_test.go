package testutil

import (
	"context"
	"testing"

	"github.com/hupe1980/seqdata/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence(t *testing.T) {
	rng := NewRNG(4711)

	seq := rng.Sequence(8, 3)

	assert.Equal(t, 8, seq.Len)
	assert.Equal(t, 3, seq.Channels)
	assert.Len(t, seq.Data, 24)
	for _, v := range seq.Data {
		assert.GreaterOrEqual(t, v, float32(-1))
		assert.Less(t, v, float32(1))
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(42)
	first := rng.Tokens([]string{"a", "b", "c", "d"}, 16)

	rng.Reset()
	assert.Equal(t, first, rng.Tokens([]string{"a", "b", "c", "d"}, 16))
	assert.Equal(t, uint64(42), rng.Seed())
}

func TestExamples(t *testing.T) {
	rng := NewRNG(7)

	examples := rng.Examples(20, 5, 9, 2, []string{"x", "y"}, 4)

	require.Len(t, examples, 20)
	for _, ex := range examples {
		assert.GreaterOrEqual(t, ex.Input.Len, 5)
		assert.LessOrEqual(t, ex.Input.Len, 9)
		assert.NotEmpty(t, ex.Target)
	}
}

func TestFixture_Write(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	examples := NewRNG(1).Examples(3, 2, 4, 1, []string{"a"}, 2)

	require.NoError(t, DefaultFixture("train/").Write(ctx, store, examples))

	names, err := store.List(ctx, "train/")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"train/000000001.in", "train/000000001.tgt", "train/000000001.wrd",
		"train/000000002.in", "train/000000002.tgt", "train/000000002.wrd",
		"train/000000003.in", "train/000000003.tgt", "train/000000003.wrd",
	}, names)

	data, err := blobstore.ReadAll(ctx, store, "train/000000002.wrd")
	require.NoError(t, err)
	assert.Equal(t, "utterance 2", string(data))
}
