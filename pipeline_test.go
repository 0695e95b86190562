package seqdata

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/hupe1980/seqdata/blobstore"
	"github.com/hupe1980/seqdata/dataset"
	"github.com/hupe1980/seqdata/dictionary"
	"github.com/hupe1980/seqdata/reader"
	"github.com/hupe1980/seqdata/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFixture writes ten single channel examples; example i has i+3 frames
// and (i%3)+1 target tokens.
func newFixture(t *testing.T) (*blobstore.MemoryStore, *dictionary.Dictionary) {
	t.Helper()

	dict, err := dictionary.FromTokens("a", "b", "c")
	require.NoError(t, err)

	examples := make([]testutil.Example, 10)
	for i := range examples {
		data := make([]float32, i+3)
		for j := range data {
			data[j] = float32(i + 1)
		}
		examples[i] = testutil.Example{
			Input:  dataset.NewSequence(data, 1),
			Target: strings.TrimSpace(strings.Repeat("a ", i%3+1)),
			Words:  fmt.Sprintf("w%d", i),
		}
	}

	store := blobstore.NewMemoryStore()
	f := testutil.DefaultFixture("train")
	f.Compression = reader.Zstd
	require.NoError(t, f.Write(context.Background(), store, examples))
	return store, dict
}

func newConfig() Config {
	cfg := DefaultConfig()
	cfg.DataDir = "train"
	cfg.WordsField = "wrd"
	cfg.BatchSize = 4
	cfg.KernelWidth = 1
	cfg.DownsampleFactor = 2
	return cfg
}

func lengths(t *testing.T, p *Pipeline) [][]int {
	t.Helper()
	var out [][]int
	for b, err := range p.Batches(context.Background()) {
		require.NoError(t, err)
		out = append(out, b.Lengths)
	}
	return out
}

func flatten(batches [][]int) []int {
	out := slices.Concat(batches...)
	slices.Sort(out)
	return out
}

func TestPipeline_Sequential(t *testing.T) {
	ctx := context.Background()
	store, dict := newFixture(t)

	p, err := Open(ctx, store, dict, newConfig())
	require.NoError(t, err)

	assert.Equal(t, []int{0, 3, 4, 5, 6, 7, 8, 9}, p.Admitted().Indices())
	assert.Equal(t, 8, p.Examples())
	assert.Equal(t, 2, p.NumBatches())
	assert.Equal(t, 0, p.Workers())

	var batches []*dataset.Batch
	for b, err := range p.Batches(ctx) {
		require.NoError(t, err)
		batches = append(batches, b)
	}
	require.Len(t, batches, 2)

	first := batches[0]
	assert.Equal(t, []int{3, 6, 7, 8}, first.Lengths)
	assert.Equal(t, []int{4, 8, 1}, first.Input.Shape)
	assert.Equal(t, float32(1), first.Input.At(0, 2, 0))
	assert.Equal(t, float32(0), first.Input.At(0, 3, 0))
	assert.Equal(t, float32(4), first.Input.At(1, 5, 0))
	assert.Equal(t, []int{1}, first.Targets[0])
	assert.Equal(t, []int{1, 1}, first.Targets[2])
	assert.Equal(t, []any{"w0", "w3", "w4", "w5"}, first.Fields["wrd"])
	assert.Equal(t, []int{9, 10, 11, 12}, batches[1].Lengths)

	assert.Equal(t, 1, p.Epoch())
}

func TestPipeline_Partition(t *testing.T) {
	store, dict := newFixture(t)
	cfg := newConfig()
	cfg.WorldSize = 2
	cfg.Rank = 2

	p, err := Open(context.Background(), store, dict, cfg)
	require.NoError(t, err)

	assert.Equal(t, 5, p.Admitted().Total())
	assert.Equal(t, [][]int{{8, 9, 10, 11}, {12}}, lengths(t, p))
}

func TestPipeline_ConsistentShuffle(t *testing.T) {
	store, dict := newFixture(t)
	cfg := newConfig()
	cfg.BatchSize = 2
	cfg.Shuffle = true
	cfg.ConsistentShuffle = true
	cfg.Workers = 3
	cfg.Seed = 99

	p, err := Open(context.Background(), store, dict, cfg)
	require.NoError(t, err)

	want := []int{3, 6, 7, 8, 9, 10, 11, 12}
	for range 3 {
		got := lengths(t, p)
		assert.Len(t, got, 4)
		assert.Equal(t, want, flatten(got))
	}
	assert.Equal(t, 3, p.Epoch())
}

func TestPipeline_ShuffleLimit(t *testing.T) {
	store, dict := newFixture(t)
	cfg := newConfig()
	cfg.BatchSize = 0
	cfg.Shuffle = true
	cfg.Limit = 5

	p, err := Open(context.Background(), store, dict, cfg)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Examples())
	assert.Equal(t, 5, p.NumBatches())

	got := lengths(t, p)
	require.Len(t, got, 5)
	for _, l := range got {
		assert.Len(t, l, 1)
		assert.Contains(t, []int{3, 6, 7, 8, 9, 10, 11, 12}, l[0])
	}
}

func TestPipeline_LimitWraps(t *testing.T) {
	store, dict := newFixture(t)
	cfg := newConfig()
	cfg.Limit = 10

	p, err := Open(context.Background(), store, dict, cfg)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Examples())
	assert.Equal(t, 3, p.NumBatches())

	assert.Equal(t, []int{3, 3, 6, 6, 7, 8, 9, 10, 11, 12}, flatten(lengths(t, p)))
}

func TestPipeline_NothingAdmitted(t *testing.T) {
	store, dict := newFixture(t)

	for _, shuffle := range []bool{false, true} {
		for _, workers := range []int{0, 2} {
			cfg := newConfig()
			cfg.MinInputSize = 1000
			cfg.Limit = 4
			cfg.Shuffle = shuffle
			cfg.Workers = workers

			p, err := Open(context.Background(), store, dict, cfg)
			require.NoError(t, err)
			assert.Zero(t, p.Admitted().Count())
			assert.Zero(t, p.Examples())
			assert.Zero(t, p.NumBatches())
			assert.Empty(t, lengths(t, p), "shuffle=%v workers=%d", shuffle, workers)
		}
	}
}

func TestPipeline_WorkersDeliverWholeEpoch(t *testing.T) {
	store, dict := newFixture(t)
	cfg := newConfig()
	cfg.BatchSize = 0
	cfg.Shuffle = true
	cfg.ConsistentShuffle = true
	cfg.Workers = 3

	p, err := Open(context.Background(), store, dict, cfg)
	require.NoError(t, err)

	var got []int
	for b, err := range p.Batches(context.Background()) {
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
		got = append(got, b.Lengths...)
	}
	slices.Sort(got)
	assert.Equal(t, []int{3, 6, 7, 8, 9, 10, 11, 12}, got)
}

func TestPipeline_WorkersShareGrouping(t *testing.T) {
	reads := func(workers int) int64 {
		store, dict := newFixture(t)
		cfg := newConfig()
		cfg.Workers = workers

		p, err := Open(context.Background(), store, dict, cfg)
		require.NoError(t, err)
		assert.Len(t, flatten(lengths(t, p)), 8)
		n, _ := p.Source().ReadStats()
		return n
	}
	assert.Equal(t, reads(0), reads(3))
}

func TestPipeline_MissingDirectory(t *testing.T) {
	store, dict := newFixture(t)
	cfg := newConfig()
	cfg.DataDir = "valid"

	_, err := Open(context.Background(), store, dict, cfg)
	var mde *MissingDirectoryError
	require.ErrorAs(t, err, &mde)
	assert.Equal(t, "valid", mde.Path)
}

func TestPipeline_InvalidConfig(t *testing.T) {
	store, dict := newFixture(t)
	cfg := newConfig()
	cfg.SurroundLabel = "<s>"

	_, err := Open(context.Background(), store, dict, cfg)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "surround_label", ce.Field)
}

func TestPipeline_WriteManifest(t *testing.T) {
	ctx := context.Background()
	store, dict := newFixture(t)

	p, err := Open(ctx, store, dict, newConfig(), WithWriteManifest())
	require.NoError(t, err)
	assert.True(t, p.Source().HasManifest())

	reads, _ := p.Source().ReadStats()
	assert.Zero(t, reads)
	assert.Equal(t, 8, p.Admitted().Count())
}

func TestPipeline_RepLabel(t *testing.T) {
	store, dict := newFixture(t)
	cfg := newConfig()
	cfg.RepLabel = 2
	cfg.KernelWidth = 0
	cfg.DownsampleFactor = 0

	p, err := Open(context.Background(), store, dict, cfg)
	require.NoError(t, err)
	assert.True(t, p.Dictionary().Contains("2"))
	assert.False(t, dict.Contains("2"))

	var targets [][]int
	for b, err := range p.Batches(context.Background()) {
		require.NoError(t, err)
		targets = append(targets, b.Targets...)
	}
	one, err := p.Dictionary().Index("1")
	require.NoError(t, err)
	two, err := p.Dictionary().Index("2")
	require.NoError(t, err)
	assert.Contains(t, targets, []int{1})
	assert.Contains(t, targets, []int{1, one})
	assert.Contains(t, targets, []int{1, two})
}

func TestPipeline_BlobCache(t *testing.T) {
	store, dict := newFixture(t)

	p, err := Open(context.Background(), store, dict, newConfig(), WithBlobCache(1<<20))
	require.NoError(t, err)

	assert.Equal(t, lengths(t, p), lengths(t, p))
}

func TestPipeline_Metrics(t *testing.T) {
	store, dict := newFixture(t)
	metrics := &BasicMetricsCollector{}

	p, err := Open(context.Background(), store, dict, newConfig(), WithMetricsCollector(metrics))
	require.NoError(t, err)
	lengths(t, p)

	stats := metrics.GetStats()
	assert.Equal(t, int64(10), stats.FilterTotal)
	assert.Equal(t, int64(8), stats.FilterAdmitted)
	assert.Equal(t, int64(2), stats.BatchCount)
	assert.Equal(t, int64(8), stats.ExampleCount)
	assert.Equal(t, int64(4*8+4*12), stats.PaddedFrames)
	assert.Equal(t, int64(1), stats.EpochCount)
	assert.Zero(t, stats.EpochErrors)
}

func TestPipeline_EpochError(t *testing.T) {
	ctx := context.Background()
	store, dict := newFixture(t)
	metrics := &BasicMetricsCollector{}

	p, err := Open(ctx, store, dict, newConfig(), WithMetricsCollector(metrics))
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "train/000000005.tgt", []byte("zzz")))

	var errs []error
	for _, err := range p.Batches(ctx) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	require.Len(t, errs, 1)
	var ute *UnknownTokenError
	assert.ErrorAs(t, errs[0], &ute)
	assert.Equal(t, int64(1), metrics.GetStats().EpochErrors)
}
