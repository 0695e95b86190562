package seqdata

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/hupe1980/seqdata/blobstore"
	"github.com/hupe1980/seqdata/dataset"
	"github.com/hupe1980/seqdata/dictionary"
	"github.com/hupe1980/seqdata/internal/hash"
	"github.com/hupe1980/seqdata/iterator"
	"github.com/hupe1980/seqdata/source"
)

// Pipeline turns a data directory into length-bucketed, padded batches.
//
// The directory is opened, sharded by rank and size filtered once in Open.
// Every epoch then builds fresh instances of the resample and batching
// stages, one per worker.
type Pipeline struct {
	cfg  Config
	dict *dictionary.Dictionary
	opts options
	log  *Logger

	src      *source.Source
	admitted *dataset.FilterResult
	data     dataset.Dataset[dataset.Record]
	sizes    dataset.Dataset[dataset.Record]

	groups *dataset.GroupCache
	it     *iterator.Parallel
}

// Open validates cfg, opens the data directory in store and runs the size
// filter over this rank's shard.
func Open(ctx context.Context, store blobstore.Store, dict *dictionary.Dictionary, cfg Config, optFns ...Option) (*Pipeline, error) {
	o := applyOptions(optFns)
	if err := cfg.Validate(dict); err != nil {
		return nil, err
	}
	log := o.logger.WithDataDir(cfg.DataDir).WithRank(cfg.Rank, cfg.WorldSize)

	if cfg.RepLabel > 0 && cfg.TargetField != "" {
		d, err := dict.WithRepeatLabels(cfg.RepLabel)
		if err != nil {
			return nil, err
		}
		dict = d
	}

	if o.cacheBytes > 0 {
		store = blobstore.NewCachingStore(store, o.cacheBytes, blobstore.WithShardedCache())
	}

	src, err := openSource(ctx, store, dict, cfg, o)
	if err != nil {
		log.LogOpen(ctx, 0, false, err)
		return nil, err
	}
	if o.writeManifest && !src.HasManifest() {
		if err := src.WriteManifest(ctx, o.codec, 0); err != nil {
			return nil, err
		}
		if src, err = openSource(ctx, store, dict, cfg, o); err != nil {
			return nil, err
		}
	}
	log.LogOpen(ctx, src.Size(), src.HasManifest(), nil)

	data, err := dataset.Partition(src.Data(), cfg.WorldSize, cfg.Rank)
	if err != nil {
		return nil, err
	}
	sizes, err := dataset.Partition(src.Sizes(), cfg.WorldSize, cfg.Rank)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	admitted, err := dataset.Filter(ctx, sizes, cfg.LengthRule())
	if err != nil {
		return nil, err
	}
	o.metricsCollector.RecordFilter(admitted.Total(), admitted.Count(), time.Since(start))
	log.LogFilter(ctx, admitted.Total(), admitted.Count())

	p := &Pipeline{
		cfg:      cfg,
		dict:     dict,
		opts:     o,
		log:      log,
		src:      src,
		admitted: admitted,
		data:     dataset.Resample(data, admitted.Subset(), -1),
		sizes:    dataset.Resample(sizes, admitted.Subset(), -1),
		groups:   dataset.NewGroupCache(),
	}
	p.it = iterator.New(cfg.Workers, p.Build,
		iterator.WithBufferPerWorker(o.bufferPerWorker),
		iterator.WithLogger(log.Logger),
	)
	return p, nil
}

// OpenLocal opens cfg.DataDir below root on the local file system.
func OpenLocal(ctx context.Context, root string, dict *dictionary.Dictionary, cfg Config, optFns ...Option) (*Pipeline, error) {
	return Open(ctx, blobstore.NewLocalStore(root), dict, cfg, optFns...)
}

func openSource(ctx context.Context, store blobstore.Store, dict *dictionary.Dictionary, cfg Config, o options) (*source.Source, error) {
	return source.Open(ctx, store, source.Config{
		Dir:                cfg.DataDir,
		InputField:         cfg.InputField,
		TargetField:        cfg.TargetField,
		WordsField:         cfg.WordsField,
		Extra:              o.extra,
		Channels:           cfg.Channels,
		Shift:              cfg.Shift,
		Dict:               dict,
		SurroundLabel:      cfg.SurroundLabel,
		RepLabel:           cfg.RepLabel,
		MaxConcurrentReads: cfg.MaxConcurrentReads,
		IOLimitBytesPerSec: cfg.IOLimitBytesPerSec,
	})
}

// Build constructs the batching instance of worker w. It is the constructor
// the parallel iterator calls once per worker and epoch. When every worker
// sees the same order, the bucket grouping is computed once and shared.
func (p *Pipeline) Build(_ context.Context, w iterator.Worker) (dataset.Dataset[*dataset.Batch], error) {
	data, sizes := p.data, p.sizes
	if p.cfg.Shuffle {
		m := dataset.NewShuffle(p.data.Size(), p.cfg.Limit, p.shuffleSeed(w))
		data = dataset.Resample(data, m, -1)
		sizes = dataset.Resample(sizes, m, -1)
	} else if limit := p.limit(); limit >= 0 {
		data = dataset.Resample(data, nil, limit)
		sizes = dataset.Resample(sizes, nil, limit)
	}
	opts := []dataset.BatchOption{dataset.WithLoadConcurrency(p.opts.loadConcurrency)}
	switch {
	case !p.cfg.Shuffle:
		opts = append(opts, dataset.WithGroupCache(p.groups, 0))
	case p.cfg.ConsistentShuffle:
		opts = append(opts, dataset.WithGroupCache(p.groups, uint64(w.Epoch)+1))
	}
	return dataset.NewBucketBatcher(data, sizes, p.cfg.BatchSize, p.cfg.Resolution, opts...)
}

func (p *Pipeline) shuffleSeed(w iterator.Worker) uint64 {
	if p.cfg.ConsistentShuffle {
		return hash.Mix(p.cfg.Seed, uint64(w.Epoch))
	}
	return hash.Mix(p.cfg.Seed, uint64(w.Epoch), uint64(w.ID)+1)
}

// Batches runs one epoch and yields its batches. With several workers the
// batches arrive in no particular order. The first error ends the epoch.
func (p *Pipeline) Batches(ctx context.Context) iter.Seq2[*dataset.Batch, error] {
	return func(yield func(*dataset.Batch, error) bool) {
		epoch := p.it.Epoch()
		start := time.Now()
		last := start
		count := 0
		var failed error
		defer func() {
			p.opts.metricsCollector.RecordEpoch(count, time.Since(start), failed)
			p.log.LogEpoch(ctx, epoch, count, failed)
		}()

		for b, err := range p.it.All(ctx) {
			if err != nil {
				failed = err
				var wce *iterator.WorkerConstructionError
				if errors.As(err, &wce) {
					p.log.LogWorkerError(ctx, wce.Worker, wce.Err)
				}
				yield(nil, err)
				return
			}
			p.opts.metricsCollector.RecordBatch(b.Len(), b.Input.Shape[1], time.Since(last))
			count++
			if !yield(b, nil) {
				return
			}
			last = time.Now()
		}
	}
}

// Epoch returns the number of epochs started.
func (p *Pipeline) Epoch() int {
	return p.it.Epoch()
}

// Workers returns the number of parallel workers; 0 means sequential.
func (p *Pipeline) Workers() int {
	return p.it.Workers()
}

// Examples returns the number of examples one epoch visits.
func (p *Pipeline) Examples() int {
	n := p.data.Size()
	switch {
	case p.cfg.Limit < 0:
		return n
	case p.cfg.Shuffle:
		return min(p.cfg.Limit, n)
	default:
		return p.limit()
	}
}

// limit is the example count of an unshuffled epoch. It wraps around the
// admitted examples, so nothing admitted means an empty epoch.
func (p *Pipeline) limit() int {
	if p.cfg.Limit > 0 && p.data.Size() == 0 {
		return 0
	}
	return p.cfg.Limit
}

// NumBatches returns the number of batches one epoch yields.
func (p *Pipeline) NumBatches() int {
	n := p.Examples()
	if p.cfg.BatchSize <= 0 {
		return n
	}
	return (n + p.cfg.BatchSize - 1) / p.cfg.BatchSize
}

// Admitted returns the shard indices that passed the size filter.
func (p *Pipeline) Admitted() *dataset.FilterResult {
	return p.admitted
}

// Source returns the opened data directory.
func (p *Pipeline) Source() *source.Source {
	return p.src
}

// Dictionary returns the dictionary targets are encoded with, including
// repeat labels when configured.
func (p *Pipeline) Dictionary() *dictionary.Dictionary {
	return p.dict
}

// Config returns the configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}
