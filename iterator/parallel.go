package iterator

import (
	"context"
	"iter"
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/hupe1980/seqdata/dataset"
	"github.com/klauspost/cpuid/v2"
	"golang.org/x/sync/errgroup"
)

// Worker identifies the pipeline instance a Constructor builds.
type Worker struct {
	// ID is in [0, Count).
	ID    int
	Count int
	// Epoch counts the All calls of the iterator, starting at 0.
	Epoch int
}

// Constructor builds one pipeline instance.
type Constructor func(ctx context.Context, w Worker) (dataset.Dataset[*dataset.Batch], error)

type options struct {
	bufferPerWorker int
	logger          *slog.Logger
}

// Option configures a Parallel iterator.
type Option func(*options)

// WithBufferPerWorker sets how many batches each worker may have in flight.
func WithBufferPerWorker(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufferPerWorker = n
		}
	}
}

// WithLogger sets the logger for worker lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Parallel iterates the batches of one or more pipeline instances.
type Parallel struct {
	n     int
	build Constructor
	opts  options
	epoch atomic.Int64
}

// New returns an iterator over the instances build creates.
//
// n == 0 iterates a single instance in the caller's goroutine. n > 0 runs n
// workers; worker w builds its own instance and delivers indices w, w+n, ...
// of it. n < 0 uses one worker per physical core.
func New(n int, build Constructor, optFns ...Option) *Parallel {
	o := options{
		bufferPerWorker: 2,
		logger:          slog.New(slog.DiscardHandler),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if n < 0 {
		n = AutoWorkers()
	}
	return &Parallel{n: n, build: build, opts: o}
}

// AutoWorkers returns the physical core count, or GOMAXPROCS when it is
// unknown.
func AutoWorkers() int {
	if n := cpuid.CPU.PhysicalCores; n > 0 {
		return min(n, runtime.GOMAXPROCS(0))
	}
	return runtime.GOMAXPROCS(0)
}

// Workers returns the number of workers; 0 means sequential.
func (p *Parallel) Workers() int {
	return p.n
}

// Epoch returns the number of iterations started.
func (p *Parallel) Epoch() int {
	return int(p.epoch.Load())
}

// All starts a new epoch and yields its batches. The first error ends the
// sequence.
func (p *Parallel) All(ctx context.Context) iter.Seq2[*dataset.Batch, error] {
	return func(yield func(*dataset.Batch, error) bool) {
		epoch := int(p.epoch.Add(1) - 1)
		if p.n == 0 {
			p.sequential(ctx, epoch, yield)
			return
		}
		p.parallel(ctx, epoch, yield)
	}
}

func (p *Parallel) sequential(ctx context.Context, epoch int, yield func(*dataset.Batch, error) bool) {
	ds, err := p.build(ctx, Worker{ID: 0, Count: 1, Epoch: epoch})
	if err != nil {
		yield(nil, &WorkerConstructionError{Worker: 0, Err: err})
		return
	}
	for i := range ds.Size() {
		b, err := ds.Get(ctx, i)
		if err != nil {
			yield(nil, err)
			return
		}
		if !yield(b, nil) {
			return
		}
	}
}

func (p *Parallel) parallel(ctx context.Context, epoch int, yield func(*dataset.Batch, error) bool) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var failed atomic.Bool
	out := make(chan *dataset.Batch, p.n*p.opts.bufferPerWorker)
	g, gctx := errgroup.WithContext(ctx)
	for w := range p.n {
		g.Go(func() error {
			err := p.work(gctx, w, epoch, out)
			if err != nil {
				failed.Store(true)
			}
			return err
		})
	}

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
		close(out)
	}()

	// Batches buffered before a failure are dropped; the error is yielded once
	// all workers have returned.
	for b := range out {
		if failed.Load() {
			continue
		}
		if !yield(b, nil) {
			cancel()
			for range out {
			}
			<-done
			return
		}
	}
	if err := <-done; err != nil {
		yield(nil, err)
	}
}

func (p *Parallel) work(ctx context.Context, w, epoch int, out chan<- *dataset.Batch) error {
	ds, err := p.build(ctx, Worker{ID: w, Count: p.n, Epoch: epoch})
	if err != nil {
		return &WorkerConstructionError{Worker: w, Err: err}
	}
	p.opts.logger.DebugContext(ctx, "worker started", "worker", w, "epoch", epoch, "size", ds.Size())

	for i := w; i < ds.Size(); i += p.n {
		b, err := ds.Get(ctx, i)
		if err != nil {
			return err
		}
		select {
		case out <- b:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	p.opts.logger.DebugContext(ctx, "worker finished", "worker", w, "epoch", epoch)
	return nil
}
