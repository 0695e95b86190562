package seqdata

import (
	"log/slog"

	"github.com/hupe1980/seqdata/codec"
	"github.com/hupe1980/seqdata/reader"
)

type options struct {
	codec            codec.Codec
	metricsCollector MetricsCollector
	logger           *Logger
	extra            map[string]reader.FieldReader
	bufferPerWorker  int
	loadConcurrency  int
	writeManifest    bool
	cacheBytes       int64
}

// Option configures Open.
type Option func(*options)

// WithCodec configures the codec used for size manifests written by Open.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &seqdata.BasicMetricsCollector{}
//	p, _ := seqdata.Open(ctx, store, dict, cfg, seqdata.WithMetricsCollector(metrics))
//	// ... iterate ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithField reads an extra per-example field with r. The value is passed
// through to Batch.Fields.
func WithField(name string, r reader.FieldReader) Option {
	return func(o *options) {
		if o.extra == nil {
			o.extra = make(map[string]reader.FieldReader)
		}
		o.extra[name] = r
	}
}

// WithBufferPerWorker sets how many batches each worker may queue.
func WithBufferPerWorker(n int) Option {
	return func(o *options) {
		o.bufferPerWorker = n
	}
}

// WithLoadConcurrency bounds how many examples of a batch load in parallel.
func WithLoadConcurrency(n int) Option {
	return func(o *options) {
		o.loadConcurrency = n
	}
}

// WithWriteManifest makes Open store a size manifest when the data
// directory has none, so later runs skip the size scan.
func WithWriteManifest() Option {
	return func(o *options) {
		o.writeManifest = true
	}
}

// WithBlobCache keeps up to capacity bytes of recently read blobs in memory.
// Useful with remote stores when epochs revisit the same examples.
func WithBlobCache(capacity int64) Option {
	return func(o *options) {
		o.cacheBytes = capacity
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		bufferPerWorker:  2,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
