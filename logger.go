package seqdata

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with seqdata-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithDataDir adds the data directory to the logger.
func (l *Logger) WithDataDir(dir string) *Logger {
	return &Logger{
		Logger: l.Logger.With("data_dir", dir),
	}
}

// WithRank adds the distributed rank to the logger.
func (l *Logger) WithRank(rank, worldSize int) *Logger {
	return &Logger{
		Logger: l.Logger.With("rank", rank, "world_size", worldSize),
	}
}

// LogOpen logs the opening of a data directory.
func (l *Logger) LogOpen(ctx context.Context, examples int, manifest bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "open data directory failed",
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "data directory opened",
		"examples", examples,
		"manifest", manifest,
	)
}

// LogFilter logs the result of the size filter.
func (l *Logger) LogFilter(ctx context.Context, total, admitted int) {
	if admitted == 0 && total > 0 {
		l.WarnContext(ctx, "size filter admitted no examples",
			"total", total,
		)
		return
	}
	l.InfoContext(ctx, "size filter completed",
		"total", total,
		"admitted", admitted,
		"dropped", total-admitted,
	)
}

// LogEpoch logs the end of an epoch.
func (l *Logger) LogEpoch(ctx context.Context, epoch, batches int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "epoch failed",
			"epoch", epoch,
			"batches", batches,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "epoch completed",
		"epoch", epoch,
		"batches", batches,
	)
}

// LogWorkerError logs a worker failure that ended an epoch.
func (l *Logger) LogWorkerError(ctx context.Context, worker int, err error) {
	l.ErrorContext(ctx, "worker failed",
		"worker", worker,
		"error", err,
	)
}
