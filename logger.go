package snapshotpool

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with snapshot pool context.
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
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithPool adds the pool name and snapshot width to the logger.
func (l *Logger) WithPool(name string, bytesPerSnapshot int) *Logger {
	return &Logger{
		Logger: l.Logger.With("pool", name, "bytes_per_snapshot", bytesPerSnapshot),
	}
}

// WithRun adds a run identifier to the logger.
func (l *Logger) WithRun(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run", id),
	}
}

// LogCreated logs the construction of a pool.
func (l *Logger) LogCreated(mode string, storageBytes uint64) {
	l.Debug("pool created",
		"mode", mode,
		"storage_bytes", storageBytes,
	)
}

// LogGrowth logs a growth of the pool's backing storage.
func (l *Logger) LogGrowth(oldBytes, newBytes uint64, records int) {
	l.Debug("storage grown",
		"old_bytes", oldBytes,
		"new_bytes", newBytes,
		"records", records,
	)
}

// LogExploration logs the outcome of a state-space exploration.
func (l *Logger) LogExploration(ctx context.Context, model string, states, transitions int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "exploration failed",
			"model", model,
			"states", states,
			"transitions", transitions,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "exploration completed",
			"model", model,
			"states", states,
			"transitions", transitions,
		)
	}
}
