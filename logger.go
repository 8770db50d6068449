package bucketvec

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with bucketvec-specific context.
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
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithName adds a container name field, useful when several containers log
// to the same handler.
func (l *Logger) WithName(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("container", name),
	}
}

// LogSegmentAllocated logs the allocation of a new segment.
func (l *Logger) LogSegmentAllocated(ctx context.Context, ordinal, capacity, totalCapacity int) {
	l.DebugContext(ctx, "segment allocated",
		"ordinal", ordinal,
		"capacity", capacity,
		"total_capacity", totalCapacity,
	)
}

// LogCreated logs the construction of a container.
func (l *Logger) LogCreated(ctx context.Context, startCapacity int, growthRate float64) {
	l.DebugContext(ctx, "container created",
		"start_capacity", startCapacity,
		"growth_rate", growthRate,
	)
}
