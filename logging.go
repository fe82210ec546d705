package insights

import (
	"context"
	"log/slog"
)

// StructuredLogger provides structured logging support for the package.
// It is compatible with Go 1.21's slog package and similar structured logging
// libraries; use NewSlogAdapter to wrap an *slog.Logger, or implement the
// interface directly over your logger of choice.
//
//	client, _ := insights.New(pk, sk,
//	    insights.WithStructuredLogger(insights.NewSlogAdapter(slog.Default())),
//	)
type StructuredLogger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, args ...any)
	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, args ...any)
	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, args ...any)
	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, args ...any)
}

// slogAdapter adapts an *slog.Logger to the StructuredLogger interface.
type slogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter wraps an *slog.Logger as a StructuredLogger.
func NewSlogAdapter(logger *slog.Logger) StructuredLogger {
	return &slogAdapter{logger: logger}
}

func (a *slogAdapter) Debug(msg string, args ...any) {
	a.logger.Log(context.Background(), slog.LevelDebug, msg, args...)
}

func (a *slogAdapter) Info(msg string, args ...any) {
	a.logger.Log(context.Background(), slog.LevelInfo, msg, args...)
}

func (a *slogAdapter) Warn(msg string, args ...any) {
	a.logger.Log(context.Background(), slog.LevelWarn, msg, args...)
}

func (a *slogAdapter) Error(msg string, args ...any) {
	a.logger.Log(context.Background(), slog.LevelError, msg, args...)
}

// Ensure slogAdapter implements StructuredLogger.
var _ StructuredLogger = (*slogAdapter)(nil)

// noopLogger discards all log output. Used when no logger is configured.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
