package logger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey struct{}

var logContextKey = contextKey{}

// LogContext holds request-scoped logging context threaded through
// docstore/liststore operations.
type LogContext struct {
	TraceID   string    // correlation id for a single client request
	Operation string    // e.g. "append", "retrieve", "reverse_scan"
	Name      string    // list name or docstore path the operation concerns
	StartTime time.Time // for duration calculation
}

// WithContext returns a new context carrying lc.
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from ctx, or nil if absent.
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a LogContext for the given operation, generating a
// fresh TraceID so every log line for this call can be correlated.
func NewLogContext(operation string) *LogContext {
	return &LogContext{TraceID: uuid.New().String(), Operation: operation, StartTime: time.Now()}
}

// WithName returns a copy of lc with Name set.
func (lc *LogContext) WithName(name string) *LogContext {
	if lc == nil {
		return nil
	}
	clone := *lc
	clone.Name = name
	return &clone
}

// DurationMs returns the elapsed time since StartTime in milliseconds.
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
