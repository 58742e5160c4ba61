package eval

import (
	"context"
	"log/slog"
	"time"
)

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger for cache and dispatch records. A nil logger
// discards.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		if l == nil {
			l = discardLogger()
		}
		e.log = l
	}
}

// WithParallel realizes the two operands of each boolean concurrently.
func WithParallel(on bool) Option {
	return func(e *Evaluator) { e.parallel = on }
}

// WithTimeout bounds every request that does not already carry a shorter
// deadline. Zero means no default bound.
func WithTimeout(d time.Duration) Option {
	return func(e *Evaluator) { e.timeout = d }
}

func discardLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

// discardHandler drops every record.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h discardHandler) WithGroup(string) slog.Handler { return h }
