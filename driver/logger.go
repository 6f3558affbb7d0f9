package driver

import (
	"context"
	"log/slog"
	"time"
)

// Logger is the single hook the core invokes after every Exec call -
// whether it succeeded or failed - with the rendered SQL, the
// parameter values bound to it, and how long the call took. It never
// returns a value; a Logger must be tolerated even if it panics or
// misbehaves, since by the time Log runs the query has already
// completed and its outcome is already decided.
type Logger interface {
	Log(sql string, params []any, elapsed time.Duration)
}

// LoggerFunc adapts a plain function to Logger.
type LoggerFunc func(sql string, params []any, elapsed time.Duration)

// Log calls f.
func (f LoggerFunc) Log(sql string, params []any, elapsed time.Duration) {
	f(sql, params, elapsed)
}

// SlogLogger adapts a *slog.Logger to Logger. It is the default
// Logging falls back to when no other Logger is supplied.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps logger as a Logger. A nil logger uses
// slog.Default().
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLogger{logger: logger}
}

func (s *SlogLogger) Log(sql string, params []any, elapsed time.Duration) {
	s.logger.Debug("pgqb: query executed", "sql", sql, "params", params, "elapsed", elapsed)
}

// Logging wraps a Driver and invokes a Logger after every Exec call,
// regardless of outcome, before propagating that outcome unchanged.
type Logging struct {
	inner  Driver
	logger Logger
}

// NewLogging wraps inner, invoking logger after every Exec. A nil
// logger falls back to a SlogLogger over slog.Default().
func NewLogging(inner Driver, logger Logger) *Logging {
	if logger == nil {
		logger = NewSlogLogger(nil)
	}
	return &Logging{inner: inner, logger: logger}
}

func (l *Logging) Exec(ctx context.Context, sql string, args []any) (Result, error) {
	start := time.Now()
	result, err := l.inner.Exec(ctx, sql, args)
	func() {
		defer func() { _ = recover() }()
		l.logger.Log(sql, args, time.Since(start))
	}()
	return result, err
}

func (l *Logging) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Driver) error) error {
	return l.inner.RunTransaction(ctx, func(ctx context.Context, tx Driver) error {
		return fn(ctx, &Logging{inner: tx, logger: l.logger})
	})
}

func (l *Logging) Close() error {
	return l.inner.Close()
}
