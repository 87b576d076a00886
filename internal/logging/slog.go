package logging

import (
	"context"
	"log/slog"
)

var _ Logger = (*SlogLogger)(nil)

// SlogLogger adapts a *slog.Logger to Logger. Context is passed through so
// handlers can pick up request-scoped values.
type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps l. A nil l falls back to slog.Default().
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{l: l}
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, kv ...any) {
	s.l.Log(ctx, slog.LevelDebug, msg, kv...)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, kv ...any) {
	s.l.Log(ctx, slog.LevelInfo, msg, kv...)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, kv ...any) {
	s.l.Log(ctx, slog.LevelWarn, msg, kv...)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, kv ...any) {
	s.l.Log(ctx, slog.LevelError, msg, kv...)
}

// With returns a child logger that adds kv to every record.
func (s *SlogLogger) With(kv ...any) Logger {
	return NewSlogLogger(s.l.With(kv...))
}
