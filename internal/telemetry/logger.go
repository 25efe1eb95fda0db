package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// SlogLogger backs Logger with the standard structured logger, the
// shape used throughout the rest of the retrieved corpus's small
// services (see marmos91-dittofs/internal/logger) rather than a
// bespoke logging package.
type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger returns a Logger writing JSON lines to os.Stderr,
// tagged with the given feature name.
func NewSlogLogger(feature string) *SlogLogger {
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	return &SlogLogger{l: slog.New(h).With("feature", feature)}
}

func (s *SlogLogger) Infof(format string, args ...any) {
	s.l.Log(context.Background(), slog.LevelInfo, fmtOf(format, args...))
}

func (s *SlogLogger) Warnf(format string, args ...any) {
	s.l.Log(context.Background(), slog.LevelWarn, fmtOf(format, args...))
}

func (s *SlogLogger) Errorf(format string, args ...any) {
	s.l.Log(context.Background(), slog.LevelError, fmtOf(format, args...))
}

func fmtOf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
