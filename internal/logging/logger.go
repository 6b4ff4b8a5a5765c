// =============================================================================
// Financial Mapper - Logging
// =============================================================================
//
// Every component of the mapper receives a Logger at construction time. There
// is no package-level logger: the command layer builds one from the loaded
// configuration and hands it down.
//
// The Logger interface keeps the printf-style shape used throughout the
// codebase. The default implementation writes through log/slog so that the
// audit trail is structured (time, level, component, message).
//
// =============================================================================

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the logging contract injected into every component.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// =============================================================================
// SLOG-BACKED LOGGER
// =============================================================================

// slogLogger adapts a *slog.Logger to the Logger interface.
type slogLogger struct {
	logger *slog.Logger
}

// New creates a Logger that writes text records at or above level to w.
//
// PARAMETERS:
//   - w: Destination for log records.
//   - level: One of "debug", "info", "warn", "error". Unknown values mean "info".
func New(w io.Writer, level string) Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return &slogLogger{logger: slog.New(handler)}
}

// NewFromSlog wraps an existing *slog.Logger.
func NewFromSlog(l *slog.Logger) Logger {
	return &slogLogger{logger: l}
}

// Open creates a Logger writing to stderr and, when logFile is set, also to
// that file. The returned closer must be called to flush the file.
func Open(logFile, level string) (Logger, io.Closer, error) {
	if logFile == "" {
		return New(os.Stderr, level), nopCloser{}, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return New(io.MultiWriter(os.Stderr, f), level), f, nil
}

// With returns a Logger that tags every record with the component name.
func With(l Logger, component string) Logger {
	if sl, ok := l.(*slogLogger); ok {
		return &slogLogger{logger: sl.logger.With("component", component)}
	}
	return l
}

func (l *slogLogger) Debug(msg string, args ...interface{}) {
	l.logger.Debug(format(msg, args))
}

func (l *slogLogger) Info(msg string, args ...interface{}) {
	l.logger.Info(format(msg, args))
}

func (l *slogLogger) Warn(msg string, args ...interface{}) {
	l.logger.Warn(format(msg, args))
}

func (l *slogLogger) Error(msg string, args ...interface{}) {
	l.logger.Error(format(msg, args))
}

func format(msg string, args []interface{}) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// ParseLevel converts a configuration level name to a slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ValidLevel reports whether level is a recognised level name.
func ValidLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// =============================================================================
// NO-OP LOGGER
// =============================================================================

type nopLogger struct{}

// Nop returns a Logger that discards everything. Components fall back to it
// when no logger is injected.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
