package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

type Logger struct {
	base *slog.Logger
}

// New builds a logger for the given environment. Production logs JSON and
// drops debug output; every other environment logs text at debug level.
func New(env string) *Logger {
	return NewWithWriter(env, os.Stdout)
}

func NewWithWriter(env string, w io.Writer) *Logger {
	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return &Logger{base: slog.New(handler)}
}

// With returns a logger that adds the key/value pairs to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{base: l.base.With(args...)}
}

// Slog exposes the underlying structured logger.
func (l *Logger) Slog() *slog.Logger {
	return l.base
}

func (l *Logger) Info(msg string, args ...any) {
	l.base.Info(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.base.Error(msg, args...)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.base.Debug(msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.base.Warn(msg, args...)
}

func (l *Logger) Fatal(msg string, args ...any) {
	l.base.Error(msg, args...)
	fmt.Fprintln(os.Stderr, "fatal:", msg)
	os.Exit(1)
}

// Nop discards everything; handy in tests.
func Nop() *Logger {
	return &Logger{base: slog.New(slog.NewTextHandler(io.Discard, nil))}
}
