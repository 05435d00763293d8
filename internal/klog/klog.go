// Package klog provides the VM core's diagnostic logging. It is grounded
// on two sources: gopher-os/kernel/kfmt/early's discipline of never
// assuming a fully initialized runtime is available on the hot path (a nil
// *Logger is always safe to call), and smoynes-elsie/internal/log's
// slog.Handler wrapper for the hosted tooling that actually wants
// formatted, leveled output.
package klog

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps an *slog.Logger so the VM core can take a nil *Logger (no
// logging configured, the common case for a unit test) without every call
// site needing its own nil check.
type Logger struct {
	inner *slog.Logger
}

// New wraps an existing *slog.Logger.
func New(inner *slog.Logger) *Logger {
	return &Logger{inner: inner}
}

// Default returns a Logger that writes leveled, formatted output to
// stderr, suitable for cmd/vmdemo.
func Default() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	return New(slog.New(handler))
}

// Debug logs at debug level. A nil Logger, or one wrapping a nil
// *slog.Logger, discards the message.
func (l *Logger) Debug(msg string, args ...any) {
	if l == nil || l.inner == nil {
		return
	}

	l.inner.Log(context.Background(), slog.LevelDebug, msg, args...)
}

// Info logs at info level.
func (l *Logger) Info(msg string, args ...any) {
	if l == nil || l.inner == nil {
		return
	}

	l.inner.Log(context.Background(), slog.LevelInfo, msg, args...)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...any) {
	if l == nil || l.inner == nil {
		return
	}

	l.inner.Log(context.Background(), slog.LevelWarn, msg, args...)
}
