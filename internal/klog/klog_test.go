package klog

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger

	// None of these must panic.
	l.Debug("msg")
	l.Info("msg")
	l.Warn("msg")
}

func TestWrappedNilInnerIsSafe(t *testing.T) {
	l := New(nil)

	l.Debug("msg")
	l.Info("msg")
	l.Warn("msg")
}

func TestLoggerWritesThroughInner(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	l := New(slog.New(handler))

	l.Info("hello", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "key=value") {
		t.Errorf("log output = %q; want it to contain the message and key=value", out)
	}
}

func TestDefaultReturnsUsableLogger(t *testing.T) {
	l := Default()
	if l == nil {
		t.Fatal("Default returned nil")
	}

	// Must not panic even though it writes to stderr.
	l.Debug("default logger smoke test")
}
