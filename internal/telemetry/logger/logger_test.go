package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T, level string) (Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	l, err := New(Config{Level: level, Format: "json", Output: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l, buf
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newTestLogger(t, "warn")

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Error("messages below warn should be filtered")
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Error("warn and error messages should be emitted")
	}

	SetLevel("info")
}

func TestJSONOutput(t *testing.T) {
	l, buf := newTestLogger(t, "info")

	l.Info("outpost started", "fort", "fishing_fort", "port", 8001)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry["msg"] != "outpost started" {
		t.Errorf("msg = %v, want outpost started", entry["msg"])
	}
	if entry["fort"] != "fishing_fort" {
		t.Errorf("fort = %v, want fishing_fort", entry["fort"])
	}
}

func TestWith(t *testing.T) {
	l, buf := newTestLogger(t, "info")

	child := l.With("component", "executor")
	child.Info("attempt")

	if !strings.Contains(buf.String(), `"component":"executor"`) {
		t.Error("With attributes should appear on child log entries")
	}
}

func TestRedaction(t *testing.T) {
	l, buf := newTestLogger(t, "info")

	l.Info("login completed",
		"password", "hunter2",
		"session", "hbtk_abcdef1234567890",
	)

	out := buf.String()
	if strings.Contains(out, "hunter2") {
		t.Error("password value must not appear in logs")
	}
	if strings.Contains(out, "hbtk_abcdef1234567890") {
		t.Error("full token value must not appear in logs")
	}
	if !strings.Contains(out, "hbtk_abc") {
		t.Error("masked token should keep a prefix hint")
	}
}

func TestContextHelpers(t *testing.T) {
	l, buf := newTestLogger(t, "info")

	ctx := WithLogger(context.Background(), l)
	ctx = WithRequestID(ctx, "req-123")

	if got := RequestIDFromContext(ctx); got != "req-123" {
		t.Errorf("RequestIDFromContext = %q, want req-123", got)
	}

	L(ctx).Info("handled")
	if !strings.Contains(buf.String(), `"request_id":"req-123"`) {
		t.Error("L(ctx) should enrich entries with the request ID")
	}

	if FromContext(context.Background()) == nil {
		t.Error("FromContext without a logger should fall back to the default")
	}
}
