package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func spanContext(t *testing.T) context.Context {
	t.Helper()
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	if err != nil {
		t.Fatal(err)
	}
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	if err != nil {
		t.Fatal(err)
	}
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func TestTraceContextHandler_AddsIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, slog.LevelInfo)

	logger.InfoContext(spanContext(t), "fetched", "endpoint", "/posts")

	out := buf.String()
	if !strings.Contains(out, "trace_id=4bf92f3577b34da6a3ce929d0e0e4736") {
		t.Errorf("missing trace_id in %q", out)
	}
	if !strings.Contains(out, "span_id=00f067aa0ba902b7") {
		t.Errorf("missing span_id in %q", out)
	}
	if !strings.Contains(out, "endpoint=/posts") {
		t.Errorf("missing attribute in %q", out)
	}
}

func TestTraceContextHandler_NoSpan(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, slog.LevelInfo)

	logger.Info("no span")

	if strings.Contains(buf.String(), "trace_id") {
		t.Errorf("unexpected trace_id in %q", buf.String())
	}
}

func TestTraceContextHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn record missing")
	}
}

func TestTraceContextHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, slog.LevelInfo).With("component", "wordpress").WithGroup("req")

	logger.InfoContext(spanContext(t), "call", "slug", "about")

	out := buf.String()
	if !strings.Contains(out, "component=wordpress") {
		t.Errorf("missing With attribute in %q", out)
	}
	if !strings.Contains(out, "req.slug=about") {
		t.Errorf("missing grouped attribute in %q", out)
	}
	if !strings.Contains(out, "req.trace_id=") {
		t.Errorf("trace id should follow the active group in %q", out)
	}
}
