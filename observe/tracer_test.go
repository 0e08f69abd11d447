package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestCacheMeta_SpanName(t *testing.T) {
	tests := []struct {
		name string
		meta CacheMeta
		want string
	}{
		{"named", CacheMeta{Name: "events.list"}, "cache.call.events.list"},
		{"unnamed", CacheMeta{}, "cache.call"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.meta.SpanName(); got != tt.want {
				t.Errorf("SpanName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTracer_SpanAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	tracer := NewTracer(tp.Tracer("test"))
	meta := CacheMeta{Name: "events.list", Digest: "abc123"}

	_, span := tracer.StartSpan(context.Background(), meta)
	tracer.EndSpan(span, nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}

	ended := spans[0]
	if ended.Name() != "cache.call.events.list" {
		t.Errorf("span name = %q", ended.Name())
	}
	if ended.Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", ended.Status().Code)
	}

	attrs := make(map[string]string)
	for _, kv := range ended.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	if attrs["cache.name"] != "events.list" {
		t.Errorf("cache.name attr = %q", attrs["cache.name"])
	}
	if attrs["cache.digest"] != "abc123" {
		t.Errorf("cache.digest attr = %q", attrs["cache.digest"])
	}
}

func TestTracer_EndSpanWithError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	tracer := NewTracer(tp.Tracer("test"))

	_, span := tracer.StartSpan(context.Background(), CacheMeta{Name: "events.list"})
	tracer.EndSpan(span, errors.New("db down"))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", spans[0].Status().Code)
	}
	if len(spans[0].Events()) == 0 {
		t.Error("expected a recorded error event")
	}
}

func TestNoopTracer(t *testing.T) {
	tracer := NewNoopTracer()
	ctx, span := tracer.StartSpan(context.Background(), CacheMeta{Name: "x"})
	if ctx == nil {
		t.Fatal("StartSpan returned nil context")
	}
	tracer.EndSpan(span, errors.New("ignored"))
}
