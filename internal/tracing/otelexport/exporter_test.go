package otelexport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/nextlevelbuilder/govac/internal/tracing"
)

func TestUUIDToTraceID(t *testing.T) {
	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	tid := uuidToTraceID(id)
	if tid == (trace.TraceID{}) {
		t.Error("expected non-zero trace ID")
	}
	for i := range tid {
		if tid[i] != id[i] {
			t.Fatalf("byte %d: expected %02x, got %02x", i, id[i], tid[i])
		}
	}
}

func TestUUIDToSpanID(t *testing.T) {
	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	sid := uuidToSpanID(id)
	for i := 0; i < 8; i++ {
		if sid[i] != id[8+i] {
			t.Errorf("byte %d: expected %02x, got %02x", i, id[8+i], sid[i])
		}
	}
}

func TestNew_EmptyEndpoint(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if !errors.Is(err, ErrNoEndpoint) {
		t.Errorf("err = %v, want ErrNoEndpoint", err)
	}
}

func TestExporter_NilReceiver(t *testing.T) {
	var exp *Exporter
	exp.ExportSpans(context.Background(), []tracing.Span{{
		ID:        uuid.New(),
		RunID:     uuid.New(),
		Kind:      tracing.SpanStep,
		StartTime: time.Now(),
	}})
	if err := exp.Shutdown(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSpanAttributes_Step(t *testing.T) {
	attrs := spanAttributes(tracing.Span{
		Kind:      tracing.SpanStep,
		Step:      4,
		Direction: "up",
		Cleaned:   true,
	})
	got := map[attribute.Key]attribute.Value{}
	for _, kv := range attrs {
		got[kv.Key] = kv.Value
	}
	if got["govac.step"].AsInt64() != 4 {
		t.Errorf("step attr = %v", got["govac.step"])
	}
	if got["govac.direction"].AsString() != "up" {
		t.Errorf("direction attr = %v", got["govac.direction"])
	}
	if !got["govac.cleaned"].AsBool() {
		t.Error("cleaned attr should be true")
	}
	if _, ok := got["govac.moves"]; ok {
		t.Error("step spans should not carry run totals")
	}
}

func TestSpanAttributes_RunNoDirection(t *testing.T) {
	attrs := spanAttributes(tracing.Span{Kind: tracing.SpanRun, Moves: 3, Cleans: 2})
	for _, kv := range attrs {
		if kv.Key == "govac.direction" {
			t.Error("run span should not carry a direction")
		}
		if kv.Key == "govac.moves" && kv.Value.AsInt64() != 3 {
			t.Errorf("moves = %d", kv.Value.AsInt64())
		}
	}
}
