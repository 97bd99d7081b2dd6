// Package otelexport ships tracing spans to an OpenTelemetry collector
// over OTLP (gRPC or HTTP).
package otelexport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/nextlevelbuilder/govac/internal/tracing"
)

// ErrNoEndpoint is returned by New when Config.Endpoint is empty.
var ErrNoEndpoint = errors.New("otelexport: OTLP endpoint is required")

// Config configures the OTLP exporter.
type Config struct {
	Endpoint    string            // e.g. "localhost:4317"
	Protocol    string            // "grpc" (default) or "http"
	Insecure    bool              // skip TLS for local collectors
	ServiceName string            // default "govac"
	Headers     map[string]string // extra headers (auth tokens, etc.)
}

// Exporter implements tracing.SpanExporter on top of the OTel SDK.
type Exporter struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// New creates an OTLP exporter.
func New(ctx context.Context, cfg Config) (*Exporter, error) {
	if cfg.Endpoint == "" {
		return nil, ErrNoEndpoint
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "govac"
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion("0.1.0"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("otel resource: %w", err)
	}

	var exporter sdktrace.SpanExporter
	switch cfg.Protocol {
	case "http":
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
		}
		exporter, err = otlptracehttp.New(ctx, opts...)
	default:
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlptracegrpc.WithHeaders(cfg.Headers))
		}
		exporter, err = otlptracegrpc.New(ctx, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("otel exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithMaxExportBatchSize(100),
			sdktrace.WithBatchTimeout(5*time.Second),
		),
		sdktrace.WithResource(res),
	)
	return &Exporter{provider: tp, tracer: tp.Tracer("govac")}, nil
}

// ExportSpans converts spans and hands them to the batcher.
func (e *Exporter) ExportSpans(ctx context.Context, spans []tracing.Span) {
	if e == nil || len(spans) == 0 {
		return
	}
	for _, s := range spans {
		e.exportSpan(ctx, s)
	}
}

func (e *Exporter) exportSpan(ctx context.Context, s tracing.Span) {
	attrs := spanAttributes(s)

	// All spans of a run share the run's trace ID. The SDK assigns its own
	// span IDs, so ours travel as attributes for correlation.
	parentSpan := s.RunID
	if s.ParentID != nil {
		parentSpan = *s.ParentID
	}
	parentCtx := trace.ContextWithRemoteSpanContext(ctx, trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    uuidToTraceID(s.RunID),
		SpanID:     uuidToSpanID(parentSpan),
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	}))

	_, span := e.tracer.Start(parentCtx, s.Name,
		trace.WithTimestamp(s.StartTime),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	if s.Status == "error" {
		span.SetStatus(codes.Error, s.Error)
		if s.Error != "" {
			span.RecordError(errors.New(s.Error))
		}
	} else {
		span.SetStatus(codes.Ok, "")
	}

	end := s.EndTime
	if end.IsZero() {
		end = s.StartTime
	}
	span.End(trace.WithTimestamp(end))
}

func spanAttributes(s tracing.Span) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("govac.span_kind", s.Kind),
		attribute.String("govac.run_id", s.RunID.String()),
		attribute.String("govac.span_id", s.ID.String()),
		attribute.Int("govac.position.x", s.X),
		attribute.Int("govac.position.y", s.Y),
	}
	switch s.Kind {
	case tracing.SpanStep:
		attrs = append(attrs,
			attribute.Int("govac.step", s.Step),
			attribute.Bool("govac.cleaned", s.Cleaned),
		)
		if s.Direction != "" {
			attrs = append(attrs, attribute.String("govac.direction", s.Direction))
		}
	case tracing.SpanRun:
		attrs = append(attrs,
			attribute.Int("govac.moves", s.Moves),
			attribute.Int("govac.cleans", s.Cleans),
		)
	}
	return attrs
}

// Shutdown flushes pending spans and stops the provider.
func (e *Exporter) Shutdown(ctx context.Context) error {
	if e == nil {
		return nil
	}
	slog.Debug("otel exporter shutting down")
	return e.provider.Shutdown(ctx)
}

// uuidToTraceID converts a UUID to an OTel TraceID (16 bytes).
func uuidToTraceID(id [16]byte) trace.TraceID {
	return trace.TraceID(id)
}

// uuidToSpanID uses the last 8 bytes of a UUID as an OTel SpanID.
func uuidToSpanID(id [16]byte) trace.SpanID {
	var sid trace.SpanID
	copy(sid[:], id[8:16])
	return sid
}
