//go:build otel

package cmd

import (
	"context"
	"log/slog"

	"github.com/nextlevelbuilder/govac/internal/config"
	"github.com/nextlevelbuilder/govac/internal/tracing"
	"github.com/nextlevelbuilder/govac/internal/tracing/otelexport"
)

// initSpanExporter wires the OTLP exporter when telemetry is enabled, and
// falls back to debug logging otherwise. Only compiled with -tags otel.
func initSpanExporter(ctx context.Context, cfg *config.Config, collector *tracing.Collector) {
	if !cfg.Telemetry.Enabled || cfg.Telemetry.Endpoint == "" {
		slog.Debug("OTel export available but not enabled (set telemetry.enabled + telemetry.endpoint)")
		collector.SetExporter(tracing.LogExporter{})
		return
	}

	exp, err := otelexport.New(ctx, otelexport.Config{
		Endpoint:    cfg.Telemetry.Endpoint,
		Protocol:    cfg.Telemetry.Protocol,
		Insecure:    cfg.Telemetry.Insecure,
		ServiceName: cfg.Telemetry.ServiceName,
		Headers:     cfg.Telemetry.Headers,
	})
	if err != nil {
		slog.Warn("failed to create OTel exporter", "error", err)
		collector.SetExporter(tracing.LogExporter{})
		return
	}

	collector.SetExporter(exp)
	slog.Info("OpenTelemetry OTLP export enabled",
		"endpoint", cfg.Telemetry.Endpoint,
		"protocol", cfg.Telemetry.Protocol,
	)
}
