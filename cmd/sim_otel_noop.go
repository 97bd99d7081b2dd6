//go:build !otel

package cmd

import (
	"context"
	"log/slog"

	"github.com/nextlevelbuilder/govac/internal/config"
	"github.com/nextlevelbuilder/govac/internal/tracing"
)

// initSpanExporter logs spans at debug level when built without the "otel"
// tag. Build with `go build -tags otel` to enable OTLP export.
func initSpanExporter(_ context.Context, cfg *config.Config, collector *tracing.Collector) {
	if cfg.Telemetry.Enabled {
		slog.Warn("telemetry.enabled is set but this binary was built without -tags otel")
	}
	collector.SetExporter(tracing.LogExporter{})
}
