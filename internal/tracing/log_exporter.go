package tracing

import (
	"context"
	"log/slog"
)

// LogExporter writes spans to a slog.Logger at debug level.
type LogExporter struct {
	Logger *slog.Logger
}

func (e LogExporter) ExportSpans(ctx context.Context, spans []Span) {
	l := e.Logger
	if l == nil {
		l = slog.Default()
	}
	for _, s := range spans {
		l.DebugContext(ctx, "span",
			"kind", s.Kind,
			"run_id", s.RunID,
			"step", s.Step,
			"x", s.X, "y", s.Y,
			"direction", s.Direction,
			"cleaned", s.Cleaned,
			"status", s.Status,
			"duration", s.Duration(),
		)
	}
}

func (LogExporter) Shutdown(context.Context) error { return nil }
