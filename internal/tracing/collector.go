// Package tracing records a run as spans (one per step plus one for the
// whole run) and hands them to an optional exporter.
package tracing

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nextlevelbuilder/govac/internal/agent"
	"github.com/nextlevelbuilder/govac/internal/environment"
)

const (
	defaultFlushInterval = 5 * time.Second
	defaultBufferSize    = 1000
)

// SpanExporter receives finished spans. The OTLP implementation lives in
// otelexport so the OpenTelemetry dependency stays optional.
type SpanExporter interface {
	ExportSpans(ctx context.Context, spans []Span)
	Shutdown(ctx context.Context) error
}

// Collector is an agent.Observer that turns loop events into spans.
// Event callbacks come from the single control loop; finished spans are
// buffered and flushed to the exporter in the background.
type Collector struct {
	runID uuid.UUID
	now   func() time.Time

	run     Span
	cur     *Span
	moves   int
	cleans  int
	started bool

	spanCh   chan Span
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu       sync.Mutex
	exported []Span
	exporter SpanExporter // nil = keep spans in memory only
}

// NewCollector creates a collector with a fresh run ID.
func NewCollector() *Collector {
	return &Collector{
		runID:  uuid.Must(uuid.NewV7()),
		now:    func() time.Time { return time.Now().UTC() },
		spanCh: make(chan Span, defaultBufferSize),
		stopCh: make(chan struct{}),
	}
}

// RunID identifies this run in exported spans.
func (c *Collector) RunID() uuid.UUID { return c.runID }

// SetExporter attaches an exporter. Call before Start.
func (c *Collector) SetExporter(exp SpanExporter) {
	c.exporter = exp
}

// Start begins the background flush loop.
func (c *Collector) Start() {
	c.wg.Add(1)
	go c.flushLoop()
	slog.Debug("tracing collector started", "run_id", c.runID)
}

// Stop closes any open spans, flushes everything and shuts the exporter down.
func (c *Collector) Stop(ctx context.Context) {
	c.stopOnce.Do(func() {
		c.finish("error", "run interrupted")
		close(c.stopCh)
		c.wg.Wait()

		if c.exporter != nil {
			if err := c.exporter.Shutdown(ctx); err != nil {
				slog.Warn("tracing: span exporter shutdown failed", "error", err)
			}
		}
		slog.Debug("tracing collector stopped", "run_id", c.runID)
	})
}

// Spans returns every span flushed so far.
func (c *Collector) Spans() []Span {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Span, len(c.exported))
	copy(out, c.exported)
	return out
}

// Render opens a step span when a new step begins.
func (c *Collector) Render(_ context.Context, f agent.Frame) error {
	if !c.started {
		c.started = true
		c.run = Span{
			ID:        c.runID,
			RunID:     c.runID,
			Kind:      SpanRun,
			Name:      "vacuum.run",
			X:         f.Agent.X,
			Y:         f.Agent.Y,
			StartTime: c.now(),
		}
	}
	if f.Step == 0 || (c.cur != nil && c.cur.Step == f.Step) {
		return nil
	}
	c.closeStep()
	parent := c.runID
	c.cur = &Span{
		ID:        uuid.Must(uuid.NewV7()),
		RunID:     c.runID,
		ParentID:  &parent,
		Kind:      SpanStep,
		Name:      "vacuum.step",
		Step:      f.Step,
		X:         f.Agent.X,
		Y:         f.Agent.Y,
		StartTime: c.now(),
	}
	return nil
}

func (c *Collector) Cleaned(environment.Position) {
	c.cleans++
	if c.cur != nil {
		c.cur.Cleaned = true
	}
}

func (c *Collector) Moved(m agent.Move) {
	c.moves++
	if c.cur != nil {
		c.cur.Direction = m.Dir.String()
	}
}

// Status closes the run span when the loop reports Done.
func (c *Collector) Status(msg string) {
	if msg == agent.StatusDone {
		c.finish("ok", "")
	}
}

func (c *Collector) closeStep() {
	if c.cur == nil {
		return
	}
	c.cur.EndTime = c.now()
	c.cur.Status = "ok"
	c.emit(*c.cur)
	c.cur = nil
}

func (c *Collector) finish(status, errMsg string) {
	if !c.started || c.run.Status != "" {
		return
	}
	c.closeStep()
	c.run.EndTime = c.now()
	c.run.Status = status
	c.run.Error = errMsg
	c.run.Moves = c.moves
	c.run.Cleans = c.cleans
	c.emit(c.run)
}

// emit enqueues a span without blocking; a full buffer drops the span.
func (c *Collector) emit(s Span) {
	select {
	case c.spanCh <- s:
	default:
		slog.Warn("tracing: span buffer full, dropping span", "kind", s.Kind, "step", s.Step)
	}
}

func (c *Collector) flushLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(defaultFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.flush()
		case <-c.stopCh:
			c.flush()
			return
		}
	}
}

func (c *Collector) flush() {
	var spans []Span
	for {
		select {
		case s := <-c.spanCh:
			spans = append(spans, s)
			continue
		default:
		}
		break
	}
	if len(spans) == 0 {
		return
	}

	c.mu.Lock()
	c.exported = append(c.exported, spans...)
	c.mu.Unlock()

	if c.exporter != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c.exporter.ExportSpans(ctx, spans)
	}
	slog.Debug("tracing: flushed spans", "count", len(spans))
}
