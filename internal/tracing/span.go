package tracing

import (
	"time"

	"github.com/google/uuid"
)

// Span kinds.
const (
	SpanRun  = "run"
	SpanStep = "step"
)

// Span is one traced unit of a run: the whole run, or a single step.
type Span struct {
	ID       uuid.UUID
	RunID    uuid.UUID
	ParentID *uuid.UUID
	Kind     string
	Name     string

	Step      int
	X, Y      int    // position at the start of the step
	Direction string // empty when no move was made
	Cleaned   bool

	// Run spans only.
	Moves  int
	Cleans int

	Status    string // "ok" or "error"
	Error     string
	StartTime time.Time
	EndTime   time.Time
}

// Duration returns EndTime - StartTime.
func (s Span) Duration() time.Duration { return s.EndTime.Sub(s.StartTime) }
