package agent

import (
	"context"
	"fmt"

	"github.com/nextlevelbuilder/govac/internal/environment"
)

// Status messages emitted by the control loop.
const (
	StatusAllClean = "All clean!"
	StatusDone     = "Done!"
)

// MovedStatus formats the status line shown after a move is chosen.
func MovedStatus(d Direction) string {
	return fmt.Sprintf("Moved %s", d)
}

// Frame is a read-only picture of the simulation after a state change.
type Frame struct {
	Width  int
	Height int
	Dirt   [][]bool // copy; dirt[row][col]
	Agent  environment.Position
	Step   int
	Status string // last status line
}

// IsAgent reports whether (col,row) is the agent's cell.
func (f Frame) IsAgent(col, row int) bool {
	return f.Agent.X == col && f.Agent.Y == row
}

// Observer is the render collaborator. The loop calls it synchronously;
// Render must finish drawing before it returns so the next decision never
// runs ahead of the display. A Render error stops the run (e.g. the window
// was closed).
type Observer interface {
	Render(ctx context.Context, f Frame) error
	Cleaned(pos environment.Position)
	Moved(m Move)
	Status(msg string)
}

// NopObserver ignores every event. Embed it to implement only the
// callbacks you need.
type NopObserver struct{}

func (NopObserver) Render(context.Context, Frame) error { return nil }
func (NopObserver) Cleaned(environment.Position)        {}
func (NopObserver) Moved(Move)                          {}
func (NopObserver) Status(string)                       {}

// Multi fans events out to several observers in order. Render stops at the
// first error.
type Multi []Observer

func (m Multi) Render(ctx context.Context, f Frame) error {
	for _, o := range m {
		if err := o.Render(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Cleaned(pos environment.Position) {
	for _, o := range m {
		o.Cleaned(pos)
	}
}

func (m Multi) Moved(mv Move) {
	for _, o := range m {
		o.Moved(mv)
	}
}

func (m Multi) Status(msg string) {
	for _, o := range m {
		o.Status(msg)
	}
}
