// Package agent runs the reflex vacuum: look at the current cell, clean it
// if dirty, take a uniformly random legal step, repeat until the grid is
// clean. The agent keeps no memory beyond its position.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nextlevelbuilder/govac/internal/environment"
)

// ErrStartOutOfBounds is returned by New when the start cell is off the grid.
var ErrStartOutOfBounds = errors.New("agent: start position outside the grid")

// Config holds the injectable collaborators for a Vacuum.
// Zero fields get defaults: a clock-seeded chooser, a DefaultStepDelay
// sleep and a NopObserver.
type Config struct {
	Chooser  Chooser
	Delay    DelayFunc
	Observer Observer
}

// Result summarises a finished run.
type Result struct {
	Steps  int // loop iterations that did work
	Moves  int // committed moves
	Cleans int // cells cleaned
}

// Vacuum is the agent. It is single-threaded; do not call Run concurrently.
type Vacuum struct {
	grid    *environment.Grid
	pos     environment.Position
	chooser Chooser
	delay   DelayFunc
	obs     Observer
	status  string
}

// New places a vacuum on grid at start.
func New(grid *environment.Grid, start environment.Position, cfg Config) (*Vacuum, error) {
	if !grid.InBounds(start) {
		return nil, fmt.Errorf("%w: %s not in %dx%d", ErrStartOutOfBounds, start, grid.Width(), grid.Height())
	}
	if cfg.Chooser == nil {
		cfg.Chooser = NewRandomChooser(0)
	}
	if cfg.Delay == nil {
		cfg.Delay = Sleep(DefaultStepDelay)
	}
	if cfg.Observer == nil {
		cfg.Observer = NopObserver{}
	}
	return &Vacuum{
		grid:    grid,
		pos:     start,
		chooser: cfg.Chooser,
		delay:   cfg.Delay,
		obs:     cfg.Observer,
	}, nil
}

// Position returns the agent's current cell.
func (v *Vacuum) Position() environment.Position { return v.pos }

// Frame captures the current state for rendering.
func (v *Vacuum) Frame(step int) Frame {
	return Frame{
		Width:  v.grid.Width(),
		Height: v.grid.Height(),
		Dirt:   v.grid.Snapshot(),
		Agent:  v.pos,
		Step:   step,
		Status: v.status,
	}
}

// Run drives the loop until no dirt remains, then renders once more and
// reports Done. It returns early only when ctx is cancelled or the
// observer fails to render.
func (v *Vacuum) Run(ctx context.Context) (Result, error) {
	var res Result
	slog.Debug("vacuum started",
		"width", v.grid.Width(), "height", v.grid.Height(),
		"start", v.pos.String(), "dirty", v.grid.DirtCount())

	for v.grid.HasAnyDirt() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Steps++
		if err := v.step(ctx, &res); err != nil {
			return res, err
		}
	}

	v.setStatus(StatusAllClean)
	if err := v.obs.Render(ctx, v.Frame(res.Steps)); err != nil {
		return res, err
	}
	v.setStatus(StatusDone)

	slog.Info("vacuum finished", "steps", res.Steps, "moves", res.Moves, "cleans", res.Cleans)
	return res, nil
}

func (v *Vacuum) step(ctx context.Context, res *Result) error {
	if err := v.obs.Render(ctx, v.Frame(res.Steps)); err != nil {
		return err
	}

	if v.grid.IsDirty(v.pos) {
		v.grid.Clean(v.pos)
		res.Cleans++
		v.obs.Cleaned(v.pos)
	}

	moves := LegalMoves(v.grid, v.pos)
	if len(moves) == 0 {
		// Single-cell room: nothing to move to, the next check ends the run.
		slog.Debug("vacuum step", "step", res.Steps, "pos", v.pos.String(), "moves", 0)
		return nil
	}

	m := moves[v.chooser.IntN(len(moves))]
	v.obs.Moved(m)
	v.setStatus(MovedStatus(m.Dir))

	if err := v.delay(ctx); err != nil {
		return err
	}

	slog.Debug("vacuum step", "step", res.Steps, "from", v.pos.String(), "dir", m.Dir.String(), "to", m.To.String())
	v.pos = m.To
	res.Moves++

	return v.obs.Render(ctx, v.Frame(res.Steps))
}

func (v *Vacuum) setStatus(msg string) {
	v.status = msg
	v.obs.Status(msg)
}
