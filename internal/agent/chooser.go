package agent

import (
	"context"
	"math/rand/v2"
	"time"
)

// DefaultStepDelay is the pause between choosing a move and committing it.
const DefaultStepDelay = 4 * time.Second

// Chooser picks an index uniformly from [0, n). *rand.Rand satisfies it.
type Chooser interface {
	IntN(n int) int
}

// ChooserFunc adapts a plain function to Chooser.
type ChooserFunc func(n int) int

func (f ChooserFunc) IntN(n int) int { return f(n) }

// NewRandomChooser returns a PCG-backed uniform chooser. A zero seed draws
// one from the clock so separate runs differ.
func NewRandomChooser(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// DelayFunc blocks the control loop between steps. It returns early with
// ctx.Err() when the context is cancelled.
type DelayFunc func(ctx context.Context) error

// Sleep returns a DelayFunc that waits d. A non-positive d does not wait.
func Sleep(d time.Duration) DelayFunc {
	return func(ctx context.Context) error {
		return sleepCtx(ctx, d)
	}
}

// SleepDynamic is like Sleep but reads the duration on every step, so a
// reloaded config can change the pace of a running simulation.
func SleepDynamic(current func() time.Duration) DelayFunc {
	return func(ctx context.Context) error {
		return sleepCtx(ctx, current())
	}
}

// NoDelay never waits.
func NoDelay(ctx context.Context) error { return ctx.Err() }

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
