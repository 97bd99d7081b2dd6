package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/nextlevelbuilder/govac/internal/agent"
	"github.com/nextlevelbuilder/govac/internal/environment"
)

// Plain writes unstyled frames to a stream, one grid per state change and
// one line per status. Consecutive identical grids are printed once.
type Plain struct {
	w      io.Writer
	marker string
	width  int // display cell width
	last   *agent.Frame
}

// NewPlain writes to w using marker for the agent's cell. Wide markers
// (e.g. emoji) widen every cell so columns stay aligned.
func NewPlain(w io.Writer, marker string) *Plain {
	cw := runewidth.StringWidth(marker)
	if cw < 1 {
		cw = 1
	}
	return &Plain{w: w, marker: marker, width: cw}
}

func (p *Plain) Render(_ context.Context, f agent.Frame) error {
	if p.last != nil && sameState(*p.last, f) {
		return nil
	}
	p.last = &f

	var b strings.Builder
	for row := 0; row < f.Height; row++ {
		for col := 0; col < f.Width; col++ {
			if col > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(runewidth.FillRight(cellText(f, col, row, p.marker), p.width))
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

func (p *Plain) Status(msg string) {
	if _, err := fmt.Fprintln(p.w, msg); err != nil {
		slog.Debug("status write failed", "status", msg, "error", err)
	}
}

func (p *Plain) Cleaned(environment.Position) {}
func (p *Plain) Moved(agent.Move)             {}
