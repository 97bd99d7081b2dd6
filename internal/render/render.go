// Package render draws simulation frames. Every renderer here satisfies
// agent.Observer and finishes drawing before Render returns.
package render

import (
	"errors"
	"slices"

	"github.com/nextlevelbuilder/govac/internal/agent"
)

// ErrClosed is returned by Render after the user closed the display.
var ErrClosed = errors.New("render: display closed")

// cellText is what a cell shows: the marker on the agent's cell, else its
// dirt value.
func cellText(f agent.Frame, col, row int, marker string) string {
	if f.IsAgent(col, row) {
		return marker
	}
	if f.Dirt[row][col] {
		return "1"
	}
	return "0"
}

// sameState reports whether two frames would draw the same grid.
func sameState(a, b agent.Frame) bool {
	if a.Agent != b.Agent || a.Width != b.Width || a.Height != b.Height {
		return false
	}
	return slices.EqualFunc(a.Dirt, b.Dirt, slices.Equal[[]bool])
}
