// Package environment holds the room the vacuum cleans: a fixed-size
// rectangular grid of dirt flags that only ever go from dirty to clean.
package environment

import "fmt"

// Position is a cell coordinate. X is the column, Y is the row.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Grid stores one dirt flag per cell, row-major, indexed dirt[row][col].
// Its dimensions never change after New.
type Grid struct {
	width  int
	height int
	dirt   [][]bool
}

// New builds a grid from a non-empty rectangular layout. The input is
// deep-copied so callers cannot mutate the grid behind its back.
func New(dirt [][]bool) (*Grid, error) {
	if len(dirt) == 0 || len(dirt[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	h, w := len(dirt), len(dirt[0])
	cells := make([][]bool, h)
	for y, row := range dirt {
		if len(row) != w {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrNonRectangular, y+1, len(row), w)
		}
		cells[y] = make([]bool, w)
		copy(cells[y], row)
	}
	return &Grid{width: w, height: h, dirt: cells}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether pos lies inside [0,W)×[0,H).
func (g *Grid) InBounds(pos Position) bool {
	return pos.X >= 0 && pos.X < g.width && pos.Y >= 0 && pos.Y < g.height
}

// IsDirty returns the dirt flag at pos. pos must be in bounds; an
// out-of-bounds position is a caller bug and panics.
func (g *Grid) IsDirty(pos Position) bool {
	g.mustContain(pos)
	return g.dirt[pos.Y][pos.X]
}

// Clean clears the dirt flag at pos. Cleaning a clean cell is a no-op.
func (g *Grid) Clean(pos Position) {
	g.mustContain(pos)
	g.dirt[pos.Y][pos.X] = false
}

// HasAnyDirt scans the whole grid and reports whether any cell is dirty.
func (g *Grid) HasAnyDirt() bool {
	for _, row := range g.dirt {
		for _, d := range row {
			if d {
				return true
			}
		}
	}
	return false
}

// DirtCount returns how many cells are still dirty.
func (g *Grid) DirtCount() int {
	n := 0
	for _, row := range g.dirt {
		for _, d := range row {
			if d {
				n++
			}
		}
	}
	return n
}

// Snapshot returns a copy of the dirt flags, safe to hand to renderers.
func (g *Grid) Snapshot() [][]bool {
	out := make([][]bool, g.height)
	for y, row := range g.dirt {
		out[y] = make([]bool, g.width)
		copy(out[y], row)
	}
	return out
}

func (g *Grid) mustContain(pos Position) {
	if !g.InBounds(pos) {
		panic(fmt.Sprintf("environment: position %s outside %dx%d grid", pos, g.width, g.height))
	}
}
