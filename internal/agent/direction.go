package agent

import "github.com/nextlevelbuilder/govac/internal/environment"

// Direction is one of the four orthogonal moves.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

// directions is the fixed enumeration order for legal moves.
var directions = [...]Direction{Left, Right, Up, Down}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "unknown"
}

// Apply returns the position one step from pos in direction d.
// It does not check bounds.
func (d Direction) Apply(pos environment.Position) environment.Position {
	switch d {
	case Left:
		pos.X--
	case Right:
		pos.X++
	case Up:
		pos.Y--
	case Down:
		pos.Y++
	}
	return pos
}

// Move is a candidate step: the direction and the cell it lands on.
type Move struct {
	Dir Direction
	To  environment.Position
}

// LegalMoves lists the moves from pos that stay inside the grid, in the
// order left, right, up, down. A 1×1 grid yields none.
func LegalMoves(g *environment.Grid, pos environment.Position) []Move {
	moves := make([]Move, 0, len(directions))
	for _, d := range directions {
		to := d.Apply(pos)
		if g.InBounds(to) {
			moves = append(moves, Move{Dir: d, To: to})
		}
	}
	return moves
}
