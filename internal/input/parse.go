// Package input collects and validates the simulation setup: grid size,
// one dirt row per grid row, and the vacuum's start cell.
package input

import (
	"strconv"
	"strings"

	"github.com/nextlevelbuilder/govac/internal/environment"
)

// Prompt texts shown for each answer.
const (
	DimensionsPrompt = "Enter the environment size (e.g. 3x2): "
	StartPrompt      = "Enter the start location of the vacuum (e.g. 0 0): "
)

// RowPrompt returns the prompt for the 0-based dirt row.
func RowPrompt(row int) string {
	return "Enter dirt locations for row " + strconv.Itoa(row+1) + " (use 0 for clean and 1 for dirty): "
}

// ParseDimensions parses "WxH" into two positive integers.
func ParseDimensions(s string) (w, h int, err error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 2 {
		return 0, 0, dimensionsErr()
	}
	w, errW := strconv.Atoi(strings.TrimSpace(parts[0]))
	h, errH := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errW != nil || errH != nil {
		return 0, 0, dimensionsErr()
	}
	if w < 1 || h < 1 {
		return 0, 0, invalid(ErrInvalidDimensions, "Invalid input. Width and height must both be at least 1.")
	}
	return w, h, nil
}

func dimensionsErr() error {
	return invalid(ErrInvalidDimensions, `Invalid input. Please enter two integers separated by "x".`)
}

// ParseDirtRow parses exactly width whitespace-separated tokens, each 0 or 1.
func ParseDirtRow(s string, width int) ([]bool, error) {
	fields := strings.Fields(s)
	if len(fields) != width {
		return nil, rowErr(width)
	}
	row := make([]bool, width)
	for i, f := range fields {
		switch n, err := strconv.Atoi(f); {
		case err != nil:
			return nil, rowErr(width)
		case n == 1:
			row[i] = true
		case n != 0:
			return nil, rowErr(width)
		}
	}
	return row, nil
}

func rowErr(width int) error {
	return invalid(ErrInvalidRow,
		"Invalid input. Please enter %d integers separated by spaces, with 0 for clean and 1 for dirty.", width)
}

// ParseDirtRows parses a whole layout written as rows separated by "/",
// e.g. "1 0 1/0 0 1". It expects exactly height rows.
func ParseDirtRows(s string, width, height int) ([][]bool, error) {
	lines := strings.Split(s, "/")
	if len(lines) != height {
		return nil, invalid(ErrInvalidRow, "Invalid input. Expected %d rows separated by \"/\", got %d.", height, len(lines))
	}
	rows := make([][]bool, height)
	for i, line := range lines {
		row, err := ParseDirtRow(line, width)
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}
	return rows, nil
}

// ParseStart parses "x y" and checks it lies inside a width×height grid.
func ParseStart(s string, width, height int) (environment.Position, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return environment.Position{}, startErr()
	}
	x, errX := strconv.Atoi(fields[0])
	y, errY := strconv.Atoi(fields[1])
	if errX != nil || errY != nil {
		return environment.Position{}, startErr()
	}
	pos := environment.Position{X: x, Y: y}
	if err := CheckStart(pos, width, height); err != nil {
		return environment.Position{}, err
	}
	return pos, nil
}

// CheckStart reports an error when pos is outside a width×height grid.
func CheckStart(pos environment.Position, width, height int) error {
	if pos.X < 0 || pos.X >= width || pos.Y < 0 || pos.Y >= height {
		return invalid(ErrInvalidStart, "Start location must be within the %dx%d environment.", width, height)
	}
	return nil
}

func startErr() error {
	return invalid(ErrInvalidStart, "Invalid input. Please enter two integers separated by a space.")
}
