package input

import (
	"context"
	"fmt"

	"github.com/nextlevelbuilder/govac/internal/environment"
)

// Setup is everything needed to start a run. A zero Width, nil Dirt or nil
// Start means that part has not been supplied yet.
type Setup struct {
	Width  int
	Height int
	Dirt   [][]bool
	Start  *environment.Position
}

// Complete reports whether every part is present.
func (s Setup) Complete() bool {
	return s.Width > 0 && s.Height > 0 && s.Dirt != nil && s.Start != nil
}

// Validate checks the parts that are present against each other.
func (s Setup) Validate() error {
	if s.Width == 0 && s.Height == 0 {
		if s.Dirt != nil || s.Start != nil {
			return invalid(ErrInvalidDimensions, "Grid size is required when dirt or start is given.")
		}
		return nil
	}
	if s.Width < 1 || s.Height < 1 {
		return invalid(ErrInvalidDimensions, "Invalid input. Width and height must both be at least 1.")
	}
	if s.Dirt != nil {
		if len(s.Dirt) != s.Height {
			return invalid(ErrInvalidRow, "Expected %d dirt rows, got %d.", s.Height, len(s.Dirt))
		}
		for i, row := range s.Dirt {
			if len(row) != s.Width {
				return invalid(ErrInvalidRow, "Dirt row %d has %d cells, want %d.", i+1, len(row), s.Width)
			}
		}
	}
	if s.Start != nil {
		return CheckStart(*s.Start, s.Width, s.Height)
	}
	return nil
}

// Prompter asks for one answer at a time, repeating each question until
// it gets a valid answer.
type Prompter interface {
	Dimensions(ctx context.Context) (w, h int, err error)
	DirtRow(ctx context.Context, row, width int) ([]bool, error)
	Start(ctx context.Context, width, height int) (environment.Position, error)
}

// Collect fills the missing parts of partial using p and returns a
// complete Setup.
func Collect(ctx context.Context, p Prompter, partial Setup) (Setup, error) {
	if err := partial.Validate(); err != nil {
		return Setup{}, err
	}
	s := partial

	if s.Width == 0 {
		w, h, err := p.Dimensions(ctx)
		if err != nil {
			return Setup{}, fmt.Errorf("grid size: %w", err)
		}
		s.Width, s.Height = w, h
	}

	if s.Dirt == nil {
		dirt := make([][]bool, s.Height)
		for row := range dirt {
			r, err := p.DirtRow(ctx, row, s.Width)
			if err != nil {
				return Setup{}, fmt.Errorf("dirt row %d: %w", row+1, err)
			}
			dirt[row] = r
		}
		s.Dirt = dirt
	}

	if s.Start == nil {
		pos, err := p.Start(ctx, s.Width, s.Height)
		if err != nil {
			return Setup{}, fmt.Errorf("start position: %w", err)
		}
		s.Start = &pos
	}
	return s, nil
}
