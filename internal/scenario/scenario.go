// Package scenario loads a complete room setup from a YAML or JSON5 file so
// a run can start without prompting.
//
//	width: 3
//	height: 2
//	dirt:
//	  - "1 0 1"
//	  - [0, 1, 1]
//	start: {x: 0, y: 1}
package scenario

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nextlevelbuilder/govac/internal/config"
	"github.com/nextlevelbuilder/govac/internal/environment"
	"github.com/nextlevelbuilder/govac/internal/input"
)

// ErrIncomplete is returned when a scenario omits a required field.
var ErrIncomplete = errors.New("scenario: width, height, dirt and start are required")

// File mirrors the on-disk layout.
type File struct {
	Width  int                   `json:"width" yaml:"width"`
	Height int                   `json:"height" yaml:"height"`
	Dirt   []any                 `json:"dirt" yaml:"dirt"`
	Start  *environment.Position `json:"start" yaml:"start"`
}

// Load reads and validates a scenario file.
func Load(path string) (input.Setup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return input.Setup{}, fmt.Errorf("read scenario: %w", err)
	}
	var f File
	if err := config.Decode(path, data, &f); err != nil {
		return input.Setup{}, err
	}
	return f.Setup()
}

// Setup converts the file into a validated input.Setup.
func (f File) Setup() (input.Setup, error) {
	if f.Width == 0 || f.Height == 0 || f.Dirt == nil || f.Start == nil {
		return input.Setup{}, ErrIncomplete
	}
	if f.Width < 1 || f.Height < 1 {
		return input.Setup{}, fmt.Errorf("scenario: %w", &input.ValidationError{
			Kind: input.ErrInvalidDimensions,
			Msg:  "width and height must both be at least 1",
		})
	}
	if len(f.Dirt) != f.Height {
		return input.Setup{}, fmt.Errorf("scenario: dirt has %d rows, height is %d: %w", len(f.Dirt), f.Height, input.ErrInvalidRow)
	}

	dirt := make([][]bool, f.Height)
	for i, raw := range f.Dirt {
		line, err := rowText(raw)
		if err != nil {
			return input.Setup{}, fmt.Errorf("scenario: dirt row %d: %w", i+1, err)
		}
		row, err := input.ParseDirtRow(line, f.Width)
		if err != nil {
			return input.Setup{}, fmt.Errorf("scenario: dirt row %d: %w", i+1, err)
		}
		dirt[i] = row
	}

	start := *f.Start
	s := input.Setup{Width: f.Width, Height: f.Height, Dirt: dirt, Start: &start}
	if err := s.Validate(); err != nil {
		return input.Setup{}, fmt.Errorf("scenario: %w", err)
	}
	return s, nil
}

// rowText normalises either row encoding to the prompt's "1 0 1" form so
// both go through the same parser.
func rowText(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case []any:
		parts := make([]string, len(v))
		for i, cell := range v {
			switch n := cell.(type) {
			case int:
				parts[i] = strconv.Itoa(n)
			case float64:
				parts[i] = strconv.FormatFloat(n, 'f', -1, 64)
			case bool:
				parts[i] = "0"
				if n {
					parts[i] = "1"
				}
			case string:
				parts[i] = n
			default:
				return "", fmt.Errorf("unsupported cell %v (%T): %w", cell, cell, input.ErrInvalidRow)
			}
		}
		return strings.Join(parts, " "), nil
	}
	return "", fmt.Errorf("unsupported row %v (%T): %w", raw, raw, input.ErrInvalidRow)
}
