package environment

import "errors"

var (
	// ErrEmptyGrid is returned when the dirt layout has no rows or no columns.
	ErrEmptyGrid = errors.New("environment: grid must have at least one row and one column")

	// ErrNonRectangular is returned when dirt rows differ in length.
	ErrNonRectangular = errors.New("environment: all rows must have the same length")
)
