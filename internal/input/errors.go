package input

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions marks a grid size that is not two positive integers.
	ErrInvalidDimensions = errors.New("invalid dimensions")

	// ErrInvalidRow marks a dirt row with the wrong token count or a token
	// other than 0 or 1.
	ErrInvalidRow = errors.New("invalid dirt row")

	// ErrInvalidStart marks a start position that is malformed or off the grid.
	ErrInvalidStart = errors.New("invalid start position")

	// ErrInputClosed is returned when the input stream ends before all
	// answers were collected. It is the only prompt failure that is not
	// recovered by asking again.
	ErrInputClosed = errors.New("input closed before setup was complete")
)

// ValidationError carries the message shown to the user before the prompt
// is repeated. errors.Is matches its Kind.
type ValidationError struct {
	Kind error
	Msg  string
}

func (e *ValidationError) Error() string { return e.Msg }
func (e *ValidationError) Unwrap() error { return e.Kind }

func invalid(kind error, format string, args ...any) error {
	return &ValidationError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
