package vector

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange indicates an index outside the live elements.
	ErrOutOfRange = errors.New("vector: index out of range")

	// ErrInvalidFactor indicates a geometric growth factor that would not grow.
	ErrInvalidFactor = errors.New("vector: growth factor must be greater than 1")

	// ErrUnknownGrowth indicates a growth policy name with no registered constructor.
	ErrUnknownGrowth = errors.New("vector: unknown growth policy")
)

// BoundsError reports an access outside [0, Length).
type BoundsError struct {
	Index  int
	Length int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("vector: index %d out of range [0:%d)", e.Index, e.Length)
}

func (e *BoundsError) Unwrap() error {
	return ErrOutOfRange
}
