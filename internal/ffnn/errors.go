package ffnn

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNotConnected     = errors.New("network is not connected")
	ErrConnected        = errors.New("network is connected; disconnect it first")
	ErrMissingSubstrate = errors.New("derivative substrate not enabled")
	ErrInputSize        = errors.New("input size mismatch")
)

// IndexError reports an index outside its valid range [0, Size).
//
// It unwraps to ErrInvalidArgument, so callers can match either the
// concrete type or the sentinel.
type IndexError struct {
	Kind  string // What was indexed (e.g. "beta", "variational parameter")
	Index int    // The offending index
	Size  int    // Number of valid indices
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0, %d)", e.Kind, e.Index, e.Size)
}

// Unwrap returns ErrInvalidArgument.
func (e *IndexError) Unwrap() error {
	return ErrInvalidArgument
}

func checkIndex(kind string, index, size int) error {
	if index < 0 || index >= size {
		return &IndexError{Kind: kind, Index: index, Size: size}
	}
	return nil
}

func missingSubstrate(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingSubstrate, name)
}
