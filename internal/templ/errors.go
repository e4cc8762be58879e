package templ

import (
	"errors"
)

// Common errors.
var (
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInputSize       = errors.New("input size mismatch")
)
