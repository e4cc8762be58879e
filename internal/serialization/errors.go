package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrHeaderTooLarge     = errors.New("header exceeds maximum size")
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrDataSize           = errors.New("data section size mismatch")
)

// ValidationError describes a header that does not describe a loadable
// network.
type ValidationError struct {
	Type    string // Type of error (e.g., "layer_size", "unknown_activation")
	Layer   int    // Layer involved, -1 if none
	Details string // Additional details
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Layer >= 0 {
		return fmt.Sprintf("%s: layer %d: %s", e.Type, e.Layer, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}
