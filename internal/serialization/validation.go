package serialization

import (
	"fmt"

	"github.com/born-ml/ffnn/internal/actf"
)

// Validation limits for security and resource protection.
const (
	MaxHeaderSize    = 64 * 1024 * 1024   // 64MB - maximum header size
	MaxDataSize      = 1024 * 1024 * 1024 // 1GB - maximum data section size
	MaxLayers        = 4096               // Maximum number of layers
	MaxUnitsPerLayer = 1 << 20            // Maximum units in a single layer
)

// ValidationLevel controls the strictness of validation.
type ValidationLevel int

const (
	// ValidationStrict performs all validation checks (default, recommended for production).
	ValidationStrict ValidationLevel = iota
	// ValidationNormal checks structure and sizes but not activation codes.
	ValidationNormal
	// ValidationNone skips validation (dangerous! Use only with trusted input).
	ValidationNone
)

// ValidateHeader checks that h describes a network that can be rebuilt
// from a data section of dataSize bytes.
func ValidateHeader(h *Header, dataSize int64, level ValidationLevel) error {
	if level == ValidationNone {
		return nil
	}

	if len(h.Layers) < 3 || len(h.Layers) > MaxLayers {
		return &ValidationError{
			Type:    "layer_count",
			Layer:   -1,
			Details: fmt.Sprintf("got %d, need between 3 and %d", len(h.Layers), MaxLayers),
		}
	}
	for li, l := range h.Layers {
		if len(l.Units) < 1 || len(l.Units) > MaxUnitsPerLayer {
			return &ValidationError{
				Type:    "layer_size",
				Layer:   li,
				Details: fmt.Sprintf("got %d units, need between 1 and %d", len(l.Units), MaxUnitsPerLayer),
			}
		}
		if l.Input != (li == 0) {
			return &ValidationError{
				Type:    "layer_kind",
				Layer:   li,
				Details: "only the first layer is an input layer",
			}
		}
	}

	want := 0
	if h.Connected {
		want = h.expectedNBeta()
	}
	if h.NBeta != want {
		return &ValidationError{
			Type:    "beta_count",
			Layer:   -1,
			Details: fmt.Sprintf("header declares %d betas, layer structure has %d", h.NBeta, want),
		}
	}
	if dataSize != int64(want)*BetaSize {
		return fmt.Errorf("%w: got %d bytes, expected %d", ErrDataSize, dataSize, int64(want)*BetaSize)
	}
	if h.VPStartLayer < 0 || h.VPStartLayer >= len(h.Layers) {
		return &ValidationError{
			Type:    "vp_start_layer",
			Layer:   h.VPStartLayer,
			Details: fmt.Sprintf("out of range [0, %d)", len(h.Layers)),
		}
	}

	// Activation codes (only in strict mode - they depend on the registry).
	if level == ValidationStrict {
		for li, l := range h.Layers[1:] {
			for ui, u := range l.Units {
				if _, err := actf.Lookup(u.Actf); err != nil {
					return &ValidationError{
						Type:    "unknown_activation",
						Layer:   li + 1,
						Details: fmt.Sprintf("unit %d: %v", ui, err),
					}
				}
			}
		}
	}
	return nil
}
