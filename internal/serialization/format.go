package serialization

import (
	"time"

	"github.com/born-ml/ffnn/internal/ffnn"
)

// Format constants.
const (
	MagicBytes      = "FFNN"
	FormatVersion   = 1
	FixedHeaderSize = 64   // fixed header size (0x40 bytes)
	ChecksumSize    = 32   // SHA-256 checksum size
	ChecksumOffset  = 0x20 // checksum offset in the fixed header
	BetaSize        = 8    // bytes per beta (float64)
)

// Flags of the fixed header.
const (
	FlagConnected   uint32 = 1 << 0 // bit 0: betas present
	FlagHasMetadata uint32 = 1 << 1 // bit 1: custom metadata included
)

// Header is the JSON description of a saved network.
type Header struct {
	FormatVersion int               `json:"format_version"`     // Version of the .ffnn format
	FFNNVersion   string            `json:"ffnn_version"`       // Version of ffnn that created the file
	CreatedAt     time.Time         `json:"created_at"`         // When the file was created
	Layers        []LayerMeta       `json:"layers"`             // Input layer first, output layer last
	Connected     bool              `json:"connected"`          // Whether betas follow the header
	NBeta         int               `json:"nbeta"`              // Number of betas in the data section
	VPStartLayer  int               `json:"vp_start_layer"`     // First layer whose betas are variational
	Substrates    SubstrateMeta     `json:"substrates"`         // Enabled derivative substrates
	Metadata      map[string]string `json:"metadata,omitempty"` // Custom metadata
}

// LayerMeta describes one layer.
type LayerMeta struct {
	Input bool       `json:"input,omitempty"`
	Units []UnitMeta `json:"units"`
}

// UnitMeta describes one unit. Actf is empty for input units.
type UnitMeta struct {
	Actf  string  `json:"actf,omitempty"`
	Shift float64 `json:"shift"`
	Scale float64 `json:"scale"`
}

// SubstrateMeta lists the enabled derivative substrates.
type SubstrateMeta struct {
	D1  bool `json:"d1,omitempty"`
	D2  bool `json:"d2,omitempty"`
	VD1 bool `json:"vd1,omitempty"`
	C1D bool `json:"c1,omitempty"`
	C2D bool `json:"c2,omitempty"`
}

func substrateMeta(c ffnn.DerivConfig) SubstrateMeta {
	return SubstrateMeta{D1: c.D1, D2: c.D2, VD1: c.VD1, C1D: c.C1D, C2D: c.C2D}
}

// DerivConfig converts m back to a substrate set.
func (m SubstrateMeta) DerivConfig() ffnn.DerivConfig {
	return ffnn.DerivConfig{D1: m.D1, D2: m.D2, VD1: m.VD1, C1D: m.C1D, C2D: m.C2D}
}

// LayerSize returns the number of units of layer li.
func (h *Header) LayerSize(li int) int { return len(h.Layers[li].Units) }

// expectedNBeta returns the number of betas a connected network with the
// header's layer structure has.
func (h *Header) expectedNBeta() int {
	var n int
	for li := 1; li < len(h.Layers); li++ {
		n += h.LayerSize(li) * (h.LayerSize(li-1) + 1)
	}
	return n
}
