package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/born-ml/ffnn/internal/actf"
	"github.com/born-ml/ffnn/internal/ffnn"
)

// ReaderOptions configures Decode.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level
}

// Load reads the network saved at path with strict validation.
func Load(path string) (*ffnn.Network, *Header, error) {
	return LoadWithOptions(path, ReaderOptions{ValidationLevel: ValidationStrict})
}

// LoadWithOptions reads the network saved at path.
func LoadWithOptions(path string, opts ReaderOptions) (*ffnn.Network, *Header, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return Decode(file, opts)
}

// Decode reads a .ffnn stream and rebuilds the network it describes.
func Decode(r io.Reader, opts ReaderOptions) (*ffnn.Network, *Header, error) {
	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, nil, fmt.Errorf("failed to read fixed header: %w", err)
	}
	if string(fixed[0:4]) != MagicBytes {
		return nil, nil, ErrInvalidMagic
	}
	if version := binary.LittleEndian.Uint32(fixed[4:8]); version != FormatVersion {
		return nil, nil, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}
	headerSize := binary.LittleEndian.Uint64(fixed[16:24])
	dataSize := binary.LittleEndian.Uint64(fixed[24:32])
	if headerSize > MaxHeaderSize {
		return nil, nil, ErrHeaderTooLarge
	}
	if dataSize > MaxDataSize {
		return nil, nil, fmt.Errorf("%w: %d bytes exceeds maximum", ErrDataSize, dataSize)
	}
	var stored [32]byte
	copy(stored[:], fixed[ChecksumOffset:ChecksumOffset+ChecksumSize])

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	var header Header
	dec := json.NewDecoder(bytes.NewReader(headerJSON))
	if err := dec.Decode(&header); err != nil {
		return nil, nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	// The data section must hold exactly the betas of the described layers.
	want := uint64(0)
	if header.Connected {
		want = uint64(header.expectedNBeta()) * BetaSize
	}
	if dataSize != want {
		return nil, nil, fmt.Errorf("%w: got %d bytes, layer structure needs %d", ErrDataSize, dataSize, want)
	}
	if err := ValidateHeader(&header, int64(dataSize), opts.ValidationLevel); err != nil {
		return nil, nil, fmt.Errorf("validation failed: %w", err)
	}

	data := make([]byte, dataSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, nil, fmt.Errorf("failed to read betas: %w", err)
	}
	if !opts.SkipChecksumValidation {
		if err := ValidateChecksum(ComputeChecksum(headerJSON, data), stored); err != nil {
			return nil, nil, err
		}
	}

	betas := make([]float64, len(data)/BetaSize)
	for i := range betas {
		betas[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*BetaSize:]))
	}
	net, err := buildNetwork(&header, betas)
	if err != nil {
		return nil, nil, err
	}
	return net, &header, nil
}

// buildNetwork rebuilds the network h describes and restores its betas.
func buildNetwork(h *Header, betas []float64) (*ffnn.Network, error) {
	if len(h.Layers) < 3 {
		return nil, &ValidationError{Type: "layer_count", Layer: -1, Details: fmt.Sprintf("got %d layers, need at least 3", len(h.Layers))}
	}
	last := len(h.Layers) - 1
	net, err := ffnn.NewNetwork(h.LayerSize(0), h.LayerSize(1), h.LayerSize(last))
	if err != nil {
		return nil, err
	}
	for li := 2; li < last; li++ {
		if err := net.PushHiddenLayer(h.LayerSize(li)); err != nil {
			return nil, err
		}
	}

	for li, lm := range h.Layers {
		l := net.Layer(li)
		for ui, um := range lm.Units {
			switch u := l.Unit(ui).(type) {
			case *ffnn.InputUnit:
				u.SetShift(um.Shift)
				u.SetScale(um.Scale)
			case *ffnn.NNUnit:
				fn, err := actf.Lookup(um.Actf)
				if err != nil {
					return nil, fmt.Errorf("layer %d unit %d: %w", li, ui, err)
				}
				u.SetActivationFunction(fn)
				u.SetShift(um.Shift)
				u.SetScale(um.Scale)
			}
		}
	}

	if h.Connected {
		net.Connect()
		if err := net.SetBetas(betas); err != nil {
			return nil, err
		}
		if err := net.AssignVariationalParameters(h.VPStartLayer); err != nil {
			return nil, err
		}
	}
	net.AddSubstrates(h.Substrates.DerivConfig())
	return net, nil
}
