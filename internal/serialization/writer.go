package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/born-ml/ffnn/internal/ffnn"
)

const ffnnVersion = "0.1.0" // Current ffnn version

// NewHeader describes net. Metadata may be nil.
func NewHeader(net *ffnn.Network, metadata map[string]string) (Header, error) {
	h := Header{
		FormatVersion: FormatVersion,
		FFNNVersion:   ffnnVersion,
		CreatedAt:     time.Now().UTC(),
		Layers:        make([]LayerMeta, net.NLayers()),
		Connected:     net.IsConnected(),
		NBeta:         net.NBeta(),
		VPStartLayer:  net.VariationalStartLayer(),
		Substrates:    substrateMeta(net.Substrates()),
		Metadata:      metadata,
	}
	for li := range h.Layers {
		l := net.Layer(li)
		lm := LayerMeta{Input: l.IsInput(), Units: make([]UnitMeta, l.Size())}
		for ui := range lm.Units {
			switch u := l.Unit(ui).(type) {
			case *ffnn.InputUnit:
				lm.Units[ui] = UnitMeta{Shift: u.Shift(), Scale: u.Scale()}
			case *ffnn.NNUnit:
				lm.Units[ui] = UnitMeta{Actf: u.ActivationFunction().IDCode(), Shift: u.Shift(), Scale: u.Scale()}
			default:
				return Header{}, fmt.Errorf("layer %d unit %d: unsupported unit type %T", li, ui, u)
			}
		}
		h.Layers[li] = lm
	}
	return h, nil
}

// Encode writes net in .ffnn format to w.
func Encode(w io.Writer, net *ffnn.Network, metadata map[string]string) error {
	header, err := NewHeader(net, metadata)
	if err != nil {
		return fmt.Errorf("failed to describe network: %w", err)
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	betas := net.Betas(nil)
	data := make([]byte, len(betas)*BetaSize)
	for i, b := range betas {
		binary.LittleEndian.PutUint64(data[i*BetaSize:], math.Float64bits(b))
	}

	flags := uint32(0)
	if header.Connected {
		flags |= FlagConnected
	}
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}

	// Fixed header: magic, version, flags, reserved, sizes, checksum.
	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], FormatVersion)
	binary.LittleEndian.PutUint32(fixed[8:12], flags)
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixed[24:32], uint64(len(data)))
	checksum := ComputeChecksum(headerJSON, data)
	copy(fixed[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	if _, err := w.Write(fixed); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write betas: %w", err)
	}
	return nil
}

// Save writes net to the file at path, replacing it if it exists.
func Save(path string, net *ffnn.Network, metadata map[string]string) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()
	return Encode(file, net, metadata)
}
