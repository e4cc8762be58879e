// Package templ implements a fixed-shape feed-forward network engine.
//
// Every size (input count, layer widths, output count) and the set of
// derivative orders that may ever be computed are fixed when the network is
// built. All storage is allocated once by New, orders disabled in the
// static configuration get zero-length buffers, and the propagation kernels
// of each layer are selected at build time, so a disabled order costs
// neither memory nor work.
//
// The engine computes the same quantities as the flexible ffnn engine for
// an equivalent architecture and identical weights:
//   - the output values
//   - d1, d2: first and diagonal second derivatives with respect to the
//     network inputs, propagated forward
//   - vd1: first derivatives with respect to every weight, obtained by a
//     backward sweep followed by an outer product with each layer input
//
// Weights are ordered layer by layer, unit by unit, [bias, w_1..w_n], the
// same global order the flexible engine uses.
package templ

import (
	"fmt"

	"github.com/born-ml/ffnn/internal/actf"
)

// DerivConfig selects derivative orders.
type DerivConfig struct {
	D1  bool // d y / d x
	D2  bool // d² y / d x², diagonal
	VD1 bool // d y / d β
}

// AND returns the orders enabled in both c and o.
func (c DerivConfig) AND(o DerivConfig) DerivConfig {
	return DerivConfig{D1: c.D1 && o.D1, D2: c.D2 && o.D2, VD1: c.VD1 && o.VD1}
}

// All enables every order.
var All = DerivConfig{D1: true, D2: true, VD1: true}

// LayerConfig describes one non-input layer.
type LayerConfig struct {
	NOut int           // number of units
	Actf actf.Function // activation of every unit, logistic sigmoid if nil
}

// Config describes a fixed-shape network.
type Config struct {
	NInput int
	Layers []LayerConfig // hidden layers followed by the output layer
	Deriv  DerivConfig   // orders that may be requested from Propagate
}

// Validate checks that cfg describes a buildable network.
func (cfg Config) Validate() error {
	if cfg.NInput < 1 {
		return fmt.Errorf("%w: NInput must be positive, got %d", ErrInvalidConfig, cfg.NInput)
	}
	if len(cfg.Layers) == 0 {
		return fmt.Errorf("%w: at least one layer is required", ErrInvalidConfig)
	}
	for i, lc := range cfg.Layers {
		if lc.NOut < 1 {
			return fmt.Errorf("%w: layer %d: NOut must be positive, got %d", ErrInvalidConfig, i, lc.NOut)
		}
	}
	return nil
}

// Network is a fixed-shape feed-forward network.
//
// Not safe for concurrent use; use Clone to give each goroutine its own.
type Network struct {
	cfg    Config
	layers []*layer
	nbeta  int
	offset []int // beta offset of each layer

	vd1 []float64 // [NOutput*NBeta]
	d1  []float64 // [NOutput*NInput]
	d2  []float64 // [NOutput*NInput]
}

// New builds a network from cfg with all weights set to zero. D2 in the
// static configuration implies D1.
func New(cfg Config) (*Network, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Deriv.D2 {
		cfg.Deriv.D1 = true
	}
	cfg.Layers = append([]LayerConfig(nil), cfg.Layers...)

	n := &Network{cfg: cfg, layers: make([]*layer, len(cfg.Layers)), offset: make([]int, len(cfg.Layers))}
	netNOut := cfg.Layers[len(cfg.Layers)-1].NOut
	nin := cfg.NInput
	for i, lc := range cfg.Layers {
		fn := lc.Actf
		if fn == nil {
			fn = actf.LGS
			n.cfg.Layers[i].Actf = fn
		}
		n.layers[i] = newLayer(nin, lc.NOut, cfg.NInput, netNOut, fn, cfg.Deriv, i == 0)
		n.offset[i] = n.nbeta
		n.nbeta += n.layers[i].nbeta()
		nin = lc.NOut
	}

	out := n.output()
	n.d1 = out.d1
	n.d2 = out.d2
	n.vd1 = make([]float64, sizeIf(cfg.Deriv.VD1, netNOut*n.nbeta))
	return n, nil
}

func (n *Network) output() *layer { return n.layers[len(n.layers)-1] }

// Config returns the configuration the network was built from.
func (n *Network) Config() Config {
	cfg := n.cfg
	cfg.Layers = append([]LayerConfig(nil), n.cfg.Layers...)
	return cfg
}

// NInput returns the number of network inputs.
func (n *Network) NInput() int { return n.cfg.NInput }

// NOutput returns the number of network outputs.
func (n *Network) NOutput() int { return n.output().nout }

// NLayers returns the number of layers, input layer included.
func (n *Network) NLayers() int { return len(n.layers) + 1 }

// LayerSize returns the number of units of layer li; layer 0 is the input.
func (n *Network) LayerSize(li int) int {
	if li == 0 {
		return n.cfg.NInput
	}
	return n.layers[li-1].nout
}

// NBeta returns the total number of weights.
func (n *Network) NBeta() int { return n.nbeta }

// Beta returns the weight with global index i.
func (n *Network) Beta(i int) (float64, error) {
	l, ib, err := n.locate(i)
	if err != nil {
		return 0, fmt.Errorf("Beta: %w", err)
	}
	return l.beta[ib], nil
}

// SetBeta sets the weight with global index i.
func (n *Network) SetBeta(i int, b float64) error {
	l, ib, err := n.locate(i)
	if err != nil {
		return fmt.Errorf("SetBeta: %w", err)
	}
	l.beta[ib] = b
	return nil
}

func (n *Network) locate(i int) (*layer, int, error) {
	if i < 0 || i >= n.nbeta {
		return nil, 0, fmt.Errorf("%w: beta index %d out of range [0, %d)", ErrInvalidArgument, i, n.nbeta)
	}
	li := len(n.offset) - 1
	for n.offset[li] > i {
		li--
	}
	return n.layers[li], i - n.offset[li], nil
}

// Betas copies every weight into dst, reused if it has length NBeta.
func (n *Network) Betas(dst []float64) []float64 {
	if len(dst) != n.nbeta {
		dst = make([]float64, n.nbeta)
	}
	for li, l := range n.layers {
		copy(dst[n.offset[li]:], l.beta)
	}
	return dst
}

// SetBetas sets every weight from src.
func (n *Network) SetBetas(src []float64) error {
	if len(src) != n.nbeta {
		return fmt.Errorf("SetBetas: %w: got %d values, network has %d betas", ErrInvalidArgument, len(src), n.nbeta)
	}
	for li, l := range n.layers {
		copy(l.beta, src[n.offset[li]:])
	}
	return nil
}

// Propagate evaluates the network at input. Only the orders enabled in both
// dflags and the static configuration are computed; the buffers of the
// others keep their previous content.
func (n *Network) Propagate(input []float64, dflags DerivConfig) error {
	if len(input) != n.cfg.NInput {
		return fmt.Errorf("Propagate: %w: got %d values, network has %d inputs", ErrInputSize, len(input), n.cfg.NInput)
	}
	dflags = dflags.AND(n.cfg.Deriv)
	if dflags.D2 {
		dflags.D1 = true
	}

	// Forward: values and input derivatives.
	in := input
	var prev *layer
	for _, l := range n.layers {
		l.forwardValues(in, dflags.D1 || dflags.VD1, dflags.D2)
		switch {
		case dflags.D2:
			l.forwardD12(l, prev)
		case dflags.D1:
			l.forwardD1(l, prev)
		}
		in, prev = l.out, l
	}

	if !dflags.VD1 {
		return nil
	}

	// Backward: d y_o / d feed of every unit.
	last := len(n.layers) - 1
	n.layers[last].backwardOutput()
	for li := last - 1; li >= 0; li-- {
		n.layers[li].backwardLayer(n.layers[li+1])
	}

	// Gradient extraction, one block of NBeta per output.
	for o := 0; o < n.NOutput(); o++ {
		grad := n.vd1[o*n.nbeta : (o+1)*n.nbeta]
		in := input
		for li, l := range n.layers {
			l.storeGradient(grad[n.offset[li]:], o, in)
			in = l.out
		}
	}
	return nil
}

// Output returns the output values of the last Propagate. The slice is
// owned by the network.
func (n *Network) Output() []float64 { return n.output().out }

// D1 returns d y_o / d x_k at o*NInput+k, or an empty slice if D1 is
// statically disabled. The slice is owned by the network.
func (n *Network) D1() []float64 { return n.d1 }

// D2 returns d² y_o / d x_k² at o*NInput+k, or an empty slice if D2 is
// statically disabled. The slice is owned by the network.
func (n *Network) D2() []float64 { return n.d2 }

// VD1 returns d y_o / d β_i at o*NBeta+i, or an empty slice if VD1 is
// statically disabled. The slice is owned by the network.
func (n *Network) VD1() []float64 { return n.vd1 }

// Clone returns an independent copy with the same configuration and weights.
func (n *Network) Clone() *Network {
	c, err := New(n.cfg)
	if err != nil {
		panic(fmt.Sprintf("templ: clone of a valid network failed: %v", err))
	}
	for li, l := range n.layers {
		copy(c.layers[li].beta, l.beta)
	}
	return c
}
