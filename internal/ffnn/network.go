// Package ffnn implements feed-forward neural networks that propagate, next
// to their values, exact derivatives with respect to the network inputs and
// the variational parameters.
//
// The building blocks are:
//   - Unit: a node holding a value and lazily allocated derivative buffers
//   - Feeder: the weighted sum over source units, and its derivatives
//   - Layer: an ordered set of units
//   - Network: the layer sequence, wiring, parameter vector and propagation
//
// Typical usage:
//
//	net, _ := ffnn.NewNetwork(4, 9, 1)
//	net.OutputLayer().SetActivationFunction(actf.ID)
//	net.ConnectAndAddSubstrates(ffnn.DerivConfig{D1: true, D2: true, VD1: true})
//	net.InitBetas(rng)
//
//	out, _ := net.Evaluate(x)
//	d1, _ := net.FirstDerivatives(0)
//	grad, _ := net.VariationalFirstDerivatives(0)
//
// A Network is not safe for concurrent use. Independent networks share no
// mutable state and may be evaluated in parallel (see EvaluateBatch).
package ffnn

import (
	"fmt"

	"github.com/born-ml/ffnn/internal/actf"
)

// Network is a feed-forward neural network.
//
// layers[0] is the input layer, the last layer is the output layer and
// everything in between is a hidden layer.
type Network struct {
	layers    []*Layer
	connected bool
	dconf     DerivConfig

	nvp          int // number of variational parameters
	vpStartLayer int // starting layer of the last assignment
}

// NewNetwork creates a network with nInput inputs, one hidden layer of
// hiddenSize units and nOutput outputs. Neural units use the logistic
// sigmoid until changed.
//
// The network is returned disconnected: resize it with PushHiddenLayer and
// PopHiddenLayer, then call Connect.
func NewNetwork(nInput, hiddenSize, nOutput int) (*Network, error) {
	if nInput < 1 || hiddenSize < 1 || nOutput < 1 {
		return nil, fmt.Errorf("NewNetwork: %w: layer sizes must be positive, got %d, %d, %d",
			ErrInvalidArgument, nInput, hiddenSize, nOutput)
	}
	return &Network{
		layers: []*Layer{
			NewInputLayer(nInput),
			NewNNLayer(hiddenSize, actf.LGS),
			NewNNLayer(nOutput, actf.LGS),
		},
	}, nil
}

// NLayers returns the number of layers, input and output included.
func (n *Network) NLayers() int { return len(n.layers) }

// NHiddenLayers returns the number of hidden layers.
func (n *Network) NHiddenLayers() int { return len(n.layers) - 2 }

// NInput returns the number of network inputs.
func (n *Network) NInput() int { return n.layers[0].Size() }

// NOutput returns the number of network outputs.
func (n *Network) NOutput() int { return n.OutputLayer().Size() }

// LayerSize returns the number of units of layer li.
func (n *Network) LayerSize(li int) int { return n.layers[li].Size() }

// Layer returns layer li.
func (n *Network) Layer(li int) *Layer { return n.layers[li] }

// InputLayer returns the input layer.
func (n *Network) InputLayer() *Layer { return n.layers[0] }

// OutputLayer returns the output layer.
func (n *Network) OutputLayer() *Layer { return n.layers[len(n.layers)-1] }

// IsConnected reports whether the feeders have been wired.
func (n *Network) IsConnected() bool { return n.connected }

// Substrates returns the enabled derivative substrates.
func (n *Network) Substrates() DerivConfig { return n.dconf }

func (n *Network) HasFirstDerivativeSubstrate() bool  { return n.dconf.D1 }
func (n *Network) HasSecondDerivativeSubstrate() bool { return n.dconf.D2 }

func (n *Network) HasVariationalFirstDerivativeSubstrate() bool { return n.dconf.VD1 }

func (n *Network) HasCrossFirstDerivativeSubstrate() bool  { return n.dconf.C1D }
func (n *Network) HasCrossSecondDerivativeSubstrate() bool { return n.dconf.C2D }

// SetGlobalActivationFunctions sets fn on every hidden and output unit.
func (n *Network) SetGlobalActivationFunctions(fn actf.Function) {
	for _, l := range n.layers[1:] {
		l.SetActivationFunction(fn)
	}
}

// PushHiddenLayer appends a hidden layer of size units, with logistic
// activations, right before the output layer.
func (n *Network) PushHiddenLayer(size int) error {
	if n.connected {
		return fmt.Errorf("PushHiddenLayer: %w", ErrConnected)
	}
	if size < 1 {
		return fmt.Errorf("PushHiddenLayer: %w: size must be positive, got %d", ErrInvalidArgument, size)
	}
	last := len(n.layers) - 1
	n.layers = append(n.layers[:last], NewNNLayer(size, actf.LGS), n.layers[last])
	return nil
}

// PopHiddenLayer removes the last hidden layer.
func (n *Network) PopHiddenLayer() error {
	if n.connected {
		return fmt.Errorf("PopHiddenLayer: %w", ErrConnected)
	}
	if n.NHiddenLayers() == 0 {
		return fmt.Errorf("PopHiddenLayer: %w: no hidden layer left", ErrInvalidArgument)
	}
	last := len(n.layers) - 1
	n.layers[last-1] = n.layers[last]
	n.layers[last] = nil
	n.layers = n.layers[:last]
	return nil
}

// Connect wires every layer onto the preceding one, gives each fed unit
// len(sources)+1 zero weights, assigns the variational parameters from the
// first layer on and allocates the enabled substrates.
//
// A connected network is disconnected first, which discards its weights.
func (n *Network) Connect() {
	if n.connected {
		n.Disconnect()
	}
	for li := 1; li < len(n.layers); li++ {
		n.layers[li].connectOnTopOf(n.layers[li-1])
		n.layers[li].checkFeeders(li)
	}
	n.connected = true
	n.assignVariationalParameters(0)
}

// Disconnect tears down every feeder. Enabled substrates stay enabled and
// are reallocated by the next Connect.
func (n *Network) Disconnect() {
	for _, l := range n.layers[1:] {
		l.disconnect()
	}
	n.connected = false
	n.nvp = 0
	n.vpStartLayer = 0
	n.setupDerivatives()
}

// AssignVariationalParameters exposes as variational parameters the weights
// of every layer from startLayer on; earlier weights are held fixed. Ids are
// contiguous, start at 0 and follow the layer order.
//
// startLayer 0 and 1 are equivalent, since the input layer has no weights.
func (n *Network) AssignVariationalParameters(startLayer int) error {
	if !n.connected {
		return fmt.Errorf("AssignVariationalParameters: %w", ErrNotConnected)
	}
	if err := checkIndex("layer", startLayer, len(n.layers)); err != nil {
		return fmt.Errorf("AssignVariationalParameters: %w", err)
	}
	n.assignVariationalParameters(startLayer)
	return nil
}

func (n *Network) assignVariationalParameters(startLayer int) {
	for _, l := range n.layers[1:] {
		l.clearVariationalParameters()
	}
	id := 0
	for li := 1; li < len(n.layers); li++ {
		id = n.layers[li].setVariationalParametersID(id, li >= startLayer)
	}
	n.nvp = id
	n.vpStartLayer = startLayer
	n.setupDerivatives()
}

// VariationalStartLayer returns the starting layer of the current assignment.
func (n *Network) VariationalStartLayer() int { return n.vpStartLayer }

// AddFirstDerivativeSubstrate enables d/dx.
func (n *Network) AddFirstDerivativeSubstrate() { n.AddSubstrates(DerivConfig{D1: true}) }

// AddSecondDerivativeSubstrate enables d²/dx² (and d/dx).
func (n *Network) AddSecondDerivativeSubstrate() { n.AddSubstrates(DerivConfig{D2: true}) }

// AddVariationalFirstDerivativeSubstrate enables d/dβ.
func (n *Network) AddVariationalFirstDerivativeSubstrate() { n.AddSubstrates(DerivConfig{VD1: true}) }

// AddCrossFirstDerivativeSubstrate enables d/dx d/dβ (and d/dx, d/dβ).
func (n *Network) AddCrossFirstDerivativeSubstrate() { n.AddSubstrates(DerivConfig{C1D: true}) }

// AddCrossSecondDerivativeSubstrate enables d²/dx² d/dβ and everything it
// is computed from.
func (n *Network) AddCrossSecondDerivativeSubstrate() { n.AddSubstrates(DerivConfig{C2D: true}) }

// AddSubstrates enables the substrates in cfg together with their
// prerequisites. Enabling an enabled substrate is a no-op. On a
// disconnected network the buffers are allocated by Connect.
func (n *Network) AddSubstrates(cfg DerivConfig) {
	n.dconf = n.dconf.or(cfg).withPrerequisites()
	n.setupDerivatives()
}

// RemoveSubstrates disables the substrates in cfg together with every
// substrate depending on them, releasing their buffers.
func (n *Network) RemoveSubstrates(cfg DerivConfig) {
	n.dconf = n.dconf.andNot(cfg).withoutOrphans()
	n.setupDerivatives()
}

// ConnectAndAddSubstrates is a shortcut for Connect followed by AddSubstrates.
func (n *Network) ConnectAndAddSubstrates(cfg DerivConfig) {
	n.Connect()
	n.AddSubstrates(cfg)
}

func (n *Network) setupDerivatives() {
	nx0 := n.NInput()
	for _, l := range n.layers {
		l.setupDerivatives(n.dconf, nx0, n.nvp)
	}
}

// SetInput stores x as the next network input.
func (n *Network) SetInput(x []float64) error {
	if len(x) != n.NInput() {
		return fmt.Errorf("SetInput: %w: got %d values, network has %d inputs", ErrInputSize, len(x), n.NInput())
	}
	for i, u := range n.layers[0].units {
		u.(*InputUnit).SetInput(x[i])
	}
	return nil
}

// SetInputAt stores value as network input i.
func (n *Network) SetInputAt(i int, value float64) error {
	if err := checkIndex("input", i, n.NInput()); err != nil {
		return fmt.Errorf("SetInputAt: %w", err)
	}
	n.layers[0].units[i].(*InputUnit).SetInput(value)
	return nil
}

// FFPropagate computes, layer by layer, the values and every enabled
// derivative for the stored input.
//
// Variational and cross derivatives are carried forward per parameter, so a
// single sweep serves every output unit.
func (n *Network) FFPropagate() error {
	if !n.connected {
		return fmt.Errorf("FFPropagate: %w", ErrNotConnected)
	}
	for _, l := range n.layers {
		l.computeValues()
	}
	return nil
}

// Evaluate sets the input, propagates and returns the outputs.
func (n *Network) Evaluate(x []float64) ([]float64, error) {
	if !n.connected {
		return nil, fmt.Errorf("Evaluate: %w", ErrNotConnected)
	}
	if err := n.SetInput(x); err != nil {
		return nil, err
	}
	if err := n.FFPropagate(); err != nil {
		return nil, err
	}
	return n.Outputs(nil), nil
}
