package ffnn

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"

	"github.com/born-ml/ffnn/internal/actf"
)

var allSubstrates = DerivConfig{D1: true, D2: true, VD1: true, C1D: true, C2D: true}

// newTestNetwork builds a connected network with the given layer sizes
// (input first) and per-layer activations (hidden and output), with random
// weights and biases drawn from N(0, 0.5²).
func newTestNetwork(t *testing.T, sizes []int, acts []actf.Function, cfg DerivConfig, seed int64) *Network {
	t.Helper()
	require.GreaterOrEqual(t, len(sizes), 3)
	require.Len(t, acts, len(sizes)-1)

	net, err := NewNetwork(sizes[0], sizes[1], sizes[len(sizes)-1])
	require.NoError(t, err)
	for _, size := range sizes[2 : len(sizes)-1] {
		require.NoError(t, net.PushHiddenLayer(size))
	}
	for li, fn := range acts {
		net.Layer(li + 1).SetActivationFunction(fn)
	}
	net.ConnectAndAddSubstrates(cfg)

	rng := rand.New(rand.NewSource(seed))
	betas := make([]float64, net.NBeta())
	for i := range betas {
		betas[i] = 0.5 * rng.NormFloat64()
	}
	require.NoError(t, net.SetBetas(betas))
	return net
}

func mixedNetwork(t *testing.T, cfg DerivConfig) *Network {
	t.Helper()
	return newTestNetwork(t, []int{3, 4, 3, 2},
		[]actf.Function{actf.TANS, actf.GSS, actf.LGS}, cfg, 7)
}

var testInput = []float64{0.4, -0.8, 1.1}

func TestNewNetwork(t *testing.T) {
	net, err := NewNetwork(4, 9, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, net.NLayers())
	assert.Equal(t, 1, net.NHiddenLayers())
	assert.Equal(t, 4, net.NInput())
	assert.Equal(t, 1, net.NOutput())
	assert.Equal(t, 9, net.LayerSize(1))
	assert.True(t, net.InputLayer().IsInput())
	assert.False(t, net.IsConnected())
	assert.Zero(t, net.NBeta())

	for _, sizes := range [][3]int{{0, 1, 1}, {1, 0, 1}, {1, 1, 0}, {-2, 3, 3}} {
		_, err := NewNetwork(sizes[0], sizes[1], sizes[2])
		assert.ErrorIs(t, err, ErrInvalidArgument, "sizes %v", sizes)
	}
}

func TestPushPopHiddenLayer(t *testing.T) {
	net, err := NewNetwork(2, 3, 1)
	require.NoError(t, err)

	require.NoError(t, net.PushHiddenLayer(5))
	require.NoError(t, net.PushHiddenLayer(4))
	assert.Equal(t, []int{2, 3, 5, 4, 1}, layerSizes(net))

	require.NoError(t, net.PopHiddenLayer())
	assert.Equal(t, []int{2, 3, 5, 1}, layerSizes(net))

	assert.ErrorIs(t, net.PushHiddenLayer(0), ErrInvalidArgument)

	net.Connect()
	assert.ErrorIs(t, net.PushHiddenLayer(2), ErrConnected)
	assert.ErrorIs(t, net.PopHiddenLayer(), ErrConnected)

	net.Disconnect()
	require.NoError(t, net.PopHiddenLayer())
	require.NoError(t, net.PopHiddenLayer())
	assert.ErrorIs(t, net.PopHiddenLayer(), ErrInvalidArgument)
	assert.Equal(t, []int{2, 1}, layerSizes(net))
}

func layerSizes(net *Network) []int {
	sizes := make([]int, net.NLayers())
	for li := range sizes {
		sizes[li] = net.LayerSize(li)
	}
	return sizes
}

func TestConnect(t *testing.T) {
	net, err := NewNetwork(3, 4, 2)
	require.NoError(t, err)
	require.NoError(t, net.PushHiddenLayer(5))
	net.Connect()

	require.True(t, net.IsConnected())
	assert.Equal(t, 4*4+5*5+2*6, net.NBeta())
	assert.Equal(t, net.NBeta(), net.NVariationalParameters())
	for _, b := range net.Betas(nil) {
		assert.Zero(t, b)
	}

	for li := 1; li < net.NLayers(); li++ {
		for ui := 0; ui < net.LayerSize(li); ui++ {
			f := net.Layer(li).Unit(ui).Feeder()
			require.NotNil(t, f)
			assert.Equal(t, net.LayerSize(li-1)+1, f.NBeta())
		}
	}

	require.NoError(t, net.SetBeta(3, 1.5))
	net.Connect()
	b, err := net.Beta(3)
	require.NoError(t, err)
	assert.Zero(t, b, "reconnecting starts from fresh weights")
}

func TestNotConnected(t *testing.T) {
	net, err := NewNetwork(2, 2, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, net.FFPropagate(), ErrNotConnected)
	_, err = net.Evaluate([]float64{1, 2})
	assert.ErrorIs(t, err, ErrNotConnected)
	_, err = net.Beta(0)
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.ErrorIs(t, net.SetBetas(nil), ErrNotConnected)
	assert.ErrorIs(t, net.AssignVariationalParameters(0), ErrNotConnected)
	assert.ErrorIs(t, net.InitBetas(nil), ErrNotConnected)
	_, err = net.Weight(1, 0, 0)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestSetInput(t *testing.T) {
	net := mixedNetwork(t, DerivConfig{})

	assert.ErrorIs(t, net.SetInput([]float64{1}), ErrInputSize)
	_, err := net.Evaluate([]float64{1, 2, 3, 4})
	assert.ErrorIs(t, err, ErrInputSize)

	var idxErr *IndexError
	err = net.SetInputAt(3, 1)
	require.ErrorAs(t, err, &idxErr)
	assert.Equal(t, "input", idxErr.Kind)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	require.NoError(t, net.SetInput(testInput))
	require.NoError(t, net.SetInputAt(1, 0.25))
	assert.Equal(t, 0.25, net.InputLayer().Unit(1).(*InputUnit).Input())
}

func TestEvaluateIsDeterministic(t *testing.T) {
	net := mixedNetwork(t, allSubstrates)

	first, err := net.Evaluate(testInput)
	require.NoError(t, err)
	firstGrad, err := net.VariationalFirstDerivatives(1, nil)
	require.NoError(t, err)
	firstC2, err := net.CrossSecondDerivatives(1)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		out, err := net.Evaluate(testInput)
		require.NoError(t, err)
		assert.Equal(t, first, out)

		grad, err := net.VariationalFirstDerivatives(1, nil)
		require.NoError(t, err)
		assert.Equal(t, firstGrad, grad)

		c2, err := net.CrossSecondDerivatives(1)
		require.NoError(t, err)
		assert.Equal(t, firstC2.RawMatrix().Data, c2.RawMatrix().Data)
	}
}

func TestEvaluateReturnsEveryOutput(t *testing.T) {
	net := mixedNetwork(t, DerivConfig{})

	out, err := net.Evaluate(testInput)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for i, y := range out {
		want, err := net.Output(i)
		require.NoError(t, err)
		assert.Equal(t, want, y, "output %d", i)
	}
	// The logistic output layer keeps every value in (0, 1).
	for _, y := range out {
		assert.Greater(t, y, 0.0)
		assert.Less(t, y, 1.0)
	}

	// The returned slice is a copy the next propagation does not touch.
	saved := append([]float64(nil), out...)
	other, err := net.Evaluate([]float64{-2, 0.5, 0.1})
	require.NoError(t, err)
	assert.Equal(t, saved, out)
	assert.NotEqual(t, out, other)
}

func TestIdentityNetwork(t *testing.T) {
	net, err := NewNetwork(2, 1, 1)
	require.NoError(t, err)
	net.SetGlobalActivationFunctions(actf.ID)
	net.ConnectAndAddSubstrates(DerivConfig{D1: true, D2: true, VD1: true})

	// hidden: h = 0.5 + 2 x0 - 1 x1, output: y = -1 + 3 h
	require.NoError(t, net.SetBetas([]float64{0.5, 2, -1, -1, 3}))

	out, err := net.Evaluate([]float64{1.5, 0.25})
	require.NoError(t, err)
	h := 0.5 + 2*1.5 - 0.25
	assert.InDelta(t, -1+3*h, out[0], 1e-14)

	u := net.OutputLayer().Unit(0)
	assert.Equal(t, u.ProtoValue(), u.Value())

	d1, err := net.FirstDerivatives(0, nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{6, -3}, d1, 1e-14)

	d2, err := net.SecondDerivatives(0, nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0}, d2, 1e-14)

	grad, err := net.VariationalFirstDerivatives(0, nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{3, 3 * 1.5, 3 * 0.25, 1, h}, grad, 1e-14)

	jac, err := net.Jacobian()
	require.NoError(t, err)
	assert.Equal(t, 6.0, jac.At(0, 0))
	assert.Equal(t, -3.0, jac.At(0, 1))
}

// smoothActivations are the built-ins with continuous derivatives up to the
// third order everywhere.
func smoothActivations() []actf.Function {
	return []actf.Function{actf.ID, actf.LGS, actf.GSS, actf.TANS, actf.SIN, actf.SRLU, actf.EXP}
}

func TestInputDerivativesMatchFiniteDifferences(t *testing.T) {
	settings := &fd.Settings{Formula: fd.Central, Step: 1e-6}

	for _, fn := range smoothActivations() {
		t.Run(fn.IDCode(), func(t *testing.T) {
			net := newTestNetwork(t, []int{3, 4, 3, 2},
				[]actf.Function{fn, fn, actf.TANS}, DerivConfig{D1: true, D2: true}, 11)

			for i := 0; i < net.NOutput(); i++ {
				for k := 0; k < net.NInput(); k++ {
					_, err := net.Evaluate(testInput)
					require.NoError(t, err)
					d1, err := net.FirstDerivative(i, k)
					require.NoError(t, err)
					d2, err := net.SecondDerivative(i, k)
					require.NoError(t, err)

					numD1 := fd.Derivative(func(xk float64) float64 {
						return evalAtInput(t, net, k, xk, func() (float64, error) { return net.Output(i) })
					}, testInput[k], settings)
					numD2 := fd.Derivative(func(xk float64) float64 {
						return evalAtInput(t, net, k, xk, func() (float64, error) { return net.FirstDerivative(i, k) })
					}, testInput[k], settings)

					assert.InDelta(t, numD1, d1, 1e-7*(1+math.Abs(numD1)), "d1 out %d input %d", i, k)
					assert.InDelta(t, numD2, d2, 1e-6*(1+math.Abs(numD2)), "d2 out %d input %d", i, k)
				}
			}
		})
	}
}

// evalAtInput propagates with input k replaced by xk and reads a quantity.
func evalAtInput(t *testing.T, net *Network, k int, xk float64, read func() (float64, error)) float64 {
	t.Helper()
	x := append([]float64(nil), testInput...)
	x[k] = xk
	_, err := net.Evaluate(x)
	require.NoError(t, err)
	v, err := read()
	require.NoError(t, err)
	return v
}

// evalAtParameter propagates with variational parameter p replaced by bp,
// reads a quantity and restores the parameter.
func evalAtParameter(t *testing.T, net *Network, p int, bp float64, read func() (float64, error)) float64 {
	t.Helper()
	orig, err := net.VariationalParameter(p)
	require.NoError(t, err)
	require.NoError(t, net.SetVariationalParameter(p, bp))
	defer func() { require.NoError(t, net.SetVariationalParameter(p, orig)) }()

	_, err = net.Evaluate(testInput)
	require.NoError(t, err)
	v, err := read()
	require.NoError(t, err)
	return v
}

func TestParameterDerivativesMatchFiniteDifferences(t *testing.T) {
	settings := &fd.Settings{Formula: fd.Central, Step: 1e-6}
	net := mixedNetwork(t, allSubstrates)

	// Output normalization and input normalization enter every order.
	in := net.InputLayer().Unit(0).(*InputUnit)
	in.SetShift(0.3)
	in.SetScale(1.7)
	out := net.OutputLayer().Unit(1).(*NNUnit)
	out.SetShift(-0.2)
	out.SetScale(2.5)

	for i := 0; i < net.NOutput(); i++ {
		for p := 0; p < net.NVariationalParameters(); p++ {
			bp, err := net.VariationalParameter(p)
			require.NoError(t, err)

			_, err = net.Evaluate(testInput)
			require.NoError(t, err)
			vd1, err := net.VariationalFirstDerivative(i, p)
			require.NoError(t, err)

			numVD1 := fd.Derivative(func(b float64) float64 {
				return evalAtParameter(t, net, p, b, func() (float64, error) { return net.Output(i) })
			}, bp, settings)
			assert.InDelta(t, numVD1, vd1, 1e-7*(1+math.Abs(numVD1)), "vd1 out %d param %d", i, p)

			for k := 0; k < net.NInput(); k++ {
				_, err = net.Evaluate(testInput)
				require.NoError(t, err)
				c1, err := net.CrossFirstDerivative(i, k, p)
				require.NoError(t, err)
				c2, err := net.CrossSecondDerivative(i, k, p)
				require.NoError(t, err)

				numC1 := fd.Derivative(func(b float64) float64 {
					return evalAtParameter(t, net, p, b, func() (float64, error) { return net.FirstDerivative(i, k) })
				}, bp, settings)
				numC2 := fd.Derivative(func(b float64) float64 {
					return evalAtParameter(t, net, p, b, func() (float64, error) { return net.SecondDerivative(i, k) })
				}, bp, settings)

				assert.InDelta(t, numC1, c1, 1e-6*(1+math.Abs(numC1)), "c1 out %d input %d param %d", i, k, p)
				assert.InDelta(t, numC2, c2, 1e-6*(1+math.Abs(numC2)), "c2 out %d input %d param %d", i, k, p)
			}
		}
	}
}

func TestCrossMatricesMatchScalarAccessors(t *testing.T) {
	net := mixedNetwork(t, allSubstrates)
	_, err := net.Evaluate(testInput)
	require.NoError(t, err)

	c1, err := net.CrossFirstDerivatives(0)
	require.NoError(t, err)
	c2, err := net.CrossSecondDerivatives(0)
	require.NoError(t, err)

	r, c := c1.Dims()
	require.Equal(t, net.NInput(), r)
	require.Equal(t, net.NVariationalParameters(), c)
	for k := 0; k < r; k++ {
		for p := 0; p < c; p++ {
			v, err := net.CrossFirstDerivative(0, k, p)
			require.NoError(t, err)
			assert.Equal(t, v, c1.At(k, p))
			v, err = net.CrossSecondDerivative(0, k, p)
			require.NoError(t, err)
			assert.Equal(t, v, c2.At(k, p))
		}
	}
}

func TestSubstrates(t *testing.T) {
	t.Run("prerequisites", func(t *testing.T) {
		net := mixedNetwork(t, DerivConfig{})
		net.AddCrossSecondDerivativeSubstrate()
		assert.Equal(t, allSubstrates, net.Substrates())

		net = mixedNetwork(t, DerivConfig{})
		net.AddSecondDerivativeSubstrate()
		assert.Equal(t, DerivConfig{D1: true, D2: true}, net.Substrates())

		net = mixedNetwork(t, DerivConfig{})
		net.AddCrossFirstDerivativeSubstrate()
		assert.Equal(t, DerivConfig{D1: true, VD1: true, C1D: true}, net.Substrates())
	})

	t.Run("remove drops dependents", func(t *testing.T) {
		net := mixedNetwork(t, allSubstrates)
		net.RemoveSubstrates(DerivConfig{D1: true})
		assert.Equal(t, DerivConfig{VD1: true}, net.Substrates())

		net = mixedNetwork(t, allSubstrates)
		net.RemoveSubstrates(DerivConfig{C1D: true})
		assert.Equal(t, DerivConfig{D1: true, D2: true, VD1: true}, net.Substrates())

		_, err := net.Evaluate(testInput)
		require.NoError(t, err)
		_, err = net.CrossFirstDerivative(0, 0, 0)
		assert.ErrorIs(t, err, ErrMissingSubstrate)
	})

	t.Run("enabling twice is a no-op", func(t *testing.T) {
		net := mixedNetwork(t, DerivConfig{D1: true, VD1: true})
		_, err := net.Evaluate(testInput)
		require.NoError(t, err)
		d1, err := net.FirstDerivatives(0, nil)
		require.NoError(t, err)
		vd1, err := net.VariationalFirstDerivatives(0, nil)
		require.NoError(t, err)

		net.AddFirstDerivativeSubstrate()
		net.AddVariationalFirstDerivativeSubstrate()
		net.AddSubstrates(DerivConfig{D1: true})

		again, err := net.FirstDerivatives(0, nil)
		require.NoError(t, err)
		assert.Equal(t, d1, again, "buffers survive re-enabling")
		againVD1, err := net.VariationalFirstDerivatives(0, nil)
		require.NoError(t, err)
		assert.Equal(t, vd1, againVD1)
	})

	t.Run("substrates survive reconnect", func(t *testing.T) {
		net := mixedNetwork(t, DerivConfig{D2: true})
		net.Disconnect()
		net.Connect()
		assert.Equal(t, DerivConfig{D1: true, D2: true}, net.Substrates())
		_, err := net.Evaluate(testInput)
		require.NoError(t, err)
		_, err = net.SecondDerivative(0, 0)
		assert.NoError(t, err)
	})

	t.Run("vd1 without d1", func(t *testing.T) {
		full := mixedNetwork(t, DerivConfig{VD1: true, D1: true})
		only := mixedNetwork(t, DerivConfig{VD1: true})
		_, err := full.Evaluate(testInput)
		require.NoError(t, err)
		_, err = only.Evaluate(testInput)
		require.NoError(t, err)

		want, err := full.VariationalFirstDerivatives(1, nil)
		require.NoError(t, err)
		got, err := only.VariationalFirstDerivatives(1, nil)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestMissingSubstrateErrors(t *testing.T) {
	net := mixedNetwork(t, DerivConfig{})
	_, err := net.Evaluate(testInput)
	require.NoError(t, err)

	_, err = net.FirstDerivative(0, 0)
	assert.ErrorIs(t, err, ErrMissingSubstrate)
	_, err = net.FirstDerivatives(0, nil)
	assert.ErrorIs(t, err, ErrMissingSubstrate)
	_, err = net.Jacobian()
	assert.ErrorIs(t, err, ErrMissingSubstrate)
	_, err = net.SecondDerivatives(0, nil)
	assert.ErrorIs(t, err, ErrMissingSubstrate)
	_, err = net.VariationalFirstDerivatives(0, nil)
	assert.ErrorIs(t, err, ErrMissingSubstrate)
	_, err = net.CrossFirstDerivatives(0)
	assert.ErrorIs(t, err, ErrMissingSubstrate)
	_, err = net.CrossSecondDerivative(0, 0, 0)
	assert.ErrorIs(t, err, ErrMissingSubstrate)
}

func TestOutputIndexErrors(t *testing.T) {
	net := mixedNetwork(t, allSubstrates)
	_, err := net.Evaluate(testInput)
	require.NoError(t, err)

	tests := []struct {
		name string
		call func() error
		kind string
	}{
		{"output", func() error { _, err := net.Output(2); return err }, "output"},
		{"d1 input", func() error { _, err := net.FirstDerivative(0, 3); return err }, "input"},
		{"d2 output", func() error { _, err := net.SecondDerivative(-1, 0); return err }, "output"},
		{"vd1 param", func() error {
			_, err := net.VariationalFirstDerivative(0, net.NVariationalParameters())
			return err
		}, "variational parameter"},
		{"c2 param", func() error { _, err := net.CrossSecondDerivative(0, 0, -1); return err }, "variational parameter"},
		{"beta", func() error { _, err := net.Beta(net.NBeta()); return err }, "beta"},
		{"weight unit", func() error { _, err := net.Weight(1, 4, 0); return err }, "unit"},
		{"weight index", func() error { return net.SetWeight(2, 0, 5, 1) }, "beta"},
		{"start layer", func() error { return net.AssignVariationalParameters(net.NLayers()) }, "layer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var idxErr *IndexError
			require.ErrorAs(t, err, &idxErr)
			assert.Equal(t, tt.kind, idxErr.Kind)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}

	_, err = net.Weight(0, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.ErrorIs(t, net.SetBetas(make([]float64, 3)), ErrInvalidArgument)
	assert.ErrorIs(t, net.SetVariationalParameters(make([]float64, 3)), ErrInvalidArgument)
}

func TestWeightAddressing(t *testing.T) {
	net := mixedNetwork(t, DerivConfig{})

	// Global order: layer by layer, unit by unit, [bias, w_1..w_n].
	i := 0
	for li := 1; li < net.NLayers(); li++ {
		for ui := 0; ui < net.LayerSize(li); ui++ {
			for ib := 0; ib <= net.LayerSize(li-1); ib++ {
				w, err := net.Weight(li, ui, ib)
				require.NoError(t, err)
				b, err := net.Beta(i)
				require.NoError(t, err)
				assert.Equal(t, b, w, "layer %d unit %d index %d", li, ui, ib)
				i++
			}
		}
	}
	assert.Equal(t, net.NBeta(), i)

	require.NoError(t, net.SetWeight(2, 1, 2, 4.25))
	b, err := net.Beta(4*4 + 1*5 + 2)
	require.NoError(t, err)
	assert.Equal(t, 4.25, b)
}

func TestVariationalParameters(t *testing.T) {
	t.Run("all layers", func(t *testing.T) {
		net := mixedNetwork(t, DerivConfig{VD1: true})
		assert.Equal(t, net.NBeta(), net.NVariationalParameters())
		assert.Equal(t, net.Betas(nil), net.VariationalParameters(nil))

		vps := net.VariationalParameters(nil)
		for p := range vps {
			vps[p] = float64(p)
		}
		require.NoError(t, net.SetVariationalParameters(vps))
		assert.Equal(t, vps, net.Betas(nil))
	})

	t.Run("assignment is idempotent", func(t *testing.T) {
		net := mixedNetwork(t, DerivConfig{VD1: true})
		before := net.VariationalParameters(nil)
		require.NoError(t, net.AssignVariationalParameters(0))
		require.NoError(t, net.AssignVariationalParameters(0))
		assert.Equal(t, before, net.VariationalParameters(nil))

		// Feeders already assigned keep their ids.
		f := net.OutputLayer().Unit(0).Feeder()
		assert.Equal(t, 11, f.SetVariationalParametersIndexes(11, true))
		require.NoError(t, net.AssignVariationalParameters(1))
		assert.Equal(t, before, net.VariationalParameters(nil))
	})

	t.Run("starting layer", func(t *testing.T) {
		full := mixedNetwork(t, DerivConfig{VD1: true})
		tail := mixedNetwork(t, DerivConfig{VD1: true})
		require.NoError(t, tail.AssignVariationalParameters(2))
		assert.Equal(t, 2, tail.VariationalStartLayer())

		skipped := 4 * 4
		assert.Equal(t, full.NBeta()-skipped, tail.NVariationalParameters())

		first, err := tail.VariationalParameter(0)
		require.NoError(t, err)
		w, err := tail.Weight(2, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, w, first)

		_, err = full.Evaluate(testInput)
		require.NoError(t, err)
		_, err = tail.Evaluate(testInput)
		require.NoError(t, err)
		for i := 0; i < full.NOutput(); i++ {
			fullGrad, err := full.VariationalFirstDerivatives(i, nil)
			require.NoError(t, err)
			tailGrad, err := tail.VariationalFirstDerivatives(i, nil)
			require.NoError(t, err)
			assert.InDeltaSlice(t, fullGrad[skipped:], tailGrad, 1e-15)
		}

		require.NoError(t, tail.AssignVariationalParameters(tail.NLayers()-1))
		assert.Equal(t, 2*4, tail.NVariationalParameters())
	})

	t.Run("feeder ownership", func(t *testing.T) {
		net := mixedNetwork(t, DerivConfig{})
		f := net.Layer(2).Unit(1).Feeder()
		// Layer 1 holds ids [0, 16), layer 2 unit 0 holds [16, 21).
		assert.Equal(t, 5, f.NVariationalParameters())
		assert.Equal(t, 25, f.MaxVariationalParameterIndex())
		assert.True(t, f.IsVPIndexUsedInFeeder(21))
		assert.False(t, f.IsVPIndexUsedInFeeder(16))
		assert.True(t, f.IsVPIndexUsedInSources(3))
		assert.False(t, f.IsVPIndexUsedInSources(17))
		assert.True(t, f.IsVPIndexUsedForFeeder(0))
		assert.False(t, f.IsVPIndexUsedForFeeder(30))
	})
}

func TestClone(t *testing.T) {
	net := mixedNetwork(t, allSubstrates)
	require.NoError(t, net.AssignVariationalParameters(2))
	net.OutputLayer().Unit(0).(*NNUnit).SetScale(3)

	c := net.Clone()
	assert.Equal(t, net.Substrates(), c.Substrates())
	assert.Equal(t, net.NVariationalParameters(), c.NVariationalParameters())
	assert.Equal(t, net.Betas(nil), c.Betas(nil))

	want, err := net.Evaluate(testInput)
	require.NoError(t, err)
	got, err := c.Evaluate(testInput)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	wantGrad, err := net.VariationalFirstDerivatives(0, nil)
	require.NoError(t, err)
	gotGrad, err := c.VariationalFirstDerivatives(0, nil)
	require.NoError(t, err)
	assert.Equal(t, wantGrad, gotGrad)

	require.NoError(t, c.SetBeta(0, 100))
	b, err := net.Beta(0)
	require.NoError(t, err)
	assert.NotEqual(t, 100.0, b)

	disconnected, err := NewNetwork(2, 2, 2)
	require.NoError(t, err)
	assert.False(t, disconnected.Clone().IsConnected())
}

func TestInitBetas(t *testing.T) {
	net, err := NewNetwork(3, 4, 2)
	require.NoError(t, err)
	net.Connect()

	require.NoError(t, net.InitBetas(rand.New(rand.NewSource(1))))
	first := net.Betas(nil)
	require.NoError(t, net.InitBetas(rand.New(rand.NewSource(1))))
	assert.Equal(t, first, net.Betas(nil))

	for li := 1; li < net.NLayers(); li++ {
		bound := XavierBound(net.LayerSize(li-1), net.LayerSize(li))
		for ui := 0; ui < net.LayerSize(li); ui++ {
			bias, err := net.Weight(li, ui, 0)
			require.NoError(t, err)
			assert.Zero(t, bias)
			for ib := 1; ib <= net.LayerSize(li-1); ib++ {
				w, err := net.Weight(li, ui, ib)
				require.NoError(t, err)
				assert.LessOrEqual(t, math.Abs(w), bound)
			}
		}
	}
}

func TestErrorWrapping(t *testing.T) {
	net := mixedNetwork(t, DerivConfig{})
	_, err := net.VariationalParameter(-1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VariationalParameter")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}
