package ffnn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Output returns the value of output unit i after the last propagation.
func (n *Network) Output(i int) (float64, error) {
	u, err := n.outputUnit(i)
	if err != nil {
		return 0, fmt.Errorf("Output: %w", err)
	}
	return u.Value(), nil
}

// Outputs copies the output values into dst, reused if it has length
// NOutput.
func (n *Network) Outputs(dst []float64) []float64 {
	out := n.OutputLayer()
	if len(dst) != out.Size() {
		dst = make([]float64, out.Size())
	}
	for i, u := range out.units {
		dst[i] = u.Value()
	}
	return dst
}

func (n *Network) outputUnit(i int) (Unit, error) {
	out := n.OutputLayer()
	if err := checkIndex("output", i, out.Size()); err != nil {
		return nil, err
	}
	return out.units[i], nil
}

// FirstDerivative returns d out_i / d x_k.
func (n *Network) FirstDerivative(i, k int) (float64, error) {
	u, err := n.inputDerivativeUnit(i, k, n.dconf.D1, "first derivative")
	if err != nil {
		return 0, fmt.Errorf("FirstDerivative: %w", err)
	}
	return u.FirstDerivative(k), nil
}

// FirstDerivatives copies d out_i / dx into dst, reused if it has length
// NInput.
func (n *Network) FirstDerivatives(i int, dst []float64) ([]float64, error) {
	u, err := n.inputDerivativeUnit(i, 0, n.dconf.D1, "first derivative")
	if err != nil {
		return nil, fmt.Errorf("FirstDerivatives: %w", err)
	}
	dst = sized(dst, n.NInput())
	for k := range dst {
		dst[k] = u.FirstDerivative(k)
	}
	return dst, nil
}

// Jacobian returns the NOutput x NInput matrix of first derivatives.
func (n *Network) Jacobian() (*mat.Dense, error) {
	if !n.dconf.D1 {
		return nil, fmt.Errorf("Jacobian: %w", missingSubstrate("first derivative"))
	}
	jac := mat.NewDense(n.NOutput(), n.NInput(), nil)
	for i, u := range n.OutputLayer().units {
		for k := 0; k < n.NInput(); k++ {
			jac.Set(i, k, u.FirstDerivative(k))
		}
	}
	return jac, nil
}

// SecondDerivative returns d² out_i / d x_k².
func (n *Network) SecondDerivative(i, k int) (float64, error) {
	u, err := n.inputDerivativeUnit(i, k, n.dconf.D2, "second derivative")
	if err != nil {
		return 0, fmt.Errorf("SecondDerivative: %w", err)
	}
	return u.SecondDerivative(k), nil
}

// SecondDerivatives copies the diagonal second derivatives of out_i into
// dst, reused if it has length NInput.
func (n *Network) SecondDerivatives(i int, dst []float64) ([]float64, error) {
	u, err := n.inputDerivativeUnit(i, 0, n.dconf.D2, "second derivative")
	if err != nil {
		return nil, fmt.Errorf("SecondDerivatives: %w", err)
	}
	dst = sized(dst, n.NInput())
	for k := range dst {
		dst[k] = u.SecondDerivative(k)
	}
	return dst, nil
}

// VariationalFirstDerivative returns d out_i / d β_p.
func (n *Network) VariationalFirstDerivative(i, p int) (float64, error) {
	u, err := n.variationalDerivativeUnit(i, 0, p, n.dconf.VD1, "variational first derivative")
	if err != nil {
		return 0, fmt.Errorf("VariationalFirstDerivative: %w", err)
	}
	return u.VariationalFirstDerivative(p), nil
}

// VariationalFirstDerivatives copies the gradient of out_i with respect to
// the variational parameters into dst, reused if it has length
// NVariationalParameters.
func (n *Network) VariationalFirstDerivatives(i int, dst []float64) ([]float64, error) {
	if !n.dconf.VD1 {
		return nil, fmt.Errorf("VariationalFirstDerivatives: %w", missingSubstrate("variational first derivative"))
	}
	u, err := n.outputUnit(i)
	if err != nil {
		return nil, fmt.Errorf("VariationalFirstDerivatives: %w", err)
	}
	dst = sized(dst, n.nvp)
	for p := range dst {
		dst[p] = u.VariationalFirstDerivative(p)
	}
	return dst, nil
}

// CrossFirstDerivative returns d² out_i / d x_k d β_p.
func (n *Network) CrossFirstDerivative(i, k, p int) (float64, error) {
	u, err := n.variationalDerivativeUnit(i, k, p, n.dconf.C1D, "cross first derivative")
	if err != nil {
		return 0, fmt.Errorf("CrossFirstDerivative: %w", err)
	}
	return u.CrossFirstDerivative(k, p), nil
}

// CrossFirstDerivatives returns the NInput x NVariationalParameters matrix
// of cross first derivatives of out_i. It is nil when the network has no
// variational parameters.
func (n *Network) CrossFirstDerivatives(i int) (*mat.Dense, error) {
	if !n.dconf.C1D {
		return nil, fmt.Errorf("CrossFirstDerivatives: %w", missingSubstrate("cross first derivative"))
	}
	u, err := n.outputUnit(i)
	if err != nil {
		return nil, fmt.Errorf("CrossFirstDerivatives: %w", err)
	}
	return n.crossMatrix(u.CrossFirstDerivative), nil
}

// CrossSecondDerivative returns d³ out_i / d x_k² d β_p.
func (n *Network) CrossSecondDerivative(i, k, p int) (float64, error) {
	u, err := n.variationalDerivativeUnit(i, k, p, n.dconf.C2D, "cross second derivative")
	if err != nil {
		return 0, fmt.Errorf("CrossSecondDerivative: %w", err)
	}
	return u.CrossSecondDerivative(k, p), nil
}

// CrossSecondDerivatives returns the NInput x NVariationalParameters matrix
// of cross second derivatives of out_i. It is nil when the network has no
// variational parameters.
func (n *Network) CrossSecondDerivatives(i int) (*mat.Dense, error) {
	if !n.dconf.C2D {
		return nil, fmt.Errorf("CrossSecondDerivatives: %w", missingSubstrate("cross second derivative"))
	}
	u, err := n.outputUnit(i)
	if err != nil {
		return nil, fmt.Errorf("CrossSecondDerivatives: %w", err)
	}
	return n.crossMatrix(u.CrossSecondDerivative), nil
}

func (n *Network) crossMatrix(at func(k, p int) float64) *mat.Dense {
	if n.nvp == 0 {
		return nil
	}
	m := mat.NewDense(n.NInput(), n.nvp, nil)
	for k := 0; k < n.NInput(); k++ {
		for p := 0; p < n.nvp; p++ {
			m.Set(k, p, at(k, p))
		}
	}
	return m
}

// inputDerivativeUnit validates a query of an input-derivative substrate.
func (n *Network) inputDerivativeUnit(i, k int, enabled bool, name string) (Unit, error) {
	if !enabled {
		return nil, missingSubstrate(name)
	}
	u, err := n.outputUnit(i)
	if err != nil {
		return nil, err
	}
	if err := checkIndex("input", k, n.NInput()); err != nil {
		return nil, err
	}
	return u, nil
}

// variationalDerivativeUnit validates a query of a substrate indexed by
// input k and variational parameter p.
func (n *Network) variationalDerivativeUnit(i, k, p int, enabled bool, name string) (Unit, error) {
	u, err := n.inputDerivativeUnit(i, k, enabled, name)
	if err != nil {
		return nil, err
	}
	if err := checkIndex("variational parameter", p, n.nvp); err != nil {
		return nil, err
	}
	return u, nil
}

func sized(dst []float64, n int) []float64 {
	if len(dst) != n {
		return make([]float64, n)
	}
	return dst
}
