// Package actf implements scalar activation functions with exact analytic
// derivatives up to third order.
//
// Every activation is a stateless value, so a single instance can be shared
// by any number of network units. Derivatives are always evaluated
// analytically at the same point as the value, never by differencing.
//
// Built-in activations are registered under short identification codes:
//
//	id_   identity
//	lgs   logistic sigmoid
//	gss   gaussian bump
//	tans  hyperbolic tangent
//	sin   sine
//	relu  rectified linear
//	selu  scaled exponential linear
//	srlu  smooth rectified linear (softplus)
//	exp   exponential
package actf

// Function is the capability every activation function provides.
//
// The ideal input and output statistics are normalization hints for whoever
// builds a network (e.g. to scale inputs into the useful range); they are
// never enforced.
type Function interface {
	// IDCode returns the short identification code (e.g. "lgs").
	IDCode() string

	// IdealInputMu returns the ideal mean of the input (proto-value).
	IdealInputMu() float64
	// IdealInputSigma returns the ideal standard deviation of the input.
	IdealInputSigma() float64
	// OutputMu returns the mean of the output for an ideal input.
	OutputMu() float64
	// OutputSigma returns the standard deviation of the output for an ideal input.
	OutputSigma() float64

	// F computes the activation value.
	F(x float64) float64
	// F1D computes the first derivative.
	F1D(x float64) float64
	// F2D computes the second derivative.
	F2D(x float64) float64
	// F3D computes the third derivative.
	F3D(x float64) float64
}

// Fused is implemented by activations that compute value and derivatives
// together more cheaply than calling F, F1D, F2D and F3D separately.
//
// Derivatives whose flag is false are returned as zero.
type Fused interface {
	FAD(x float64, flagD1, flagD2, flagD3 bool) (v, v1d, v2d, v3d float64)
}

// Eval returns the value of fn at x together with the first and second
// derivative when requested. Unrequested derivatives are zero.
//
// The fused path is used when fn implements Fused.
func Eval(fn Function, x float64, flagD1, flagD2 bool) (v, v1d, v2d float64) {
	if fused, ok := fn.(Fused); ok {
		v, v1d, v2d, _ = fused.FAD(x, flagD1, flagD2, false)
		return v, v1d, v2d
	}
	v = fn.F(x)
	if flagD1 {
		v1d = fn.F1D(x)
	}
	if flagD2 {
		v2d = fn.F2D(x)
	}
	return v, v1d, v2d
}

// EvalAll is like Eval but also returns the third derivative when requested.
func EvalAll(fn Function, x float64, flagD1, flagD2, flagD3 bool) (v, v1d, v2d, v3d float64) {
	if fused, ok := fn.(Fused); ok {
		return fused.FAD(x, flagD1, flagD2, flagD3)
	}
	v = fn.F(x)
	if flagD1 {
		v1d = fn.F1D(x)
	}
	if flagD2 {
		v2d = fn.F2D(x)
	}
	if flagD3 {
		v3d = fn.F3D(x)
	}
	return v, v1d, v2d, v3d
}
