package ffnn

import (
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/ffnn/internal/actf"
)

// NNUnit is a neural unit: the activation function applied to the feed of
// a weighted-sum feeder, optionally followed by an affine output
// normalization value = (f(feed) + shift) * scale.
//
// Every derivative is obtained from the chain rule of the univariate
// activation composed with the multivariate linear feed. With
// F1 = d feed/dx, F2 = d² feed/dx², V = d feed/dβ, C1 = d² feed/dx dβ,
// C2 = d³ feed/dx² dβ and the activation derivatives evaluated at the
// proto-value:
//
//	d1 = f' F1
//	d2 = f' F2 + f'' F1²
//	vd1 = f' V
//	c1 = f'' V F1 + f' C1
//	c2 = f'' V F2 + f' C2 + f''' V F1² + 2 f'' F1 C1
type NNUnit struct {
	derivBuffers

	actf   actf.Function
	feeder Feeder
	shift  float64
	scale  float64

	pv float64
	v  float64

	// activation derivatives at pv
	a1, a2, a3 float64

	// feed derivatives from the last sweep, reused by higher orders
	f1f []float64 // [nx0] with D1
	f2f []float64 // [nx0] with D2
	vf  []float64 // [nvp] with VD1
}

// NewNNUnit creates a unit with the given activation and no feeder.
// A nil activation falls back to the logistic sigmoid.
func NewNNUnit(fn actf.Function) *NNUnit {
	if fn == nil {
		fn = actf.LGS
	}
	return &NNUnit{actf: fn, scale: 1}
}

// ActivationFunction returns the activation of the unit.
func (u *NNUnit) ActivationFunction() actf.Function { return u.actf }

// SetActivationFunction replaces the activation; nil is ignored.
func (u *NNUnit) SetActivationFunction(fn actf.Function) {
	if fn != nil {
		u.actf = fn
	}
}

// SetShift sets the value added to the activation output before scaling.
func (u *NNUnit) SetShift(shift float64) { u.shift = shift }

// SetScale sets the factor applied to the shifted activation output.
func (u *NNUnit) SetScale(scale float64) { u.scale = scale }

// Shift returns the output shift.
func (u *NNUnit) Shift() float64 { return u.shift }

// Scale returns the output scale.
func (u *NNUnit) Scale() float64 { return u.scale }

func (u *NNUnit) Feeder() Feeder      { return u.feeder }
func (u *NNUnit) SetFeeder(f Feeder)  { u.feeder = f }
func (u *NNUnit) ProtoValue() float64 { return u.pv }
func (u *NNUnit) Value() float64      { return u.v }

func (u *NNUnit) SetupDerivatives(cfg DerivConfig, nx0, nvp int) {
	u.derivBuffers.setup(cfg, nx0, nvp)
	u.f1f = resizeVec(u.f1f, cfg.D1, nx0)
	u.f2f = resizeVec(u.f2f, cfg.D2, nx0)
	u.vf = resizeVec(u.vf, cfg.VD1, nvp)
}

// ComputeValues runs ComputeValue followed by every enabled derivative in
// dependency order.
func (u *NNUnit) ComputeValues() {
	u.ComputeValue()
	if u.d1 != nil {
		u.ComputeFirstDerivative()
	}
	if u.d2 != nil {
		u.ComputeSecondDerivative()
	}
	if u.vd1 != nil {
		u.ComputeVariationalFirstDerivative()
	}
	if u.c1 != nil {
		u.ComputeCrossFirstDerivative()
	}
	if u.c2 != nil {
		u.ComputeCrossSecondDerivative()
	}
}

// ComputeValue sets the proto-value from the feeder and evaluates the
// activation, together with the activation derivatives the allocated
// substrates will need.
func (u *NNUnit) ComputeValue() {
	u.pv = u.feeder.Feed()

	flagD1 := u.d1 != nil || u.vd1 != nil || u.c1 != nil || u.c2 != nil
	flagD2 := u.d2 != nil || u.c1 != nil || u.c2 != nil
	flagD3 := u.c2 != nil
	var f float64
	f, u.a1, u.a2, u.a3 = actf.EvalAll(u.actf, u.pv, flagD1, flagD2, flagD3)
	u.v = (f + u.shift) * u.scale
}

// ComputeFirstDerivative fills d1. Requires ComputeValue.
func (u *NNUnit) ComputeFirstDerivative() {
	for i := range u.d1 {
		u.f1f[i] = u.feeder.FirstDerivativeFeed(i)
		u.d1[i] = u.a1 * u.f1f[i]
	}
	u.applyScale(u.d1)
}

// ComputeSecondDerivative fills d2. Requires ComputeFirstDerivative.
func (u *NNUnit) ComputeSecondDerivative() {
	for i := range u.d2 {
		u.f2f[i] = u.feeder.SecondDerivativeFeed(i)
		u.d2[i] = u.a1*u.f2f[i] + u.a2*u.f1f[i]*u.f1f[i]
	}
	u.applyScale(u.d2)
}

// ComputeVariationalFirstDerivative fills vd1. Requires ComputeValue.
func (u *NNUnit) ComputeVariationalFirstDerivative() {
	for ivp := range u.vd1 {
		u.vf[ivp] = u.feeder.VariationalFirstDerivativeFeed(ivp)
		u.vd1[ivp] = u.a1 * u.vf[ivp]
	}
	u.applyScale(u.vd1)
}

// ComputeCrossFirstDerivative fills c1. Requires ComputeFirstDerivative and
// ComputeVariationalFirstDerivative.
func (u *NNUnit) ComputeCrossFirstDerivative() {
	for i := 0; i < u.nx0; i++ {
		for ivp := 0; ivp < u.nvp; ivp++ {
			c1f := u.feeder.CrossFirstDerivativeFeed(i, ivp)
			u.c1.Set(i, ivp, u.a2*u.vf[ivp]*u.f1f[i]+u.a1*c1f)
		}
	}
	if u.scale != 1 {
		u.c1.Scale(u.scale, u.c1)
	}
}

// ComputeCrossSecondDerivative fills c2. Requires ComputeSecondDerivative
// and ComputeVariationalFirstDerivative.
func (u *NNUnit) ComputeCrossSecondDerivative() {
	for i := 0; i < u.nx0; i++ {
		f1, f2 := u.f1f[i], u.f2f[i]
		for ivp := 0; ivp < u.nvp; ivp++ {
			vf := u.vf[ivp]
			c1f := u.feeder.CrossFirstDerivativeFeed(i, ivp)
			c2f := u.feeder.CrossSecondDerivativeFeed(i, ivp)
			u.c2.Set(i, ivp, u.a2*vf*f2+u.a1*c2f+u.a3*vf*f1*f1+2*u.a2*f1*c1f)
		}
	}
	if u.scale != 1 {
		u.c2.Scale(u.scale, u.c2)
	}
}

func (u *NNUnit) applyScale(buf []float64) {
	if u.scale != 1 {
		floats.Scale(u.scale, buf)
	}
}
