package ffnn

import (
	"gonum.org/v1/gonum/mat"
)

// Unit is the capability contract of every node hosted by a layer.
//
// Derivative accessors return 0 when the corresponding substrate is not
// allocated; bounds are validated by the Network, not here.
type Unit interface {
	// ProtoValue returns the pre-activation value.
	ProtoValue() float64
	// Value returns the post-activation value.
	Value() float64

	// FirstDerivative returns d v / d x_i1d.
	FirstDerivative(i1d int) float64
	// SecondDerivative returns d² v / d x_i2d².
	SecondDerivative(i2d int) float64
	// VariationalFirstDerivative returns d v / d β_ivp.
	VariationalFirstDerivative(ivp int) float64
	// CrossFirstDerivative returns d² v / d x_i1d d β_ivp.
	CrossFirstDerivative(i1d, ivp int) float64
	// CrossSecondDerivative returns d³ v / d x_i2d² d β_ivp.
	CrossSecondDerivative(i2d, ivp int) float64

	// Feeder returns the feeder of the unit, or nil for units fed externally.
	Feeder() Feeder

	// SetupDerivatives allocates the buffers enabled in cfg and releases the
	// others. nx0 is the number of network inputs, nvp the number of
	// variational parameters. Buffers that already have the right size are
	// kept untouched.
	SetupDerivatives(cfg DerivConfig, nx0, nvp int)

	// ComputeValues computes the value and every allocated derivative.
	ComputeValues()
}

// FedUnit is a Unit whose input is provided by a Feeder.
type FedUnit interface {
	Unit
	SetFeeder(f Feeder)
}

// derivBuffers holds the lazily allocated derivative substrates of a unit.
type derivBuffers struct {
	nx0 int
	nvp int

	d1  []float64  // [nx0]
	d2  []float64  // [nx0]
	vd1 []float64  // [nvp]
	c1  *mat.Dense // [nx0, nvp]
	c2  *mat.Dense // [nx0, nvp]
}

func (b *derivBuffers) setup(cfg DerivConfig, nx0, nvp int) {
	b.nx0, b.nvp = nx0, nvp
	b.d1 = resizeVec(b.d1, cfg.D1, nx0)
	b.d2 = resizeVec(b.d2, cfg.D2, nx0)
	b.vd1 = resizeVec(b.vd1, cfg.VD1, nvp)
	b.c1 = resizeMat(b.c1, cfg.C1D, nx0, nvp)
	b.c2 = resizeMat(b.c2, cfg.C2D, nx0, nvp)
}

func (b *derivBuffers) FirstDerivative(i1d int) float64 {
	if b.d1 == nil {
		return 0
	}
	return b.d1[i1d]
}

func (b *derivBuffers) SecondDerivative(i2d int) float64 {
	if b.d2 == nil {
		return 0
	}
	return b.d2[i2d]
}

func (b *derivBuffers) VariationalFirstDerivative(ivp int) float64 {
	if b.vd1 == nil {
		return 0
	}
	return b.vd1[ivp]
}

func (b *derivBuffers) CrossFirstDerivative(i1d, ivp int) float64 {
	if b.c1 == nil {
		return 0
	}
	return b.c1.At(i1d, ivp)
}

func (b *derivBuffers) CrossSecondDerivative(i2d, ivp int) float64 {
	if b.c2 == nil {
		return 0
	}
	return b.c2.At(i2d, ivp)
}

func resizeVec(buf []float64, enabled bool, n int) []float64 {
	if !enabled || n == 0 {
		return nil
	}
	if len(buf) == n {
		return buf
	}
	return make([]float64, n)
}

// resizeMat returns nil for an empty shape, since mat.Dense has no zero-sized form.
func resizeMat(m *mat.Dense, enabled bool, r, c int) *mat.Dense {
	if !enabled || r == 0 || c == 0 {
		return nil
	}
	if m != nil {
		if mr, mc := m.Dims(); mr == r && mc == c {
			return m
		}
	}
	return mat.NewDense(r, c, nil)
}
