package ffnn

// InputUnit carries one externally supplied network input.
//
// The value is the normalized input (x + shift) * scale. Its derivative with
// respect to network input k is the Kronecker delta scaled by scale; all
// other derivatives vanish, so no buffers are ever allocated.
type InputUnit struct {
	index int // position among the network inputs
	x     float64
	v     float64
	shift float64
	scale float64
}

// NewInputUnit creates an input unit for network input index.
func NewInputUnit(index int) *InputUnit {
	return &InputUnit{index: index, scale: 1}
}

// Index returns the network input index carried by the unit.
func (u *InputUnit) Index() int { return u.index }

// SetInput stores the external input value; it takes effect on the next
// ComputeValues.
func (u *InputUnit) SetInput(x float64) { u.x = x }

// Input returns the stored external input value.
func (u *InputUnit) Input() float64 { return u.x }

// SetShift sets the value added to the input before scaling.
func (u *InputUnit) SetShift(shift float64) { u.shift = shift }

// SetScale sets the factor applied after shifting.
func (u *InputUnit) SetScale(scale float64) { u.scale = scale }

// Shift returns the input shift.
func (u *InputUnit) Shift() float64 { return u.shift }

// Scale returns the input scale.
func (u *InputUnit) Scale() float64 { return u.scale }

func (u *InputUnit) ProtoValue() float64 { return u.x }
func (u *InputUnit) Value() float64      { return u.v }

func (u *InputUnit) FirstDerivative(i1d int) float64 {
	if i1d == u.index {
		return u.scale
	}
	return 0
}

func (u *InputUnit) SecondDerivative(int) float64           { return 0 }
func (u *InputUnit) VariationalFirstDerivative(int) float64 { return 0 }
func (u *InputUnit) CrossFirstDerivative(int, int) float64  { return 0 }
func (u *InputUnit) CrossSecondDerivative(int, int) float64 { return 0 }

func (u *InputUnit) Feeder() Feeder { return nil }

func (u *InputUnit) SetupDerivatives(DerivConfig, int, int) {}

func (u *InputUnit) ComputeValues() {
	u.v = (u.x + u.shift) * u.scale
}
