package ffnn

import (
	"fmt"

	"github.com/born-ml/ffnn/internal/actf"
)

// Layer is an ordered collection of units.
//
// The input layer holds InputUnits and has no feeders. Every other layer
// holds NNUnits whose feeders take the units of the preceding layer as
// sources once the network is connected.
type Layer struct {
	units []Unit
	fed   []FedUnit
	input bool
}

// NewInputLayer creates a layer of n input units.
func NewInputLayer(n int) *Layer {
	l := &Layer{input: true, units: make([]Unit, n)}
	for i := range l.units {
		l.units[i] = NewInputUnit(i)
	}
	return l
}

// NewNNLayer creates a layer of n neural units sharing the activation fn.
func NewNNLayer(n int, fn actf.Function) *Layer {
	l := &Layer{units: make([]Unit, n), fed: make([]FedUnit, n)}
	for i := range l.units {
		u := NewNNUnit(fn)
		l.units[i] = u
		l.fed[i] = u
	}
	return l
}

// Size returns the number of units.
func (l *Layer) Size() int { return len(l.units) }

// Unit returns unit i.
func (l *Layer) Unit(i int) Unit { return l.units[i] }

// IsInput reports whether l is an input layer.
func (l *Layer) IsInput() bool { return l.input }

// SetActivationFunction sets fn on every unit that has an activation.
func (l *Layer) SetActivationFunction(fn actf.Function) {
	for _, u := range l.units {
		if nu, ok := u.(interface{ SetActivationFunction(actf.Function) }); ok {
			nu.SetActivationFunction(fn)
		}
	}
}

// connectOnTopOf gives every fed unit a fresh feeder over the units of prev.
func (l *Layer) connectOnTopOf(prev *Layer) {
	for _, u := range l.fed {
		u.SetFeeder(NewNNFeeder(prev.units))
	}
}

func (l *Layer) disconnect() {
	for _, u := range l.fed {
		u.SetFeeder(nil)
	}
}

// checkFeeders panics if a feeder breaks the weight count invariant; this
// can only happen if the wiring itself is broken.
func (l *Layer) checkFeeders(li int) {
	for ui, u := range l.fed {
		f := u.Feeder()
		if f == nil {
			panic(fmt.Sprintf("ffnn: layer %d unit %d has no feeder after connect", li, ui))
		}
		if f.NBeta() != f.NSources()+1 {
			panic(fmt.Sprintf("ffnn: layer %d unit %d has %d betas for %d sources", li, ui, f.NBeta(), f.NSources()))
		}
	}
}

func (l *Layer) nBeta() int {
	n := 0
	for _, u := range l.fed {
		n += u.Feeder().NBeta()
	}
	return n
}

func (l *Layer) clearVariationalParameters() {
	for _, u := range l.fed {
		if f := u.Feeder(); f != nil {
			f.ClearVariationalParameters()
		}
	}
}

// setVariationalParametersID assigns ids starting at id and returns the next
// free id.
func (l *Layer) setVariationalParametersID(id int, addVP bool) int {
	for _, u := range l.fed {
		if f := u.Feeder(); f != nil {
			id = f.SetVariationalParametersIndexes(id, addVP)
		}
	}
	return id
}

func (l *Layer) nVariationalParameters() int {
	n := 0
	for _, u := range l.fed {
		if f := u.Feeder(); f != nil {
			n += f.NVariationalParameters()
		}
	}
	return n
}

func (l *Layer) maxVariationalParameterIndex() int {
	maxIndex := -1
	for _, u := range l.fed {
		if f := u.Feeder(); f != nil {
			maxIndex = max(maxIndex, f.MaxVariationalParameterIndex())
		}
	}
	return maxIndex
}

func (l *Layer) variationalParameter(id int) (float64, bool) {
	for _, u := range l.fed {
		if f := u.Feeder(); f != nil {
			if vp, ok := f.VariationalParameter(id); ok {
				return vp, true
			}
		}
	}
	return 0, false
}

func (l *Layer) setVariationalParameter(id int, vp float64) bool {
	for _, u := range l.fed {
		if f := u.Feeder(); f != nil && f.SetVariationalParameter(id, vp) {
			return true
		}
	}
	return false
}

func (l *Layer) setupDerivatives(cfg DerivConfig, nx0, nvp int) {
	for _, u := range l.units {
		u.SetupDerivatives(cfg, nx0, nvp)
	}
}

func (l *Layer) computeValues() {
	for _, u := range l.units {
		u.ComputeValues()
	}
}
