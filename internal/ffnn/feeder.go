package ffnn

import (
	"fmt"
)

// Feeder computes the input (feed) of a unit from a set of source units,
// together with the derivatives of the feed.
//
// A feeder references its sources weakly: the layer owning the sources
// controls their lifetime.
type Feeder interface {
	// NSources returns the number of source units.
	NSources() int
	// Source returns source unit i.
	Source(i int) Unit

	// Feed returns the feed value, e.g. β₀ + Σ_j β_j v_j.
	Feed() float64
	// FirstDerivativeFeed returns d feed / d x_i1d.
	FirstDerivativeFeed(i1d int) float64
	// SecondDerivativeFeed returns d² feed / d x_i2d².
	SecondDerivativeFeed(i2d int) float64
	// VariationalFirstDerivativeFeed returns d feed / d β_ivp.
	VariationalFirstDerivativeFeed(ivp int) float64
	// CrossFirstDerivativeFeed returns d² feed / d x_i1d d β_ivp.
	CrossFirstDerivativeFeed(i1d, ivp int) float64
	// CrossSecondDerivativeFeed returns d³ feed / d x_i2d² d β_ivp.
	CrossSecondDerivativeFeed(i2d, ivp int) float64

	// NBeta returns the number of weights owned by the feeder.
	NBeta() int
	// Beta returns weight i.
	Beta(i int) (float64, error)
	// SetBeta sets weight i.
	SetBeta(i int, b float64) error

	// SetVariationalParametersIndexes assigns consecutive variational ids,
	// starting at start, to any unassigned upstream feeder and then to the
	// own weights (only if addVP). It returns the next free id. On an
	// already assigned feeder it does nothing and returns start.
	SetVariationalParametersIndexes(start int, addVP bool) int
	// ClearVariationalParameters drops the variational assignment.
	ClearVariationalParameters()
	// NVariationalParameters returns the number of own variational parameters.
	NVariationalParameters() int
	// MaxVariationalParameterIndex returns the highest variational id the
	// feed depends on, directly or through its sources, or -1.
	MaxVariationalParameterIndex() int
	// VariationalParameter returns the value of own parameter id.
	VariationalParameter(id int) (float64, bool)
	// SetVariationalParameter sets own parameter id.
	SetVariationalParameter(id int, value float64) bool

	// IsVPIndexUsedInFeeder reports whether id is one of the own parameters.
	IsVPIndexUsedInFeeder(id int) bool
	// IsVPIndexUsedInSources reports whether some source depends on id.
	IsVPIndexUsedInSources(id int) bool
	// IsVPIndexUsedForFeeder reports whether the feed depends on id at all.
	IsVPIndexUsedForFeeder(id int) bool
}

// NNFeeder is the weighted-sum feeder of a neural unit:
//
//	feed = β₀ + Σ_j β_{j+1} v_j
//
// β₀ is the bias weight, fed by a constant 1.
type NNFeeder struct {
	sources []Unit
	beta    []float64 // [len(sources)+1], beta[0] is the bias

	vpShift   int     // id of beta[0] as variational parameter, -1 if unassigned
	nvp       int     // 0 or len(beta)
	vpSources [][]int // [vpShift] indices of sources depending on each upstream id
}

// NewNNFeeder creates a feeder over sources with all weights set to zero.
func NewNNFeeder(sources []Unit) *NNFeeder {
	src := make([]Unit, len(sources))
	copy(src, sources)
	return &NNFeeder{
		sources: src,
		beta:    make([]float64, len(sources)+1),
		vpShift: -1,
	}
}

func (f *NNFeeder) NSources() int     { return len(f.sources) }
func (f *NNFeeder) Source(i int) Unit { return f.sources[i] }

func (f *NNFeeder) Feed() float64 {
	feed := f.beta[0]
	for j, src := range f.sources {
		feed += f.beta[j+1] * src.Value()
	}
	return feed
}

func (f *NNFeeder) FirstDerivativeFeed(i1d int) float64 {
	var feed float64
	for j, src := range f.sources {
		feed += f.beta[j+1] * src.FirstDerivative(i1d)
	}
	return feed
}

func (f *NNFeeder) SecondDerivativeFeed(i2d int) float64 {
	var feed float64
	for j, src := range f.sources {
		feed += f.beta[j+1] * src.SecondDerivative(i2d)
	}
	return feed
}

// VariationalFirstDerivativeFeed sums the upstream dependence of the sources
// on ivp and, if ivp is one of the own weights, adds the value that weight
// multiplies (1 for the bias).
func (f *NNFeeder) VariationalFirstDerivativeFeed(ivp int) float64 {
	if ivp < len(f.vpSources) {
		var feed float64
		for _, j := range f.vpSources[ivp] {
			feed += f.beta[j+1] * f.sources[j].VariationalFirstDerivative(ivp)
		}
		return feed
	}
	if !f.IsVPIndexUsedInFeeder(ivp) {
		return 0
	}
	ib := ivp - f.vpShift
	if ib == 0 {
		return 1
	}
	return f.sources[ib-1].Value()
}

func (f *NNFeeder) CrossFirstDerivativeFeed(i1d, ivp int) float64 {
	if ivp < len(f.vpSources) {
		var feed float64
		for _, j := range f.vpSources[ivp] {
			feed += f.beta[j+1] * f.sources[j].CrossFirstDerivative(i1d, ivp)
		}
		return feed
	}
	if !f.IsVPIndexUsedInFeeder(ivp) {
		return 0
	}
	ib := ivp - f.vpShift
	if ib == 0 {
		return 0
	}
	return f.sources[ib-1].FirstDerivative(i1d)
}

func (f *NNFeeder) CrossSecondDerivativeFeed(i2d, ivp int) float64 {
	if ivp < len(f.vpSources) {
		var feed float64
		for _, j := range f.vpSources[ivp] {
			feed += f.beta[j+1] * f.sources[j].CrossSecondDerivative(i2d, ivp)
		}
		return feed
	}
	if !f.IsVPIndexUsedInFeeder(ivp) {
		return 0
	}
	ib := ivp - f.vpShift
	if ib == 0 {
		return 0
	}
	return f.sources[ib-1].SecondDerivative(i2d)
}

func (f *NNFeeder) NBeta() int { return len(f.beta) }

func (f *NNFeeder) Beta(i int) (float64, error) {
	if err := checkIndex("beta", i, len(f.beta)); err != nil {
		return 0, fmt.Errorf("NNFeeder.Beta: %w", err)
	}
	return f.beta[i], nil
}

func (f *NNFeeder) SetBeta(i int, b float64) error {
	if err := checkIndex("beta", i, len(f.beta)); err != nil {
		return fmt.Errorf("NNFeeder.SetBeta: %w", err)
	}
	f.beta[i] = b
	return nil
}

func (f *NNFeeder) SetVariationalParametersIndexes(start int, addVP bool) int {
	if f.vpShift >= 0 {
		return start
	}

	id := start
	for _, src := range f.sources {
		if sf := src.Feeder(); sf != nil {
			id = sf.SetVariationalParametersIndexes(id, addVP)
		}
	}

	f.vpShift = id
	f.vpSources = make([][]int, id)
	for ivp := range f.vpSources {
		for j, src := range f.sources {
			if sf := src.Feeder(); sf != nil && sf.IsVPIndexUsedForFeeder(ivp) {
				f.vpSources[ivp] = append(f.vpSources[ivp], j)
			}
		}
	}

	f.nvp = 0
	if addVP {
		f.nvp = len(f.beta)
	}
	return id + f.nvp
}

func (f *NNFeeder) ClearVariationalParameters() {
	f.vpShift = -1
	f.nvp = 0
	f.vpSources = nil
}

func (f *NNFeeder) NVariationalParameters() int { return f.nvp }

func (f *NNFeeder) MaxVariationalParameterIndex() int {
	if f.nvp > 0 {
		return f.vpShift + f.nvp - 1
	}
	for ivp := len(f.vpSources) - 1; ivp >= 0; ivp-- {
		if len(f.vpSources[ivp]) > 0 {
			return ivp
		}
	}
	return -1
}

func (f *NNFeeder) VariationalParameter(id int) (float64, bool) {
	if !f.IsVPIndexUsedInFeeder(id) {
		return 0, false
	}
	return f.beta[id-f.vpShift], true
}

func (f *NNFeeder) SetVariationalParameter(id int, value float64) bool {
	if !f.IsVPIndexUsedInFeeder(id) {
		return false
	}
	f.beta[id-f.vpShift] = value
	return true
}

func (f *NNFeeder) IsVPIndexUsedInFeeder(id int) bool {
	return f.nvp > 0 && id >= f.vpShift && id < f.vpShift+f.nvp
}

func (f *NNFeeder) IsVPIndexUsedInSources(id int) bool {
	return id >= 0 && id < len(f.vpSources) && len(f.vpSources[id]) > 0
}

func (f *NNFeeder) IsVPIndexUsedForFeeder(id int) bool {
	return f.IsVPIndexUsedInFeeder(id) || f.IsVPIndexUsedInSources(id)
}
