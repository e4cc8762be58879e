package ffnn

import (
	"fmt"
)

// NBeta returns the total number of weights, or 0 if not connected.
func (n *Network) NBeta() int {
	if !n.connected {
		return 0
	}
	nb := 0
	for _, l := range n.layers[1:] {
		nb += l.nBeta()
	}
	return nb
}

// locateBeta maps a global weight index onto its feeder and local index.
// The global ordering is layer by layer, unit by unit, [bias, w_1..w_n].
func (n *Network) locateBeta(i int) (Feeder, int, error) {
	if !n.connected {
		return nil, 0, ErrNotConnected
	}
	if i >= 0 {
		off := i
		for _, l := range n.layers[1:] {
			for _, u := range l.fed {
				f := u.Feeder()
				if off < f.NBeta() {
					return f, off, nil
				}
				off -= f.NBeta()
			}
		}
	}
	return nil, 0, &IndexError{Kind: "beta", Index: i, Size: n.NBeta()}
}

// Beta returns the weight with global index i.
func (n *Network) Beta(i int) (float64, error) {
	f, ib, err := n.locateBeta(i)
	if err != nil {
		return 0, fmt.Errorf("Beta: %w", err)
	}
	return f.Beta(ib)
}

// SetBeta sets the weight with global index i.
func (n *Network) SetBeta(i int, b float64) error {
	f, ib, err := n.locateBeta(i)
	if err != nil {
		return fmt.Errorf("SetBeta: %w", err)
	}
	return f.SetBeta(ib, b)
}

// Betas copies every weight into dst, in global order. dst is reused if it
// has length NBeta, otherwise a new slice is allocated.
func (n *Network) Betas(dst []float64) []float64 {
	nb := n.NBeta()
	if len(dst) != nb {
		dst = make([]float64, nb)
	}
	i := 0
	n.eachFeeder(func(f Feeder) {
		for ib := 0; ib < f.NBeta(); ib++ {
			dst[i], _ = f.Beta(ib)
			i++
		}
	})
	return dst
}

// SetBetas sets every weight from src, in global order.
func (n *Network) SetBetas(src []float64) error {
	if !n.connected {
		return fmt.Errorf("SetBetas: %w", ErrNotConnected)
	}
	if nb := n.NBeta(); len(src) != nb {
		return fmt.Errorf("SetBetas: %w: got %d values, network has %d betas", ErrInvalidArgument, len(src), nb)
	}
	i := 0
	n.eachFeeder(func(f Feeder) {
		for ib := 0; ib < f.NBeta(); ib++ {
			_ = f.SetBeta(ib, src[i])
			i++
		}
	})
	return nil
}

func (n *Network) eachFeeder(fn func(f Feeder)) {
	if !n.connected {
		return
	}
	for _, l := range n.layers[1:] {
		for _, u := range l.fed {
			fn(u.Feeder())
		}
	}
}

// feederAt returns the feeder of unit ui in layer li.
func (n *Network) feederAt(li, ui int) (Feeder, error) {
	if !n.connected {
		return nil, ErrNotConnected
	}
	if err := checkIndex("layer", li, len(n.layers)); err != nil {
		return nil, err
	}
	if li == 0 {
		return nil, fmt.Errorf("%w: the input layer has no weights", ErrInvalidArgument)
	}
	l := n.layers[li]
	if err := checkIndex("unit", ui, l.Size()); err != nil {
		return nil, err
	}
	return l.fed[ui].Feeder(), nil
}

// Weight returns weight ib of unit ui in layer li. ib 0 is the bias.
func (n *Network) Weight(li, ui, ib int) (float64, error) {
	f, err := n.feederAt(li, ui)
	if err != nil {
		return 0, fmt.Errorf("Weight: %w", err)
	}
	return f.Beta(ib)
}

// SetWeight sets weight ib of unit ui in layer li.
func (n *Network) SetWeight(li, ui, ib int, b float64) error {
	f, err := n.feederAt(li, ui)
	if err != nil {
		return fmt.Errorf("SetWeight: %w", err)
	}
	return f.SetBeta(ib, b)
}

// NVariationalParameters returns the number of variational parameters.
func (n *Network) NVariationalParameters() int { return n.nvp }

// VariationalParameter returns variational parameter id.
func (n *Network) VariationalParameter(id int) (float64, error) {
	if err := checkIndex("variational parameter", id, n.nvp); err != nil {
		return 0, fmt.Errorf("VariationalParameter: %w", err)
	}
	for _, l := range n.layers[1:] {
		if vp, ok := l.variationalParameter(id); ok {
			return vp, nil
		}
	}
	panic(fmt.Sprintf("ffnn: variational parameter %d has no owner", id))
}

// SetVariationalParameter sets variational parameter id.
func (n *Network) SetVariationalParameter(id int, vp float64) error {
	if err := checkIndex("variational parameter", id, n.nvp); err != nil {
		return fmt.Errorf("SetVariationalParameter: %w", err)
	}
	for _, l := range n.layers[1:] {
		if l.setVariationalParameter(id, vp) {
			return nil
		}
	}
	panic(fmt.Sprintf("ffnn: variational parameter %d has no owner", id))
}

// VariationalParameters copies the variational parameters into dst, ordered
// by id. dst is reused if it has length NVariationalParameters.
func (n *Network) VariationalParameters(dst []float64) []float64 {
	if len(dst) != n.nvp {
		dst = make([]float64, n.nvp)
	}
	n.eachFeeder(func(f Feeder) {
		first := firstVariationalParameterIndex(f)
		for ib := 0; ib < f.NVariationalParameters(); ib++ {
			id := first + ib
			dst[id], _ = f.VariationalParameter(id)
		}
	})
	return dst
}

// SetVariationalParameters sets every variational parameter from src,
// ordered by id.
func (n *Network) SetVariationalParameters(src []float64) error {
	if len(src) != n.nvp {
		return fmt.Errorf("SetVariationalParameters: %w: got %d values, network has %d variational parameters",
			ErrInvalidArgument, len(src), n.nvp)
	}
	n.eachFeeder(func(f Feeder) {
		first := firstVariationalParameterIndex(f)
		for ib := 0; ib < f.NVariationalParameters(); ib++ {
			id := first + ib
			f.SetVariationalParameter(id, src[id])
		}
	})
	return nil
}

// firstVariationalParameterIndex returns the id of the first own parameter
// of f; meaningful only if f has own parameters.
func firstVariationalParameterIndex(f Feeder) int {
	return f.MaxVariationalParameterIndex() - f.NVariationalParameters() + 1
}
