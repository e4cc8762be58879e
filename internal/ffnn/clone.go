package ffnn

// Clone returns a deep copy of n: layer structure, activations, shift and
// scale of every unit, weights, variational assignment and enabled
// substrates. The copy shares no state with n.
func (n *Network) Clone() *Network {
	c := &Network{layers: make([]*Layer, len(n.layers))}
	for li, l := range n.layers {
		c.layers[li] = l.clone()
	}
	if n.connected {
		c.Connect()
		_ = c.SetBetas(n.Betas(nil))
		c.assignVariationalParameters(n.vpStartLayer)
	}
	c.AddSubstrates(n.dconf)
	return c
}

// clone copies units without their feeders.
func (l *Layer) clone() *Layer {
	c := &Layer{input: l.input, units: make([]Unit, len(l.units))}
	if !l.input {
		c.fed = make([]FedUnit, len(l.units))
	}
	for i, u := range l.units {
		switch u := u.(type) {
		case *InputUnit:
			cu := NewInputUnit(u.index)
			cu.x, cu.shift, cu.scale = u.x, u.shift, u.scale
			c.units[i] = cu
		case *NNUnit:
			cu := NewNNUnit(u.actf)
			cu.shift, cu.scale = u.shift, u.scale
			c.units[i] = cu
			c.fed[i] = cu
		default:
			panic("ffnn: cannot clone unit of unknown type")
		}
	}
	return c
}
