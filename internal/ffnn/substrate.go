package ffnn

// DerivConfig selects which derivative substrates are materialized.
//
//   - D1:  first derivatives with respect to the network inputs
//   - D2:  second derivatives with respect to the network inputs (diagonal)
//   - VD1: first derivatives with respect to the variational parameters
//   - C1D: cross derivatives d/dx d/dβ
//   - C2D: cross derivatives d²/dx² d/dβ
type DerivConfig struct {
	D1  bool
	D2  bool
	VD1 bool
	C1D bool
	C2D bool
}

// withPrerequisites returns c extended by every substrate the enabled ones
// need for their own computation.
func (c DerivConfig) withPrerequisites() DerivConfig {
	if c.C2D {
		c.D2 = true
		c.C1D = true
	}
	if c.C1D {
		c.D1 = true
		c.VD1 = true
	}
	if c.D2 {
		c.D1 = true
	}
	return c
}

// withoutOrphans drops substrates whose prerequisites are disabled.
func (c DerivConfig) withoutOrphans() DerivConfig {
	if !c.D1 {
		c.D2 = false
		c.C1D = false
	}
	if !c.VD1 {
		c.C1D = false
	}
	if !c.D2 || !c.C1D {
		c.C2D = false
	}
	return c
}

func (c DerivConfig) or(o DerivConfig) DerivConfig {
	return DerivConfig{
		D1:  c.D1 || o.D1,
		D2:  c.D2 || o.D2,
		VD1: c.VD1 || o.VD1,
		C1D: c.C1D || o.C1D,
		C2D: c.C2D || o.C2D,
	}
}

func (c DerivConfig) andNot(o DerivConfig) DerivConfig {
	return DerivConfig{
		D1:  c.D1 && !o.D1,
		D2:  c.D2 && !o.D2,
		VD1: c.VD1 && !o.VD1,
		C1D: c.C1D && !o.C1D,
		C2D: c.C2D && !o.C2D,
	}
}
