package ffnn

import (
	"fmt"
	"strings"
)

// String describes the layer structure, one layer per line, e.g.
//
//	layer 0: 4 input units
//	layer 1: 9 units [lgs], 45 betas
//	layer 2: 1 unit [id_], 10 betas
func (n *Network) String() string {
	var sb strings.Builder
	for li, l := range n.layers {
		if li > 0 {
			sb.WriteByte('\n')
		}
		if l.input {
			fmt.Fprintf(&sb, "layer %d: %d input %s", li, l.Size(), plural(l.Size(), "unit"))
			continue
		}
		fmt.Fprintf(&sb, "layer %d: %d %s [%s]", li, l.Size(), plural(l.Size(), "unit"), strings.Join(l.activationCodes(), " "))
		if n.connected {
			fmt.Fprintf(&sb, ", %d betas", l.nBeta())
		}
	}
	fmt.Fprintf(&sb, "\nsubstrates: %s", n.dconf)
	if n.connected {
		fmt.Fprintf(&sb, ", variational parameters: %d", n.nvp)
	}
	return sb.String()
}

// activationCodes returns the distinct activation codes in unit order.
func (l *Layer) activationCodes() []string {
	var codes []string
	seen := make(map[string]bool)
	for _, u := range l.units {
		nu, ok := u.(*NNUnit)
		if !ok {
			continue
		}
		code := nu.ActivationFunction().IDCode()
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	return codes
}

// String lists the enabled substrates, e.g. "d1 d2 vd1", or "none".
func (c DerivConfig) String() string {
	var names []string
	for _, s := range []struct {
		on   bool
		name string
	}{{c.D1, "d1"}, {c.D2, "d2"}, {c.VD1, "vd1"}, {c.C1D, "c1"}, {c.C2D, "c2"}} {
		if s.on {
			names = append(names, s.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, " ")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
