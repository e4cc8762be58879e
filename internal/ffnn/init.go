package ffnn

import (
	"fmt"
	"math"
	"math/rand"
)

// XavierBound returns the Xavier (Glorot) uniform bound
// sqrt(6 / (fanIn + fanOut)).
func XavierBound(fanIn, fanOut int) float64 {
	return math.Sqrt(6.0 / float64(fanIn+fanOut))
}

// InitBetas draws every connection weight from the Xavier uniform
// distribution U(-b, b), with b computed from the sizes of the two layers it
// links, and sets every bias to zero.
//
// A nil rng uses the global math/rand source.
func (n *Network) InitBetas(rng *rand.Rand) error {
	if !n.connected {
		return fmt.Errorf("InitBetas: %w", ErrNotConnected)
	}
	//nolint:gosec // Using math/rand for weight initialization (not security-critical)
	uniform := rand.Float64
	if rng != nil {
		uniform = rng.Float64
	}
	for li := 1; li < len(n.layers); li++ {
		bound := XavierBound(n.layers[li-1].Size(), n.layers[li].Size())
		for _, u := range n.layers[li].fed {
			f := u.Feeder()
			_ = f.SetBeta(0, 0)
			for ib := 1; ib < f.NBeta(); ib++ {
				_ = f.SetBeta(ib, (uniform()*2.0-1.0)*bound)
			}
		}
	}
	return nil
}
