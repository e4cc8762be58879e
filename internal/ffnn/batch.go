package ffnn

import (
	"fmt"

	"github.com/born-ml/ffnn/internal/parallel"
)

// EvaluateBatch evaluates net on every input and returns the outputs in
// input order. Inputs are split into chunks according to cfg; each chunk
// runs on its own clone of net, so net itself is left untouched.
func EvaluateBatch(net *Network, inputs [][]float64, cfg parallel.Config) ([][]float64, error) {
	if !net.IsConnected() {
		return nil, fmt.Errorf("EvaluateBatch: %w", ErrNotConnected)
	}
	for s, x := range inputs {
		if len(x) != net.NInput() {
			return nil, fmt.Errorf("EvaluateBatch: sample %d: %w: got %d values, network has %d inputs",
				s, ErrInputSize, len(x), net.NInput())
		}
	}

	outputs := make([][]float64, len(inputs))
	clones := make([]*Network, parallel.NumChunks(len(inputs), cfg))
	for c := range clones {
		clones[c] = net.Clone()
	}
	parallel.ForChunks(len(inputs), cfg, func(chunk, start, end int) {
		w := clones[chunk]
		for s := start; s < end; s++ {
			// Sizes were validated above and w is connected.
			_ = w.SetInput(inputs[s])
			_ = w.FFPropagate()
			outputs[s] = w.Outputs(nil)
		}
	})
	return outputs, nil
}
