// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ffnn

import (
	"github.com/born-ml/ffnn/internal/ffnn"
	"github.com/born-ml/ffnn/internal/parallel"
)

// Network is a feed-forward neural network with derivative substrates.
type Network = ffnn.Network

// Layer is an ordered set of units.
type Layer = ffnn.Layer

// Unit is a network node.
type Unit = ffnn.Unit

// InputUnit carries one network input.
type InputUnit = ffnn.InputUnit

// NNUnit is a neural unit: activation applied to a weighted sum.
type NNUnit = ffnn.NNUnit

// Feeder computes the input of a unit from its sources.
type Feeder = ffnn.Feeder

// DerivConfig selects derivative substrates.
type DerivConfig = ffnn.DerivConfig

// IndexError reports an out-of-range index.
type IndexError = ffnn.IndexError

// ParallelConfig controls batch evaluation.
type ParallelConfig = parallel.Config

// Errors.
var (
	ErrInvalidArgument  = ffnn.ErrInvalidArgument
	ErrNotConnected     = ffnn.ErrNotConnected
	ErrConnected        = ffnn.ErrConnected
	ErrMissingSubstrate = ffnn.ErrMissingSubstrate
	ErrInputSize        = ffnn.ErrInputSize
)

// NewNetwork creates a disconnected network with one hidden layer.
//
// Example:
//
//	net, err := ffnn.NewNetwork(2, 8, 1)
//	net.PushHiddenLayer(4)
//	net.Connect()
func NewNetwork(nInput, hiddenSize, nOutput int) (*Network, error) {
	return ffnn.NewNetwork(nInput, hiddenSize, nOutput)
}

// NewNNFeeder creates a weighted-sum feeder over sources.
func NewNNFeeder(sources []Unit) Feeder {
	return ffnn.NewNNFeeder(sources)
}

// XavierBound returns sqrt(6 / (fanIn + fanOut)).
func XavierBound(fanIn, fanOut int) float64 {
	return ffnn.XavierBound(fanIn, fanOut)
}

// DefaultParallelConfig returns a batch configuration based on CPU count.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}

// EvaluateBatch evaluates net on every input in parallel and returns the
// outputs in input order. net is not modified.
func EvaluateBatch(net *Network, inputs [][]float64, cfg ParallelConfig) ([][]float64, error) {
	return ffnn.EvaluateBatch(net, inputs, cfg)
}
