// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ffnn provides feed-forward neural networks with exact
// derivatives.
//
// # Overview
//
// A Network propagates, next to its output values, any combination of
//   - first derivatives with respect to the inputs (D1)
//   - diagonal second derivatives with respect to the inputs (D2)
//   - first derivatives with respect to the variational parameters (VD1)
//   - cross derivatives d/dx d/dβ (C1D) and d²/dx² d/dβ (C2D)
//
// Enabling an order also enables what it is computed from.
//
// # Basic Usage
//
//	net, err := ffnn.NewNetwork(4, 9, 1)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	net.OutputLayer().SetActivationFunction(actf.ID)
//	net.ConnectAndAddSubstrates(ffnn.DerivConfig{D1: true, D2: true, VD1: true})
//	_ = net.InitBetas(rand.New(rand.NewSource(1)))
//
//	out, err := net.Evaluate([]float64{0.1, 0.2, 0.3, 0.4})
//	grad, err := net.VariationalFirstDerivatives(0, nil)
//
// # Parameters
//
// Weights are addressed by a flat index, ordered layer by layer, unit by
// unit, [bias, w_1..w_n], or by (layer, unit, index). The variational
// parameters are the weights exposed to an optimizer; by default every
// weight is one, AssignVariationalParameters restricts them to the layers
// from a starting layer on.
//
// # Concurrency
//
// A Network is not safe for concurrent use. EvaluateBatch evaluates many
// inputs in parallel on clones.
package ffnn
