// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package actf provides activation functions with exact analytic
// derivatives up to the third order.
//
// # Overview
//
// Every activation is identified by a short code:
//   - id_: identity
//   - lgs: logistic sigmoid
//   - gss: Gaussian bump exp(-x²)
//   - tans: hyperbolic tangent
//   - sin: sine
//   - relu: rectified linear unit
//   - selu: scaled exponential linear unit
//   - srlu: smooth ReLU (softplus)
//   - exp: exponential
//
// # Basic Usage
//
//	fn, err := actf.Lookup("tans")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	v, d1, d2 := actf.Eval(fn, 0.3, true, true)
//
// Custom activations implement Function and are made available by code
// with Register.
package actf
