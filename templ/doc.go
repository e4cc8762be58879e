// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package templ provides a fixed-shape feed-forward network engine.
//
// All sizes and the derivative orders that may be computed are fixed by
// Config when the network is built. It computes values, first and diagonal
// second input derivatives and the full parameter gradient, and agrees with
// package ffnn for an equivalent architecture and identical weights.
//
// # Basic Usage
//
//	net, err := templ.New(templ.Config{
//	    NInput: 4,
//	    Layers: []templ.LayerConfig{
//	        {NOut: 9, Actf: actf.LGS},
//	        {NOut: 1, Actf: actf.ID},
//	    },
//	    Deriv: templ.All,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = net.SetBetas(betas)
//	_ = net.Propagate(x, templ.All)
//	y, grad := net.Output(), net.VD1()
package templ
