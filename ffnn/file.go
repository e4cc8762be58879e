// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ffnn

import (
	"github.com/born-ml/ffnn/internal/serialization"
)

// FileHeader is the JSON description stored in a .ffnn file.
type FileHeader = serialization.Header

// Save writes net to path in .ffnn format: layer structure, activations,
// shift and scale of every unit, substrates, variational assignment and
// betas. Metadata may be nil.
//
// Example:
//
//	err := ffnn.Save("psi.ffnn", net, map[string]string{"system": "he"})
func Save(path string, net *Network, metadata map[string]string) error {
	return serialization.Save(path, net, metadata)
}

// Load reads a network saved by Save. Custom activation functions must be
// registered with actf.Register before loading.
func Load(path string) (*Network, *FileHeader, error) {
	return serialization.Load(path)
}
