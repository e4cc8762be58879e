// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package templ

import (
	"github.com/born-ml/ffnn/internal/templ"
)

// Network is a fixed-shape feed-forward network.
type Network = templ.Network

// Config describes a fixed-shape network.
type Config = templ.Config

// LayerConfig describes one non-input layer.
type LayerConfig = templ.LayerConfig

// DerivConfig selects derivative orders.
type DerivConfig = templ.DerivConfig

// All enables every derivative order.
var All = templ.All

// Errors.
var (
	ErrInvalidConfig   = templ.ErrInvalidConfig
	ErrInvalidArgument = templ.ErrInvalidArgument
	ErrInputSize       = templ.ErrInputSize
)

// New builds a network from cfg with all weights set to zero.
func New(cfg Config) (*Network, error) {
	return templ.New(cfg)
}
