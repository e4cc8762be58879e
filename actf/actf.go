// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package actf

import (
	"github.com/born-ml/ffnn/internal/actf"
)

// Function is an activation function with exact derivatives.
type Function = actf.Function

// Fused is implemented by activations that evaluate several derivative
// orders in one call.
type Fused = actf.Fused

// Built-in activation types.
type (
	Identity    = actf.Identity
	Logistic    = actf.Logistic
	Gaussian    = actf.Gaussian
	TanSigmoid  = actf.TanSigmoid
	Sine        = actf.Sine
	ReLU        = actf.ReLU
	SELUnit     = actf.SELUnit
	SmoothReLU  = actf.SmoothReLU
	Exponential = actf.Exponential
)

// Built-in activations.
var (
	ID   = actf.ID
	LGS  = actf.LGS
	GSS  = actf.GSS
	TANS = actf.TANS
	SIN  = actf.SIN
	RELU = actf.RELU
	SELU = actf.SELU
	SRLU = actf.SRLU
	EXP  = actf.EXP
)

// Registry errors.
var (
	ErrNotFound    = actf.ErrNotFound
	ErrExists      = actf.ErrExists
	ErrInvalidCode = actf.ErrInvalidCode
)

// Lookup returns the activation registered under code.
func Lookup(code string) (Function, error) {
	return actf.Lookup(code)
}

// Register makes fn available under fn.IDCode().
func Register(fn Function) error {
	return actf.Register(fn)
}

// MustRegister is like Register but panics on error.
func MustRegister(fn Function) {
	actf.MustRegister(fn)
}

// Codes returns the registered codes in sorted order.
func Codes() []string {
	return actf.Codes()
}

// Eval returns f(x) and, if requested, the first and second derivatives.
func Eval(fn Function, x float64, flagD1, flagD2 bool) (v, v1d, v2d float64) {
	return actf.Eval(fn, x, flagD1, flagD2)
}

// EvalAll is Eval extended to the third derivative.
func EvalAll(fn Function, x float64, flagD1, flagD2, flagD3 bool) (v, v1d, v2d, v3d float64) {
	return actf.EvalAll(fn, x, flagD1, flagD2, flagD3)
}
