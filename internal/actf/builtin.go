package actf

import (
	"math"
)

// Frequently used normalization constants.
const (
	sigmaUnitRange  = 0.577350269189626 // flat distribution on [-1, 1]
	sigmaThreeRange = 1.732050807568877 // flat distribution on [-3, 3]
	sigmaFiveRange  = 2.886751345948129 // flat distribution on [-5, 5]
	sigmaHalfRange  = 0.288675134594813 // flat distribution on [0, 1]
)

// Shared instances of the built-in activations.
var (
	ID   Function = Identity{}
	LGS  Function = Logistic{}
	GSS  Function = Gaussian{}
	TANS Function = TanSigmoid{}
	SIN  Function = Sine{}
	RELU Function = ReLU{}
	SELU Function = SELUnit{}
	SRLU Function = SmoothReLU{}
	EXP  Function = Exponential{}
)

// Identity is f(x) = x.
type Identity struct{}

func (Identity) IDCode() string           { return "id_" }
func (Identity) IdealInputMu() float64    { return 0 }
func (Identity) IdealInputSigma() float64 { return sigmaUnitRange }
func (Identity) OutputMu() float64        { return 0 }
func (Identity) OutputSigma() float64     { return sigmaUnitRange }
func (Identity) F(x float64) float64      { return x }
func (Identity) F1D(float64) float64      { return 1 }
func (Identity) F2D(float64) float64      { return 0 }
func (Identity) F3D(float64) float64      { return 0 }

// Logistic is the logistic sigmoid f(x) = 1 / (1 + exp(-x)).
//
// Useful input range is about [-5, 5], output lies in (0, 1).
type Logistic struct{}

func (Logistic) IDCode() string           { return "lgs" }
func (Logistic) IdealInputMu() float64    { return 0 }
func (Logistic) IdealInputSigma() float64 { return sigmaFiveRange }
func (Logistic) OutputMu() float64        { return 0.5 }
func (Logistic) OutputSigma() float64     { return sigmaHalfRange }

func (Logistic) F(x float64) float64 { return logistic(x) }

func (Logistic) F1D(x float64) float64 {
	s := logistic(x)
	return s * (1 - s)
}

func (Logistic) F2D(x float64) float64 {
	s := logistic(x)
	return s * (1 - s) * (1 - 2*s)
}

func (Logistic) F3D(x float64) float64 {
	s := logistic(x)
	return s * (1 - s) * (1 - 6*s + 6*s*s)
}

// FAD evaluates the sigmoid once and derives every requested order from it.
func (Logistic) FAD(x float64, flagD1, flagD2, flagD3 bool) (v, v1d, v2d, v3d float64) {
	v = logistic(x)
	if !flagD1 && !flagD2 && !flagD3 {
		return v, 0, 0, 0
	}
	ds := v * (1 - v)
	if flagD1 {
		v1d = ds
	}
	if flagD2 {
		v2d = ds * (1 - 2*v)
	}
	if flagD3 {
		v3d = ds * (1 - 6*v + 6*v*v)
	}
	return v, v1d, v2d, v3d
}

// Gaussian is the bump f(x) = exp(-x^2).
//
// Useful input range is about [-3, 3], output lies in (0, 1].
type Gaussian struct{}

func (Gaussian) IDCode() string           { return "gss" }
func (Gaussian) IdealInputMu() float64    { return 0 }
func (Gaussian) IdealInputSigma() float64 { return sigmaThreeRange }
func (Gaussian) OutputMu() float64        { return 0.5 }
func (Gaussian) OutputSigma() float64     { return sigmaHalfRange }

func (Gaussian) F(x float64) float64   { return math.Exp(-x * x) }
func (Gaussian) F1D(x float64) float64 { return -2 * x * math.Exp(-x*x) }
func (Gaussian) F2D(x float64) float64 { return (4*x*x - 2) * math.Exp(-x*x) }
func (Gaussian) F3D(x float64) float64 { return (12*x - 8*x*x*x) * math.Exp(-x*x) }

func (Gaussian) FAD(x float64, flagD1, flagD2, flagD3 bool) (v, v1d, v2d, v3d float64) {
	v = math.Exp(-x * x)
	if flagD1 {
		v1d = -2 * x * v
	}
	if flagD2 {
		v2d = (4*x*x - 2) * v
	}
	if flagD3 {
		v3d = (12*x - 8*x*x*x) * v
	}
	return v, v1d, v2d, v3d
}

// TanSigmoid is the hyperbolic tangent.
type TanSigmoid struct{}

func (TanSigmoid) IDCode() string           { return "tans" }
func (TanSigmoid) IdealInputMu() float64    { return 0 }
func (TanSigmoid) IdealInputSigma() float64 { return sigmaThreeRange }
func (TanSigmoid) OutputMu() float64        { return 0 }
func (TanSigmoid) OutputSigma() float64     { return sigmaUnitRange }

func (TanSigmoid) F(x float64) float64 { return math.Tanh(x) }

func (TanSigmoid) F1D(x float64) float64 {
	t := math.Tanh(x)
	return 1 - t*t
}

func (TanSigmoid) F2D(x float64) float64 {
	t := math.Tanh(x)
	return -2 * t * (1 - t*t)
}

func (TanSigmoid) F3D(x float64) float64 {
	t := math.Tanh(x)
	return (6*t*t - 2) * (1 - t*t)
}

func (TanSigmoid) FAD(x float64, flagD1, flagD2, flagD3 bool) (v, v1d, v2d, v3d float64) {
	v = math.Tanh(x)
	dt := 1 - v*v
	if flagD1 {
		v1d = dt
	}
	if flagD2 {
		v2d = -2 * v * dt
	}
	if flagD3 {
		v3d = (6*v*v - 2) * dt
	}
	return v, v1d, v2d, v3d
}

// Sine is f(x) = sin(x).
type Sine struct{}

func (Sine) IDCode() string           { return "sin" }
func (Sine) IdealInputMu() float64    { return 0 }
func (Sine) IdealInputSigma() float64 { return 0.906899682117109 } // flat on [-pi/2, pi/2]
func (Sine) OutputMu() float64        { return 0 }
func (Sine) OutputSigma() float64     { return sigmaUnitRange }
func (Sine) F(x float64) float64      { return math.Sin(x) }
func (Sine) F1D(x float64) float64    { return math.Cos(x) }
func (Sine) F2D(x float64) float64    { return -math.Sin(x) }
func (Sine) F3D(x float64) float64    { return -math.Cos(x) }

func (Sine) FAD(x float64, flagD1, flagD2, flagD3 bool) (v, v1d, v2d, v3d float64) {
	s, c := math.Sincos(x)
	v = s
	if flagD1 {
		v1d = c
	}
	if flagD2 {
		v2d = -s
	}
	if flagD3 {
		v3d = -c
	}
	return v, v1d, v2d, v3d
}

// ReLU is f(x) = max(0, x). The derivative at 0 is taken as 0.
type ReLU struct{}

func (ReLU) IDCode() string           { return "relu" }
func (ReLU) IdealInputMu() float64    { return 0 }
func (ReLU) IdealInputSigma() float64 { return sigmaUnitRange }
func (ReLU) OutputMu() float64        { return 0.5 }
func (ReLU) OutputSigma() float64     { return sigmaHalfRange }

func (ReLU) F(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

func (ReLU) F1D(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

func (ReLU) F2D(float64) float64 { return 0 }
func (ReLU) F3D(float64) float64 { return 0 }

// SELU constants from Klambauer et al., "Self-Normalizing Neural Networks".
const (
	seluAlpha  = 1.6732632423543772
	seluLambda = 1.0507009873554805
)

// SELUnit is the scaled exponential linear unit.
type SELUnit struct{}

func (SELUnit) IDCode() string           { return "selu" }
func (SELUnit) IdealInputMu() float64    { return 0 }
func (SELUnit) IdealInputSigma() float64 { return 1 }
func (SELUnit) OutputMu() float64        { return 0 }
func (SELUnit) OutputSigma() float64     { return 1 }

func (SELUnit) F(x float64) float64 {
	if x > 0 {
		return seluLambda * x
	}
	return seluLambda * seluAlpha * math.Expm1(x)
}

func (SELUnit) F1D(x float64) float64 {
	if x > 0 {
		return seluLambda
	}
	return seluLambda * seluAlpha * math.Exp(x)
}

func (SELUnit) F2D(x float64) float64 {
	if x > 0 {
		return 0
	}
	return seluLambda * seluAlpha * math.Exp(x)
}

func (SELUnit) F3D(x float64) float64 {
	if x > 0 {
		return 0
	}
	return seluLambda * seluAlpha * math.Exp(x)
}

// SmoothReLU is the softplus f(x) = ln(1 + exp(x)).
type SmoothReLU struct{}

func (SmoothReLU) IDCode() string           { return "srlu" }
func (SmoothReLU) IdealInputMu() float64    { return 0 }
func (SmoothReLU) IdealInputSigma() float64 { return sigmaFiveRange }
func (SmoothReLU) OutputMu() float64        { return 2.5 }
func (SmoothReLU) OutputSigma() float64     { return 1.443375672974064 }

func (SmoothReLU) F(x float64) float64 {
	if x > 0 {
		return x + math.Log1p(math.Exp(-x))
	}
	return math.Log1p(math.Exp(x))
}

func (SmoothReLU) F1D(x float64) float64 { return logistic(x) }

func (SmoothReLU) F2D(x float64) float64 {
	s := logistic(x)
	return s * (1 - s)
}

func (SmoothReLU) F3D(x float64) float64 {
	s := logistic(x)
	return s * (1 - s) * (1 - 2*s)
}

func (f SmoothReLU) FAD(x float64, flagD1, flagD2, flagD3 bool) (v, v1d, v2d, v3d float64) {
	v = f.F(x)
	if !flagD1 && !flagD2 && !flagD3 {
		return v, 0, 0, 0
	}
	s := logistic(x)
	ds := s * (1 - s)
	if flagD1 {
		v1d = s
	}
	if flagD2 {
		v2d = ds
	}
	if flagD3 {
		v3d = ds * (1 - 2*s)
	}
	return v, v1d, v2d, v3d
}

// Exponential is f(x) = exp(x).
type Exponential struct{}

func (Exponential) IDCode() string           { return "exp" }
func (Exponential) IdealInputMu() float64    { return 0 }
func (Exponential) IdealInputSigma() float64 { return sigmaUnitRange }
func (Exponential) OutputMu() float64        { return 1 }
func (Exponential) OutputSigma() float64     { return sigmaUnitRange }
func (Exponential) F(x float64) float64      { return math.Exp(x) }
func (Exponential) F1D(x float64) float64    { return math.Exp(x) }
func (Exponential) F2D(x float64) float64    { return math.Exp(x) }
func (Exponential) F3D(x float64) float64    { return math.Exp(x) }

// logistic is overflow-safe for large |x|.
func logistic(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}
