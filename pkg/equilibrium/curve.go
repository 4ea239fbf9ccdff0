// Package equilibrium provides vapor-liquid equilibrium relations for binary
// mixtures: functions mapping the liquid mole fraction of the light component
// to the vapor mole fraction in equilibrium with it.
//
// The column model treats a [Curve] as an opaque, pure function defined and
// continuous on [0, 1]. This package offers three ways to build one:
//
//   - [ConstantAlpha]: ideal mixture with constant relative volatility
//   - [NewTable]: measured x-y data, linearly interpolated
//   - [Compile]: an arbitrary expression in x, e.g. "2.8*x/(1+1.8*x)"
//
// [Spec] is the serialisable description used by config files and the API.
package equilibrium

import (
	"math"

	"github.com/matzehuels/mccabe/pkg/errors"
)

// Curve maps a liquid mole fraction x to the equilibrium vapor mole fraction y.
type Curve func(x float64) float64

// Sample evaluates the curve at every point of xs.
func (c Curve) Sample(xs []float64) []float64 {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = c(x)
	}
	return ys
}

// ConstantAlpha returns the ideal-mixture curve y = αx / (1 + (α-1)x).
func ConstantAlpha(alpha float64) Curve {
	return func(x float64) float64 {
		return alpha * x / (1 + (alpha-1)*x)
	}
}

// Volatility returns the relative volatility α(x) = (y/x) / ((1-y)/(1-x)).
// It is undefined at the endpoints and returns ±Inf or NaN there.
func Volatility(c Curve, x float64) float64 {
	y := c(x)
	return (y / x) / ((1 - y) / (1 - x))
}

// validationPoints are the compositions every built curve must evaluate
// cleanly at.
var validationPoints = []float64{0, 0.05, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 1}

// Validate checks that c is finite and stays inside the unit interval over
// [0, 1]. A small tolerance absorbs rounding in user expressions.
func Validate(c Curve) error {
	if c == nil {
		return errors.New(errors.ErrCodeInvalidEquilibrium, "equilibrium curve is nil")
	}
	const slack = 1e-9
	for _, x := range validationPoints {
		y := c(x)
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return errors.New(errors.ErrCodeInvalidEquilibrium, "equilibrium curve is not finite at x=%g", x)
		}
		if y < -slack || y > 1+slack {
			return errors.New(errors.ErrCodeInvalidEquilibrium, "equilibrium curve leaves [0, 1] at x=%g (y=%g)", x, y)
		}
	}
	return nil
}
