package numeric

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// Linspace returns n evenly spaced points over [lo, hi]. With endpoint false
// the grid matches numpy's linspace(lo, hi, n, endpoint=False): hi is
// excluded and the spacing is (hi-lo)/n.
func Linspace(lo, hi float64, n int, endpoint bool) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	if endpoint {
		return floats.Span(make([]float64, n), lo, hi)
	}
	return floats.Span(make([]float64, n+1), lo, hi)[:n]
}

// Trapezoid integrates the sampled function (x[i], y[i]) with the
// trapezoidal rule. x must be increasing. Fewer than two samples, mismatched
// lengths or an unsorted grid yield NaN rather than a panic.
func Trapezoid(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return math.NaN()
	}
	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			return math.NaN()
		}
	}
	return integrate.Trapezoidal(x, y)
}
