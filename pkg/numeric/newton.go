package numeric

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
)

// ErrNotConverged is returned when the solver exhausts its iteration budget,
// hits a flat derivative, or produces a non-finite iterate.
var ErrNotConverged = errors.New("root finder did not converge")

// Options controls the Newton iteration.
type Options struct {
	// Tol is the absolute residual and relative step tolerance.
	Tol float64
	// MaxIter caps the number of Newton steps.
	MaxIter int
}

// DefaultOptions returns the tolerances used by the column model.
func DefaultOptions() Options {
	return Options{Tol: 1e-10, MaxIter: 100}
}

// Root is the outcome of a converged solve.
type Root struct {
	X          float64 // root location
	Residual   float64 // |f(X)|
	Iterations int     // Newton steps taken
}

// Newton solves f(x) = 0 from the initial guess x0 using a central
// finite-difference derivative.
//
// Convergence is declared when |f(x)| <= Tol or when the step is smaller than
// Tol*(1+|x|). The returned error wraps [ErrNotConverged]; the partial Root is
// still returned so callers can log the last iterate.
func Newton(f func(float64) float64, x0 float64, opts Options) (Root, error) {
	if opts.Tol <= 0 {
		opts.Tol = DefaultOptions().Tol
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = DefaultOptions().MaxIter
	}

	x := x0
	for iter := 0; iter < opts.MaxIter; iter++ {
		fx := f(x)
		if !finite(fx) {
			return Root{X: x, Residual: math.Abs(fx), Iterations: iter}, fmt.Errorf("%w: f(%g) is not finite", ErrNotConverged, x)
		}
		if math.Abs(fx) <= opts.Tol {
			return Root{X: x, Residual: math.Abs(fx), Iterations: iter}, nil
		}

		h := 1e-6 * (1 + math.Abs(x))
		df := fd.Derivative(f, x, &fd.Settings{Formula: fd.Central, Step: h})
		if df == 0 || !finite(df) {
			return Root{X: x, Residual: math.Abs(fx), Iterations: iter}, fmt.Errorf("%w: derivative is zero or invalid at %g", ErrNotConverged, x)
		}

		dx := -fx / df
		next := x + dx
		if !finite(next) {
			return Root{X: x, Residual: math.Abs(fx), Iterations: iter}, fmt.Errorf("%w: step diverged at %g", ErrNotConverged, x)
		}
		if math.Abs(dx) <= opts.Tol*(1+math.Abs(x)) {
			return Root{X: next, Residual: math.Abs(f(next)), Iterations: iter + 1}, nil
		}
		x = next
	}
	return Root{X: x, Residual: math.Abs(f(x)), Iterations: opts.MaxIter}, fmt.Errorf("%w after %d iterations", ErrNotConverged, opts.MaxIter)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
