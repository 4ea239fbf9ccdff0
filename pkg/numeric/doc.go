// Package numeric provides the scalar numerical primitives the column model
// depends on: a Newton root finder, trapezoidal integration over sampled
// points and evenly spaced grids.
//
// The routines are thin, deterministic wrappers. Derivatives, grids and
// quadrature come from gonum; this package adds the convergence policy
// (tolerances, iteration caps, rejection of non-finite iterates) that the
// column calculations rely on to tell a real root from a spurious one.
//
// # Root finding
//
//	root, err := numeric.Newton(func(x float64) float64 { return x*x - 2 }, 1, numeric.DefaultOptions())
//	if errors.Is(err, numeric.ErrNotConverged) {
//	    // record a non-convergent result
//	}
//
// # Quadrature
//
//	xs := numeric.Linspace(1e-6, 1, 100, false)
//	area := numeric.Trapezoid(xs, ys)
package numeric
