package numeric_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mccabe/pkg/numeric"
)

// TestNewton_Sqrt2 solves x^2 - 2 = 0 from 1.
func TestNewton_Sqrt2(t *testing.T) {
	root, err := numeric.Newton(func(x float64) float64 { return x*x - 2 }, 1, numeric.DefaultOptions())
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, root.X, 1e-9)
	assert.Greater(t, root.Iterations, 0, "a non-trivial solve takes at least one step")
}

// TestNewton_AlreadyAtRoot returns immediately when the guess is a root.
func TestNewton_AlreadyAtRoot(t *testing.T) {
	root, err := numeric.Newton(func(x float64) float64 { return x - 0.6 }, 0.6, numeric.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0.6, root.X)
	assert.Equal(t, 0, root.Iterations)
}

// TestNewton_FlatDerivative reports non-convergence on a constant function.
func TestNewton_FlatDerivative(t *testing.T) {
	_, err := numeric.Newton(func(float64) float64 { return 1 }, 0.5, numeric.DefaultOptions())
	assert.True(t, errors.Is(err, numeric.ErrNotConverged), "constant function has no root")
}

// TestNewton_NonFinite stops on NaN residuals instead of iterating on garbage.
func TestNewton_NonFinite(t *testing.T) {
	_, err := numeric.Newton(func(x float64) float64 { return math.Log(x) }, -1, numeric.DefaultOptions())
	assert.ErrorIs(t, err, numeric.ErrNotConverged)
}

// TestNewton_IterationCap honours MaxIter.
func TestNewton_IterationCap(t *testing.T) {
	// x^2 + 1 has no real root; Newton wanders until the cap.
	root, err := numeric.Newton(func(x float64) float64 { return x*x + 1 }, 0.5, numeric.Options{Tol: 1e-12, MaxIter: 5})
	assert.ErrorIs(t, err, numeric.ErrNotConverged)
	assert.LessOrEqual(t, root.Iterations, 5)
}

// TestNewton_DefaultsFilled treats zero options as defaults.
func TestNewton_DefaultsFilled(t *testing.T) {
	root, err := numeric.Newton(func(x float64) float64 { return 3*x - 1 }, 0, numeric.Options{})
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, root.X, 1e-9)
}

func TestLinspace(t *testing.T) {
	assert.Nil(t, numeric.Linspace(0, 1, 0, true))
	assert.Equal(t, []float64{0.25}, numeric.Linspace(0.25, 1, 1, true))

	with := numeric.Linspace(0, 1, 5, true)
	assert.InDeltaSlice(t, []float64{0, 0.25, 0.5, 0.75, 1}, with, 1e-12)

	without := numeric.Linspace(0, 1, 4, false)
	assert.InDeltaSlice(t, []float64{0, 0.25, 0.5, 0.75}, without, 1e-12)
}

func TestTrapezoid(t *testing.T) {
	xs := numeric.Linspace(0, 1, 101, true)
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = 2 * x
	}
	assert.InDelta(t, 1.0, numeric.Trapezoid(xs, ys), 1e-12, "linear integrands are exact")

	assert.True(t, math.IsNaN(numeric.Trapezoid([]float64{0}, []float64{1})), "single sample")
	assert.True(t, math.IsNaN(numeric.Trapezoid([]float64{0, 1}, []float64{1})), "length mismatch")
	assert.True(t, math.IsNaN(numeric.Trapezoid([]float64{1, 0}, []float64{1, 1})), "unsorted grid")
}
