package equilibrium

import (
	"sort"

	"github.com/matzehuels/mccabe/pkg/errors"
)

// NewTable builds a curve from tabulated equilibrium data by piecewise linear
// interpolation. xs must be strictly increasing; queries outside the table
// are clamped to the first or last value.
//
// The slices are copied, so later changes by the caller do not affect the curve.
func NewTable(xs, ys []float64) (Curve, error) {
	if len(xs) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidEquilibrium, "table needs at least 2 points, got %d", len(xs))
	}
	if len(xs) != len(ys) {
		return nil, errors.New(errors.ErrCodeInvalidEquilibrium, "table x and y lengths differ (%d vs %d)", len(xs), len(ys))
	}
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return nil, errors.New(errors.ErrCodeInvalidEquilibrium, "table x values must be strictly increasing (x[%d]=%g, x[%d]=%g)", i-1, xs[i-1], i, xs[i])
		}
	}

	tx := append([]float64(nil), xs...)
	ty := append([]float64(nil), ys...)
	last := len(tx) - 1

	return func(x float64) float64 {
		if x <= tx[0] {
			return ty[0]
		}
		if x >= tx[last] {
			return ty[last]
		}
		// tx[i-1] < x <= tx[i]
		i := sort.SearchFloat64s(tx, x)
		return lerp(x, tx[i-1], ty[i-1], tx[i], ty[i])
	}, nil
}

func lerp(x, x0, y0, x1, y1 float64) float64 {
	return y0 + (x-x0)*(y1-y0)/(x1-x0)
}
