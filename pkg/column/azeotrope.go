package column

import (
	"github.com/matzehuels/mccabe/pkg/errors"
	"github.com/matzehuels/mccabe/pkg/numeric"
)

// NoAzeotrope is the composition reported when no azeotrope was found.
const NoAzeotrope = -1.0

// azeotropeMargin excludes fixed points this close to the pure components.
const azeotropeMargin = 1e-2

// Azeotrope is the result of the fixed-point search f(x) = x.
type Azeotrope struct {
	// X is the azeotrope composition, or NoAzeotrope.
	X     float64
	Found bool
	Err   error
}

func (c *Column) detectAzeotrope() Azeotrope {
	fixed := func(x float64) float64 { return c.curve(x) - x }
	root, err := numeric.Newton(fixed, 0.5, numeric.DefaultOptions())
	if err != nil {
		return Azeotrope{
			X:   NoAzeotrope,
			Err: errors.Wrap(errors.ErrCodeNonConvergent, err, "azeotrope search"),
		}
	}
	if root.X < azeotropeMargin || root.X > 1-azeotropeMargin {
		return Azeotrope{X: NoAzeotrope}
	}
	return Azeotrope{X: root.X, Found: true}
}
