package column

import (
	"math"

	"github.com/matzehuels/mccabe/pkg/errors"
	"github.com/matzehuels/mccabe/pkg/numeric"
)

// Pinch is the minimum reflux estimate. X and Y locate the pinch point where
// the q-line meets the equilibrium curve.
type Pinch struct {
	X   float64
	Y   float64
	R   float64
	Err error
}

// OK reports whether the estimate is usable.
func (p Pinch) OK() bool { return p.Err == nil }

func (c *Column) minReflux() Pinch {
	d := c.design
	var p Pinch

	if d.Q == 1 {
		p.X = d.XF
	} else {
		qline := func(x float64) float64 {
			return c.curve(x) - d.Q/(d.Q-1)*x + d.XF/(d.Q-1)
		}
		root, err := numeric.Newton(qline, d.XF, numeric.DefaultOptions())
		if err != nil {
			p.X = root.X
			p.Err = errors.Wrap(errors.ErrCodeNonConvergent, err, "minimum reflux: pinch point")
			return p
		}
		p.X = root.X
	}
	if !(p.X > 0 && p.X < 1) {
		p.Err = errors.New(errors.ErrCodeNonConvergent, "minimum reflux: pinch point x=%g outside (0, 1)", p.X)
		return p
	}

	p.Y = c.curve(p.X)
	k := (p.Y - d.XD) / (p.X - d.XD)
	p.R = k / (1 - k)
	if math.IsNaN(p.R) || math.IsInf(p.R, 0) || p.R < 0 {
		p.Err = errors.New(errors.ErrCodeNonConvergent, "minimum reflux: implausible R_min=%g at pinch x=%g", p.R, p.X)
	}
	return p
}
