package column

import (
	"math"

	"github.com/matzehuels/mccabe/pkg/equilibrium"
	"github.com/matzehuels/mccabe/pkg/errors"
)

// Design holds the physical inputs of a column.
type Design struct {
	// Name labels the system. It has no effect on the calculation.
	Name string `json:"name,omitempty" toml:"name" bson:"name,omitempty"`
	// Feed is the molar feed flow.
	Feed float64 `json:"feed" toml:"feed" bson:"feed"`
	// XB, XF and XD are the light-component liquid fractions of bottoms,
	// feed and distillate. They must satisfy 0 < XB < XF < XD < 1.
	XB float64 `json:"x_b" toml:"x_b" bson:"x_b"`
	XF float64 `json:"x_f" toml:"x_f" bson:"x_f"`
	XD float64 `json:"x_d" toml:"x_d" bson:"x_d"`
	// Q is the feed thermal condition; 1 is saturated liquid, 0 saturated vapor.
	Q float64 `json:"q" toml:"q" bson:"q"`
	// R is the reflux ratio. It is not required to exceed the minimum.
	R float64 `json:"r" toml:"r" bson:"r"`
}

// Validate checks the design inputs on their own, without the equilibrium
// curve or the derived feed intersection.
func (d Design) Validate() error {
	if err := errors.ValidateName(d.Name); err != nil {
		return errors.WithField(err, "name")
	}
	if err := errors.ValidatePositive("feed", d.Feed); err != nil {
		return errors.WithField(err, "feed")
	}
	for _, f := range []struct {
		name, field string
		v           float64
	}{{"x_B", "x_b", d.XB}, {"x_F", "x_f", d.XF}, {"x_D", "x_d", d.XD}} {
		if err := errors.ValidateFraction(f.name, f.v); err != nil {
			return errors.WithField(err, f.field)
		}
	}
	if err := errors.ValidateOrdered(d.XB, d.XF, d.XD); err != nil {
		field := "x_d"
		if !(d.XB < d.XF) {
			field = "x_b"
		}
		return errors.WithField(err, field)
	}
	if err := errors.ValidateFinite("q", d.Q); err != nil {
		return errors.WithField(err, "q")
	}
	return errors.WithField(errors.ValidatePositive("reflux ratio", d.R), "r")
}

// Flows are the internal molar flows above and below the feed stage.
type Flows struct {
	LUpper float64 `json:"l_upper"`
	VUpper float64 `json:"v_upper"`
	LLower float64 `json:"l_lower"`
	VLower float64 `json:"v_lower"`
}

// Column is a solved-at-construction binary distillation column. It is safe
// for concurrent use.
type Column struct {
	design Design
	curve  equilibrium.Curve

	d, b       float64
	xMid, yMid float64
	upper      Line
	lower      Line
	flows      Flows

	pinch Pinch
	azeo  Azeotrope
}

// New validates the design and derives mass balance, operating lines and
// internal flows. Minimum reflux and azeotrope detection run eagerly; their
// failures are recorded on [Pinch.Err] and [Azeotrope.Err] rather than
// returned.
func New(design Design, curve equilibrium.Curve) (*Column, error) {
	if err := design.Validate(); err != nil {
		return nil, err
	}
	if curve == nil {
		return nil, errors.New(errors.ErrCodeInvalidEquilibrium, "equilibrium curve is required")
	}

	c := &Column{design: design, curve: curve}

	feed, xb, xf, xd, q, r := design.Feed, design.XB, design.XF, design.XD, design.Q, design.R

	c.d = (xf - xb) / (xd - xb) * feed
	c.b = feed - c.d

	c.upper = Line{Slope: r / (r + 1), Intercept: xd / (r + 1)}

	if q == 1 {
		c.xMid = xf
	} else {
		denom := q/(q-1) - r/(r+1)
		if math.Abs(denom) < 1e-12 {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"q-line (q=%g) is parallel to the rectifying line at R=%g", q, r)
		}
		c.xMid = (xd/(r+1) + xf/(q-1)) / denom
	}
	if !(c.xMid > xb && c.xMid < xd) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"feed intersection x=%.4g lies outside (x_B, x_D); check q and R", c.xMid)
	}
	c.yMid = c.upper.At(c.xMid)

	a := (c.yMid - xb) / (c.xMid - xb)
	c.lower = Line{Slope: a, Intercept: (1 - a) * xb}

	c.flows = Flows{
		LUpper: r * c.d,
		VUpper: (r + 1) * c.d,
	}
	c.flows.LLower = c.flows.LUpper + q*feed
	c.flows.VLower = c.flows.VUpper - (1-q)*feed

	c.pinch = c.minReflux()
	c.azeo = c.detectAzeotrope()
	return c, nil
}

// WithReflux returns a new column with the same design and curve but reflux
// ratio r.
func (c *Column) WithReflux(r float64) (*Column, error) {
	d := c.design
	d.R = r
	return New(d, c.curve)
}

// Design returns the inputs the column was built from.
func (c *Column) Design() Design { return c.design }

// Curve returns the equilibrium relation.
func (c *Column) Curve() equilibrium.Curve { return c.curve }

// Distillate returns the distillate molar flow D.
func (c *Column) Distillate() float64 { return c.d }

// Bottoms returns the bottoms molar flow B.
func (c *Column) Bottoms() float64 { return c.b }

// FeedPoint returns the intersection of the q-line with the operating lines.
func (c *Column) FeedPoint() Point { return Point{X: c.xMid, Y: c.yMid} }

// Upper returns the rectifying operating line.
func (c *Column) Upper() Line { return c.upper }

// Lower returns the stripping operating line.
func (c *Column) Lower() Line { return c.lower }

// Flows returns the internal liquid and vapor flows.
func (c *Column) Flows() Flows { return c.flows }

// MinReflux returns the minimum reflux estimate computed at construction.
func (c *Column) MinReflux() Pinch { return c.pinch }

// Azeotrope returns the azeotrope check computed at construction.
func (c *Column) Azeotrope() Azeotrope { return c.azeo }
