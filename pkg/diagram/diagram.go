// Package diagram samples a solved column into the drawable pieces of a
// McCabe-Thiele diagram: operating lines, q-line, equilibrium curve,
// diagonal, composition markers and the stepped stages.
//
// The result is plain data on the unit square (liquid fraction on x, vapor
// fraction on y). Turning it into pixels is the job of the render sinks.
package diagram

import (
	"github.com/matzehuels/mccabe/pkg/column"
	"github.com/matzehuels/mccabe/pkg/numeric"
)

// DefaultSamples is the number of points used per sampled curve.
const DefaultSamples = 50

// Role identifies what a series depicts.
type Role string

const (
	RoleStripping   Role = "stripping"
	RoleRectifying  Role = "rectifying"
	RoleQLine       Role = "q-line"
	RoleEquilibrium Role = "equilibrium"
	RoleDiagonal    Role = "diagonal"
	RoleMarker      Role = "marker"
)

// Series is a polyline on the unit square.
type Series struct {
	Name string    `json:"name"`
	Role Role      `json:"role"`
	X    []float64 `json:"x"`
	Y    []float64 `json:"y"`
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.X) }

// Diagram is everything needed to draw one column.
type Diagram struct {
	Title string `json:"title,omitempty"`

	Stripping   Series   `json:"stripping"`
	Rectifying  Series   `json:"rectifying"`
	QLine       Series   `json:"q_line"`
	Equilibrium Series   `json:"equilibrium"`
	Diagonal    Series   `json:"diagonal"`
	Markers     []Series `json:"markers"`

	Steps     []column.Segment `json:"steps"`
	FeedPoint column.Point     `json:"feed_point"`
	Trays     int              `json:"trays"`
	Converged bool             `json:"converged"`
}

// Lines returns the three legend lines in legend order.
func (d Diagram) Lines() []Series {
	return []Series{d.Stripping, d.Rectifying, d.QLine}
}

// Option configures [Build].
type Option func(*builder)

type builder struct {
	samples int
	title   string
}

// WithSamples sets the number of points per sampled curve.
// Values below 2 are ignored.
func WithSamples(n int) Option {
	return func(b *builder) {
		if n >= 2 {
			b.samples = n
		}
	}
}

// WithTitle overrides the diagram title, which defaults to the design name.
func WithTitle(title string) Option {
	return func(b *builder) { b.title = title }
}

// Build samples the column and attaches the stepping result.
func Build(c *column.Column, st column.Stepping, opts ...Option) Diagram {
	d := c.Design()
	b := builder{samples: DefaultSamples, title: d.Name}
	for _, opt := range opts {
		opt(&b)
	}

	fp := c.FeedPoint()
	n := b.samples

	lowerX := numeric.Linspace(d.XB, fp.X, n, true)
	upperX := numeric.Linspace(fp.X, d.XD, n, true)
	unitX := numeric.Linspace(0, 1, n, true)

	out := Diagram{
		Title: b.title,
		Stripping: Series{
			Name: "Stripping", Role: RoleStripping,
			X: lowerX, Y: c.Lower().Sample(lowerX),
		},
		Rectifying: Series{
			Name: "Rectifying", Role: RoleRectifying,
			X: upperX, Y: c.Upper().Sample(upperX),
		},
		QLine: Series{
			Name: "q-line", Role: RoleQLine,
			X: []float64{d.XF, fp.X}, Y: []float64{d.XF, fp.Y},
		},
		Equilibrium: Series{
			Name: "Equilibrium", Role: RoleEquilibrium,
			X: unitX, Y: c.Curve().Sample(unitX),
		},
		Diagonal: Series{
			Name: "y = x", Role: RoleDiagonal,
			X: []float64{0, 1}, Y: []float64{0, 1},
		},
		Markers: []Series{
			marker("x_B", d.XB),
			marker("x_D", d.XD),
			marker("x_F", d.XF),
		},
		Steps:     append([]column.Segment(nil), st.Segments...),
		FeedPoint: fp,
		Trays:     st.Trays,
		Converged: st.Converged,
	}
	return out
}

// marker is a vertical line from the x axis up to the diagonal.
func marker(name string, x float64) Series {
	return Series{Name: name, Role: RoleMarker, X: []float64{x, x}, Y: []float64{0, x}}
}
