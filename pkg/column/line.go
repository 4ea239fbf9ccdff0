package column

// Line is an affine operating line y = Slope·x + Intercept.
type Line struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// At evaluates the line at liquid fraction x.
func (l Line) At(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// Invert returns the liquid fraction at which the line reaches vapor fraction y.
// A horizontal line yields ±Inf or NaN.
func (l Line) Invert(y float64) float64 {
	return (y - l.Intercept) / l.Slope
}

// Sample evaluates the line at every point of xs.
func (l Line) Sample(xs []float64) []float64 {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = l.At(x)
	}
	return ys
}
