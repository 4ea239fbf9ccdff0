package sink

import (
	"encoding/json"

	"github.com/matzehuels/mccabe/pkg/column"
	"github.com/matzehuels/mccabe/pkg/diagram"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	report *column.Report
}

// WithJSONReport embeds the solved report next to the diagram data.
func WithJSONReport(r column.Report) JSONOption {
	return func(j *jsonRenderer) { j.report = &r }
}

type jsonOutput struct {
	Diagram diagram.Diagram `json:"diagram"`
	Report  *column.Report  `json:"report,omitempty"`
}

// RenderJSON exports the diagram as a pretty-printed JSON document.
// Non-finite samples, which JSON cannot represent, are replaced by zero.
func RenderJSON(d diagram.Diagram, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	out := jsonOutput{Diagram: sanitize(d), Report: r.report}
	return json.MarshalIndent(out, "", "  ")
}

func sanitize(d diagram.Diagram) diagram.Diagram {
	clean := func(s diagram.Series) diagram.Series {
		s.X = cleanFloats(s.X)
		s.Y = cleanFloats(s.Y)
		return s
	}
	d.Stripping = clean(d.Stripping)
	d.Rectifying = clean(d.Rectifying)
	d.QLine = clean(d.QLine)
	d.Equilibrium = clean(d.Equilibrium)
	d.Diagonal = clean(d.Diagonal)
	markers := make([]diagram.Series, len(d.Markers))
	for i, m := range d.Markers {
		markers[i] = clean(m)
	}
	d.Markers = markers
	return d
}

func cleanFloats(vs []float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		if finite(v) {
			out[i] = v
		}
	}
	return out
}
