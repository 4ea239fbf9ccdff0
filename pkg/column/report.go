package column

import (
	"fmt"
	"math"
	"strings"
)

// Report is the solved summary of a column: every derived quantity plus the
// outcome of each sub-calculation. Failed sub-calculations leave their value
// at zero and set the matching *Error field.
type Report struct {
	Name string  `json:"name,omitempty" bson:"name,omitempty"`
	Feed float64 `json:"feed" bson:"feed"`
	B    float64 `json:"bottoms" bson:"bottoms"`
	D    float64 `json:"distillate" bson:"distillate"`
	XB   float64 `json:"x_b" bson:"x_b"`
	XF   float64 `json:"x_f" bson:"x_f"`
	XD   float64 `json:"x_d" bson:"x_d"`
	Q    float64 `json:"q" bson:"q"`
	R    float64 `json:"r" bson:"r"`

	XMid  float64 `json:"x_mid" bson:"x_mid"`
	YMid  float64 `json:"y_mid" bson:"y_mid"`
	Upper Line    `json:"upper_line" bson:"upper_line"`
	Lower Line    `json:"lower_line" bson:"lower_line"`
	Flows Flows   `json:"flows" bson:"flows"`

	Trays     int        `json:"trays" bson:"trays"`
	Converged bool       `json:"converged" bson:"converged"`
	Stop      StopReason `json:"stop" bson:"stop"`
	FeedStage int        `json:"feed_stage" bson:"feed_stage"`

	RMin      float64 `json:"r_min" bson:"r_min"`
	RMinError string  `json:"r_min_error,omitempty" bson:"r_min_error,omitempty"`

	NMin         float64 `json:"n_min" bson:"n_min"`
	AverageAlpha float64 `json:"average_alpha" bson:"average_alpha"`
	FenskeError  string  `json:"fenske_error,omitempty" bson:"fenske_error,omitempty"`

	Azeotrope      float64 `json:"azeotrope" bson:"azeotrope"`
	AzeotropeFound bool    `json:"azeotrope_found" bson:"azeotrope_found"`
	AzeotropeError string  `json:"azeotrope_error,omitempty" bson:"azeotrope_error,omitempty"`
}

// Feasible reports whether stepping reached the distillate within the cap.
func (r Report) Feasible() bool { return r.Converged }

// Solve steps the column and collects every derived quantity into a Report.
func (c *Column) Solve() Report {
	st := c.Step()
	return c.report(st)
}

// ReportFor builds the report for a stepping result already computed with
// [Column.Step], avoiding a second stepping pass.
func (c *Column) ReportFor(st Stepping) Report {
	return c.report(st)
}

func (c *Column) report(st Stepping) Report {
	d := c.design
	r := Report{
		Name: d.Name,
		Feed: d.Feed,
		B:    c.b,
		D:    c.d,
		XB:   d.XB,
		XF:   d.XF,
		XD:   d.XD,
		Q:    d.Q,
		R:    d.R,

		XMid:  c.xMid,
		YMid:  c.yMid,
		Upper: c.upper,
		Lower: c.lower,
		Flows: c.flows,

		Trays:     st.Trays,
		Converged: st.Converged,
		Stop:      st.Stop,
		FeedStage: st.FeedStage,

		Azeotrope:      c.azeo.X,
		AzeotropeFound: c.azeo.Found,
	}

	if c.pinch.Err != nil {
		r.RMinError = c.pinch.Err.Error()
	} else {
		r.RMin = c.pinch.R
	}

	est, err := c.FenskeDefault()
	r.AverageAlpha = finiteOrZero(est.AverageAlpha)
	if err != nil {
		r.FenskeError = err.Error()
	} else {
		r.NMin = est.NMin
	}

	if c.azeo.Err != nil {
		r.AzeotropeError = c.azeo.Err.Error()
	}
	return r
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// String renders the textual summary with three decimals.
func (r Report) String() string {
	var sb strings.Builder
	if r.Name != "" {
		sb.WriteString(r.Name)
		sb.WriteByte('\n')
	}
	sb.WriteString(strings.Repeat("-", 27))
	sb.WriteByte('\n')

	row := func(label, value string) {
		fmt.Fprintf(&sb, "%-12s%s\n", label, value)
	}
	num := func(v float64) string { return fmt.Sprintf("%.3f", v) }
	withErr := func(v float64, msg string) string {
		if msg != "" {
			return "n/a (" + msg + ")"
		}
		return num(v)
	}

	row("feed", num(r.Feed))
	row("bottom", num(r.B))
	row("top", num(r.D))
	row("xB", num(r.XB))
	row("xD", num(r.XD))
	row("xF", num(r.XF))
	row("q", num(r.Q))
	row("R", num(r.R))
	sb.WriteByte('\n')

	trays := fmt.Sprintf("%d", r.Trays)
	switch r.Stop {
	case StopStageCap:
		trays += fmt.Sprintf(" (stage cap %d reached)", MaxStages)
	case StopCurve:
		trays += " (stopped: equilibrium curve not finite)"
	}
	row("NO. trays", trays)
	row("min RR", withErr(r.RMin, r.RMinError))
	row("min. trays", withErr(r.NMin, r.FenskeError))
	sb.WriteByte('\n')
	row("ave. alpha", num(r.AverageAlpha))
	row("azeotrope", withErr(r.Azeotrope, r.AzeotropeError))
	return sb.String()
}
