package column

import (
	"fmt"
	"math"
)

// MaxStages caps tray stepping. Reaching it means the design is infeasible at
// the chosen reflux ratio.
const MaxStages = 100

// Point is a position on the x-y diagram.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SegmentKind distinguishes the two moves of a stage.
type SegmentKind int

const (
	// Vertical moves from the operating line up to the equilibrium curve.
	Vertical SegmentKind = iota
	// Horizontal moves from the equilibrium curve back to the operating line.
	Horizontal
)

func (k SegmentKind) String() string {
	if k == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// MarshalText encodes the kind by name.
func (k SegmentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind written by MarshalText.
func (k *SegmentKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "vertical":
		*k = Vertical
	case "horizontal":
		*k = Horizontal
	default:
		return fmt.Errorf("unknown segment kind %q", text)
	}
	return nil
}

// Segment is one drawn move of the stepping construction.
type Segment struct {
	From  Point       `json:"from"`
	To    Point       `json:"to"`
	Kind  SegmentKind `json:"kind"`
	Stage int         `json:"stage"`
}

// StopReason records why stepping ended.
type StopReason int

const (
	// StopDistillate means stepping reached x_D.
	StopDistillate StopReason = iota
	// StopStageCap means MaxStages stages were drawn without reaching x_D.
	StopStageCap
	// StopCurve means the equilibrium curve returned NaN or ±Inf.
	StopCurve
)

var stopReasonNames = [...]string{"distillate", "stage_cap", "curve"}

func (r StopReason) String() string {
	if int(r) < len(stopReasonNames) {
		return stopReasonNames[r]
	}
	return fmt.Sprintf("StopReason(%d)", int(r))
}

// MarshalText encodes the reason by name.
func (r StopReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a reason written by MarshalText.
func (r *StopReason) UnmarshalText(text []byte) error {
	for i, name := range stopReasonNames {
		if name == string(text) {
			*r = StopReason(i)
			return nil
		}
	}
	return fmt.Errorf("unknown stop reason %q", text)
}

// pinchTolerance is the relative margin above R_min inside which the
// operating lines are treated as touching the curve.
const pinchTolerance = 1e-9

// Stepping is the outcome of [Column.Step].
type Stepping struct {
	// Trays is the stage count. The first completed stage counts as zero,
	// so a cap exhaustion reports MaxStages.
	Trays int
	// Converged is false when stepping stopped before reaching x_D.
	Converged bool
	// Stop says why stepping ended.
	Stop StopReason
	// FeedStage is the stage on which stepping switched to the rectifying
	// line, or -1 if it never did.
	FeedStage int
	// Segments are the vertical and horizontal moves in drawing order.
	Segments []Segment
}

// Step performs the McCabe-Thiele stage construction from x_B to x_D.
// It does not modify the column; repeated calls return identical results.
//
// At or below the minimum reflux ratio the steps are not allowed past the
// pinch, so the construction runs into the stage cap instead of creeping
// across the pinch through rounding.
func (c *Column) Step() Stepping {
	xd := c.design.XD
	limit := xd
	if c.pinched() {
		limit = c.pinch.X
	}

	x := c.design.XB
	active := c.lower
	switched := false
	n := -1
	out := Stepping{FeedStage: -1, Segments: make([]Segment, 0, 16)}

	for x < xd && n < MaxStages {
		y := c.curve(x)
		if math.IsNaN(y) || math.IsInf(y, 0) {
			out.Stop = StopCurve
			break
		}
		stage := n + 1
		out.Segments = append(out.Segments, Segment{
			From:  Point{X: x, Y: active.At(x)},
			To:    Point{X: x, Y: y},
			Kind:  Vertical,
			Stage: stage,
		})

		if !switched && active.Invert(y) > c.xMid {
			active = c.upper
			switched = true
			out.FeedStage = stage
		}

		target := active.Invert(y)
		if target > xd {
			target = y
		}
		if target > limit {
			target = limit
		}
		out.Segments = append(out.Segments, Segment{
			From:  Point{X: x, Y: y},
			To:    Point{X: target, Y: y},
			Kind:  Horizontal,
			Stage: stage,
		})

		n++
		x = target
	}

	out.Trays = n
	out.Converged = x >= xd && n < MaxStages
	if !out.Converged && out.Stop != StopCurve {
		out.Stop = StopStageCap
	}
	return out
}

// pinched reports whether R is at or below a usable R_min whose pinch lies
// strictly between x_B and x_D.
func (c *Column) pinched() bool {
	p := c.pinch
	if !p.OK() || !(p.X > c.design.XB && p.X < c.design.XD) {
		return false
	}
	return c.design.R <= p.R*(1+pinchTolerance)
}
