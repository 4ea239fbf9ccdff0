package sink

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/matzehuels/mccabe/pkg/column"
	"github.com/matzehuels/mccabe/pkg/diagram"
)

const (
	defaultSize = 600.0
	margin      = 60.0
	tickStep    = 0.1
)

var seriesStyle = map[diagram.Role]string{
	diagram.RoleStripping:   `stroke="#d62728" stroke-width="1.5"`,
	diagram.RoleRectifying:  `stroke="#c020c0" stroke-width="1.5"`,
	diagram.RoleQLine:       `stroke="#000" stroke-width="1.5"`,
	diagram.RoleEquilibrium: `stroke="#000" stroke-width="1"`,
	diagram.RoleDiagonal:    `stroke="#000" stroke-width="1" stroke-dasharray="6 4"`,
	diagram.RoleMarker:      `stroke="#1f4fd6" stroke-width="1" stroke-dasharray="6 4"`,
}

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	size        float64
	stageLabels bool
	legend      bool
}

func WithSize(px float64) SVGOption {
	return func(r *svgRenderer) {
		if px > 0 {
			r.size = px
		}
	}
}
func WithStageLabels() SVGOption { return func(r *svgRenderer) { r.stageLabels = true } }
func WithoutLegend() SVGOption   { return func(r *svgRenderer) { r.legend = false } }

func RenderSVG(d diagram.Diagram, opts ...SVGOption) []byte {
	r := svgRenderer{size: defaultSize, legend: true}
	for _, opt := range opts {
		opt(&r)
	}
	total := r.size + 2*margin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="sans-serif">`+"\n",
		total, total, total, total)
	fmt.Fprintf(&buf, `  <rect width="%.1f" height="%.1f" fill="#fff"/>`+"\n", total, total)

	if d.Title != "" {
		fmt.Fprintf(&buf, `  <text class="title" x="%.1f" y="%.1f" font-size="16" text-anchor="middle">%s</text>`+"\n",
			total/2, margin/2, html.EscapeString(d.Title))
	}

	r.renderAxes(&buf)

	buf.WriteString(`  <g class="curves" fill="none">` + "\n")
	for _, s := range []diagram.Series{d.Diagonal, d.Equilibrium} {
		r.renderSeries(&buf, s)
	}
	for _, s := range d.Markers {
		r.renderSeries(&buf, s)
	}
	for _, s := range d.Lines() {
		r.renderSeries(&buf, s)
	}
	buf.WriteString("  </g>\n")

	r.renderSteps(&buf, d.Steps)
	if r.legend {
		r.renderLegend(&buf, d.Lines())
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// px maps unit-square coordinates to pixels; y grows upwards.
func (r *svgRenderer) px(x, y float64) (float64, float64) {
	return margin + x*r.size, margin + (1-y)*r.size
}

func (r *svgRenderer) renderAxes(buf *bytes.Buffer) {
	x0, y0 := r.px(0, 0)
	x1, y1 := r.px(1, 1)

	buf.WriteString(`  <g class="axes" font-size="11">` + "\n")
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#000"/>`+"\n",
		x0, y1, r.size, r.size)

	ticks := int(math.Round(1 / tickStep))
	for i := 0; i <= ticks; i++ {
		v := float64(i) * tickStep
		label := fmt.Sprintf("%.1f", v)

		tx, _ := r.px(v, 0)
		fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#000"/>`+"\n", tx, y0, tx, y0+5)
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle">%s</text>`+"\n", tx, y0+18, label)

		_, ty := r.px(0, v)
		fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#000"/>`+"\n", x0-5, ty, x0, ty)
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="end" dominant-baseline="middle">%s</text>`+"\n", x0-8, ty, label)
	}

	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="13" text-anchor="middle">liquid mole-fraction</text>`+"\n",
		(x0+x1)/2, y0+40)
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="13" text-anchor="middle" transform="rotate(-90 %.1f %.1f)">vapour mole-fraction</text>`+"\n",
		x0-40, (y0+y1)/2, x0-40, (y0+y1)/2)
	buf.WriteString("  </g>\n")
}

func (r *svgRenderer) renderSeries(buf *bytes.Buffer, s diagram.Series) {
	pts := make([]string, 0, s.Len())
	for i := range s.X {
		if !finite(s.X[i]) || !finite(s.Y[i]) {
			continue
		}
		px, py := r.px(s.X[i], s.Y[i])
		pts = append(pts, fmt.Sprintf("%.2f,%.2f", px, py))
	}
	if len(pts) < 2 {
		return
	}
	fmt.Fprintf(buf, `    <polyline class="%s" points="%s" %s/>`+"\n", s.Role, strings.Join(pts, " "), seriesStyle[s.Role])
}

func (r *svgRenderer) renderSteps(buf *bytes.Buffer, steps []column.Segment) {
	if len(steps) == 0 {
		return
	}
	buf.WriteString(`  <g class="steps" stroke="#000" stroke-width="0.75">` + "\n")
	for _, s := range steps {
		if !finite(s.From.X) || !finite(s.From.Y) || !finite(s.To.X) || !finite(s.To.Y) {
			continue
		}
		x1, y1 := r.px(s.From.X, s.From.Y)
		x2, y2 := r.px(s.To.X, s.To.Y)
		fmt.Fprintf(buf, `    <line class="%s" data-stage="%d" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n",
			s.Kind, s.Stage, x1, y1, x2, y2)
	}
	buf.WriteString("  </g>\n")

	if !r.stageLabels {
		return
	}
	buf.WriteString(`  <g class="stage-labels" font-size="10">` + "\n")
	for _, s := range steps {
		if s.Kind != column.Vertical || !finite(s.From.Y) || !finite(s.To.Y) {
			continue
		}
		lx, ly := r.px(s.From.X+0.01, (s.From.Y+s.To.Y)/2)
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f">%d</text>`+"\n", lx, ly, s.Stage)
	}
	buf.WriteString("  </g>\n")
}

func (r *svgRenderer) renderLegend(buf *bytes.Buffer, lines []diagram.Series) {
	const rowH = 16.0
	x, y := r.px(0.03, 0.97)
	fmt.Fprintf(buf, `  <g class="legend" font-size="11">`+"\n")
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="110" height="%.1f" fill="#fff" stroke="#999"/>`+"\n",
		x, y, rowH*float64(len(lines))+8)
	for i, s := range lines {
		ly := y + 12 + rowH*float64(i)
		fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" %s/>`+"\n", x+6, ly, x+30, ly, seriesStyle[s.Role])
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" dominant-baseline="middle">%s</text>`+"\n", x+36, ly, html.EscapeString(s.Name))
	}
	buf.WriteString("  </g>\n")
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
