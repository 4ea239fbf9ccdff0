// Package render converts rendered diagrams between output formats.
//
// The [sink] subpackage draws a [diagram.Diagram] as SVG or exports it as
// JSON. [ToPDF] and [ToPNG] convert any SVG to PDF or PNG using the external
// rsvg-convert tool (from librsvg):
//
//	svg := sink.RenderSVG(d)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [sink]: github.com/matzehuels/mccabe/pkg/render/sink
// [diagram.Diagram]: github.com/matzehuels/mccabe/pkg/diagram.Diagram
package render
