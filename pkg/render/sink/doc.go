// Package sink provides output format renderers for McCabe-Thiele diagrams.
//
// # Overview
//
// A "sink" transforms a sampled [diagram.Diagram] into a final output format:
//
//   - SVG: unit-square chart with axes, ticks, legend and stage steps
//   - JSON: diagram data (and optionally the solved report) for external tools
//   - PDF: print-ready output (requires rsvg-convert)
//   - PNG: raster image output (requires rsvg-convert)
//
// # SVG Options
//
//   - [WithSize]: Plot edge length in pixels (default 600)
//   - [WithStageLabels]: Number each stage next to its vertical step
//   - [WithoutLegend]: Omit the Stripping / Rectifying / q-line legend
//
// Basic usage:
//
//	d := diagram.Build(c, c.Step())
//	svg := sink.RenderSVG(d, sink.WithStageLabels())
//
// # PDF and PNG Output
//
// [RenderPDF] and [RenderPNG] render SVG first, then convert via
// [render.ToPDF] and [render.ToPNG]:
//
//	pdf, err := sink.RenderPDF(d, sink.WithPDFSVGOptions(sink.WithStageLabels()))
//	png, err := sink.RenderPNG(d, sink.WithScale(2))
//
// [diagram.Diagram]: github.com/matzehuels/mccabe/pkg/diagram.Diagram
// [render.ToPDF]: github.com/matzehuels/mccabe/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/mccabe/pkg/render.ToPNG
package sink
