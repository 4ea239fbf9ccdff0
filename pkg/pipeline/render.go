package pipeline

import (
	"fmt"

	"github.com/matzehuels/mccabe/pkg/column"
	"github.com/matzehuels/mccabe/pkg/diagram"
	"github.com/matzehuels/mccabe/pkg/render/sink"
)

// BuildDiagram samples the column into plot data using the sample count and
// title from opts.
func BuildDiagram(c *column.Column, st column.Stepping, opts Options) diagram.Diagram {
	var dopts []diagram.Option
	if opts.Samples != 0 {
		dopts = append(dopts, diagram.WithSamples(opts.Samples))
	}
	if opts.Title != "" {
		dopts = append(dopts, diagram.WithTitle(opts.Title))
	}
	return diagram.Build(c, st, dopts...)
}

// Render generates output artifacts in the requested formats.
func Render(d diagram.Diagram, report column.Report, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(d, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(d, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(d, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = sink.RenderJSON(d, sink.WithJSONReport(report))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.Size > 0 {
		svgOpts = append(svgOpts, sink.WithSize(opts.Size))
	}
	if opts.StageLabels {
		svgOpts = append(svgOpts, sink.WithStageLabels())
	}
	if opts.HideLegend {
		svgOpts = append(svgOpts, sink.WithoutLegend())
	}
	return svgOpts
}
