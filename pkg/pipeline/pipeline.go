// Package pipeline provides the design pipeline shared by the CLI and API.
//
// This package implements the complete solve → diagram → render pipeline.
// By centralizing this logic, every entry point validates, caches and logs
// the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Solve: Build the equilibrium curve and column, step trays and collect
//     the [column.Report]
//  2. Diagram: Sample operating lines, q-line, equilibrium curve and steps
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON)
//
// Solved reports and rendered artifacts are cached under a hash of the
// normalized inputs.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Design:      column.Design{Feed: 1000, XB: 0.15, XF: 0.65, XD: 0.9, Q: 0.5, R: 1},
//	    Equilibrium: equilibrium.Spec{Alpha: 2.8},
//	    Formats:     []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Evaluate many reflux ratios concurrently:
//
//	points, err := runner.Sweep(ctx, opts, pipeline.RatioRange(rmin, 1.1, 3, 20))
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mccabe/pkg/cache"
	"github.com/matzehuels/mccabe/pkg/column"
	"github.com/matzehuels/mccabe/pkg/config"
	"github.com/matzehuels/mccabe/pkg/diagram"
	"github.com/matzehuels/mccabe/pkg/equilibrium"
	"github.com/matzehuels/mccabe/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultSamples is the number of points per sampled diagram curve.
	DefaultSamples = diagram.DefaultSamples

	// DefaultSize is the side of the square plot area in pixels.
	DefaultSize = 600.0

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0

	// MaxSamples bounds diagram resolution for API requests.
	MaxSamples = 10000
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the design pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Solve options
	Design      column.Design    `json:"design"`
	Equilibrium equilibrium.Spec `json:"equilibrium"`
	Refresh     bool             `json:"refresh,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Samples     int      `json:"samples,omitempty"`
	StageLabels bool     `json:"stage_labels,omitempty"`
	HideLegend  bool     `json:"hide_legend,omitempty"`
	Size        float64  `json:"size,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	Title       string   `json:"title,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// FromConfig converts a decoded design file into pipeline options.
func FromConfig(f *config.File) Options {
	return Options{
		Design:      f.Design,
		Equilibrium: f.Equilibrium,
		Formats:     append([]string(nil), f.Output.Formats...),
		Samples:     f.Output.Samples,
		StageLabels: f.Output.StageLabels,
		HideLegend:  f.Output.HideLegend,
		Size:        f.Output.Size,
		Scale:       f.Output.Scale,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Column is the constructed column.
	Column *column.Column

	// Report is the solved summary.
	Report column.Report

	// Diagram is the sampled plot data. It is zero when every artifact
	// came from cache.
	Diagram diagram.Diagram

	// InputHash identifies the design and equilibrium inputs.
	InputHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Trays      int
	Converged  bool
	SolveTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ReportHit bool // Whether the report came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, ValidFormats)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForSolve(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForSolve checks the design and equilibrium inputs.
func (o *Options) ValidateForSolve() error {
	if err := o.Design.Validate(); err != nil {
		return err
	}
	if o.Equilibrium.IsZero() {
		return errors.New(errors.ErrCodeInvalidEquilibrium, "equilibrium relation is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Samples == 0 {
		o.Samples = DefaultSamples
	}
	if o.Size == 0 {
		o.Size = DefaultSize
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Samples < 2 || o.Samples > MaxSamples {
		return errors.New(errors.ErrCodeInvalidInput, "samples must be between 2 and %d, got %d", MaxSamples, o.Samples)
	}
	if err := errors.ValidatePositive("size", o.Size); err != nil {
		return err
	}
	return errors.ValidatePositive("scale", o.Scale)
}

// InputHash hashes the inputs that determine the solved report. Render
// settings are excluded so that all diagrams of one design share a report.
func (o *Options) InputHash() (string, error) {
	return cache.HashJSON(struct {
		Design      column.Design    `json:"design"`
		Equilibrium equilibrium.Spec `json:"equilibrium"`
	}{o.Design, o.Equilibrium})
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		Samples:     o.Samples,
		StageLabels: o.StageLabels,
		Legend:      !o.HideLegend,
		Size:        o.Size,
		Scale:       o.Scale,
		Title:       o.Title,
	}
}
