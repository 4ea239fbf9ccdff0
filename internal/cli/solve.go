package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mccabe/pkg/column"
	"github.com/matzehuels/mccabe/pkg/errors"
	"github.com/matzehuels/mccabe/pkg/pipeline"
)

// solveOpts holds the command-line flags for the solve command.
type solveOpts struct {
	design designFlags

	output      string // output file (single format) or base path
	formats     string // comma-separated output formats
	samples     int    // curve samples per line
	stageLabels bool   // annotate stage numbers
	noLegend    bool   // hide the legend
	size        float64
	scale       float64
	noCache     bool
	refresh     bool
	reportOnly  bool // skip rendering
}

// solveCommand creates the solve command. Design values come from an
// optional TOML file; flags that are set override it.
func (c *CLI) solveCommand() *cobra.Command {
	var o solveOpts

	cmd := &cobra.Command{
		Use:   "solve [file]",
		Short: "Solve a column design and render its McCabe-Thiele diagram",
		Long: `Solve a binary distillation column and render its McCabe-Thiele diagram.

The design is read from a TOML file (see "mccabe init") and/or flags; flags
override the file. Diagrams are written next to the design, named after the
system, unless -o is given. Use -o - to write a single format to stdout.`,
		Example: `  mccabe solve design.toml
  mccabe solve design.toml -r 1.5 -f svg,png --stage-labels
  mccabe solve --feed 1000 --xb .15 --xf .65 --xd .9 -q .5 -r 1 --alpha 2.8`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := o.design.load(cmd, args)
			if err != nil {
				return err
			}
			opts := pipeline.FromConfig(file)
			o.apply(cmd, &opts)

			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			dir := file.Output.Dir
			if dir == "" && input != "" {
				dir = filepath.Dir(input)
			}
			return c.runSolve(cmd.Context(), opts, &o, input, dir)
		},
	}

	o.design.register(cmd)
	fs := cmd.Flags()
	fs.StringVarP(&o.output, "output", "o", "", "output file (single format) or base path; - for stdout")
	fs.StringVarP(&o.formats, "format", "f", "", "output format(s): svg (default), json, pdf, png (comma-separated)")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	fs.IntVar(&o.samples, "samples", 0, "curve samples per line")
	fs.BoolVar(&o.stageLabels, "stage-labels", false, "annotate stage numbers on the diagram")
	fs.BoolVar(&o.noLegend, "no-legend", false, "hide the legend")
	fs.Float64Var(&o.size, "size", 0, "plot side in pixels")
	fs.Float64Var(&o.scale, "scale", 0, "PNG scale factor")
	fs.BoolVar(&o.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&o.refresh, "refresh", false, "recompute even when cached")
	fs.BoolVar(&o.reportOnly, "report-only", false, "print the report without rendering")

	return cmd
}

// apply overlays render flags that were set onto opts.
func (o *solveOpts) apply(cmd *cobra.Command, opts *pipeline.Options) {
	fs := cmd.Flags()
	if fs.Changed("format") {
		opts.Formats = parseFormats(o.formats)
	}
	if fs.Changed("samples") {
		opts.Samples = o.samples
	}
	if fs.Changed("stage-labels") {
		opts.StageLabels = o.stageLabels
	}
	if fs.Changed("no-legend") {
		opts.HideLegend = o.noLegend
	}
	if fs.Changed("size") {
		opts.Size = o.size
	}
	if fs.Changed("scale") {
		opts.Scale = o.scale
	}
	opts.Refresh = o.refresh
}

func (c *CLI) runSolve(ctx context.Context, opts pipeline.Options, o *solveOpts, input, dir string) error {
	logger := designLogger(loggerFromContext(ctx), opts.Design)
	opts.Logger = logger

	runner, err := c.newRunner(o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if o.reportOnly {
		sol, cached, err := runner.SolveWithCacheInfo(ctx, opts)
		if err != nil {
			return err
		}
		printReport(sol.Report, cached)
		return nil
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	stdout := o.output == "-"
	if stdout && len(opts.Formats) != 1 {
		return errors.New(errors.ErrCodeInvalidInput, "-o - needs exactly one format, got %d", len(opts.Formats))
	}

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done("Solved and rendered", "trays", result.Report.Trays, "formats", len(opts.Formats))

	if !stdout {
		printReport(result.Report, result.CacheInfo.ReportHit)
		printNewline()
	}

	base := basePath(o.output, dir, opts.Design.Name, input)
	for _, format := range opts.Formats {
		path := outputPath(base, o.output, format, len(opts.Formats) == 1)
		if err := writeArtifact(path, result.Artifacts[format]); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
		if !stdout {
			printFile(path)
		}
	}

	if !stdout {
		printNewline()
		if result.Report.Feasible() && input != "" {
			printNextStep("Compare reflux ratios", fmt.Sprintf("%s sweep %s", appName, input))
		}
	}
	return nil
}

func writeArtifact(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// printReport prints the solved column as styled key/value lines.
func printReport(r column.Report, cached bool) {
	title := "McCabe-Thiele design"
	if r.Name != "" {
		title = r.Name
	}
	fmt.Println(StyleTitle.Render(title))

	printKeyValue("Feed", num(r.Feed))
	printKeyValue("Distillate", num(r.D))
	printKeyValue("Bottoms", num(r.B))
	printKeyValue("x_B/x_F/x_D", fmt.Sprintf("%s / %s / %s", num(r.XB), num(r.XF), num(r.XD)))
	printKeyValue("q, R", fmt.Sprintf("%s, %s", num(r.Q), num(r.R)))
	printKeyValue("Feed point", fmt.Sprintf("(%s, %s)", num(r.XMid), num(r.YMid)))
	printKeyValue("Rectifying", fmt.Sprintf("y = %sx + %s", num(r.Upper.Slope), num(r.Upper.Intercept)))
	printKeyValue("Stripping", fmt.Sprintf("y = %sx + %s", num(r.Lower.Slope), num(r.Lower.Intercept)))
	printKeyValue("R_min", orError(r.RMin, r.RMinError))
	printKeyValue("N_min", orError(r.NMin, r.FenskeError))
	printKeyValue("alpha avg", orError(r.AverageAlpha, r.FenskeError))

	azeo := "none"
	switch {
	case r.AzeotropeError != "":
		azeo = "n/a (" + r.AzeotropeError + ")"
	case r.AzeotropeFound:
		azeo = "x = " + num(r.Azeotrope)
	}
	printKeyValue("Azeotrope", azeo)

	printStats(r.Trays, r.FeedStage, r.Stop, cached)
	switch r.Stop {
	case column.StopStageCap:
		printWarning("Stage cap (%d) reached before x_D; R is likely at or below R_min", column.MaxStages)
	case column.StopCurve:
		printWarning("Equilibrium curve returned a non-finite value; stepping stopped after %d trays", r.Trays)
	}
}
