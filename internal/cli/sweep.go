package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mccabe/pkg/errors"
	"github.com/matzehuels/mccabe/pkg/pipeline"
)

// sweepOpts holds the command-line flags for the sweep command.
type sweepOpts struct {
	design designFlags

	from    float64   // lower multiple of R_min
	to      float64   // upper multiple of R_min
	points  int       // number of ratios
	ratios  []float64 // explicit ratios, bypassing R_min
	asJSON  bool
	noCache bool
}

// sweepCommand tabulates tray counts over a range of reflux ratios.
func (c *CLI) sweepCommand() *cobra.Command {
	o := sweepOpts{from: 1.1, to: 3, points: 12}

	cmd := &cobra.Command{
		Use:   "sweep [file]",
		Short: "Tabulate tray counts over a range of reflux ratios",
		Long: `Step the design at a range of reflux ratios and tabulate tray counts.

By default the ratios span --from to --to multiples of the minimum reflux
ratio. Use --ratios to give explicit values instead.`,
		Example: `  mccabe sweep design.toml
  mccabe sweep design.toml --from 1.05 --to 5 -n 30
  mccabe sweep design.toml --ratios 0.8,1,1.5,2 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := o.design.options(cmd, args)
			if err != nil {
				return err
			}
			return c.runSweep(cmd.Context(), opts, &o)
		},
	}

	o.design.register(cmd)
	fs := cmd.Flags()
	fs.Float64Var(&o.from, "from", o.from, "lowest ratio as a multiple of R_min")
	fs.Float64Var(&o.to, "to", o.to, "highest ratio as a multiple of R_min")
	fs.IntVarP(&o.points, "points", "n", o.points, "number of ratios")
	fs.Float64SliceVar(&o.ratios, "ratios", nil, "explicit reflux ratios (comma-separated)")
	fs.BoolVar(&o.asJSON, "json", false, "print points as JSON")
	fs.BoolVar(&o.noCache, "no-cache", false, "disable caching")
	cmd.MarkFlagsMutuallyExclusive("ratios", "from")
	cmd.MarkFlagsMutuallyExclusive("ratios", "to")
	cmd.MarkFlagsMutuallyExclusive("ratios", "points")

	return cmd
}

func (c *CLI) runSweep(ctx context.Context, opts pipeline.Options, o *sweepOpts) error {
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	runner, err := c.newRunner(o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	// The base design only needs a valid R to be built; sweep overrides it.
	if opts.Design.R == 0 {
		opts.Design.R = 1
	}
	sol, err := runner.Solve(ctx, opts)
	if err != nil {
		return err
	}
	rmin := sol.Report.RMin

	ratios := o.ratios
	if len(ratios) == 0 {
		if sol.Report.RMinError != "" {
			return errors.New(errors.ErrCodeNonConvergent,
				"minimum reflux unavailable (%s); pass --ratios", sol.Report.RMinError)
		}
		if ratios, err = pipeline.RatioRange(rmin, o.from, o.to, o.points); err != nil {
			return err
		}
	}

	sp := startSpinner(ctx, fmt.Sprintf("Stepping %d columns...", len(ratios)))
	prog := newProgress(logger)
	points, err := runner.Sweep(ctx, opts, ratios)
	sp.Stop()
	if err != nil {
		return err
	}
	prog.done("Swept reflux ratios", "points", len(points))

	if o.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(points)
	}

	title := "Reflux sweep"
	if opts.Design.Name != "" {
		title += " · " + opts.Design.Name
	}
	fmt.Println(StyleTitle.Render(title))
	if sol.Report.RMinError == "" {
		printKeyValue("R_min", StyleNumber.Render(num(rmin)))
	}
	fmt.Println(sweepTable(points, rmin, sol.Report.RMinError == ""))
	return nil
}

// sweepTable renders points as a rounded table. Rows that hit the stage cap
// or could not be built are dimmed.
func sweepTable(points []pipeline.SweepPoint, rmin float64, withMultiple bool) string {
	headers := []string{"R", "Trays", "Feed stage", "Status"}
	if withMultiple {
		headers = []string{"R", "R/R_min", "Trays", "Feed stage", "Status"}
	}

	rows := make([][]string, 0, len(points))
	for _, p := range points {
		status, trays, feed := "ok", strconv.Itoa(p.Trays), strconv.Itoa(p.FeedStage)
		switch {
		case p.Err != "":
			status, trays, feed = p.Err, "—", "—"
		case !p.Converged:
			status = "stage cap"
		}
		row := []string{num(p.R), trays, feed, status}
		if withMultiple {
			row = []string{num(p.R), fmt.Sprintf("%.2f", p.R/rmin), trays, feed, status}
		}
		rows = append(rows, row)
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if row >= len(points) {
				return cell
			}
			p := points[row]
			switch {
			case p.Err != "":
				return cell.Foreground(colorFail)
			case !p.Converged:
				return cell.Foreground(colorMuted)
			case col == 0:
				return cell.Foreground(colorAccent)
			}
			return cell.Foreground(colorText)
		})
	return t.Render()
}
