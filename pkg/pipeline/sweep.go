package pipeline

import (
	"context"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/mccabe/pkg/column"
	"github.com/matzehuels/mccabe/pkg/equilibrium"
	"github.com/matzehuels/mccabe/pkg/errors"
	"github.com/matzehuels/mccabe/pkg/numeric"
)

// SweepPoint is the stepping outcome at one reflux ratio.
type SweepPoint struct {
	R         float64 `json:"r"`
	Trays     int     `json:"trays"`
	Converged bool    `json:"converged"`
	FeedStage int     `json:"feed_stage"`
	// Err is set when the column could not be built at this ratio, for
	// example when the feed intersection leaves (x_B, x_D).
	Err string `json:"error,omitempty"`
}

// Sweep steps the design at every ratio in ratios. The columns are
// independent and are evaluated concurrently; points are returned ordered by
// R. opts.Design.R is ignored. A ratio whose column cannot be built yields a
// point with Err set rather than failing the sweep.
func (r *Runner) Sweep(ctx context.Context, opts Options, ratios []float64) ([]SweepPoint, error) {
	if len(ratios) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "at least one reflux ratio is required")
	}
	for _, ratio := range ratios {
		if err := errors.ValidatePositive("reflux ratio", ratio); err != nil {
			return nil, err
		}
	}
	ratios = slices.Clone(ratios)
	slices.Sort(ratios)

	opts.Design.R = ratios[0]
	if err := opts.ValidateForSolve(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	curve, err := opts.Equilibrium.Build()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	points := make([]SweepPoint, len(ratios))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, ratio := range ratios {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d := opts.Design
			d.R = ratio
			points[i] = sweepPoint(d, curve, ratio)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	opts.Logger.Info("swept reflux ratios",
		"points", len(points),
		"from", ratios[0],
		"to", ratios[len(ratios)-1],
		"duration", time.Since(start))
	return points, nil
}

func sweepPoint(d column.Design, curve equilibrium.Curve, ratio float64) SweepPoint {
	c, err := column.New(d, curve)
	if err != nil {
		return SweepPoint{R: ratio, FeedStage: -1, Err: errors.UserMessage(err)}
	}
	st := c.Step()
	return SweepPoint{
		R:         ratio,
		Trays:     st.Trays,
		Converged: st.Converged,
		FeedStage: st.FeedStage,
	}
}

// RatioRange returns n reflux ratios spanning from·rmin to to·rmin
// inclusive, e.g. RatioRange(rmin, 1.1, 3, 20).
func RatioRange(rmin, from, to float64, n int) ([]float64, error) {
	if err := errors.ValidatePositive("minimum reflux ratio", rmin); err != nil {
		return nil, err
	}
	if err := errors.ValidatePositive("lower multiple", from); err != nil {
		return nil, err
	}
	if !(to > from) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "upper multiple (%g) must exceed lower multiple (%g)", to, from)
	}
	if n < 2 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "need at least 2 points, got %d", n)
	}
	out := numeric.Linspace(from*rmin, to*rmin, n, true)
	return out, nil
}
