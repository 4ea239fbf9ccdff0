package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mccabe/pkg/config"
	"github.com/matzehuels/mccabe/pkg/equilibrium"
	"github.com/matzehuels/mccabe/pkg/pipeline"
)

// designFlags are the column and equilibrium flags shared by solve, sweep
// and explore. Flags that were set override the design file.
type designFlags struct {
	name  string
	feed  float64
	xb    float64
	xf    float64
	xd    float64
	q     float64
	r     float64
	alpha float64
	expr  string
}

func (f *designFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "system name shown in reports and titles")
	fs.Float64Var(&f.feed, "feed", 0, "feed flow rate")
	fs.Float64Var(&f.xb, "xb", 0, "bottoms light-component mole fraction")
	fs.Float64Var(&f.xf, "xf", 0, "feed light-component mole fraction")
	fs.Float64Var(&f.xd, "xd", 0, "distillate light-component mole fraction")
	fs.Float64VarP(&f.q, "q", "q", 0, "feed thermal condition (1 saturated liquid, 0 saturated vapour)")
	fs.Float64VarP(&f.r, "reflux", "r", 0, "reflux ratio L/D")
	fs.Float64Var(&f.alpha, "alpha", 0, "constant relative volatility")
	fs.StringVar(&f.expr, "expr", "", "equilibrium expression y(x), e.g. '2.5*x/(1+1.5*x)'")
	cmd.MarkFlagsMutuallyExclusive("alpha", "expr")
	cmd.ValidArgsFunction = completeDesignFile
}

// load reads the optional design file in args and applies the flags that
// were set on top of it.
func (f *designFlags) load(cmd *cobra.Command, args []string) (*config.File, error) {
	file := &config.File{}
	if len(args) > 0 {
		loaded, err := config.Load(args[0])
		if err != nil {
			return nil, err
		}
		file = loaded
	}

	fs := cmd.Flags()
	d := &file.Design
	if fs.Changed("name") {
		d.Name = f.name
	}
	for _, o := range []struct {
		flag string
		dst  *float64
		v    float64
	}{
		{"feed", &d.Feed, f.feed},
		{"xb", &d.XB, f.xb},
		{"xf", &d.XF, f.xf},
		{"xd", &d.XD, f.xd},
		{"q", &d.Q, f.q},
		{"reflux", &d.R, f.r},
	} {
		if fs.Changed(o.flag) {
			*o.dst = o.v
		}
	}

	switch {
	case fs.Changed("alpha"):
		file.Equilibrium = equilibrium.Spec{Model: equilibrium.ModelAlpha, Alpha: f.alpha}
	case fs.Changed("expr"):
		file.Equilibrium = equilibrium.Spec{Model: equilibrium.ModelExpression, Expression: f.expr}
	}
	return file, nil
}

// options is load followed by pipeline.FromConfig.
func (f *designFlags) options(cmd *cobra.Command, args []string) (pipeline.Options, error) {
	file, err := f.load(cmd, args)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.FromConfig(file), nil
}
