package equilibrium

import (
	"math"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/matzehuels/mccabe/pkg/errors"
)

// exprFuncs are the math helpers available inside expressions in addition to
// the expr language builtins (abs, min, max, ...).
var exprFuncs = map[string]any{
	"exp":  math.Exp,
	"log":  math.Log,
	"sqrt": math.Sqrt,
	"pow":  math.Pow,
}

func exprEnv(x float64) map[string]any {
	env := make(map[string]any, len(exprFuncs)+1)
	for k, v := range exprFuncs {
		env[k] = v
	}
	env["x"] = x
	return env
}

// Compile turns an expression in the liquid fraction x into a Curve.
//
//	c, err := equilibrium.Compile("2.8*x/(1+1.8*x)")
//
// The expression is type-checked at compile time and must produce a number.
// Evaluation failures at run time (for example log of a negative number
// through a user-defined branch) yield NaN, which the column model treats as
// a failed step.
func Compile(source string) (Curve, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, errors.New(errors.ErrCodeInvalidEquilibrium, "equilibrium expression is empty")
	}

	program, err := expr.Compile(source, expr.Env(exprEnv(0)), expr.AsFloat64())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidEquilibrium, err, "compile %q", source)
	}
	return programCurve(program), nil
}

func programCurve(program *vm.Program) Curve {
	return func(x float64) float64 {
		out, err := expr.Run(program, exprEnv(x))
		if err != nil {
			return math.NaN()
		}
		y, ok := out.(float64)
		if !ok {
			return math.NaN()
		}
		return y
	}
}
