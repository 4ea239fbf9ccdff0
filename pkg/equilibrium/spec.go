package equilibrium

import (
	"fmt"
	"strings"

	"github.com/matzehuels/mccabe/pkg/errors"
)

// Supported equilibrium models.
const (
	ModelAlpha      = "alpha"
	ModelTable      = "table"
	ModelExpression = "expression"
)

// Spec is the serialisable description of an equilibrium relation, as found
// in design files and API requests.
type Spec struct {
	Model      string    `json:"model" toml:"model" bson:"model"`
	Alpha      float64   `json:"alpha,omitempty" toml:"alpha,omitempty" bson:"alpha,omitempty"`
	X          []float64 `json:"x,omitempty" toml:"x,omitempty" bson:"x,omitempty"`
	Y          []float64 `json:"y,omitempty" toml:"y,omitempty" bson:"y,omitempty"`
	Expression string    `json:"expression,omitempty" toml:"expression,omitempty" bson:"expression,omitempty"`
}

// Build turns the spec into a validated Curve. An empty model is inferred
// from whichever field is populated.
func (s Spec) Build() (Curve, error) {
	var (
		c   Curve
		err error
	)
	switch s.model() {
	case ModelAlpha:
		if !(s.Alpha > 0) {
			return nil, errors.New(errors.ErrCodeInvalidEquilibrium, "relative volatility must be positive, got %g", s.Alpha)
		}
		c = ConstantAlpha(s.Alpha)
	case ModelTable:
		c, err = NewTable(s.X, s.Y)
	case ModelExpression:
		c, err = Compile(s.Expression)
	default:
		return nil, errors.New(errors.ErrCodeInvalidEquilibrium, "unknown equilibrium model %q (must be one of: alpha, table, expression)", s.Model)
	}
	if err != nil {
		return nil, err
	}
	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// String describes the spec for logs and report titles.
func (s Spec) String() string {
	switch s.model() {
	case ModelAlpha:
		return fmt.Sprintf("alpha=%g", s.Alpha)
	case ModelTable:
		return fmt.Sprintf("table(%d points)", len(s.X))
	case ModelExpression:
		return "y=" + strings.TrimSpace(s.Expression)
	}
	return s.Model
}

// IsZero reports whether no equilibrium relation was given at all.
func (s Spec) IsZero() bool {
	return s.Model == "" && s.Alpha == 0 && len(s.X) == 0 && len(s.Y) == 0 && s.Expression == ""
}

func (s Spec) model() string {
	if s.Model != "" {
		return strings.ToLower(s.Model)
	}
	switch {
	case s.Expression != "":
		return ModelExpression
	case len(s.X) > 0:
		return ModelTable
	case s.Alpha != 0:
		return ModelAlpha
	}
	return ""
}
