package pipeline

import (
	"github.com/matzehuels/mccabe/pkg/column"
)

// BuildColumn builds the equilibrium curve from opts.Equilibrium and the
// column from opts.Design.
func BuildColumn(opts Options) (*column.Column, error) {
	curve, err := opts.Equilibrium.Build()
	if err != nil {
		return nil, err
	}
	return column.New(opts.Design, curve)
}
