// Package pkg provides the core libraries for McCabe-Thiele distillation design.
//
// # Overview
//
// McCabe sizes binary distillation columns graphically: trays are stepped
// between the vapour-liquid equilibrium curve and the two operating lines
// until the distillate composition is reached. The pkg directory is
// organized into three areas:
//
//  1. Domain logic ([equilibrium], [column], [diagram], [numeric])
//  2. Output ([render], [render/sink])
//  3. Infrastructure ([pipeline], [cache], [store], [config], [observability], [errors])
//
// # Architecture
//
// The typical data flow:
//
//	TOML design file / API request
//	         ↓
//	    [config] / [pipeline.Options] (decode + validate)
//	         ↓
//	    [equilibrium] package (build the y(x) curve)
//	         ↓
//	    [column] package (mass balance, operating lines, stepping, R_min, N_min)
//	         ↓
//	    [diagram] package (sampled plot data)
//	         ↓
//	    [render/sink] package (SVG/PDF/PNG/JSON output)
//
// # Quick Start
//
// Solve a column and render its diagram:
//
//	import (
//	    "github.com/matzehuels/mccabe/pkg/column"
//	    "github.com/matzehuels/mccabe/pkg/diagram"
//	    "github.com/matzehuels/mccabe/pkg/equilibrium"
//	    "github.com/matzehuels/mccabe/pkg/render/sink"
//	)
//
//	// 1. Build the column
//	c, _ := column.New(column.Design{
//	    Feed: 1000, XB: 0.15, XF: 0.65, XD: 0.9, Q: 0.5, R: 1,
//	}, equilibrium.ConstantAlpha(2.8))
//
//	// 2. Step the trays
//	st := c.Step()
//	fmt.Println(c.ReportFor(st))
//
//	// 3. Sample and render
//	d := diagram.Build(c, st)
//	svg := sink.RenderSVG(d, sink.WithStageLabels())
//
// # Main Packages
//
// [equilibrium] - Equilibrium relations: constant relative volatility,
// tabulated x-y data, and user expressions compiled with expr-lang.
//
// [column] - The column model. Construction solves the mass balance and the
// feed intersection; [column.Column.Step] performs the stage construction.
// Minimum reflux, the Fenske estimate and azeotrope detection are computed
// alongside and reported without failing the design.
//
// [diagram] - Renderer-independent plot data for the McCabe-Thiele diagram.
//
// [pipeline] - Complete solve → diagram → render pipeline with caching, used
// by both CLI and API. Also runs concurrent reflux sweeps.
//
// [cache] - Report and artifact caching: file (CLI), Redis (API) and null
// backends behind one interface.
//
// [store] - Persistence of solved designs: in-memory and MongoDB.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/column/...             # Specific package
//	go test -run Example                 # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [equilibrium]: https://pkg.go.dev/github.com/matzehuels/mccabe/pkg/equilibrium
// [column]: https://pkg.go.dev/github.com/matzehuels/mccabe/pkg/column
// [column.Column.Step]: https://pkg.go.dev/github.com/matzehuels/mccabe/pkg/column#Column.Step
// [diagram]: https://pkg.go.dev/github.com/matzehuels/mccabe/pkg/diagram
// [numeric]: https://pkg.go.dev/github.com/matzehuels/mccabe/pkg/numeric
// [render]: https://pkg.go.dev/github.com/matzehuels/mccabe/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/mccabe/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/mccabe/pkg/pipeline
// [pipeline.Options]: https://pkg.go.dev/github.com/matzehuels/mccabe/pkg/pipeline#Options
// [cache]: https://pkg.go.dev/github.com/matzehuels/mccabe/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/mccabe/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/mccabe/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/mccabe/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/mccabe/pkg/errors
package pkg
