// Package column implements the McCabe-Thiele graphical method for designing
// a binary distillation column.
//
// A [Column] is built from a [Design] (feed flow, bottoms, feed and
// distillate compositions, feed thermal condition q, reflux ratio R) and an
// equilibrium curve. Construction derives the mass balance, the two operating
// lines and their intersection with the q-line, and eagerly evaluates the
// minimum reflux ratio and azeotrope status. The column is immutable after
// construction: every further calculation returns a value.
//
// # Operating Lines
//
// The rectifying (upper) line is y = R/(R+1)·x + x_D/(R+1). The stripping
// (lower) line passes through (x_B, x_B) and the feed intersection
// (x_mid, y_mid). Both are represented by the affine [Line] type which can be
// evaluated and inverted in closed form.
//
// # Tray Stepping
//
// [Column.Step] walks from the bottoms composition towards the distillate,
// alternating a vertical move to the equilibrium curve with a horizontal move
// back to the active operating line. The active line switches from stripping
// to rectifying once, at the feed stage. Stepping stops when x_D is reached or
// after [MaxStages] stages; the latter is reported through
// [Stepping.Converged], not as an error, because it is the expected outcome of
// a reflux ratio at or below the minimum or of an azeotrope in the way.
//
// # Usage
//
//	c, err := column.New(column.Design{
//	    Feed: 1000, XB: 0.15, XF: 0.65, XD: 0.9, Q: 0.5, R: 1,
//	}, equilibrium.ConstantAlpha(2.8))
//	if err != nil {
//	    return err
//	}
//	report := c.Solve()
//	fmt.Println(report)
package column
