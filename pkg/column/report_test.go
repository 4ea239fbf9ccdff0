package column_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mccabe/pkg/column"
	"github.com/matzehuels/mccabe/pkg/equilibrium"
)

func TestSolve(t *testing.T) {
	c := mustNew(t, benzeneToluene(), equilibrium.ConstantAlpha(2.8))
	r := c.Solve()

	assert.Equal(t, "benzene-toluene", r.Name)
	assert.InDelta(t, 666.666667, r.D, tol)
	assert.InDelta(t, 333.333333, r.B, tol)
	assert.Equal(t, 6, r.Trays)
	assert.True(t, r.Converged)
	assert.True(t, r.Feasible())
	assert.InDelta(t, 0.597364, r.RMin, tol)
	assert.InDelta(t, 3.856364, r.NMin, tol)
	assert.InDelta(t, 2.771997, r.AverageAlpha, tol)
	assert.Equal(t, column.NoAzeotrope, r.Azeotrope)
	assert.False(t, r.AzeotropeFound)
	assert.Empty(t, r.RMinError)
	assert.Empty(t, r.FenskeError)
	assert.Empty(t, r.AzeotropeError)

	assert.Equal(t, r, c.ReportFor(c.Step()))
}

func TestSolve_FailuresAreRecorded(t *testing.T) {
	d := column.Design{Feed: 100, XB: 0.1, XF: 0.3, XD: 0.5, Q: 1, R: 2}
	r := mustNew(t, d, func(x float64) float64 { return 0.5 * x }).Solve()

	assert.False(t, r.Feasible())
	assert.Zero(t, r.RMin)
	assert.Contains(t, r.RMinError, "NON_CONVERGENT")
	assert.Zero(t, r.NMin)
	assert.Contains(t, r.FenskeError, "NON_IDEAL_VOLATILITY")

	// Failed fields must not leak NaN into JSON.
	_, err := json.Marshal(r)
	require.NoError(t, err)
}

func TestReportString(t *testing.T) {
	s := mustNew(t, benzeneToluene(), equilibrium.ConstantAlpha(2.8)).Solve().String()

	for _, want := range []string{
		"benzene-toluene",
		"feed        1000.000",
		"bottom      333.333",
		"top         666.667",
		"xB          0.150",
		"NO. trays   6\n",
		"min RR      0.597",
		"min. trays  3.856",
		"ave. alpha  2.772",
		"azeotrope   -1.000",
	} {
		assert.Contains(t, s, want)
	}
}

func TestReportString_Infeasible(t *testing.T) {
	d := column.Design{Feed: 100, XB: 0.1, XF: 0.3, XD: 0.5, Q: 1, R: 2}
	s := mustNew(t, d, azeotropic).Solve().String()
	assert.Contains(t, s, "NO. trays   100 (stage cap 100 reached)")
	assert.Contains(t, s, "azeotrope   0.600")
	assert.False(t, strings.HasPrefix(s, "\n"))
}

func TestReportString_CurveNotFinite(t *testing.T) {
	// Finite up to x = 0.5, then undefined: stepping stops long before the cap.
	curve := func(x float64) float64 {
		if x > 0.5 {
			return math.NaN()
		}
		return equilibrium.ConstantAlpha(2.8)(x)
	}
	r := mustNew(t, benzeneToluene(), curve).Solve()

	assert.False(t, r.Converged)
	assert.Equal(t, column.StopCurve, r.Stop)
	assert.Less(t, r.Trays, column.MaxStages)

	s := r.String()
	assert.Contains(t, s, "(stopped: equilibrium curve not finite)")
	assert.NotContains(t, s, "stage cap")
}

func TestReportJSON_Stop(t *testing.T) {
	r := mustNew(t, benzeneToluene(), equilibrium.ConstantAlpha(2.8)).Solve()
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"stop":"distillate"`)
}
