package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mccabe/pkg/column"
	"github.com/matzehuels/mccabe/pkg/errors"
	"github.com/matzehuels/mccabe/pkg/pipeline"
)

const (
	plotWidth  = 61
	plotHeight = 25

	minDelta = 0.001
	maxDelta = 10
)

var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorMuted)

	plotStyles = map[rune]lipgloss.Style{
		'.': lipgloss.NewStyle().Foreground(colorMuted),
		'*': lipgloss.NewStyle().Foreground(colorLink),
		'r': lipgloss.NewStyle().Foreground(colorOK),
		's': lipgloss.NewStyle().Foreground(colorWarn),
		'q': lipgloss.NewStyle().Foreground(colorLabel),
		'#': lipgloss.NewStyle().Foreground(colorFail),
	}
	plotGlyphs = map[rune]string{'.': "·", '*': "•", 'r': "─", 's': "─", 'q': "╱", '#': "█"}
)

// exploreCommand opens an interactive view for adjusting the reflux ratio.
func (c *CLI) exploreCommand() *cobra.Command {
	var f designFlags

	cmd := &cobra.Command{
		Use:   "explore [file]",
		Short: "Adjust the reflux ratio interactively",
		Long: `Open an interactive McCabe-Thiele view of the design. The arrow keys change
the reflux ratio and the stepping is redrawn on every change.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd, args)
			if err != nil {
				return err
			}
			if err := opts.ValidateForSolve(); err != nil {
				return err
			}
			col, err := pipeline.BuildColumn(opts)
			if err != nil {
				return err
			}

			final, err := tea.NewProgram(newExploreModel(col), tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(exploreModel); ok {
				printKeyValue("R", num(m.ratio()))
				printStats(m.stepping.Trays, m.stepping.FeedStage, m.stepping.Stop, false)
			}
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

// =============================================================================
// exploreModel - Interactive reflux explorer
// =============================================================================

// exploreModel is the bubbletea model for the reflux explorer. Each change
// builds a new column; the last valid one stays on screen when a ratio is
// rejected.
type exploreModel struct {
	base     *column.Column
	col      *column.Column
	stepping column.Stepping
	rmin     float64 // zero when the pinch search failed
	delta    float64
	err      error
}

func newExploreModel(c *column.Column) exploreModel {
	m := exploreModel{base: c, col: c, stepping: c.Step(), delta: 0.1}
	if p := c.MinReflux(); p.OK() {
		m.rmin = p.R
	}
	return m
}

func (m exploreModel) ratio() float64 { return m.col.Design().R }

// setReflux moves to ratio r. Ratios are rounded to 1e-6 so that repeated
// steps do not accumulate float drift.
func (m exploreModel) setReflux(r float64) exploreModel {
	return m.jumpTo(math.Round(r*1e6) / 1e6)
}

// jumpTo moves to ratio r without rounding.
func (m exploreModel) jumpTo(r float64) exploreModel {
	c, err := m.col.WithReflux(r)
	if err != nil {
		m.err = err
		return m
	}
	m.col, m.stepping, m.err = c, c.Step(), nil
	return m
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "right", "l", "up", "k":
		return m.setReflux(m.ratio() + m.delta), nil
	case "left", "h", "down", "j":
		return m.setReflux(m.ratio() - m.delta), nil
	case "+", "=":
		m.delta = math.Min(m.delta*10, maxDelta)
	case "-", "_":
		m.delta = math.Max(m.delta/10, minDelta)
	case "m":
		if m.rmin > 0 {
			return m.jumpTo(m.rmin), nil
		}
	case "r":
		m.col, m.stepping, m.err = m.base, m.base.Step(), nil
	}
	return m, nil
}

func (m exploreModel) View() string {
	var b strings.Builder

	title := "McCabe-Thiele explorer"
	if name := m.col.Design().Name; name != "" {
		title += " · " + name
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ reflux  +/- step size  m R_min  r reset  q quit"))
	b.WriteString("\n\n")

	status := StyleSuccess.Render("converged")
	if label := stopLabel(m.stepping.Stop); label != "" {
		status = StyleWarning.Render(label)
	}
	multiple := "—"
	if m.rmin > 0 {
		multiple = fmt.Sprintf("%.2f", m.ratio()/m.rmin)
	}
	fmt.Fprintf(&b, "R %s  R/R_min %s  step %s  trays %s  feed stage %s  %s\n\n",
		StyleHighlight.Render(num(m.ratio())),
		StyleValue.Render(multiple),
		StyleDim.Render(fmt.Sprintf("%g", m.delta)),
		StyleNumber.Render(fmt.Sprint(m.stepping.Trays)),
		StyleNumber.Render(fmt.Sprint(m.stepping.FeedStage)),
		status)

	b.WriteString(renderPlot(plotCanvas(m.col, m.stepping, plotWidth, plotHeight)))

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(styleIconError.Render(iconError) + " " + StyleWarning.Render(errors.UserMessage(m.err)))
	}
	b.WriteString("\n")
	return b.String()
}

// =============================================================================
// Plot
// =============================================================================

// plotCanvas rasterises the diagram onto a w×h grid of glyph codes, later
// layers overwriting earlier ones: diagonal, equilibrium curve, operating
// lines, then the stepping.
func plotCanvas(c *column.Column, st column.Stepping, w, h int) [][]rune {
	grid := make([][]rune, h)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", w))
	}
	cell := func(x, y float64) (int, int, bool) {
		col := int(math.Round(x * float64(w-1)))
		row := h - 1 - int(math.Round(y*float64(h-1)))
		return col, row, col >= 0 && col < w && row >= 0 && row < h
	}
	line := func(a, b column.Point, g rune) {
		for _, v := range []float64{a.X, a.Y, b.X, b.Y} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return
			}
		}
		ac, ar, _ := cell(a.X, a.Y)
		bc, br, _ := cell(b.X, b.Y)
		n := max(abs(bc-ac), abs(br-ar), 1)
		for i := 0; i <= n; i++ {
			t := float64(i) / float64(n)
			if col, row, ok := cell(a.X+t*(b.X-a.X), a.Y+t*(b.Y-a.Y)); ok {
				grid[row][col] = g
			}
		}
	}

	line(column.Point{X: 0, Y: 0}, column.Point{X: 1, Y: 1}, '.')

	curve := c.Curve()
	prev := column.Point{X: 0, Y: curve(0)}
	for i := 1; i <= 2*w; i++ {
		x := float64(i) / float64(2*w)
		p := column.Point{X: x, Y: curve(x)}
		line(prev, p, '*')
		prev = p
	}

	d := c.Design()
	mid := c.FeedPoint()
	line(column.Point{X: d.XB, Y: d.XB}, mid, 's')
	line(mid, column.Point{X: d.XD, Y: d.XD}, 'r')
	line(column.Point{X: d.XF, Y: d.XF}, mid, 'q')

	for _, seg := range st.Segments {
		line(seg.From, seg.To, '#')
	}
	return grid
}

func renderPlot(grid [][]rune) string {
	var b strings.Builder
	border := listDimStyle.Render("│")
	for _, row := range grid {
		b.WriteString(border)
		for _, g := range row {
			if style, ok := plotStyles[g]; ok {
				b.WriteString(style.Render(plotGlyphs[g]))
				continue
			}
			b.WriteRune(g)
		}
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render("└" + strings.Repeat("─", len(grid[0]))))
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
