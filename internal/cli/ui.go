package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/mccabe/pkg/column"
)

// Terminal palette (ANSI 256).
var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorLink   = lipgloss.Color("75")
	colorText   = lipgloss.Color("255")
	colorLabel  = lipgloss.Color("245")
	colorMuted  = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleLink      = lipgloss.NewStyle().Foreground(colorLink).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorMuted)
	StyleValue     = lipgloss.NewStyle().Foreground(colorText)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorAccent)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorOK)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorWarn)

	styleLabel       = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorOK)
	styleIconError   = lipgloss.NewStyle().Foreground(colorFail)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorWarn)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorLabel)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleCommand     = lipgloss.NewStyle().Foreground(colorLink)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

func printIcon(icon lipgloss.Style, glyph, msg string) {
	fmt.Println(icon.Render(glyph) + " " + msg)
}

func printSuccess(format string, args ...any) {
	printIcon(styleIconSuccess, iconSuccess, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printIcon(styleIconError, iconError, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printIcon(styleIconWarning, iconWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printIcon(styleIconInfo, iconInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted line under a status message.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written artifact path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints the stepping outcome on one muted line, e.g.
// "6 trays · feed on stage 3 · fresh".
func printStats(trays, feedStage int, stop column.StopReason, cached bool) {
	parts := []string{fmt.Sprintf("%d trays", trays)}
	if feedStage >= 0 {
		parts = append(parts, fmt.Sprintf("feed on stage %d", feedStage))
	}
	if label := stopLabel(stop); label != "" {
		parts = append(parts, StyleWarning.Render(label))
	}
	if cached {
		parts = append(parts, StyleSuccess.Render("cached"))
	} else {
		parts = append(parts, "fresh")
	}
	fmt.Println("  " + StyleDim.Render(strings.Join(parts, " · ")))
}

// stopLabel names an incomplete stepping; it is empty once x_D was reached.
func stopLabel(stop column.StopReason) string {
	switch stop {
	case column.StopStageCap:
		return "stage cap"
	case column.StopCurve:
		return "curve not finite"
	}
	return ""
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() { fmt.Println() }

// num formats a composition, flow or ratio for display.
func num(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", v)
}

// orError shows msg in place of v when the quantity could not be computed.
func orError(v float64, msg string) string {
	if msg != "" {
		return StyleDim.Render("n/a (" + msg + ")")
	}
	return num(v)
}

const banner = `
ooo        ooooo             .oooooo.              .o8
` + "`" + `88.       .888'            d8P'  ` + "`" + `Y8b            "888
 888b     d'888   .ooooo.  888           .oooo.    888oooo.   .ooooo.
 8 Y88. .P  888  d88' ` + "`" + `"Y8 888          ` + "`" + `P  )88b   d88' ` + "`" + `88b d88' ` + "`" + `88b
 8  ` + "`" + `888'   888  888       888           .oP"888   888   888 888ooo888
 8    Y     888  888   .o8 ` + "`" + `88b    ooo  d8(  888   888   888 888    .o
o8o        o888o ` + "`" + `Y8bod8P'  ` + "`" + `Y8bood8P'  ` + "`" + `Y888""8o  ` + "`" + `Y8bod8P' ` + "`" + `Y8bod8P'
`

// printBanner writes the ASCII banner to w.
func printBanner(w io.Writer) {
	fmt.Fprintln(w, StyleTitle.Render(banner))
}
