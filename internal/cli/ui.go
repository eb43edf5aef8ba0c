package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/adrianjhpc/streamgrid/pkg/grid"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleHeader      = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func (c *CLI) printSuccess(format string, args ...any) {
	fmt.Fprintln(c.Out, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

// PrintError reports a failed command on the error writer.
func (c *CLI) PrintError(err error) {
	fmt.Fprintln(c.Err, styleIconError.Render(iconError)+" "+err.Error())
}

func (c *CLI) printWarning(format string, args ...any) {
	fmt.Fprintln(c.Out, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func (c *CLI) printFile(path string) {
	fmt.Fprintln(c.Out, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func (c *CLI) printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(c.Out, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Summary Table
// =============================================================================

// printSummaries prints one table row of statistics per metric.
func (c *CLI) printSummaries(summaries []grid.Summary) {
	if len(summaries) == 0 {
		return
	}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			string(s.Key),
			s.Unit,
			strconv.Itoa(s.Count),
			formatValue(s.Min),
			formatValue(s.Mean),
			formatValue(s.Median),
			formatValue(s.Max),
			formatValue(s.StdDev),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Metric", "Unit", "Nodes", "Min", "Mean", "Median", "Max", "StdDev").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader.Padding(0, 1)
			case col == 0:
				return StyleNumber.Padding(0, 1)
			default:
				return lipgloss.NewStyle().Padding(0, 1)
			}
		})

	fmt.Fprintln(c.Out, t.Render())
}

// formatValue prints large values without decimals and small ones with two.
func formatValue(v float64) string {
	if v >= 1000 || v <= -1000 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
