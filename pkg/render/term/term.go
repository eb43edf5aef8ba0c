// Package term draws a [grid.MetricGrid] as coloured blocks in a terminal.
//
// Colours come from the same [render.Ramp] as the image heat maps. When the
// output is not a colour terminal lipgloss drops the colours and the layout
// still shows the labels and values.
//
// [grid.MetricGrid]: github.com/adrianjhpc/streamgrid/pkg/grid.MetricGrid
package term

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/adrianjhpc/streamgrid/pkg/grid"
	"github.com/adrianjhpc/streamgrid/pkg/render"
)

// DefaultCellWidth is the width of one cell in columns.
const DefaultCellWidth = 12

const legendSteps = 24

type options struct {
	palette   string
	cellWidth int
	bounds    *render.Bounds
	title     string
	legend    bool
}

// Option configures [Render].
type Option func(*options)

func WithPalette(name string) Option { return func(o *options) { o.palette = name } }
func WithTitle(title string) Option  { return func(o *options) { o.title = title } }
func WithoutLegend() Option          { return func(o *options) { o.legend = false } }

// WithCellWidth sets the cell width; widths below 4 keep the default.
func WithCellWidth(w int) Option {
	return func(o *options) {
		if w >= 4 {
			o.cellWidth = w
		}
	}
}

// WithBounds fixes the colour scale instead of using the grid range.
func WithBounds(b render.Bounds) Option {
	return func(o *options) {
		nb := b.Normalize()
		o.bounds = &nb
	}
}

var (
	styleTitle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	styleDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleEmpty = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Background(lipgloss.Color("236"))
)

// Render returns the terminal drawing of g.
func Render(g *grid.MetricGrid, opts ...Option) (string, error) {
	o := options{palette: render.DefaultPalette, cellWidth: DefaultCellWidth, legend: true}
	for _, opt := range opts {
		opt(&o)
	}

	ramp, err := render.NewRamp(o.palette, render.DefaultSteps)
	if err != nil {
		return "", err
	}
	lo, hi := g.Range()
	b := render.Bounds{Min: lo, Max: hi}.Normalize()
	if o.bounds != nil {
		b = *o.bounds
	}

	title := o.title
	if title == "" {
		title = g.Metric().Title
	}

	rows := make([]string, g.Rows())
	for r := range rows {
		cols := make([]string, g.Cols())
		for c := range cols {
			cols[c] = cell(g, r, c, ramp, b, o.cellWidth)
		}
		rows[r] = lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	}

	parts := []string{styleTitle.Render(title), lipgloss.JoinVertical(lipgloss.Left, rows...)}
	if o.legend {
		parts = append(parts, "", legend(ramp, b, g.Metric().Unit))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...), nil
}

func cell(g *grid.MetricGrid, r, c int, ramp *render.Ramp, b render.Bounds, width int) string {
	style := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	name, ok := g.Label(r, c)
	if !ok {
		return styleEmpty.Width(width).Align(lipgloss.Center).Render("N/A\n")
	}
	bg := ramp.Scale(g.Value(r, c), b.Min, b.Max)
	style = style.
		Background(lipgloss.Color(bg.Hex())).
		Foreground(lipgloss.Color(render.Contrast(bg).Hex()))
	return style.Render(truncate(name, width) + "\n" + fmt.Sprintf("%.0f", g.Value(r, c)))
}

func legend(ramp *render.Ramp, b render.Bounds, unit string) string {
	var bar strings.Builder
	for i := 0; i < legendSteps; i++ {
		c := ramp.At(float64(i) / float64(legendSteps-1))
		bar.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render(" "))
	}
	label := fmt.Sprintf(" %.0f to %.0f", b.Min, b.Max)
	if unit != "" {
		label += " " + unit
	}
	return bar.String() + styleDim.Render(label)
}

// truncate shortens s to width columns, marking the cut with "…".
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	rs := []rune(s)
	if width <= 1 || len(rs) <= 1 {
		return string(rs[:1])
	}
	for len(rs) > 0 && lipgloss.Width(string(rs))+1 > width {
		rs = rs[:len(rs)-1]
	}
	return string(rs) + "…"
}
