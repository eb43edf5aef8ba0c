// Package render turns finished grids into pictures.
//
// # Overview
//
// Every renderer consumes [grid.MetricGrid] values and never modifies them,
// so the grids of one run can be rendered concurrently. Three renderers are
// provided:
//
//   - [heatmap]: annotated heat maps as PNG, SVG or PDF (gonum/plot)
//   - [term]: coloured cell blocks for the terminal (lipgloss)
//   - [sink]: grid JSON and the run manifest
//
// # Palettes
//
// Colours come from a [Ramp]: the anchors of a ColorBrewer scheme blended in
// CIE Lab space, so neighbouring values get perceptually close colours. The
// heat-map and terminal renderers share the ramp, and a value therefore has
// the same colour in a PNG and in the terminal.
//
//	ramp, err := render.NewRamp("YlGnBu", 64)
//	c := ramp.At(0.5) // colour of the mid-range value
//
// [heatmap]: github.com/adrianjhpc/streamgrid/pkg/render/heatmap
// [term]: github.com/adrianjhpc/streamgrid/pkg/render/term
// [sink]: github.com/adrianjhpc/streamgrid/pkg/render/sink
// [grid.MetricGrid]: github.com/adrianjhpc/streamgrid/pkg/grid.MetricGrid
package render
