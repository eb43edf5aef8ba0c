// Package heatmap renders a [grid.MetricGrid] as an annotated heat map.
//
// Each cell is coloured by its value and labelled with the node name and the
// rounded value with the metric unit. Cells without a record read "N/A" and
// take the colour of the grid minimum. Row 0 is drawn at the top, so nodes
// read left to right, top to bottom in input order.
//
// # Variants
//
// The colour scale bounds depend on the [Variant]:
//
//   - [Base]: the range of the valid values
//   - [Zeroed]: zero to the largest value
//   - [Theory]: zero to a configured peak, e.g. the theoretical peak rate
//     of a node
//
// # Formats
//
// [Render] produces PNG (at a configurable DPI), SVG or PDF through the
// gonum/plot vector backends:
//
//	data, err := heatmap.Render(g,
//	    heatmap.WithFormat(heatmap.FormatPNG),
//	    heatmap.WithDPI(150),
//	    heatmap.WithVariant(heatmap.Zeroed),
//	)
//
// [grid.MetricGrid]: github.com/adrianjhpc/streamgrid/pkg/grid.MetricGrid
package heatmap
