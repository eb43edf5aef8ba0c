package grid

import (
	"github.com/adrianjhpc/streamgrid/pkg/bench"
)

// MetricGrid is the finished heat-map data of one metric: a rows × cols
// matrix of values, a parallel validity mask and the node-name labels.
//
// Invalid cells hold the placeholder value (the metric's minimum valid value)
// and have no label. A MetricGrid is never modified after [Build] returns it;
// accessors that expose matrices return copies.
type MetricGrid struct {
	metric bench.Metric
	shape  Shape
	values [][]float64
	valid  [][]bool
	labels [][]string
	min    float64
	max    float64
	count  int
}

// Metric returns the metric the grid was built for.
func (g *MetricGrid) Metric() bench.Metric { return g.metric }

// Key returns the metric key.
func (g *MetricGrid) Key() bench.MetricKey { return g.metric.Key }

// Shape returns the grid shape.
func (g *MetricGrid) Shape() Shape { return g.shape }

// Rows returns the number of rows.
func (g *MetricGrid) Rows() int { return g.shape.Rows }

// Cols returns the number of columns.
func (g *MetricGrid) Cols() int { return g.shape.Cols }

// Value returns the value at (row, col). Invalid cells return the placeholder.
func (g *MetricGrid) Value(row, col int) float64 { return g.values[row][col] }

// Valid reports whether (row, col) holds a measured value.
func (g *MetricGrid) Valid(row, col int) bool { return g.valid[row][col] }

// Label returns the node name at (row, col). The second result is false for
// invalid cells.
func (g *MetricGrid) Label(row, col int) (string, bool) {
	if !g.valid[row][col] {
		return "", false
	}
	return g.labels[row][col], true
}

// ValidCount returns the number of valid cells.
func (g *MetricGrid) ValidCount() int { return g.count }

// Range returns the minimum and maximum valid value.
func (g *MetricGrid) Range() (lo, hi float64) { return g.min, g.max }

// Values returns a copy of the value matrix.
func (g *MetricGrid) Values() [][]float64 {
	out := make([][]float64, len(g.values))
	for r, row := range g.values {
		out[r] = append([]float64(nil), row...)
	}
	return out
}

// Mask returns a copy of the validity mask.
func (g *MetricGrid) Mask() [][]bool {
	out := make([][]bool, len(g.valid))
	for r, row := range g.valid {
		out[r] = append([]bool(nil), row...)
	}
	return out
}

// Labels returns a copy of the label matrix. Invalid cells hold "".
func (g *MetricGrid) Labels() [][]string {
	out := make([][]string, len(g.labels))
	for r, row := range g.labels {
		out[r] = append([]string(nil), row...)
	}
	return out
}

// ValidValues returns the valid values in row-major order.
func (g *MetricGrid) ValidValues() []float64 {
	out := make([]float64, 0, g.count)
	for r := range g.values {
		for c, v := range g.values[r] {
			if g.valid[r][c] {
				out = append(out, v)
			}
		}
	}
	return out
}
