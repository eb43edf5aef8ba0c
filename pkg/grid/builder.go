package grid

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/adrianjhpc/streamgrid/pkg/bench"
	"github.com/adrianjhpc/streamgrid/pkg/errors"
)

// Build places records into a grid of the given shape and returns one
// [MetricGrid] per requested key.
//
// Records are consumed in order. The working grid is filled one column
// index at a time along the fast axis (cols) and wraps to the next row
// index; once every row index is used any further record fails with
// [errors.ErrCodeTooManyRecords]. The working grid is then transposed so that
// record i sits at row i/cols, column i%cols of the result.
//
// Failures:
//   - [errors.ErrCodeInvalidInput]: non-positive shape, no keys, a record
//     without a name or without one of the requested metrics
//   - [errors.ErrCodeTooManyRecords]: more records than the shape addresses
//   - [errors.ErrCodeEmptyDataset]: a metric without a single finite value
//
// No partial result is returned on failure. A non-finite metric value leaves
// that cell invalid for that metric only.
func Build(records []bench.NodeRecord, shape Shape, keys []bench.MetricKey) (map[bench.MetricKey]*MetricGrid, error) {
	if shape.Rows <= 0 || shape.Cols <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid grid shape %s", shape)
	}
	keys = uniqueKeys(keys)
	if len(keys) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no metrics requested")
	}

	w := newWorkspace(shape, keys)
	col, row := 0, 0
	for i, rec := range records {
		if row == shape.Rows {
			return nil, errors.New(errors.ErrCodeTooManyRecords,
				"record %d (%s) does not fit a %s grid of %d cells", i, rec.Name, shape, shape.Cells())
		}
		if err := w.place(col, row, rec); err != nil {
			return nil, err
		}
		col++
		if col == shape.Cols {
			col = 0
			row++
		}
	}

	out := make(map[bench.MetricKey]*MetricGrid, len(keys))
	for _, key := range keys {
		g, err := w.finish(key)
		if err != nil {
			return nil, err
		}
		out[key] = g
	}
	return out, nil
}

// uniqueKeys drops duplicates while keeping first-seen order.
func uniqueKeys(keys []bench.MetricKey) []bench.MetricKey {
	out := make([]bench.MetricKey, 0, len(keys))
	for _, k := range keys {
		if !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}

// workspace is the pre-transpose grid, indexed [col][row].
type workspace struct {
	shape  Shape
	keys   []bench.MetricKey
	names  [][]string
	values map[bench.MetricKey][][]float64
	filled map[bench.MetricKey][][]bool
}

func newWorkspace(shape Shape, keys []bench.MetricKey) *workspace {
	w := &workspace{
		shape:  shape,
		keys:   keys,
		names:  matrix[string](shape.Cols, shape.Rows),
		values: make(map[bench.MetricKey][][]float64, len(keys)),
		filled: make(map[bench.MetricKey][][]bool, len(keys)),
	}
	for _, k := range keys {
		w.values[k] = matrix[float64](shape.Cols, shape.Rows)
		w.filled[k] = matrix[bool](shape.Cols, shape.Rows)
	}
	return w
}

func (w *workspace) place(col, row int, rec bench.NodeRecord) error {
	if err := errors.ValidateNodeName(rec.Name); err != nil {
		return err
	}
	for _, k := range w.keys {
		v, ok := rec.Value(k)
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "node %s has no value for metric %s", rec.Name, k)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		w.values[k][col][row] = v
		w.filled[k][col][row] = true
	}
	w.names[col][row] = rec.Name
	return nil
}

// finish transposes the working grid of key and fills its empty cells.
func (w *workspace) finish(key bench.MetricKey) (*MetricGrid, error) {
	values := transpose(w.values[key])
	valid := transpose(w.filled[key])
	labels := transpose(w.names)

	var measured []float64
	for r := range values {
		for c := range values[r] {
			if valid[r][c] {
				measured = append(measured, values[r][c])
			} else {
				labels[r][c] = ""
			}
		}
	}
	if len(measured) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "metric %s has no valid cells", key)
	}

	lo, hi := floats.Min(measured), floats.Max(measured)
	for r := range values {
		for c := range values[r] {
			if !valid[r][c] {
				values[r][c] = lo
			}
		}
	}

	metric, _ := bench.Lookup(key)
	return &MetricGrid{
		metric: metric,
		shape:  w.shape,
		values: values,
		valid:  valid,
		labels: labels,
		min:    lo,
		max:    hi,
		count:  len(measured),
	}, nil
}

func matrix[T any](n, m int) [][]T {
	out := make([][]T, n)
	for i := range out {
		out[i] = make([]T, m)
	}
	return out
}

// transpose returns a new m × n matrix for an n × m input.
func transpose[T any](in [][]T) [][]T {
	if len(in) == 0 {
		return nil
	}
	out := matrix[T](len(in[0]), len(in))
	for i := range in {
		for j := range in[i] {
			out[j][i] = in[i][j]
		}
	}
	return out
}
