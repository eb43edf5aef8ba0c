package grid

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/adrianjhpc/streamgrid/pkg/bench"
	"github.com/adrianjhpc/streamgrid/pkg/errors"
)

// Document is the JSON wire form of a [MetricGrid].
type Document struct {
	Key        bench.MetricKey `json:"key"`
	Title      string          `json:"title"`
	Unit       string          `json:"unit,omitempty"`
	Shape      Shape           `json:"shape"`
	Min        float64         `json:"min"`
	Max        float64         `json:"max"`
	ValidCount int             `json:"valid_count"`
	Values     [][]float64     `json:"values"`
	Valid      [][]bool        `json:"valid"`
	Labels     [][]string      `json:"labels"`
}

// MarshalJSON implements json.Marshaler.
func (g *MetricGrid) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Document())
}

// Document returns the wire form of g.
func (g *MetricGrid) Document() Document {
	return Document{
		Key:        g.metric.Key,
		Title:      g.metric.Title,
		Unit:       g.metric.Unit,
		Shape:      g.shape,
		Min:        g.min,
		Max:        g.max,
		ValidCount: g.count,
		Values:     g.Values(),
		Valid:      g.Mask(),
		Labels:     g.Labels(),
	}
}

// Marshal returns the indented JSON encoding of g.
func Marshal(g *MetricGrid) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON writes g as indented JSON to w.
func WriteJSON(g *MetricGrid, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g.Document()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a grid written by [WriteJSON]. The matrices are checked
// against the shape and the valid count; min and max are recomputed from the
// valid cells.
func ReadJSON(r io.Reader) (*MetricGrid, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode grid")
	}
	return FromDocument(doc)
}

// FromDocument validates doc and turns it back into a grid.
func FromDocument(doc Document) (*MetricGrid, error) {
	s := doc.Shape
	if s.Rows <= 0 || s.Cols <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "grid %s: invalid shape %s", doc.Key, s)
	}
	if !sized(doc.Values, s) || !sized(doc.Valid, s) || !sized(doc.Labels, s) {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "grid %s: matrices do not match shape %s", doc.Key, s)
	}

	g := &MetricGrid{
		metric: bench.Metric{Key: doc.Key, Title: doc.Title, Unit: doc.Unit},
		shape:  s,
		values: matrix[float64](s.Rows, s.Cols),
		valid:  matrix[bool](s.Rows, s.Cols),
		labels: matrix[string](s.Rows, s.Cols),
		min:    math.Inf(1),
		max:    math.Inf(-1),
	}
	for r := 0; r < s.Rows; r++ {
		for c := 0; c < s.Cols; c++ {
			v := doc.Values[r][c]
			g.values[r][c] = v
			if !doc.Valid[r][c] {
				continue
			}
			g.valid[r][c] = true
			g.labels[r][c] = doc.Labels[r][c]
			g.min = math.Min(g.min, v)
			g.max = math.Max(g.max, v)
			g.count++
		}
	}
	if g.count == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "grid %s has no valid cells", doc.Key)
	}
	if g.count != doc.ValidCount {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"grid %s: valid_count %d does not match %d valid cells", doc.Key, doc.ValidCount, g.count)
	}
	for r := range g.values {
		for c := range g.values[r] {
			if !g.valid[r][c] {
				g.values[r][c] = g.min
			}
		}
	}
	return g, nil
}

func sized[T any](m [][]T, s Shape) bool {
	if len(m) != s.Rows {
		return false
	}
	for _, row := range m {
		if len(row) != s.Cols {
			return false
		}
	}
	return true
}
