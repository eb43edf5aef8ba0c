package heatmap

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/adrianjhpc/streamgrid/pkg/errors"
	"github.com/adrianjhpc/streamgrid/pkg/grid"
	"github.com/adrianjhpc/streamgrid/pkg/render"
)

// maxEdge bounds the longer image edge in inches; cells shrink to fit.
const maxEdge = 24.0

// titleSpace is the extra height reserved for the two title lines.
const titleSpace = 0.6 * vg.Inch

// NotAvailable labels cells that received no record.
const NotAvailable = "N/A"

// Render draws g and returns the encoded image.
func Render(g *grid.MetricGrid, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, g, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write draws g and writes the encoded image to w.
func Write(w io.Writer, g *grid.MetricGrid, opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p, err := newPlot(g, o)
	if err != nil {
		return err
	}
	width, height := canvasSize(g.Shape(), o.cellSize)

	var c vg.CanvasWriterTo
	switch o.format {
	case FormatPNG:
		img := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(o.dpi))
		p.Draw(draw.New(img))
		c = vgimg.PngCanvas{Canvas: img}
	case FormatSVG:
		svg := vgsvg.New(width, height)
		p.Draw(draw.New(svg))
		c = svg
	case FormatPDF:
		pdf := vgpdf.New(width, height)
		p.Draw(draw.New(pdf))
		c = pdf
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported image format %q", o.format)
	}

	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("encode %s: %w", o.format, err)
	}
	return nil
}

// Plot builds the gonum plot of g without encoding it.
func Plot(g *grid.MetricGrid, opts ...Option) (*plot.Plot, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newPlot(g, o)
}

// VariantBounds returns the colour scale bounds of g for variant v.
// peak is only used by [Theory].
func VariantBounds(g *grid.MetricGrid, v Variant, peak float64) render.Bounds {
	lo, hi := g.Range()
	switch v {
	case Zeroed:
		lo = 0
	case Theory:
		lo, hi = 0, peak
	}
	return render.Bounds{Min: lo, Max: hi}.Normalize()
}

func newPlot(g *grid.MetricGrid, o options) (*plot.Plot, error) {
	ramp, err := render.NewRamp(o.palette, render.DefaultSteps)
	if err != nil {
		return nil, err
	}
	b := VariantBounds(g, o.variant, o.peak)

	title := o.title
	if title == "" {
		title = g.Metric().Title
	}
	p := plot.New()
	p.Title.Text = title + "\n" + rangeCaption(g, b)

	hm := plotter.NewHeatMap(cells{g}, ramp)
	hm.Min, hm.Max = b.Min, b.Max
	colors := ramp.Colors()
	hm.Underflow = colors[0]
	hm.Overflow = colors[len(colors)-1]
	p.Add(hm)

	labels, err := cellLabels(g, ramp, b, o.fontSize)
	if err != nil {
		return nil, err
	}
	p.Add(labels)

	p.HideAxes()
	return p, nil
}

// cells adapts a grid to plotter.GridXYZ. Plot rows grow upwards, so grid
// row 0 is mapped to the top plot row.
type cells struct {
	g *grid.MetricGrid
}

func (c cells) Dims() (int, int)       { return c.g.Cols(), c.g.Rows() }
func (c cells) Z(col, row int) float64 { return c.g.Value(c.g.Rows()-1-row, col) }
func (c cells) X(col int) float64      { return float64(col) }
func (c cells) Y(row int) float64      { return float64(row) }

func cellLabels(g *grid.MetricGrid, ramp *render.Ramp, b render.Bounds, size float64) (*plotter.Labels, error) {
	n := g.Shape().Cells()
	data := plotter.XYLabels{
		XYs:    make(plotter.XYs, 0, n),
		Labels: make([]string, 0, n),
	}
	inks := make([]color.Color, 0, n)
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			data.XYs = append(data.XYs, plotter.XY{X: float64(c), Y: float64(g.Rows() - 1 - r)})
			data.Labels = append(data.Labels, CellText(g, r, c))
			inks = append(inks, render.Contrast(ramp.Scale(g.Value(r, c), b.Min, b.Max)))
		}
	}

	l, err := plotter.NewLabels(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "label %s", g.Key())
	}
	for i := range l.TextStyle {
		l.TextStyle[i].XAlign = text.XCenter
		l.TextStyle[i].YAlign = text.YCenter
		l.TextStyle[i].Font.Size = vg.Points(size)
		l.TextStyle[i].Color = inks[i]
	}
	return l, nil
}

// CellText returns the annotation of cell (r, c): the node name above the
// rounded value and unit, or [NotAvailable].
func CellText(g *grid.MetricGrid, r, c int) string {
	name, ok := g.Label(r, c)
	if !ok {
		return NotAvailable
	}
	value := fmt.Sprintf("%.0f", g.Value(r, c))
	if unit := g.Metric().Unit; unit != "" {
		value += " " + unit
	}
	return name + "\n" + value
}

func rangeCaption(g *grid.MetricGrid, b render.Bounds) string {
	lo, hi := g.Range()
	unit := g.Metric().Unit
	if unit == "" {
		unit = "value"
	}
	return fmt.Sprintf("%s %.0f to %.0f (scale %.0f to %.0f), %d of %d nodes",
		unit, lo, hi, b.Min, b.Max, g.ValidCount(), g.Shape().Cells())
}

func canvasSize(s grid.Shape, cell float64) (vg.Length, vg.Length) {
	longest := float64(max(s.Rows, s.Cols))
	if longest*cell > maxEdge {
		cell = maxEdge / longest
	}
	w := vg.Length(float64(s.Cols)*cell) * vg.Inch
	h := vg.Length(float64(s.Rows)*cell)*vg.Inch + titleSpace
	return w, h
}
