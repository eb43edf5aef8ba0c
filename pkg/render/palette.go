package render

import (
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"

	"github.com/adrianjhpc/streamgrid/pkg/errors"
)

// DefaultPalette is the ColorBrewer scheme used when none is configured.
const DefaultPalette = "YlGnBu"

// DefaultSteps is the number of colours in a default ramp.
const DefaultSteps = 64

// Ramp is a continuous colour scale sampled into discrete steps.
// It implements [palette.Palette].
type Ramp struct {
	name   string
	colors []colorful.Color
}

var _ palette.Palette = (*Ramp)(nil)

// NewRamp builds a ramp of steps colours from a ColorBrewer scheme name such
// as "YlGnBu" or "Spectral". A "_r" suffix reverses the scheme. Names are
// matched case-sensitively as ColorBrewer spells them.
func NewRamp(name string, steps int) (*Ramp, error) {
	if steps < 2 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "palette needs at least 2 steps, got %d", steps)
	}
	if name == "" {
		name = DefaultPalette
	}
	scheme, reverse := strings.CutSuffix(name, "_r")

	anchors, err := brewerAnchors(scheme)
	if err != nil {
		return nil, err
	}
	if reverse {
		for i, j := 0, len(anchors)-1; i < j; i, j = i+1, j-1 {
			anchors[i], anchors[j] = anchors[j], anchors[i]
		}
	}

	r := &Ramp{name: name, colors: make([]colorful.Color, steps)}
	for i := range r.colors {
		r.colors[i] = blend(anchors, float64(i)/float64(steps-1))
	}
	return r, nil
}

// brewerAnchors returns the largest variant of a ColorBrewer scheme.
func brewerAnchors(scheme string) ([]colorful.Color, error) {
	for n := 12; n >= 3; n-- {
		p, err := brewer.GetPalette(brewer.TypeAny, scheme, n)
		if err != nil {
			continue
		}
		var out []colorful.Color
		for _, c := range p.Colors() {
			cc, ok := colorful.MakeColor(c)
			if !ok {
				continue
			}
			out = append(out, cc)
		}
		if len(out) >= 2 {
			return out, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown palette %q", scheme)
}

func blend(anchors []colorful.Color, t float64) colorful.Color {
	pos := t * float64(len(anchors)-1)
	i := int(math.Floor(pos))
	if i >= len(anchors)-1 {
		return anchors[len(anchors)-1]
	}
	return anchors[i].BlendLab(anchors[i+1], pos-float64(i)).Clamped()
}

// Name returns the palette name the ramp was built from.
func (r *Ramp) Name() string { return r.name }

// Len returns the number of steps.
func (r *Ramp) Len() int { return len(r.colors) }

// Colors implements [palette.Palette].
func (r *Ramp) Colors() []color.Color {
	out := make([]color.Color, len(r.colors))
	for i, c := range r.colors {
		out[i] = c
	}
	return out
}

// At returns the colour for t in [0, 1]; values outside are clamped and NaN
// maps to the low end.
func (r *Ramp) At(t float64) colorful.Color {
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return r.colors[int(math.Round(t*float64(len(r.colors)-1)))]
}

// Scale maps v within [lo, hi] to the ramp. A degenerate range maps every
// value to the middle colour.
func (r *Ramp) Scale(v, lo, hi float64) colorful.Color {
	if !(hi > lo) {
		return r.At(0.5)
	}
	return r.At((v - lo) / (hi - lo))
}

// Contrast returns black or white, whichever reads better on c.
func Contrast(c colorful.Color) colorful.Color {
	l, _, _ := c.Lab()
	if l > 0.6 {
		return colorful.Color{R: 0, G: 0, B: 0}
	}
	return colorful.Color{R: 1, G: 1, B: 1}
}

// Bounds is the value range mapped onto a ramp.
type Bounds struct {
	Min, Max float64
}

// Normalize widens a degenerate range so that Min < Max always holds.
func (b Bounds) Normalize() Bounds {
	if b.Max > b.Min {
		return b
	}
	pad := math.Abs(b.Min) * 0.5
	if pad == 0 {
		pad = 0.5
	}
	return Bounds{Min: b.Min - pad, Max: b.Min + pad}
}
