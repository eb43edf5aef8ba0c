package heatmap

import (
	"strings"

	"github.com/adrianjhpc/streamgrid/pkg/errors"
	"github.com/adrianjhpc/streamgrid/pkg/render"
)

// Format is an image output format.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
	FormatPDF Format = "pdf"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPNG, FormatSVG, FormatPDF:
		return f, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported image format %q (want png, svg or pdf)", s)
	}
}

// Variant selects the colour scale bounds.
type Variant string

const (
	Base   Variant = "base"
	Zeroed Variant = "zeroed"
	Theory Variant = "theory"
)

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case Base, Zeroed, Theory:
		return v, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown variant %q (want base, zeroed or theory)", s)
	}
}

// Defaults.
const (
	DefaultDPI      = 150
	DefaultCellSize = 2.0 // inches
	DefaultFontSize = 8.0 // points
	// DefaultPeak is the theoretical peak in GFlop/s of the reference node.
	DefaultPeak = 5325.0
)

// Option configures [Render].
type Option func(*options)

type options struct {
	format   Format
	variant  Variant
	dpi      int
	cellSize float64
	fontSize float64
	peak     float64
	palette  string
	title    string
}

func defaultOptions() options {
	return options{
		format:   FormatPNG,
		variant:  Base,
		dpi:      DefaultDPI,
		cellSize: DefaultCellSize,
		fontSize: DefaultFontSize,
		peak:     DefaultPeak,
		palette:  render.DefaultPalette,
	}
}

func WithFormat(f Format) Option   { return func(o *options) { o.format = f } }
func WithVariant(v Variant) Option { return func(o *options) { o.variant = v } }
func WithPalette(name string) Option {
	return func(o *options) {
		if name != "" {
			o.palette = name
		}
	}
}

// WithTitle overrides the metric title shown above the map.
func WithTitle(title string) Option { return func(o *options) { o.title = title } }

// WithDPI sets the PNG resolution. Non-positive values keep the default.
func WithDPI(dpi int) Option {
	return func(o *options) {
		if dpi > 0 {
			o.dpi = dpi
		}
	}
}

// WithCellSize sets the edge length of one cell in inches.
func WithCellSize(inches float64) Option {
	return func(o *options) {
		if inches > 0 {
			o.cellSize = inches
		}
	}
}

// WithFontSize sets the cell label size in points.
func WithFontSize(points float64) Option {
	return func(o *options) {
		if points > 0 {
			o.fontSize = points
		}
	}
}

// WithPeak sets the upper bound of the [Theory] variant.
func WithPeak(peak float64) Option {
	return func(o *options) {
		if peak > 0 {
			o.peak = peak
		}
	}
}
