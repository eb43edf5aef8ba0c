// Package pipeline runs the parse → layout → render flow of streamgrid.
//
// This package is the single place where a results file becomes a set of
// heat maps. The CLI commands are thin wrappers around it, so every entry
// point applies the same defaults and validation.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: read a STREAM XML document or a two-column table into records
//  2. Layout: resolve the grid shape and build one grid per metric
//  3. Render: produce heat-map images, grid JSON and the run manifest
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{
//	    Input:    "stream_results.xml",
//	    Formats:  []string{"png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["copy_avg.png"]
//
// Run individual stages:
//
//	ds, err := runner.Parse(ctx, opts)
//	layout, err := runner.Layout(ctx, ds, opts)
//	artifacts, err := runner.Render(ctx, layout, opts)
package pipeline

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/adrianjhpc/streamgrid/pkg/bench"
	"github.com/adrianjhpc/streamgrid/pkg/errors"
	"github.com/adrianjhpc/streamgrid/pkg/grid"
	"github.com/adrianjhpc/streamgrid/pkg/ingest"
	"github.com/adrianjhpc/streamgrid/pkg/render"
	"github.com/adrianjhpc/streamgrid/pkg/render/heatmap"
	"github.com/adrianjhpc/streamgrid/pkg/render/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for the CLI and config files
// =============================================================================

const (
	// DefaultDPI is the PNG resolution.
	DefaultDPI = heatmap.DefaultDPI

	// DefaultCellSize is the edge length of one heat-map cell in inches.
	DefaultCellSize = heatmap.DefaultCellSize

	// DefaultFontSize is the cell label size in points.
	DefaultFontSize = heatmap.DefaultFontSize

	// DefaultPeak is the upper colour bound of the theory variant (GFlop/s).
	DefaultPeak = heatmap.DefaultPeak

	// DefaultPalette is the ColorBrewer scheme of the heat maps.
	DefaultPalette = render.DefaultPalette
)

// DefaultParallelism bounds concurrent renders when Options.Parallelism is 0.
var DefaultParallelism = runtime.GOMAXPROCS(0)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatSVG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the heat-map pipeline.
type Options struct {
	// Parse options
	Input    string          `json:"input,omitempty"`
	Kind     ingest.Kind     `json:"kind,omitempty"`
	TableKey bench.MetricKey `json:"table_key,omitempty"` // key of table values (default gflops)

	// Layout options
	Metrics   []bench.MetricKey `json:"metrics,omitempty"`    // subset to build; empty means all
	NodeCount int               `json:"node_count,omitempty"` // overrides the declared count

	// Render options
	Formats     []string          `json:"formats,omitempty"`
	Variants    []heatmap.Variant `json:"variants,omitempty"`
	DPI         int               `json:"dpi,omitempty"`
	CellSize    float64           `json:"cell_size,omitempty"`
	FontSize    float64           `json:"font_size,omitempty"`
	Palette     string            `json:"palette,omitempty"`
	Peak        float64           `json:"peak,omitempty"`
	Manifest    bool              `json:"manifest,omitempty"`
	Parallelism int               `json:"parallelism,omitempty"`

	// Runtime options (not serialized)
	Dataset *ingest.Dataset `json:"-"` // pre-parsed input; Parse is skipped when set
	Logger  *log.Logger     `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and in the manifest.
	RunID uuid.UUID

	Input string
	Kind  ingest.Kind

	// Shape is the resolved grid shape and NodeCount the count it was
	// resolved for.
	Shape     grid.Shape
	NodeCount int

	// Keys lists the built metrics in catalogue order.
	Keys    []bench.MetricKey
	Grids   map[bench.MetricKey]*grid.MetricGrid
	Skipped []bench.MetricKey

	Summaries []grid.Summary

	// Artifacts contains rendered outputs keyed by file name.
	Artifacts map[string][]byte

	// Manifest is set when Options.Manifest is true.
	Manifest *sink.Manifest

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RecordCount int
	NodeCount   int
	GridCount   int
	Artifacts   int
	Bytes       int
	ParseTime   time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, svg, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, trimming blanks and
// dropping duplicates.
func ParseFormats(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks the input options.
func (o *Options) ValidateForParse() error {
	if o.Dataset == nil && o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input file is required")
	}
	kind, err := ingest.ParseKind(string(o.Kind))
	if err != nil {
		return err
	}
	o.Kind = kind
	if o.TableKey == "" {
		o.TableKey = bench.KeyGFlops
	}
	if err := errors.ValidateMetricKey(string(o.TableKey)); err != nil {
		return err
	}
	o.setLogger()
	return nil
}

// ValidateForLayout checks the layout options.
func (o *Options) ValidateForLayout() error {
	if o.NodeCount < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "node count must not be negative, got %d", o.NodeCount)
	}
	for _, k := range o.Metrics {
		if err := errors.ValidateMetricKey(string(k)); err != nil {
			return err
		}
	}
	o.setLogger()
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if len(o.Variants) == 0 {
		o.Variants = []heatmap.Variant{heatmap.Base}
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.CellSize == 0 {
		o.CellSize = DefaultCellSize
	}
	if o.FontSize == 0 {
		o.FontSize = DefaultFontSize
	}
	if o.Palette == "" {
		o.Palette = DefaultPalette
	}
	if o.Peak == 0 {
		o.Peak = DefaultPeak
	}
	if o.Parallelism <= 0 {
		o.Parallelism = DefaultParallelism
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	for _, v := range o.Variants {
		if _, err := heatmap.ParseVariant(string(v)); err != nil {
			return err
		}
	}
	if o.DPI < 0 || o.CellSize < 0 || o.FontSize < 0 || o.Peak < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "render sizes must be positive")
	}
	if _, err := render.NewRamp(o.Palette, 2); err != nil {
		return err
	}
	return nil
}

// ImageFormats returns the requested image formats, without json.
func (o *Options) ImageFormats() []heatmap.Format {
	var out []heatmap.Format
	for _, f := range o.Formats {
		if f != FormatJSON {
			out = append(out, heatmap.Format(f))
		}
	}
	return out
}

// WantsJSON reports whether grid JSON documents were requested.
func (o *Options) WantsJSON() bool {
	for _, f := range o.Formats {
		if f == FormatJSON {
			return true
		}
	}
	return false
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ArtifactName returns the file name of one rendered image. The variant is
// appended when suffixed is true: "gflops_zeroed.png" rather than
// "gflops.png".
func ArtifactName(key bench.MetricKey, v heatmap.Variant, f heatmap.Format, suffixed bool) string {
	if suffixed {
		return fmt.Sprintf("%s_%s.%s", key, v, f)
	}
	return fmt.Sprintf("%s.%s", key, f)
}
