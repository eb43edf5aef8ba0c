package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/adrianjhpc/streamgrid/pkg/observability"
	"github.com/adrianjhpc/streamgrid/pkg/render/sink"
)

// Runner executes pipeline stages.
//
// The Runner is stateless except for the logger and hooks - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Logger *log.Logger
	// Hooks receives stage events; nil uses the globally registered hooks.
	Hooks observability.PipelineHooks
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete parse → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		RunID: uuid.New(),
		Input: opts.Input,
	}
	logger := opts.Logger.With("run", result.RunID.String()[:8])

	// Stage 1: Parse
	parseStart := time.Now()
	ds, err := r.Parse(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Kind = ds.Kind
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.RecordCount = len(ds.Records)

	logger.Info("parsed results",
		"kind", ds.Kind,
		"records", len(ds.Records),
		"duration", result.Stats.ParseTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Layout
	layoutStart := time.Now()
	layout, err := r.Layout(ctx, ds, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Shape = layout.Shape
	result.NodeCount = layout.NodeCount
	result.Keys = layout.Keys
	result.Grids = layout.Grids
	result.Skipped = layout.Skipped
	result.Summaries = layout.Summaries
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = layout.NodeCount
	result.Stats.GridCount = len(layout.Grids)

	logger.Info("computed layout",
		"nodes", layout.NodeCount,
		"rows", layout.Shape.Rows,
		"cols", layout.Shape.Cols,
		"metrics", len(layout.Keys),
		"duration", result.Stats.LayoutTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := r.Render(ctx, layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts

	if opts.Manifest {
		m := sink.NewManifest(result.RunID, layout.Shape, layout.NodeCount, layout.Summaries, artifacts)
		m.Input = opts.Input
		m.Kind = string(ds.Kind)
		m.Skipped = layout.Skipped
		data, err := m.Marshal()
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		result.Manifest = m
		result.Artifacts[sink.ManifestName] = data
	}

	result.Stats.RenderTime = time.Since(renderStart)
	result.Stats.Artifacts = len(result.Artifacts)
	for _, data := range result.Artifacts {
		result.Stats.Bytes += len(data)
	}

	logger.Info("rendered outputs",
		"artifacts", result.Stats.Artifacts,
		"formats", opts.Formats,
		"bytes", result.Stats.Bytes,
		"duration", result.Stats.RenderTime)

	return result, nil
}

func (r *Runner) hooks() observability.PipelineHooks {
	if r.Hooks != nil {
		return r.Hooks
	}
	return observability.Pipeline()
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
