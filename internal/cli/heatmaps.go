package cli

import (
	"context"
	"slices"

	"github.com/spf13/cobra"

	"github.com/adrianjhpc/streamgrid/pkg/bench"
	"github.com/adrianjhpc/streamgrid/pkg/config"
	"github.com/adrianjhpc/streamgrid/pkg/ingest"
	"github.com/adrianjhpc/streamgrid/pkg/pipeline"
	"github.com/adrianjhpc/streamgrid/pkg/render/sink"
)

// renderFlags holds the flags shared by the heat-map commands.
type renderFlags struct {
	output   string   // output directory
	formats  string   // comma-separated formats
	dpi      int      // PNG resolution
	cellSize float64  // inches per cell
	palette  string   // ColorBrewer scheme
	metrics  []string // metric subset
	nodes    int      // node count override
	json     bool     // also write grid JSON
	manifest bool     // also write manifest.json
	parallel int      // concurrent renders
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output directory (default: config output_dir or .)")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): png (default), svg, pdf, json (comma-separated)")
	cmd.Flags().IntVar(&f.dpi, "dpi", 0, "PNG resolution (default 150)")
	cmd.Flags().Float64Var(&f.cellSize, "cell-size", 0, "edge of one grid cell in inches (default 2)")
	cmd.Flags().StringVar(&f.palette, "palette", "", "ColorBrewer colour scheme, _r reverses it (default YlGnBu)")
	cmd.Flags().StringSliceVarP(&f.metrics, "metric", "m", nil, "metric(s) to draw (default: all)")
	cmd.Flags().IntVar(&f.nodes, "nodes", 0, "node count used for the grid shape (default: declared or counted)")
	cmd.Flags().BoolVar(&f.json, "json", false, "also write the grid of each metric as JSON")
	cmd.Flags().BoolVar(&f.manifest, "manifest", false, "also write manifest.json describing the run")
	cmd.Flags().IntVar(&f.parallel, "parallel", 0, "maximum concurrent renders (default: GOMAXPROCS)")
}

// options merges flags over the config file. Only flags set on the command
// line take precedence over config values.
func (f *renderFlags) options(cmd *cobra.Command, cfg *config.Config, input string, kind ingest.Kind) pipeline.Options {
	opts := pipeline.Options{
		Input:       input,
		Kind:        kind,
		NodeCount:   f.nodes,
		Manifest:    f.manifest,
		Parallelism: f.parallel,
	}
	flags := cmd.Flags()
	if flags.Changed("format") {
		opts.Formats = pipeline.ParseFormats(f.formats)
	}
	if flags.Changed("dpi") {
		opts.DPI = f.dpi
	}
	if flags.Changed("cell-size") {
		opts.CellSize = f.cellSize
	}
	if flags.Changed("palette") {
		opts.Palette = f.palette
	}
	for _, m := range f.metrics {
		opts.Metrics = append(opts.Metrics, bench.MetricKey(m))
	}

	cfg.ApplyTo(&opts)

	if f.json && !slices.Contains(opts.Formats, pipeline.FormatJSON) {
		if len(opts.Formats) == 0 {
			opts.Formats = []string{pipeline.FormatPNG}
		}
		opts.Formats = append(opts.Formats, pipeline.FormatJSON)
	}
	return opts
}

// outputDir returns the --output flag, the configured directory or ".".
func (f *renderFlags) outputDir(cfg *config.Config) string {
	switch {
	case f.output != "":
		return f.output
	case cfg.Render.OutputDir != "":
		return cfg.Render.OutputDir
	default:
		return "."
	}
}

// renderHeatmaps runs the pipeline with a progress spinner and writes the
// artifacts into dir.
func (c *CLI) renderHeatmaps(ctx context.Context, opts pipeline.Options, dir string) (*pipeline.Result, error) {
	prog := newProgress(c.Logger)

	spinner := newSpinnerWithContext(ctx, c.Err, "Reading "+opts.Input)
	spinner.Start()

	runner := c.newRunner()
	runner.Hooks = &spinnerHooks{spinner: spinner}
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return nil, err
	}

	for _, k := range result.Skipped {
		c.printWarning("%s has no valid values, skipped", k)
	}

	paths, err := sink.WriteDir(dir, result.Artifacts)
	if err != nil {
		return nil, err
	}

	c.printSuccess("%d nodes on a %s grid, %d metric(s)", result.NodeCount, result.Shape, len(result.Keys))
	for _, p := range paths {
		c.printFile(p)
	}
	c.printSummaries(result.Summaries)

	prog.done("wrote heat maps", "files", len(paths), "dir", dir)
	return result, nil
}
