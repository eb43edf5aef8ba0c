package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/adrianjhpc/streamgrid/pkg/errors"
	"github.com/adrianjhpc/streamgrid/pkg/grid"
	"github.com/adrianjhpc/streamgrid/pkg/render/heatmap"
	"github.com/adrianjhpc/streamgrid/pkg/render/sink"
)

// job renders one artifact.
type job struct {
	name string
	run  func() ([]byte, error)
}

// Render produces every requested artifact of l, keyed by file name.
// Artifacts are rendered concurrently, at most Options.Parallelism at a time;
// the first failure cancels the remaining work.
func (r *Runner) Render(ctx context.Context, l *Layout, opts Options) (map[string][]byte, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	jobs := renderJobs(l, opts)
	hooks := r.hooks()
	hooks.OnRenderStart(ctx, len(jobs))
	start := time.Now()

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(jobs))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallelism)
	for _, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t := time.Now()
			data, err := j.run()
			if err != nil {
				return fmt.Errorf("%s: %w", j.name, err)
			}
			hooks.OnArtifact(gctx, j.name, len(data), time.Since(t))

			mu.Lock()
			artifacts[j.name] = data
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	hooks.OnRenderComplete(ctx, len(artifacts), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderJobs(l *Layout, opts Options) []job {
	var jobs []job
	formats := opts.ImageFormats()
	suffixed := len(opts.Variants) > 1

	for _, key := range l.Keys {
		g := l.Grids[key]
		for _, v := range opts.Variants {
			for _, f := range formats {
				jobs = append(jobs, job{
					name: ArtifactName(key, v, f, suffixed),
					run:  func() ([]byte, error) { return heatmap.Render(g, heatmapOptions(opts, v, f)...) },
				})
			}
		}
		if opts.WantsJSON() {
			jobs = append(jobs, job{
				name: sink.GridFileName(key),
				run:  func() ([]byte, error) { return sink.RenderGrid(g) },
			})
		}
	}
	return jobs
}

func heatmapOptions(opts Options, v heatmap.Variant, f heatmap.Format) []heatmap.Option {
	return []heatmap.Option{
		heatmap.WithFormat(f),
		heatmap.WithVariant(v),
		heatmap.WithDPI(opts.DPI),
		heatmap.WithCellSize(opts.CellSize),
		heatmap.WithFontSize(opts.FontSize),
		heatmap.WithPalette(opts.Palette),
		heatmap.WithPeak(opts.Peak),
	}
}

// RenderGrid renders a single grid outside a full run, e.g. for a preview.
func RenderGrid(g *grid.MetricGrid, format string, opts Options) ([]byte, error) {
	opts.SetRenderDefaults()
	switch format {
	case FormatJSON:
		return sink.RenderGrid(g)
	case FormatPNG, FormatSVG, FormatPDF:
		return heatmap.Render(g, heatmapOptions(opts, opts.Variants[0], heatmap.Format(format))...)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", format)
	}
}
