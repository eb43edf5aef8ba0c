package pipeline

import (
	"context"
	"math"
	"slices"
	"time"

	"github.com/adrianjhpc/streamgrid/pkg/bench"
	"github.com/adrianjhpc/streamgrid/pkg/errors"
	"github.com/adrianjhpc/streamgrid/pkg/grid"
	"github.com/adrianjhpc/streamgrid/pkg/ingest"
)

// Layout holds the grids of one dataset.
type Layout struct {
	Shape     grid.Shape
	NodeCount int
	// Keys lists the built metrics in catalogue order.
	Keys  []bench.MetricKey
	Grids map[bench.MetricKey]*grid.MetricGrid
	// Skipped lists requested metrics without a single valid value.
	Skipped   []bench.MetricKey
	Summaries []grid.Summary
}

// Layout resolves the grid shape for ds and builds the requested grids.
//
// The node count is Options.NodeCount when set, else the dataset's declared
// count, else its record count. A metric without any valid value is skipped
// with a warning as long as at least one other metric can be built.
func (r *Runner) Layout(ctx context.Context, ds *ingest.Dataset, opts Options) (*Layout, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}

	count := opts.NodeCount
	if count == 0 {
		count = ds.NodeCount()
	}

	hooks := r.hooks()
	hooks.OnLayoutStart(ctx, count)
	start := time.Now()

	l, err := buildLayout(ds, count, opts)
	if err != nil {
		hooks.OnLayoutComplete(ctx, "", 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnLayoutComplete(ctx, l.Shape.String(), len(l.Grids), time.Since(start), nil)

	for _, k := range l.Skipped {
		opts.Logger.Warn("skipping metric without valid values", "metric", k)
	}
	if filled := len(ds.Records); filled < l.Shape.Cells() {
		opts.Logger.Debug("grid has empty cells", "cells", l.Shape.Cells(), "records", filled)
	}
	return l, nil
}

func buildLayout(ds *ingest.Dataset, count int, opts Options) (*Layout, error) {
	shape, err := grid.Resolve(count)
	if err != nil {
		return nil, err
	}
	keys, err := selectKeys(ds.Keys, opts.Metrics)
	if err != nil {
		return nil, err
	}

	records := completeRecords(ds.Records, keys)

	l := &Layout{Shape: shape, NodeCount: count}
	grids, err := grid.Build(records, shape, keys)
	switch {
	case err == nil:
		l.Grids = grids
	case errors.Terminal(err):
		return nil, err
	default:
		// At least one metric is empty; build the rest one by one.
		l.Grids = make(map[bench.MetricKey]*grid.MetricGrid, len(keys))
		for _, k := range keys {
			g, err := grid.Build(records, shape, []bench.MetricKey{k})
			if errors.Is(err, errors.ErrCodeEmptyDataset) {
				l.Skipped = append(l.Skipped, k)
				continue
			}
			if err != nil {
				return nil, err
			}
			l.Grids[k] = g[k]
		}
		if len(l.Grids) == 0 {
			return nil, errors.New(errors.ErrCodeEmptyDataset, "no metric has a valid value")
		}
	}

	for _, k := range keys {
		g, ok := l.Grids[k]
		if !ok {
			continue
		}
		s, err := grid.Summarize(g)
		if err != nil {
			return nil, err
		}
		l.Keys = append(l.Keys, k)
		l.Summaries = append(l.Summaries, s)
	}
	return l, nil
}

// completeRecords gives records that lack one of keys a NaN value for it, so
// a node that did not report a kernel shows as an empty cell of that metric.
func completeRecords(records []bench.NodeRecord, keys []bench.MetricKey) []bench.NodeRecord {
	out := make([]bench.NodeRecord, len(records))
	for i, r := range records {
		var missing []bench.MetricKey
		for _, k := range keys {
			if _, ok := r.Value(k); !ok {
				missing = append(missing, k)
			}
		}
		if len(missing) == 0 {
			out[i] = r
			continue
		}
		filled := bench.NewRecord(r.Name, r.Metrics)
		if filled.Metrics == nil {
			filled.Metrics = make(map[bench.MetricKey]float64, len(missing))
		}
		for _, k := range missing {
			filled.Metrics[k] = math.NaN()
		}
		out[i] = filled
	}
	return out
}

// selectKeys returns the requested keys in catalogue order, or all available
// keys when none were requested.
func selectKeys(available, requested []bench.MetricKey) ([]bench.MetricKey, error) {
	if len(requested) == 0 {
		out := slices.Clone(available)
		bench.SortKeys(out)
		return out, nil
	}
	out := make([]bench.MetricKey, 0, len(requested))
	for _, k := range requested {
		if !slices.Contains(available, k) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "metric %q is not in the input (have %v)", k, available)
		}
		if !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	bench.SortKeys(out)
	return out, nil
}
