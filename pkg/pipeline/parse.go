package pipeline

import (
	"context"
	"time"

	"github.com/adrianjhpc/streamgrid/pkg/ingest"
)

// Parse reads the input file, or returns Options.Dataset when one is set.
func (r *Runner) Parse(ctx context.Context, opts Options) (*ingest.Dataset, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForParse(); err != nil {
		return nil, err
	}
	if opts.Dataset != nil {
		return opts.Dataset, nil
	}

	hooks := r.hooks()
	hooks.OnParseStart(ctx, opts.Input)
	start := time.Now()

	ds, err := ingest.ReadFile(opts.Input, opts.Kind, ingest.WithTableKey(opts.TableKey))

	records := 0
	if ds != nil {
		records = len(ds.Records)
	}
	hooks.OnParseComplete(ctx, opts.Input, records, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if ds.Declared > 0 && ds.Declared != len(ds.Records) {
		opts.Logger.Warn("declared node count differs from node elements",
			"declared", ds.Declared,
			"nodes", len(ds.Records))
	}
	return ds, nil
}
