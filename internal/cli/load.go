package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adrianjhpc/streamgrid/pkg/bench"
	"github.com/adrianjhpc/streamgrid/pkg/errors"
	"github.com/adrianjhpc/streamgrid/pkg/grid"
	"github.com/adrianjhpc/streamgrid/pkg/ingest"
	"github.com/adrianjhpc/streamgrid/pkg/pipeline"
)

// loadFlags selects how the viewer commands read their input.
type loadFlags struct {
	kind  string
	key   string
	nodes int
}

func (f *loadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "kind", "auto", "input kind: auto, stream, table")
	cmd.Flags().StringVar(&f.key, "key", string(bench.KeyGFlops), "metric key of table values")
	cmd.Flags().IntVar(&f.nodes, "nodes", 0, "node count used for the grid shape (default: declared or counted)")
}

// loadGrids builds the grids of a results file. A .json file is read as a
// grid exported with --json.
func (c *CLI) loadGrids(ctx context.Context, path string, f loadFlags) (*pipeline.Layout, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return loadGridJSON(path)
	}

	kind, err := ingest.ParseKind(f.kind)
	if err != nil {
		return nil, err
	}
	opts := pipeline.Options{
		Input:     path,
		Kind:      kind,
		TableKey:  bench.MetricKey(f.key),
		NodeCount: f.nodes,
	}

	runner := c.newRunner()
	ds, err := runner.Parse(ctx, opts)
	if err != nil {
		return nil, err
	}
	return runner.Layout(ctx, ds, opts)
}

func loadGridJSON(path string) (*pipeline.Layout, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "grid file %s not found", path)
		}
		return nil, err
	}
	defer file.Close()

	g, err := grid.ReadJSON(file)
	if err != nil {
		return nil, err
	}
	s, err := grid.Summarize(g)
	if err != nil {
		return nil, err
	}
	return &pipeline.Layout{
		Shape:     g.Shape(),
		NodeCount: g.ValidCount(),
		Keys:      []bench.MetricKey{g.Key()},
		Grids:     map[bench.MetricKey]*grid.MetricGrid{g.Key(): g},
		Summaries: []grid.Summary{s},
	}, nil
}
