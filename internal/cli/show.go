package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adrianjhpc/streamgrid/pkg/bench"
	"github.com/adrianjhpc/streamgrid/pkg/errors"
	"github.com/adrianjhpc/streamgrid/pkg/render/heatmap"
	"github.com/adrianjhpc/streamgrid/pkg/render/term"
)

// viewFlags holds the drawing flags of show and browse.
type viewFlags struct {
	palette string
	variant string
	peak    float64
	width   int
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.palette, "palette", "", "ColorBrewer colour scheme (default YlGnBu)")
	cmd.Flags().StringVar(&f.variant, "variant", string(heatmap.Base), "colour scaling: base, zeroed, theory")
	cmd.Flags().Float64Var(&f.peak, "peak", heatmap.DefaultPeak, "upper bound of the theory scaling")
	cmd.Flags().IntVar(&f.width, "width", term.DefaultCellWidth, "cell width in columns")
}

func (f *viewFlags) options() ([]term.Option, heatmap.Variant, error) {
	v, err := heatmap.ParseVariant(f.variant)
	if err != nil {
		return nil, "", err
	}
	opts := []term.Option{term.WithCellWidth(f.width)}
	if f.palette != "" {
		opts = append(opts, term.WithPalette(f.palette))
	}
	return opts, v, nil
}

// showCommand draws one metric in the terminal.
func (c *CLI) showCommand() *cobra.Command {
	var (
		load   loadFlags
		view   viewFlags
		metric string
		noKey  bool
	)

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Draw one metric as a heat map in the terminal",
		Example: `  streamgrid show results.xml -m triad_avg
  streamgrid show gflops.csv --variant theory
  streamgrid show copy_avg.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, variant, err := view.options()
			if err != nil {
				return err
			}
			l, err := c.loadGrids(cmd.Context(), args[0], load)
			if err != nil {
				return err
			}

			key := bench.MetricKey(metric)
			if key == "" {
				key = l.Keys[0]
			}
			g, ok := l.Grids[key]
			if !ok {
				return errors.New(errors.ErrCodeInvalidInput, "metric %q is not available (have %v)", key, l.Keys)
			}

			opts = append(opts, term.WithBounds(heatmap.VariantBounds(g, variant, view.peak)))
			if noKey {
				opts = append(opts, term.WithoutLegend())
			}
			out, err := term.Render(g, opts...)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Out, out)
			return nil
		},
	}

	load.register(cmd)
	view.register(cmd)
	cmd.Flags().StringVarP(&metric, "metric", "m", "", "metric to draw (default: the first one)")
	cmd.Flags().BoolVar(&noKey, "no-legend", false, "omit the colour legend")
	return cmd
}
