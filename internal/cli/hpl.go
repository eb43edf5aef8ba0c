package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/adrianjhpc/streamgrid/pkg/bench"
	"github.com/adrianjhpc/streamgrid/pkg/ingest"
	"github.com/adrianjhpc/streamgrid/pkg/render/heatmap"
)

// hplVariants is the default set of colour scalings for HPL results.
var hplVariants = []heatmap.Variant{heatmap.Base, heatmap.Zeroed, heatmap.Theory}

// hplCommand draws a node,GFlop/s table.
func (c *CLI) hplCommand() *cobra.Command {
	var (
		flags    renderFlags
		variants []string
		peak     float64
		key      string
	)

	cmd := &cobra.Command{
		Use:   "hpl <results.csv>",
		Short: "Draw heat maps of HPL GFlop/s results",
		Long: `Draw HPL results given as a two-column table of node name and GFlop/s.

Three images are written by default:
  base    colours span the measured range
  zeroed  colours span 0 to the maximum
  theory  colours span 0 to the theoretical peak (--peak)`,
		Example: `  streamgrid hpl gflops.csv
  streamgrid hpl gflops.csv --variant theory --peak 3500 -f pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg, args[0], ingest.KindTable)
			opts.TableKey = bench.MetricKey(key)
			opts.Variants = hplVariants
			if cmd.Flags().Changed("variant") {
				opts.Variants = nil
				for _, v := range variants {
					opts.Variants = append(opts.Variants, heatmap.Variant(strings.ToLower(strings.TrimSpace(v))))
				}
			}
			if cmd.Flags().Changed("peak") {
				opts.Peak = peak
			}
			_, err = c.renderHeatmaps(cmd.Context(), opts, flags.outputDir(cfg))
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringSliceVar(&variants, "variant", nil, "colour scaling(s): base, zeroed, theory (default: all three)")
	cmd.Flags().Float64Var(&peak, "peak", heatmap.DefaultPeak, "theoretical peak in GFlop/s for the theory scaling")
	cmd.Flags().StringVar(&key, "key", string(bench.KeyGFlops), "metric key of the value column")
	return cmd
}
