package cli

import (
	"github.com/spf13/cobra"

	"github.com/adrianjhpc/streamgrid/pkg/ingest"
)

// streamCommand draws STREAM XML results.
func (c *CLI) streamCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "stream <results.xml>",
		Short: "Draw heat maps of STREAM bandwidth results",
		Long: `Draw one heat map per STREAM metric (copy, scale, add and triad, each as
average, minimum and maximum bandwidth in MB/s).

Timings in the XML are converted to bandwidth with the array sizes and the
processes per node given in its <configuration> block. The grid is sized by
<number_of_nodes> unless --nodes is given.`,
		Example: `  streamgrid stream results.xml
  streamgrid stream results.xml -m copy_avg,triad_avg -f png,svg -o heatmaps`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg, args[0], ingest.KindStream)
			if len(opts.Metrics) == 0 {
				opts.Metrics = cfg.StreamMetrics()
			}
			_, err = c.renderHeatmaps(cmd.Context(), opts, flags.outputDir(cfg))
			return err
		},
	}

	flags.register(cmd)
	return cmd
}
