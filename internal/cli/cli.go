// Package cli implements the streamgrid command-line interface.
//
// The commands turn per-node STREAM and HPL benchmark results into heat
// maps laid out on a near-square grid of nodes. They are thin wrappers
// around [pipeline.Runner]; flags, the optional config file and the
// pipeline defaults are merged here.
//
// # Commands
//
//   - stream: heat maps for STREAM XML results
//   - hpl: heat maps for a node,GFlop/s table in three colour scalings
//   - shape: print the grid shape chosen for a node count
//   - show: draw one metric in the terminal
//   - browse: page through the metrics of a file interactively
//
// All commands support --verbose (-v) for debug-level logging and --config
// to select a config file.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/adrianjhpc/streamgrid/pkg/buildinfo"
	"github.com/adrianjhpc/streamgrid/pkg/config"
	"github.com/adrianjhpc/streamgrid/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "streamgrid"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command output and Err the progress spinner.
	Out io.Writer
	Err io.Writer

	configPath string
}

// New creates a new CLI instance writing logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		Err:    w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Streamgrid draws per-node benchmark results as heat maps",
		Long:          `Streamgrid reads STREAM memory-bandwidth and HPL results collected on every node of a cluster and draws one heat map per metric, with the nodes laid out on a near-square grid.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/streamgrid/config.toml)")

	root.AddCommand(c.streamCommand())
	root.AddCommand(c.hplCommand())
	root.AddCommand(c.shapeCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner and Config
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// loadConfig reads the --config file or the default one.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	return cfg, nil
}
