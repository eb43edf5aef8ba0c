package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/adrianjhpc/streamgrid/pkg/errors"
	"github.com/adrianjhpc/streamgrid/pkg/grid"
)

// shapeReport is the --json output of the shape command.
type shapeReport struct {
	Nodes  int  `json:"nodes"`
	Rows   int  `json:"rows"`
	Cols   int  `json:"cols"`
	Cells  int  `json:"cells"`
	Empty  int  `json:"empty"`
	Bumped bool `json:"bumped"`
}

func resolveShape(nodes int) (shapeReport, error) {
	r := grid.NewResolver(nodes)
	shape, err := r.Run()
	if err != nil {
		return shapeReport{}, err
	}
	return shapeReport{
		Nodes:  nodes,
		Rows:   shape.Rows,
		Cols:   shape.Cols,
		Cells:  shape.Cells(),
		Empty:  shape.Cells() - nodes,
		Bumped: r.Effective() != nodes,
	}, nil
}

// shapeCommand prints the grid chosen for a node count.
func (c *CLI) shapeCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "shape <nodes>",
		Short:   "Print the grid shape used for a node count",
		Example: "  streamgrid shape 97",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "node count must be an integer, got %q", args[0])
			}
			report, err := resolveShape(n)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(c.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			c.printKeyValue("nodes", strconv.Itoa(report.Nodes))
			c.printKeyValue("grid", fmt.Sprintf("%d × %d", report.Rows, report.Cols))
			if report.Bumped {
				c.printKeyValue("empty", fmt.Sprintf("%d (%d has no usable factorisation)", report.Empty, n))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the shape as JSON")
	return cmd
}
