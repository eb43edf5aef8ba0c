package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/adrianjhpc/streamgrid/pkg/grid"
	"github.com/adrianjhpc/streamgrid/pkg/pipeline"
	"github.com/adrianjhpc/streamgrid/pkg/render/heatmap"
	"github.com/adrianjhpc/streamgrid/pkg/render/term"
)

var (
	browseHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
	browseErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
)

var browseVariants = []heatmap.Variant{heatmap.Base, heatmap.Zeroed, heatmap.Theory}

// =============================================================================
// BrowseModel - Interactive metric viewer
// =============================================================================

// BrowseModel is the bubbletea model of the browse command. ←/→ cycle the
// metrics and v cycles the colour scaling.
type BrowseModel struct {
	Layout  *pipeline.Layout
	Index   int
	Variant int
	Peak    float64
	Options []term.Option
}

// NewBrowseModel creates a viewer positioned on the first metric.
func NewBrowseModel(l *pipeline.Layout, variant heatmap.Variant, peak float64, opts []term.Option) BrowseModel {
	m := BrowseModel{Layout: l, Peak: peak, Options: opts}
	for i, v := range browseVariants {
		if v == variant {
			m.Variant = i
		}
	}
	return m
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	n := len(m.Layout.Keys)
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "right", "l", "tab":
		m.Index = (m.Index + 1) % n
	case "left", "h", "shift+tab":
		m.Index = (m.Index + n - 1) % n
	case "home":
		m.Index = 0
	case "end":
		m.Index = n - 1
	case "v":
		m.Variant = (m.Variant + 1) % len(browseVariants)
	}
	return m, nil
}

// Current returns the grid on screen.
func (m BrowseModel) Current() *grid.MetricGrid {
	return m.Layout.Grids[m.Layout.Keys[m.Index]]
}

func (m BrowseModel) View() string {
	var b strings.Builder
	g := m.Current()
	variant := browseVariants[m.Variant]

	opts := append([]term.Option{}, m.Options...)
	opts = append(opts, term.WithBounds(heatmap.VariantBounds(g, variant, m.Peak)))
	out, err := term.Render(g, opts...)
	if err != nil {
		b.WriteString(browseErrorStyle.Render(err.Error()))
		b.WriteString("\n")
	} else {
		b.WriteString(out)
		b.WriteString("\n\n")
	}

	if m.Index < len(m.Layout.Summaries) {
		s := m.Layout.Summaries[m.Index]
		b.WriteString(StyleDim.Render(fmt.Sprintf("mean %s  median %s  stddev %s  %d/%d nodes",
			formatValue(s.Mean), formatValue(s.Median), formatValue(s.StdDev), s.Count, s.Count+s.Empty)))
		b.WriteString("\n")
	}
	b.WriteString(browseHelpStyle.Render(fmt.Sprintf("[%d/%d] %s  scale %s   ←/→ metric  v scale  q quit",
		m.Index+1, len(m.Layout.Keys), g.Key(), variant)))
	b.WriteString("\n")
	return b.String()
}

// browseCommand opens the interactive viewer.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		load loadFlags
		view viewFlags
	)

	cmd := &cobra.Command{
		Use:     "browse <file>",
		Short:   "Page through the heat maps of a results file",
		Example: "  streamgrid browse results.xml",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, variant, err := view.options()
			if err != nil {
				return err
			}
			l, err := c.loadGrids(cmd.Context(), args[0], load)
			if err != nil {
				return err
			}

			model := NewBrowseModel(l, variant, view.peak, opts)
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	load.register(cmd)
	view.register(cmd)
	return cmd
}
