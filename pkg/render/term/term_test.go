package term

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/adrianjhpc/streamgrid/pkg/bench"
	"github.com/adrianjhpc/streamgrid/pkg/errors"
	"github.com/adrianjhpc/streamgrid/pkg/grid"
	"github.com/adrianjhpc/streamgrid/pkg/render"
)

func testGrid(t *testing.T, n int) *grid.MetricGrid {
	t.Helper()
	var records []bench.NodeRecord
	for i := 0; i < n; i++ {
		records = append(records, bench.NewRecord(fmt.Sprintf("nid%03d", i), map[bench.MetricKey]float64{
			"copy_avg": float64(1000 + 10*i),
		}))
	}
	shape, err := grid.Resolve(n)
	if err != nil {
		t.Fatal(err)
	}
	grids, err := grid.Build(records, shape, []bench.MetricKey{"copy_avg"})
	if err != nil {
		t.Fatal(err)
	}
	return grids["copy_avg"]
}

func TestRender(t *testing.T) {
	out, err := Render(testGrid(t, 5))
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	for _, want := range []string{"STREAM Copy Average", "nid000", "nid004", "1040", "N/A", "1000 to 1040 MB/s"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderRowsAreAligned(t *testing.T) {
	out, err := Render(testGrid(t, 7), WithoutLegend(), WithCellWidth(10), WithTitle("t"))
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	lines := strings.Split(out, "\n")
	// Title, margin, then two text lines per grid row.
	body := lines[2:]
	if len(body) != 4 {
		t.Fatalf("got %d body lines, want 4:\n%s", len(body), out)
	}
	for _, l := range body {
		if w := lipgloss.Width(l); w != 40 {
			t.Errorf("line %q has width %d, want 40", l, w)
		}
	}
}

func TestRenderWithBounds(t *testing.T) {
	out, err := Render(testGrid(t, 4), WithBounds(render.Bounds{Min: 0, Max: 5000}))
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(out, "0 to 5000") {
		t.Errorf("legend should show fixed bounds:\n%s", out)
	}
}

func TestRenderUnknownPalette(t *testing.T) {
	_, err := Render(testGrid(t, 4), WithPalette("nope"))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Render() error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"nid001", 10, "nid001"},
		{"compute-node-0001", 8, "compute…"},
		{"abc", 1, "a"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
