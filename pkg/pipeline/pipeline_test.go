package pipeline

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/adrianjhpc/streamgrid/pkg/bench"
	sgerrors "github.com/adrianjhpc/streamgrid/pkg/errors"
	"github.com/adrianjhpc/streamgrid/pkg/grid"
	"github.com/adrianjhpc/streamgrid/pkg/ingest"
	"github.com/adrianjhpc/streamgrid/pkg/observability"
	"github.com/adrianjhpc/streamgrid/pkg/render/heatmap"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"png", false},
		{"svg", false},
		{"pdf", false},
		{"json", false},
		{"gif", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestParseFormats(t *testing.T) {
	got := ParseFormats(" PNG, svg,,png ,json")
	want := []string{"png", "svg", "json"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseFormats() mismatch (-want +got):\n%s", diff)
	}
	if ParseFormats("") != nil {
		t.Error("ParseFormats(\"\") should be nil")
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Input: "hpl.csv"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}

	if opts.Kind != ingest.KindAuto || opts.TableKey != bench.KeyGFlops {
		t.Errorf("parse defaults = %q, %q", opts.Kind, opts.TableKey)
	}
	if diff := cmp.Diff([]string{FormatPNG}, opts.Formats); diff != "" {
		t.Errorf("Formats mismatch (-want +got):\n%s", diff)
	}
	if opts.DPI != DefaultDPI || opts.CellSize != DefaultCellSize || opts.Peak != DefaultPeak {
		t.Errorf("render defaults = %d, %v, %v", opts.DPI, opts.CellSize, opts.Peak)
	}
	if opts.Parallelism != DefaultParallelism || opts.Logger == nil {
		t.Errorf("runtime defaults = %d, %v", opts.Parallelism, opts.Logger)
	}

	// Idempotent.
	before := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second ValidateAndSetDefaults() error: %v", err)
	}
	if opts.DPI != before.DPI || !slices.Equal(opts.Formats, before.Formats) {
		t.Error("second call changed the options")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code sgerrors.Code
	}{
		{"no input", Options{}, sgerrors.ErrCodeInvalidInput},
		{"bad kind", Options{Input: "x", Kind: "yaml"}, sgerrors.ErrCodeInvalidInput},
		{"bad format", Options{Input: "x", Formats: []string{"gif"}}, sgerrors.ErrCodeInvalidFormat},
		{"bad variant", Options{Input: "x", Variants: []heatmap.Variant{"log"}}, sgerrors.ErrCodeInvalidInput},
		{"bad palette", Options{Input: "x", Palette: "nope"}, sgerrors.ErrCodeInvalidInput},
		{"negative nodes", Options{Input: "x", NodeCount: -1}, sgerrors.ErrCodeInvalidInput},
		{"bad metric", Options{Input: "x", Metrics: []bench.MetricKey{"Copy Avg"}}, sgerrors.ErrCodeInvalidInput},
		{"negative dpi", Options{Input: "x", DPI: -3}, sgerrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !sgerrors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestArtifactName(t *testing.T) {
	if got := ArtifactName("copy_avg", heatmap.Base, heatmap.FormatPNG, false); got != "copy_avg.png" {
		t.Errorf("ArtifactName() = %q", got)
	}
	if got := ArtifactName("gflops", heatmap.Zeroed, heatmap.FormatPNG, true); got != "gflops_zeroed.png" {
		t.Errorf("ArtifactName() = %q", got)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const hplTable = `nid001,910
nid002,905
nid003,930
nid004,899
nid005,921
`

func TestExecuteTable(t *testing.T) {
	path := writeFile(t, "hpl.csv", hplTable)
	opts := Options{
		Input:    path,
		Formats:  []string{FormatSVG, FormatJSON},
		Variants: []heatmap.Variant{heatmap.Base, heatmap.Zeroed, heatmap.Theory},
		Manifest: true,
	}

	result, err := NewRunner(nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if result.Shape != (grid.Shape{Rows: 2, Cols: 3}) || result.NodeCount != 5 {
		t.Errorf("layout = %s for %d nodes", result.Shape, result.NodeCount)
	}
	want := []string{"gflops.json", "gflops_base.svg", "gflops_theory.svg", "gflops_zeroed.svg", "manifest.json"}
	if diff := cmp.Diff(want, slices.Sorted(maps.Keys(result.Artifacts))); diff != "" {
		t.Errorf("artifacts mismatch (-want +got):\n%s", diff)
	}
	if result.Manifest == nil || result.Manifest.RunID != result.RunID || len(result.Manifest.Artifacts) != 4 {
		t.Errorf("manifest = %+v", result.Manifest)
	}
	if len(result.Summaries) != 1 || result.Summaries[0].Count != 5 || result.Summaries[0].Empty != 1 {
		t.Errorf("summaries = %+v", result.Summaries)
	}
	if result.Stats.RecordCount != 5 || result.Stats.Artifacts != 5 || result.Stats.Bytes == 0 {
		t.Errorf("stats = %+v", result.Stats)
	}
}

const streamConfig = `<configuration>
  <processes_per_node>4</processes_per_node>
  <threads_per_process>1</threads_per_process>
  <number_of_nodes>3</number_of_nodes>
  <copy_size>1000000</copy_size><scale_size>1000000</scale_size>
  <add_size>1000000</add_size><triad_size>1000000</triad_size>
</configuration>`

// streamNode returns a node element whose kernels all share the same
// timings: avg, with min and max 20% either side.
func streamNode(name string, avg float64) string {
	timing := fmt.Sprintf("<Average>%g</Average><Minimum>%g</Minimum><Maximum>%g</Maximum>", avg, avg*0.8, avg*1.2)
	var b strings.Builder
	fmt.Fprintf(&b, "<node><name>%s</name>", name)
	for _, k := range []string{"Copy", "Scale", "Add", "Triad"} {
		fmt.Fprintf(&b, "<%s>%s</%s>", k, timing, k)
	}
	b.WriteString("</node>\n")
	return b.String()
}

func streamResults(nodes ...string) string {
	return "<results>\n" + streamConfig + "\n" + strings.Join(nodes, "") + "</results>"
}

var streamDoc = streamResults(streamNode("a", 0.5), streamNode("b", 1), streamNode("c", 2))

func TestExecuteStream(t *testing.T) {
	path := writeFile(t, "stream.xml", streamDoc)
	result, err := NewRunner(nil).Execute(context.Background(), Options{
		Input:   path,
		Formats: []string{FormatJSON},
		Metrics: []bench.MetricKey{"triad_max", "copy_avg"},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if result.Kind != ingest.KindStream || result.Shape != (grid.Shape{Rows: 2, Cols: 2}) {
		t.Errorf("kind=%s shape=%s", result.Kind, result.Shape)
	}
	if diff := cmp.Diff([]bench.MetricKey{"copy_avg", "triad_max"}, result.Keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	g := result.Grids["copy_avg"]
	if got := g.Value(0, 0); math.Abs(got-8) > 1e-9 {
		t.Errorf("copy_avg(0,0) = %v, want 8", got)
	}
	if g.Valid(1, 1) || g.Value(1, 1) != 2 {
		t.Errorf("empty cell = %v, valid=%v; want placeholder 2", g.Value(1, 1), g.Valid(1, 1))
	}
	if _, ok := result.Artifacts["triad_max.json"]; !ok {
		t.Error("missing triad_max.json")
	}
}

func TestExecuteTooManyRecords(t *testing.T) {
	// Declares 3 nodes (a 2×2 grid) but lists five.
	doc := streamResults(streamNode("a", 1), streamNode("b", 1), streamNode("c", 1), streamNode("d", 1), streamNode("e", 1))
	path := writeFile(t, "stream.xml", doc)

	_, err := NewRunner(nil).Execute(context.Background(), Options{Input: path, Formats: []string{FormatJSON}})
	if !sgerrors.Is(err, sgerrors.ErrCodeTooManyRecords) {
		t.Errorf("Execute() error = %v, want %s", err, sgerrors.ErrCodeTooManyRecords)
	}
}

func TestLayoutSkipsEmptyMetrics(t *testing.T) {
	ds := &ingest.Dataset{
		Kind: ingest.KindTable,
		Keys: []bench.MetricKey{"gflops", "power"},
		Records: []bench.NodeRecord{
			bench.NewRecord("a", map[bench.MetricKey]float64{"gflops": 1, "power": math.NaN()}),
			bench.NewRecord("b", map[bench.MetricKey]float64{"gflops": 2, "power": math.NaN()}),
			bench.NewRecord("c", map[bench.MetricKey]float64{"gflops": 3, "power": math.NaN()}),
			bench.NewRecord("d", map[bench.MetricKey]float64{"gflops": 4, "power": math.NaN()}),
		},
	}
	l, err := NewRunner(nil).Layout(context.Background(), ds, Options{Dataset: ds})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if diff := cmp.Diff([]bench.MetricKey{"power"}, l.Skipped); diff != "" {
		t.Errorf("skipped mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bench.MetricKey{"gflops"}, l.Keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	ds.Keys = []bench.MetricKey{"power"}
	_, err = NewRunner(nil).Layout(context.Background(), ds, Options{Dataset: ds})
	if !sgerrors.Is(err, sgerrors.ErrCodeEmptyDataset) {
		t.Errorf("Layout() error = %v, want %s", err, sgerrors.ErrCodeEmptyDataset)
	}
}

func TestLayoutUnknownMetric(t *testing.T) {
	ds := &ingest.Dataset{Keys: []bench.MetricKey{"gflops"}, Records: []bench.NodeRecord{
		bench.NewRecord("a", map[bench.MetricKey]float64{"gflops": 1}),
	}}
	_, err := NewRunner(nil).Layout(context.Background(), ds, Options{Dataset: ds, NodeCount: 4, Metrics: []bench.MetricKey{"copy_avg"}})
	if !sgerrors.Is(err, sgerrors.ErrCodeInvalidInput) {
		t.Errorf("Layout() error = %v, want %s", err, sgerrors.ErrCodeInvalidInput)
	}
}

func TestExecuteMissingFile(t *testing.T) {
	_, err := NewRunner(nil).Execute(context.Background(), Options{Input: filepath.Join(t.TempDir(), "none.csv")})
	if !sgerrors.Is(err, sgerrors.ErrCodeFileNotFound) {
		t.Errorf("Execute() error = %v, want %s", err, sgerrors.ErrCodeFileNotFound)
	}
}

func TestExecuteCancelled(t *testing.T) {
	path := writeFile(t, "hpl.csv", hplTable)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil).Execute(ctx, Options{Input: path, Formats: []string{FormatJSON}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestRunnerHooks(t *testing.T) {
	path := writeFile(t, "hpl.csv", hplTable)
	hooks := &recordingHooks{}
	runner := &Runner{Logger: nil, Hooks: hooks}

	_, err := runner.Execute(context.Background(), Options{
		Input:       path,
		Formats:     []string{FormatJSON, FormatSVG},
		Parallelism: 2,
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	want := []string{"parse", "layout 2×3", "artifact", "artifact", "render 2"}
	got := hooks.snapshot()
	slices.Sort(got)
	slices.Sort(want)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) add(s string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, s)
}

func (h *recordingHooks) snapshot() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.events)
}

func (h *recordingHooks) OnParseComplete(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	if err == nil {
		h.add("parse")
	}
}

func (h *recordingHooks) OnLayoutComplete(_ context.Context, shape string, _ int, _ time.Duration, _ error) {
	h.add("layout " + shape)
}

func (h *recordingHooks) OnArtifact(context.Context, string, int, time.Duration) {
	h.add("artifact")
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, n int, _ time.Duration, _ error) {
	h.add("render " + strconv.Itoa(n))
}

func TestLayoutFillsMissingMetrics(t *testing.T) {
	ds := &ingest.Dataset{
		Kind: ingest.KindStream,
		Keys: []bench.MetricKey{"copy_avg", "triad_avg"},
		Records: []bench.NodeRecord{
			bench.NewRecord("a", map[bench.MetricKey]float64{"copy_avg": 1, "triad_avg": 5}),
			bench.NewRecord("b", map[bench.MetricKey]float64{"copy_avg": 2}),
			bench.NewRecord("c", nil),
			bench.NewRecord("d", map[bench.MetricKey]float64{"copy_avg": 4, "triad_avg": 8}),
		},
	}
	l, err := NewRunner(nil).Layout(context.Background(), ds, Options{Dataset: ds})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	wantMask := map[bench.MetricKey][][]bool{
		"copy_avg":  {{true, true}, {false, true}},
		"triad_avg": {{true, false}, {false, true}},
	}
	for key, want := range wantMask {
		if diff := cmp.Diff(want, l.Grids[key].Mask()); diff != "" {
			t.Errorf("%s mask mismatch (-want +got):\n%s", key, diff)
		}
	}
	if _, ok := ds.Records[1].Value("triad_avg"); ok {
		t.Error("Layout modified the dataset records")
	}
}
