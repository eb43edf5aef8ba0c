package ingest

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/adrianjhpc/streamgrid/pkg/bench"
	"github.com/adrianjhpc/streamgrid/pkg/errors"
)

const streamDoc = `<?xml version="1.0"?>
<results>
  <configuration>
    <processes_per_node>4</processes_per_node>
    <threads_per_process>2</threads_per_process>
    <number_of_nodes>3</number_of_nodes>
    <copy_size>1000000</copy_size>
    <scale_size>2000000</scale_size>
    <add_size>3000000</add_size>
    <triad_size>3000000</triad_size>
  </configuration>
  <nodes>
    <node>
      <name>nid001</name>
      <Copy><Average>0.5</Average><Minimum>0.25</Minimum><Maximum>1</Maximum></Copy>
      <Scale><Average>1</Average><Minimum>1</Minimum><Maximum>2</Maximum></Scale>
      <Add><Average>1.5</Average><Minimum>1.5</Minimum><Maximum>3</Maximum></Add>
      <Triad><Average> 1.5 </Average><Minimum>1</Minimum><Maximum>2</Maximum></Triad>
    </node>
    <node>
      <name> nid002 </name>
      <Copy><Average>1</Average><Minimum>1</Minimum><Maximum>1</Maximum></Copy>
    </node>
  </nodes>
</results>
`

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestReadStreamXML(t *testing.T) {
	res, err := ReadStreamXML(strings.NewReader(streamDoc))
	if err != nil {
		t.Fatalf("ReadStreamXML() error: %v", err)
	}

	wantConfig := StreamConfig{
		ProcessesPerNode:  4,
		ThreadsPerProcess: 2,
		Nodes:             3,
		Sizes: map[bench.Kernel]int64{
			bench.KernelCopy:  1_000_000,
			bench.KernelScale: 2_000_000,
			bench.KernelAdd:   3_000_000,
			bench.KernelTriad: 3_000_000,
		},
	}
	if diff := cmp.Diff(wantConfig, res.Config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if res.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want declared 3", res.NodeCount())
	}
	if len(res.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(res.Records))
	}

	first := res.Records[0]
	want := map[bench.MetricKey]float64{
		"copy_avg": 8, "copy_min": 16, "copy_max": 4,
		"scale_avg": 8, "scale_min": 8, "scale_max": 4,
		"add_avg": 8, "add_min": 8, "add_max": 4,
		"triad_avg": 8, "triad_min": 12, "triad_max": 6,
	}
	if first.Name != "nid001" {
		t.Errorf("Name = %q", first.Name)
	}
	if diff := cmp.Diff(want, first.Metrics, approx); diff != "" {
		t.Errorf("metrics mismatch (-want +got):\n%s", diff)
	}

	second := res.Records[1]
	if second.Name != "nid002" {
		t.Errorf("Name = %q, want trimmed nid002", second.Name)
	}
	if diff := cmp.Diff([]bench.MetricKey{"copy_avg", "copy_min", "copy_max"}, second.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestReadStreamXMLErrors(t *testing.T) {
	cfg := func(ppn, copySize string) string {
		return `<configuration><processes_per_node>` + ppn + `</processes_per_node>` +
			`<copy_size>` + copySize + `</copy_size><scale_size>1</scale_size>` +
			`<add_size>1</add_size><triad_size>1</triad_size></configuration>`
	}

	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{"not xml", `<results><node>`, errors.ErrCodeInvalidFormat},
		{"no configuration", `<results><node><name>a</name></node></results>`, errors.ErrCodeInvalidFormat},
		{"missing size", `<r><configuration><processes_per_node>1</processes_per_node></configuration></r>`, errors.ErrCodeInvalidFormat},
		{"zero processes", `<r>` + cfg("0", "1") + `</r>`, errors.ErrCodeInvalidInput},
		{"negative size", `<r>` + cfg("1", "-5") + `</r>`, errors.ErrCodeInvalidInput},
		{"non-integer", `<r>` + cfg("four", "1") + `</r>`, errors.ErrCodeInvalidFormat},
		{"zero elapsed", `<r>` + cfg("1", "1") + `<node><name>a</name><Copy><Average>0</Average></Copy></node></r>`, errors.ErrCodeInvalidMetricValue},
		{"bad timing", `<r>` + cfg("1", "1") + `<node><name>a</name><Copy><Average>fast</Average></Copy></node></r>`, errors.ErrCodeInvalidFormat},
		{"unnamed node", `<r>` + cfg("1", "1") + `<node><Copy><Average>1</Average></Copy></node></r>`, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadStreamXML(strings.NewReader(tt.doc))
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadStreamXML() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestReadTable(t *testing.T) {
	input := `nodename,gflops
# rack 1
nid001, 912.5
nid002,905
  nid003 ,930.25
`
	records, err := ReadTable(strings.NewReader(input), bench.KeyGFlops)
	if err != nil {
		t.Fatalf("ReadTable() error: %v", err)
	}
	want := []bench.NodeRecord{
		{Name: "nid001", Metrics: map[bench.MetricKey]float64{"gflops": 912.5}},
		{Name: "nid002", Metrics: map[bench.MetricKey]float64{"gflops": 905}},
		{Name: "nid003", Metrics: map[bench.MetricKey]float64{"gflops": 930.25}},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("ReadTable() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadTableWithoutHeader(t *testing.T) {
	records, err := ReadTable(strings.NewReader("a,1\nb,2\n"), "hpl")
	if err != nil {
		t.Fatalf("ReadTable() error: %v", err)
	}
	if len(records) != 2 || records[1].Metrics["hpl"] != 2 {
		t.Errorf("ReadTable() = %+v", records)
	}
}

func TestReadTableNonFinite(t *testing.T) {
	records, err := ReadTable(strings.NewReader("a,NaN\nb,2\n"), bench.KeyGFlops)
	if err != nil {
		t.Fatalf("ReadTable() error: %v", err)
	}
	if !math.IsNaN(records[0].Metrics[bench.KeyGFlops]) {
		t.Errorf("first value = %v, want NaN", records[0].Metrics[bench.KeyGFlops])
	}
}

func TestReadTableErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		key   bench.MetricKey
		code  errors.Code
	}{
		{"bad value after header", "name,gflops\na,fast\n", bench.KeyGFlops, errors.ErrCodeInvalidFormat},
		{"extra column", "a,1,2\n", bench.KeyGFlops, errors.ErrCodeInvalidFormat},
		{"empty name", " ,1\n", bench.KeyGFlops, errors.ErrCodeInvalidInput},
		{"bad key", "a,1\n", "GFlops", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTable(strings.NewReader(tt.input), tt.key)
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadTable() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestDetectKind(t *testing.T) {
	tests := map[string]Kind{
		"results.xml":     KindStream,
		"RESULTS.XML":     KindStream,
		"hpl.csv":         KindTable,
		"hpl_results.txt": KindTable,
		"noext":           KindTable,
	}
	for path, want := range tests {
		if got := DetectKind(path); got != want {
			t.Errorf("DetectKind(%q) = %s, want %s", path, got, want)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"", "auto", "Stream", " table "} {
		if _, err := ParseKind(s); err != nil {
			t.Errorf("ParseKind(%q) error: %v", s, err)
		}
	}
	if _, err := ParseKind("json"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ParseKind(json) error = %v", err)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	xmlPath := filepath.Join(dir, "stream.xml")
	csvPath := filepath.Join(dir, "hpl.csv")
	if err := os.WriteFile(xmlPath, []byte(streamDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(csvPath, []byte("a,1\nb,2\nc,3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, err := ReadFile(xmlPath, KindAuto)
	if err != nil {
		t.Fatalf("ReadFile(xml) error: %v", err)
	}
	if ds.Kind != KindStream || ds.NodeCount() != 3 || len(ds.Keys) != 12 || ds.Stream == nil {
		t.Errorf("ReadFile(xml) = %+v", ds)
	}

	ds, err = ReadFile(csvPath, KindAuto, WithTableKey("hpl_gflops"))
	if err != nil {
		t.Fatalf("ReadFile(csv) error: %v", err)
	}
	if ds.Kind != KindTable || ds.NodeCount() != 3 {
		t.Errorf("ReadFile(csv) = %+v", ds)
	}
	if diff := cmp.Diff([]bench.MetricKey{"hpl_gflops"}, ds.Keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	_, err = ReadFile(filepath.Join(dir, "missing.csv"), KindAuto)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile(missing) error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}

	_, err = ReadFile(csvPath, KindStream)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ReadFile(csv as stream) error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}
