package sink

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/adrianjhpc/streamgrid/pkg/bench"
	"github.com/adrianjhpc/streamgrid/pkg/errors"
	"github.com/adrianjhpc/streamgrid/pkg/grid"
)

func TestManifestRoundTrip(t *testing.T) {
	id := uuid.New()
	artifacts := map[string][]byte{
		"gflops_zeroed.png": []byte("zeroed"),
		"gflops_base.png":   []byte("base"),
	}
	summaries := []grid.Summary{{Key: bench.KeyGFlops, Count: 5, Empty: 1}}
	m := NewManifest(id, grid.Shape{Rows: 2, Cols: 3}, 5, summaries, artifacts)
	m.Input = "hpl.csv"

	if got := []string{m.Artifacts[0].Name, m.Artifacts[1].Name}; !cmp.Equal(got, []string{"gflops_base.png", "gflops_zeroed.png"}) {
		t.Errorf("artifacts not sorted: %v", got)
	}
	if m.Artifacts[0].Bytes != 4 || len(m.Artifacts[0].SHA256) != 64 {
		t.Errorf("artifact = %+v", m.Artifacts[0])
	}

	var buf bytes.Buffer
	if err := m.Write(&buf); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	got, err := ReadManifest(&buf)
	if err != nil {
		t.Fatalf("ReadManifest() error: %v", err)
	}
	if got.RunID != id || got.Input != "hpl.csv" || got.Shape != m.Shape {
		t.Errorf("ReadManifest() = %+v", got)
	}
	if diff := cmp.Diff(m.Artifacts, got.Artifacts); diff != "" {
		t.Errorf("artifacts mismatch (-want +got):\n%s", diff)
	}
}

func TestReadManifestInvalid(t *testing.T) {
	_, err := ReadManifest(bytes.NewReader([]byte("[")))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ReadManifest() error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestWriteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := WriteDir(dir, map[string][]byte{"b.json": []byte("{}"), "a.png": []byte("png")})
	if err != nil {
		t.Fatalf("WriteDir() error: %v", err)
	}
	want := []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "b.json")}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	data, err := os.ReadFile(want[0])
	if err != nil || string(data) != "png" {
		t.Errorf("a.png = %q, %v", data, err)
	}
}

func TestWriteDirRejectsNestedNames(t *testing.T) {
	_, err := WriteDir(t.TempDir(), map[string][]byte{"../escape.png": nil})
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("WriteDir() error = %v, want %s", err, errors.ErrCodeInvalidPath)
	}
	_, err = WriteDir("", nil)
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("WriteDir(\"\") error = %v, want %s", err, errors.ErrCodeInvalidPath)
	}
}

func TestRenderGrid(t *testing.T) {
	rec := bench.NewRecord("n0", map[bench.MetricKey]float64{bench.KeyGFlops: 1})
	grids, err := grid.Build([]bench.NodeRecord{rec}, grid.Shape{Rows: 1, Cols: 1}, []bench.MetricKey{bench.KeyGFlops})
	if err != nil {
		t.Fatal(err)
	}
	data, err := RenderGrid(grids[bench.KeyGFlops])
	if err != nil {
		t.Fatalf("RenderGrid() error: %v", err)
	}
	if !bytes.Contains(data, []byte(`"labels"`)) {
		t.Errorf("unexpected grid JSON: %s", data)
	}
	if GridFileName(bench.KeyGFlops) != "gflops.json" {
		t.Errorf("GridFileName() = %q", GridFileName(bench.KeyGFlops))
	}
}
