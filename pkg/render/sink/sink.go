package sink

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/adrianjhpc/streamgrid/pkg/bench"
	"github.com/adrianjhpc/streamgrid/pkg/buildinfo"
	"github.com/adrianjhpc/streamgrid/pkg/errors"
	"github.com/adrianjhpc/streamgrid/pkg/grid"
)

// ManifestName is the file name of the run manifest.
const ManifestName = "manifest.json"

// GridFileName returns the JSON file name of a grid, e.g. "copy_avg.json".
func GridFileName(key bench.MetricKey) string {
	return string(key) + ".json"
}

// RenderGrid returns the indented JSON document of g.
func RenderGrid(g *grid.MetricGrid) ([]byte, error) {
	return grid.Marshal(g)
}

// Artifact describes one produced file.
type Artifact struct {
	Name   string `json:"name"`
	Bytes  int    `json:"bytes"`
	SHA256 string `json:"sha256"`
}

// Manifest records the inputs and outputs of one run.
type Manifest struct {
	RunID     uuid.UUID         `json:"run_id"`
	CreatedAt time.Time         `json:"created_at"`
	Build     buildinfo.Info    `json:"build"`
	Input     string            `json:"input,omitempty"`
	Kind      string            `json:"kind,omitempty"`
	Nodes     int               `json:"nodes"`
	Shape     grid.Shape        `json:"shape"`
	Metrics   []grid.Summary    `json:"metrics"`
	Artifacts []Artifact        `json:"artifacts"`
	Skipped   []bench.MetricKey `json:"skipped,omitempty"`
}

// NewManifest creates a manifest for run id with the artifacts listed in
// name order. Summaries are taken as given.
func NewManifest(id uuid.UUID, shape grid.Shape, nodes int, summaries []grid.Summary, artifacts map[string][]byte) *Manifest {
	m := &Manifest{
		RunID:     id,
		CreatedAt: time.Now().UTC(),
		Build:     buildinfo.Current(),
		Nodes:     nodes,
		Shape:     shape,
		Metrics:   summaries,
		Artifacts: make([]Artifact, 0, len(artifacts)),
	}
	for _, name := range slices.Sorted(maps.Keys(artifacts)) {
		sum := sha256.Sum256(artifacts[name])
		m.Artifacts = append(m.Artifacts, Artifact{
			Name:   name,
			Bytes:  len(artifacts[name]),
			SHA256: hex.EncodeToString(sum[:]),
		})
	}
	return m
}

// Marshal returns the indented JSON encoding of m.
func (m *Manifest) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes m as indented JSON to w.
func (m *Manifest) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return nil
}

// ReadManifest decodes a manifest written by [Manifest.Write].
func ReadManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode manifest")
	}
	return &m, nil
}

// WriteDir writes every artifact into dir, creating it when needed, and
// returns the written paths in name order. Names must be plain file names.
func WriteDir(dir string, artifacts map[string][]byte) ([]string, error) {
	if err := errors.ValidateOutputPath(dir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	names := slices.Sorted(maps.Keys(artifacts))
	paths := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" || filepath.Base(name) != name {
			return paths, errors.New(errors.ErrCodeInvalidPath, "artifact name %q is not a file name", name)
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, artifacts[name], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
