package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrianjhpc/streamgrid/pkg/bench"
	"github.com/adrianjhpc/streamgrid/pkg/errors"
)

// Kind identifies an input format.
type Kind string

const (
	KindAuto   Kind = "auto"
	KindStream Kind = "stream"
	KindTable  Kind = "table"
)

// ParseKind converts a flag or config value into a Kind. The empty string
// means [KindAuto].
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindAuto, nil
	case KindAuto, KindStream, KindTable:
		return k, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown input kind %q (want auto, stream or table)", s)
	}
}

// DetectKind guesses the input kind from the file extension: ".xml" is a
// STREAM document, anything else a table.
func DetectKind(path string) Kind {
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		return KindStream
	}
	return KindTable
}

// Dataset is the parsed content of one input file.
type Dataset struct {
	Kind    Kind
	Records []bench.NodeRecord
	// Keys lists the metrics the records carry, in catalogue order.
	Keys []bench.MetricKey
	// Stream is set for STREAM documents.
	Stream *StreamConfig
	// Declared is the node count stated by the input, 0 when it has none.
	Declared int
}

// NodeCount returns the node count that sizes the grid: the declared count
// when present, otherwise the number of records.
func (d *Dataset) NodeCount() int {
	if d.Declared > 0 {
		return d.Declared
	}
	return len(d.Records)
}

type readOptions struct {
	tableKey bench.MetricKey
}

// Option configures [Read] and [ReadFile].
type Option func(*readOptions)

// WithTableKey sets the metric key assigned to table values.
// The default is [bench.KeyGFlops].
func WithTableKey(key bench.MetricKey) Option {
	return func(o *readOptions) {
		if key != "" {
			o.tableKey = key
		}
	}
}

// Read parses r as kind. [KindAuto] is not accepted here since there is no
// file name to inspect.
func Read(r io.Reader, kind Kind, opts ...Option) (*Dataset, error) {
	o := readOptions{tableKey: bench.KeyGFlops}
	for _, opt := range opts {
		opt(&o)
	}

	switch kind {
	case KindStream:
		res, err := ReadStreamXML(r)
		if err != nil {
			return nil, err
		}
		return &Dataset{
			Kind:     KindStream,
			Records:  res.Records,
			Keys:     recordKeys(res.Records),
			Stream:   &res.Config,
			Declared: res.Config.Nodes,
		}, nil
	case KindTable:
		records, err := ReadTable(r, o.tableKey)
		if err != nil {
			return nil, err
		}
		return &Dataset{
			Kind:    KindTable,
			Records: records,
			Keys:    []bench.MetricKey{o.tableKey},
		}, nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "cannot read input kind %q", kind)
	}
}

// ReadFile opens path and parses it. [KindAuto] resolves through [DetectKind].
func ReadFile(path string, kind Kind, opts ...Option) (*Dataset, error) {
	if kind == KindAuto || kind == "" {
		kind = DetectKind(path)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input file %s not found", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ds, err := Read(f, kind, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return ds, nil
}

// recordKeys returns every key carried by at least one record, in catalogue
// order.
func recordKeys(records []bench.NodeRecord) []bench.MetricKey {
	var keys []bench.MetricKey
	seen := make(map[bench.MetricKey]bool)
	for _, r := range records {
		for k := range r.Metrics {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	bench.SortKeys(keys)
	return keys
}
