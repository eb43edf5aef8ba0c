package ingest

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/adrianjhpc/streamgrid/pkg/bench"
	"github.com/adrianjhpc/streamgrid/pkg/errors"
)

// StreamConfig holds the run parameters of a STREAM results document.
type StreamConfig struct {
	ProcessesPerNode  int
	ThreadsPerProcess int
	// Nodes is the declared node count; 0 when the document omits it.
	Nodes int
	// Sizes is the per-process transfer volume of each kernel in bytes.
	Sizes map[bench.Kernel]int64
}

// StreamResults is a parsed STREAM results document.
type StreamResults struct {
	Config  StreamConfig
	Records []bench.NodeRecord
}

// NodeCount returns the declared node count, falling back to the number of
// node elements when none was declared.
func (s *StreamResults) NodeCount() int {
	if s.Config.Nodes > 0 {
		return s.Config.Nodes
	}
	return len(s.Records)
}

type xmlConfig struct {
	ProcessesPerNode  string `xml:"processes_per_node"`
	ThreadsPerProcess string `xml:"threads_per_process"`
	NumberOfNodes     string `xml:"number_of_nodes"`
	CopySize          string `xml:"copy_size"`
	ScaleSize         string `xml:"scale_size"`
	AddSize           string `xml:"add_size"`
	TriadSize         string `xml:"triad_size"`
}

type xmlTiming struct {
	Average string `xml:"Average"`
	Minimum string `xml:"Minimum"`
	Maximum string `xml:"Maximum"`
}

type xmlNode struct {
	Name  string     `xml:"name"`
	Copy  *xmlTiming `xml:"Copy"`
	Scale *xmlTiming `xml:"Scale"`
	Add   *xmlTiming `xml:"Add"`
	Triad *xmlTiming `xml:"Triad"`
}

func (n *xmlNode) timing(k bench.Kernel) *xmlTiming {
	switch k {
	case bench.KernelCopy:
		return n.Copy
	case bench.KernelScale:
		return n.Scale
	case bench.KernelAdd:
		return n.Add
	case bench.KernelTriad:
		return n.Triad
	}
	return nil
}

func (t *xmlTiming) value(s bench.Statistic) string {
	switch s {
	case bench.StatAverage:
		return t.Average
	case bench.StatMinimum:
		return t.Minimum
	case bench.StatMaximum:
		return t.Maximum
	}
	return ""
}

// ReadStreamXML parses a STREAM results document.
//
// The <configuration> and <node> elements are found wherever they are nested;
// when several configurations are present the last one wins. Node timings are
// converted to bandwidth with the configured processes per node and kernel
// sizes. A kernel or statistic missing from a node leaves the matching metric
// out of that node's record.
func ReadStreamXML(r io.Reader) (*StreamResults, error) {
	var (
		cfg   *xmlConfig
		nodes []xmlNode
	)

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read STREAM results")
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "configuration":
			var c xmlConfig
			if err := dec.DecodeElement(&c, &se); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode configuration")
			}
			cfg = &c
		case "node":
			var n xmlNode
			if err := dec.DecodeElement(&n, &se); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode node %d", len(nodes))
			}
			nodes = append(nodes, n)
		}
	}

	if cfg == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "STREAM results have no <configuration> element")
	}
	config, err := parseConfig(cfg)
	if err != nil {
		return nil, err
	}

	records := make([]bench.NodeRecord, 0, len(nodes))
	for i := range nodes {
		rec, err := convertNode(&nodes[i], config)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return &StreamResults{Config: config, Records: records}, nil
}

func parseConfig(c *xmlConfig) (StreamConfig, error) {
	var cfg StreamConfig
	var err error

	if cfg.ProcessesPerNode, err = requiredInt("processes_per_node", c.ProcessesPerNode); err != nil {
		return cfg, err
	}
	if cfg.ProcessesPerNode <= 0 {
		return cfg, errors.New(errors.ErrCodeInvalidInput,
			"processes_per_node must be positive, got %d", cfg.ProcessesPerNode)
	}
	if cfg.ThreadsPerProcess, err = optionalInt("threads_per_process", c.ThreadsPerProcess); err != nil {
		return cfg, err
	}
	if cfg.Nodes, err = optionalInt("number_of_nodes", c.NumberOfNodes); err != nil {
		return cfg, err
	}
	if cfg.Nodes < 0 {
		return cfg, errors.New(errors.ErrCodeInvalidInput, "number_of_nodes must not be negative, got %d", cfg.Nodes)
	}

	sizes := map[bench.Kernel]string{
		bench.KernelCopy:  c.CopySize,
		bench.KernelScale: c.ScaleSize,
		bench.KernelAdd:   c.AddSize,
		bench.KernelTriad: c.TriadSize,
	}
	cfg.Sizes = make(map[bench.Kernel]int64, len(sizes))
	for _, k := range bench.Kernels {
		field := strings.ToLower(string(k)) + "_size"
		n, err := requiredInt(field, sizes[k])
		if err != nil {
			return cfg, err
		}
		if n < 0 {
			return cfg, errors.New(errors.ErrCodeInvalidInput, "%s must not be negative, got %d", field, n)
		}
		cfg.Sizes[k] = int64(n)
	}
	return cfg, nil
}

func requiredInt(field, raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, errors.New(errors.ErrCodeInvalidFormat, "configuration is missing %s", field)
	}
	return optionalInt(field, raw)
}

func optionalInt(field, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s is not an integer: %q", field, raw)
	}
	return n, nil
}

func convertNode(n *xmlNode, cfg StreamConfig) (bench.NodeRecord, error) {
	name := strings.TrimSpace(n.Name)
	if err := errors.ValidateNodeName(name); err != nil {
		return bench.NodeRecord{}, err
	}

	metrics := make(map[bench.MetricKey]float64, len(bench.Kernels)*len(bench.Statistics))
	for _, k := range bench.Kernels {
		t := n.timing(k)
		if t == nil {
			continue
		}
		for _, s := range bench.Statistics {
			raw := strings.TrimSpace(t.value(s))
			if raw == "" {
				continue
			}
			elapsed, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return bench.NodeRecord{}, errors.Wrap(errors.ErrCodeInvalidFormat, err,
					"node %s: %s %s is not a number: %q", name, k, s, raw)
			}
			mbs, err := bench.Throughput(cfg.ProcessesPerNode, cfg.Sizes[k], elapsed)
			if err != nil {
				return bench.NodeRecord{}, errors.Wrap(errors.ErrCodeInvalidMetricValue, err,
					"node %s: %s %s", name, k, s)
			}
			metrics[bench.StreamKey(k, s)] = mbs
		}
	}
	return bench.NodeRecord{Name: name, Metrics: metrics}, nil
}
