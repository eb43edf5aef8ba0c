package ingest

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/adrianjhpc/streamgrid/pkg/bench"
	"github.com/adrianjhpc/streamgrid/pkg/errors"
)

// ReadTable parses two-column "name,value" lines into records holding key.
//
// Lines starting with '#' are comments. The first line is treated as a header
// and skipped when its value column is not a number; any later non-numeric
// value is an error. Leading and trailing blanks around fields are ignored.
func ReadTable(r io.Reader, key bench.MetricKey) ([]bench.NodeRecord, error) {
	if err := errors.ValidateMetricKey(string(key)); err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	var records []bench.NodeRecord
	for first := true; ; first = false {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read table")
		}
		line, _ := cr.FieldPos(0)

		name := strings.TrimSpace(fields[0])
		raw := strings.TrimSpace(fields[1])
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			if first {
				continue
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err,
				"line %d: value for %s is not a number: %q", line, name, raw)
		}
		if err := errors.ValidateNodeName(name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d", line)
		}
		records = append(records, bench.NodeRecord{
			Name:    name,
			Metrics: map[bench.MetricKey]float64{key: v},
		})
	}
	return records, nil
}
