package grid

import (
	"github.com/montanaflynn/stats"

	"github.com/adrianjhpc/streamgrid/pkg/bench"
	"github.com/adrianjhpc/streamgrid/pkg/errors"
)

// Summary holds descriptive statistics over the valid cells of a grid.
type Summary struct {
	Key    bench.MetricKey `json:"key"`
	Unit   string          `json:"unit,omitempty"`
	Count  int             `json:"count"`
	Empty  int             `json:"empty"`
	Min    float64         `json:"min"`
	Max    float64         `json:"max"`
	Mean   float64         `json:"mean"`
	Median float64         `json:"median"`
	StdDev float64         `json:"stddev"`
}

// Summarize computes the statistics of g. StdDev is the population standard
// deviation.
func Summarize(g *MetricGrid) (Summary, error) {
	data := stats.Float64Data(g.ValidValues())
	s := Summary{
		Key:   g.Key(),
		Unit:  g.metric.Unit,
		Count: g.count,
		Empty: g.shape.Cells() - g.count,
		Min:   g.min,
		Max:   g.max,
	}

	var err error
	if s.Mean, err = data.Mean(); err != nil {
		return Summary{}, errors.Wrap(errors.ErrCodeEmptyDataset, err, "summarize %s", g.Key())
	}
	if s.Median, err = data.Median(); err != nil {
		return Summary{}, errors.Wrap(errors.ErrCodeEmptyDataset, err, "summarize %s", g.Key())
	}
	if s.StdDev, err = data.StandardDeviationPopulation(); err != nil {
		return Summary{}, errors.Wrap(errors.ErrCodeEmptyDataset, err, "summarize %s", g.Key())
	}
	return s, nil
}
