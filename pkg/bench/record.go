package bench

import (
	"maps"
	"slices"
)

// NodeRecord holds one compute node's results.
// Records are produced by a parser and not modified afterwards.
type NodeRecord struct {
	Name    string
	Metrics map[MetricKey]float64
}

// NewRecord creates a record for name with a copy of metrics.
func NewRecord(name string, metrics map[MetricKey]float64) NodeRecord {
	return NodeRecord{Name: name, Metrics: maps.Clone(metrics)}
}

// Value returns the value of key and whether it was reported.
func (r NodeRecord) Value(key MetricKey) (float64, bool) {
	v, ok := r.Metrics[key]
	return v, ok
}

// Keys returns the metric keys reported by the record in catalogue order.
func (r NodeRecord) Keys() []MetricKey {
	keys := slices.Collect(maps.Keys(r.Metrics))
	SortKeys(keys)
	return keys
}
