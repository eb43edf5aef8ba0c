package bench

import (
	"slices"
	"strings"
)

// MetricKey names a measured quantity, e.g. "copy_avg" or "gflops".
type MetricKey string

// Units reported by the built-in metrics.
const (
	UnitBandwidth = "MB/s"
	UnitFlopRate  = "GFlop/s"
)

// KeyGFlops is the metric key of the HPL floating-point rate.
const KeyGFlops MetricKey = "gflops"

// Kernel is one of the four STREAM kernels.
type Kernel string

// STREAM kernels in report order. The values match the XML element names.
const (
	KernelCopy  Kernel = "Copy"
	KernelScale Kernel = "Scale"
	KernelAdd   Kernel = "Add"
	KernelTriad Kernel = "Triad"
)

// Kernels lists the STREAM kernels in report order.
var Kernels = []Kernel{KernelCopy, KernelScale, KernelAdd, KernelTriad}

// Statistic is a timing statistic reported per kernel.
type Statistic string

// Timing statistics. The values match the XML element names.
const (
	StatAverage Statistic = "Average"
	StatMinimum Statistic = "Minimum"
	StatMaximum Statistic = "Maximum"
)

// Statistics lists the timing statistics in report order.
var Statistics = []Statistic{StatAverage, StatMinimum, StatMaximum}

var statSuffix = map[Statistic]string{
	StatAverage: "avg",
	StatMinimum: "min",
	StatMaximum: "max",
}

// StreamKey returns the metric key for a kernel statistic, e.g. "scale_min".
func StreamKey(k Kernel, s Statistic) MetricKey {
	return MetricKey(strings.ToLower(string(k)) + "_" + statSuffix[s])
}

// Metric describes how a metric is titled and labelled.
type Metric struct {
	Key   MetricKey
	Title string // e.g. "STREAM Copy Average"
	Unit  string // e.g. "MB/s"
}

var catalogue = buildCatalogue()

func buildCatalogue() map[MetricKey]Metric {
	m := make(map[MetricKey]Metric, len(Kernels)*len(Statistics)+1)
	for _, k := range Kernels {
		for _, s := range Statistics {
			key := StreamKey(k, s)
			m[key] = Metric{
				Key:   key,
				Title: "STREAM " + string(k) + " " + string(s),
				Unit:  UnitBandwidth,
			}
		}
	}
	m[KeyGFlops] = Metric{Key: KeyGFlops, Title: "HPL GFlops", Unit: UnitFlopRate}
	return m
}

// Lookup returns the catalogue entry for key.
// Unknown keys get a generic entry titled with the key and no unit.
func Lookup(key MetricKey) (Metric, bool) {
	m, ok := catalogue[key]
	if !ok {
		return Metric{Key: key, Title: string(key)}, false
	}
	return m, true
}

// StreamMetrics returns the twelve STREAM metrics in report order
// (kernel-major: copy_avg, copy_min, copy_max, scale_avg, ...).
func StreamMetrics() []Metric {
	out := make([]Metric, 0, len(Kernels)*len(Statistics))
	for _, k := range Kernels {
		for _, s := range Statistics {
			out = append(out, catalogue[StreamKey(k, s)])
		}
	}
	return out
}

// StreamKeys returns the keys of [StreamMetrics].
func StreamKeys() []MetricKey {
	metrics := StreamMetrics()
	keys := make([]MetricKey, len(metrics))
	for i, m := range metrics {
		keys[i] = m.Key
	}
	return keys
}

// HPLMetric returns the HPL floating-point rate metric.
func HPLMetric() Metric {
	return catalogue[KeyGFlops]
}

// SortKeys orders keys by catalogue report order, unknown keys last in
// lexical order.
func SortKeys(keys []MetricKey) {
	rank := make(map[MetricKey]int, len(catalogue))
	for i, k := range StreamKeys() {
		rank[k] = i
	}
	rank[KeyGFlops] = len(rank)
	slices.SortStableFunc(keys, func(a, b MetricKey) int {
		ra, oka := rank[a]
		rb, okb := rank[b]
		switch {
		case oka && okb:
			return ra - rb
		case oka:
			return -1
		case okb:
			return 1
		default:
			return strings.Compare(string(a), string(b))
		}
	})
}
