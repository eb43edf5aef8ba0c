// Package bench defines the benchmark measurements streamgrid arranges into
// heat maps.
//
// A [NodeRecord] is one compute node's results keyed by [MetricKey]. The
// package ships a catalogue of the metrics produced by the two supported
// benchmarks:
//
//   - STREAM: Copy, Scale, Add and Triad kernels, each reported as the
//     bandwidth derived from the Average, Minimum and Maximum elapsed time
//     (twelve metrics, "copy_avg" through "triad_max", in MB/s)
//   - HPL: sustained floating-point rate ("gflops", in GFlop/s)
//
// Raw STREAM timings are converted to bandwidth with [Throughput] before a
// value is stored in a record.
package bench
