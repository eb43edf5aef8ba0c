// Package ingest reads benchmark result files into [bench.NodeRecord] values.
//
// Two formats are supported:
//
//   - STREAM results documents (XML). A <configuration> element carries the
//     run parameters and every <node> element carries the kernel timings of
//     one host. Timings are converted to MB/s with [bench.Throughput] while
//     reading, so records only ever hold bandwidths.
//   - Two-column tables (CSV): node name and one value per line, as written
//     by the HPL collection scripts. A header line and '#' comments are
//     tolerated.
//
// [ReadFile] picks the parser by [Kind]; [DetectKind] guesses the kind from
// a file extension.
package ingest
