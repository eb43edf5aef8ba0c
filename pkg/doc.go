// Package pkg provides the libraries behind streamgrid, which draws per-node
// benchmark results of a cluster as heat maps.
//
// # Overview
//
// Each compute node runs STREAM or HPL and reports its results. Streamgrid
// places the nodes on a near-square grid and colours every cell by one
// metric, so slow or failing nodes stand out at a glance.
//
// # Architecture
//
// The data flow through streamgrid:
//
//	STREAM XML / HPL table
//	         ↓
//	    [ingest] package (parse and convert timings to bandwidth)
//	         ↓
//	    [grid] package (resolve the shape, place nodes, one grid per metric)
//	         ↓
//	    [render] packages (PNG/SVG/PDF heat maps, terminal view, JSON)
//
// [pipeline] runs these stages with shared defaults and validation; the CLI
// and tests go through it.
//
// # Supporting packages
//
//   - [bench]: metric catalogue, node records and the bandwidth formula
//   - [config]: the optional TOML config file
//   - [errors]: structured error codes
//   - [observability]: stage hooks for progress reporting
//   - [buildinfo]: version metadata set at link time
//
// [ingest]: github.com/adrianjhpc/streamgrid/pkg/ingest
// [grid]: github.com/adrianjhpc/streamgrid/pkg/grid
// [render]: github.com/adrianjhpc/streamgrid/pkg/render
// [pipeline]: github.com/adrianjhpc/streamgrid/pkg/pipeline
// [bench]: github.com/adrianjhpc/streamgrid/pkg/bench
// [config]: github.com/adrianjhpc/streamgrid/pkg/config
// [errors]: github.com/adrianjhpc/streamgrid/pkg/errors
// [observability]: github.com/adrianjhpc/streamgrid/pkg/observability
// [buildinfo]: github.com/adrianjhpc/streamgrid/pkg/buildinfo
package pkg
