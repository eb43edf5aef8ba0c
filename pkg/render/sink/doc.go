// Package sink writes the machine-readable outputs of a run: one JSON
// document per grid and the run manifest.
//
// The manifest lists what a run consumed and produced so that a directory of
// heat maps can be traced back to its input file:
//
//	{
//	  "run_id": "0b8f3c1e-...",
//	  "input": "stream_results.xml",
//	  "nodes": 7,
//	  "shape": {"rows": 2, "cols": 4},
//	  "metrics": [{"key": "copy_avg", "count": 7, ...}],
//	  "artifacts": [{"name": "copy_avg.png", "bytes": 48213, "sha256": "..."}]
//	}
package sink
