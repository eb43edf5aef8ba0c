// Package grid arranges per-node benchmark results into a near-square
// two-dimensional grid for heat-map rendering.
//
// # Shape
//
// [Resolve] picks the squarest rows × cols factorisation of the node count.
// Divisors d of the count with 1 <= d <= count/2 are collected in ascending
// order and the pair straddling the median index is chosen. A prime count
// has a single such divisor; it is bumped by one and factored again, which
// leaves exactly one structurally-empty cell instead of a 1 × N strip:
//
//	grid.Resolve(6) // 2 × 3
//	grid.Resolve(7) // 2 × 4, one empty cell
//	grid.Resolve(1) // SHAPE_RESOLUTION error
//
// # Placement
//
// [Build] walks the records once. Conceptually it fills a working grid one
// column at a time and transposes it afterwards, so record i lands at row
// i / cols, column i % cols: node numbering reads left to right, top to
// bottom.
//
// # Empty cells
//
// Cells that received no record are marked invalid and their value is set to
// the minimum valid value of the same metric, so a renderer's colour scale is
// not stretched by a sentinel. Every metric gets its own minimum.
//
// Each returned [MetricGrid] is a fresh immutable value; grids of different
// metrics never share storage.
package grid
