// Package grid provides dense 2-D array value types used throughout the
// segmentation pipeline: float64 intensity grids, integer label grids, and
// boolean masks.
//
// # Coordinate System
//
// All grids use 0-based pixel coordinates with (0,0) at the top-left corner,
// X increasing rightward and Y increasing downward. Values are stored in a
// flat row-major backing slice, so scan order iterates Y in the outer loop
// and X in the inner loop.
//
// # Ownership
//
// Grids are plain value containers with no hidden state. Pipeline stages
// never mutate their inputs; operations that change a grid return a new one.
// Callers that want in-place access can work on the Data slice directly.
package grid
