// Package labels turns foreground masks into individually labeled
// cell/nucleus instances and refines those labels.
//
// The labeling pipeline is a chain of pure transforms:
//
//	mask -> (Watershed | connected components) -> raw labels
//	     -> SplitConnected (optional, breaks oversized blobs)
//	     -> Expand (optional, grows labels outward)
//
// Every function returns a new grid and leaves its inputs untouched, so
// stages can be re-run or reordered without aliasing surprises. Label
// identifiers are never reused for two disjoint instances within one
// array: expansion restores frozen labels verbatim and splitting assigns
// fresh sequential identifiers beyond the pre-existing maximum.
package labels
