// Package pipeline chains the segmentation stages over a dataset.
//
// Each stage is a named transform that reads its input layers from a
// dataset (following the suffix conventions of internal/dataset) and writes
// its output layer back. Runs are driven by a stage-name list from the
// configuration, so the same binary can score only, or score through
// watershed and expansion, without code changes.
//
// Stage inputs are resolved lazily: the watershed stage, for example,
// prefers {layer}_mask but falls back to the literal layer, so callers can
// inject a precomputed mask and skip the scoring stages entirely.
package pipeline
