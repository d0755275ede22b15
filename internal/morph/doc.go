// Package morph provides the image-morphology primitives the segmentation
// pipeline is built on: Gaussian blur for float grids, binary erosion and
// dilation with disk or square structuring elements, connected-component
// labeling with area statistics, single-step label expansion, local-maximum
// peak detection, size-aware safe erosion, and Otsu thresholding.
//
// All operations work on the value types from internal/grid and return new
// grids; inputs are never mutated. Pixels outside the grid are treated as
// background (zero/false) unless a function documents otherwise.
//
// The primitives here intentionally operate on float64 count grids rather
// than 8-bit images: UMI counts and posterior scores would lose precision if
// quantized through an image codec before filtering.
package morph
