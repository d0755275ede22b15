package labels

import (
	"github.com/umitools/cellseg/internal/grid"
	"github.com/umitools/cellseg/internal/morph"
)

// SplitOptions configures SplitConnected.
type SplitOptions struct {
	// K is the erosion kernel size.
	K int

	// Square selects a square kernel instead of a disk.
	Square bool

	// MinArea stops erosion of fragments at or below this area.
	MinArea int

	// NIter is the number of erosion passes; -1 erodes until every
	// fragment's area is at or below MinArea.
	NIter int

	// Distance is how far eroded fragments are re-expanded.
	Distance int

	// MaxArea selects which components are split: only components larger
	// than this are eroded apart, and re-expansion freezes labels that
	// reach it.
	MaxArea int
}

// DefaultSplitOptions returns the labeler defaults.
func DefaultSplitOptions() SplitOptions {
	return SplitOptions{K: 3, MinArea: 100, NIter: -1, Distance: 5, MaxArea: 400}
}

// SplitConnected labels the connected components of a mask while breaking
// apart components that are too large.
//
// Components at or below opts.MaxArea keep their scan-order component
// label. Larger components are peeled off into a working mask, eroded into
// fragments (see morph.SafeErode), relabeled, and the fragments expanded
// back within the original oversized region. Fragment labels are then
// reconciled so no identifier collides with a kept label: the first
// fragments reuse the identifiers of the oversized components they replace,
// and any surplus fragments receive fresh sequential identifiers beyond the
// maximum pre-existing label.
func SplitConnected(mask *grid.Bool, opts SplitOptions) *grid.Int {
	components, areas := morph.ConnectedComponentsWithStats(mask)

	subset := grid.NewBool(mask.W, mask.H)
	var subsetLabels []int
	for label := 1; label < len(areas); label++ {
		if areas[label] > opts.MaxArea {
			for idx, v := range components.Data {
				if v == label {
					subset.Data[idx] = true
				}
			}
			subsetLabels = append(subsetLabels, label)
		}
	}
	maxLabel := components.Max()

	kern := morph.Disk(opts.K)
	if opts.Square {
		kern = morph.Square(opts.K)
	}
	eroded := morph.SafeErode(subset, kern, opts.MinArea, opts.NIter)
	fragments, _ := morph.ConnectedComponents(eroded)
	expanded := Expand(fragments, opts.Distance, opts.MaxArea, subset)

	// Reconcile fragment identifiers with the kept component labels.
	fixed := expanded.Clone()
	maxFragment := expanded.Max()
	for label := 1; label <= maxFragment; label++ {
		final := maxLabel + label - len(subsetLabels)
		if label <= len(subsetLabels) {
			final = subsetLabels[label-1]
		}
		for idx, v := range expanded.Data {
			if v == label {
				fixed.Data[idx] = final
			}
		}
	}

	// Everything outside the oversized regions keeps its component label.
	for idx, inSubset := range subset.Data {
		if !inSubset {
			fixed.Data[idx] = components.Data[idx]
		}
	}
	return fixed
}
