package labels

import (
	"github.com/umitools/cellseg/internal/grid"
	"github.com/umitools/cellseg/internal/morph"
)

// Expand grows every label outward by up to distance single-pixel steps.
// Before each step, labels whose area has reached maxArea are frozen: they
// are removed from the working grid so they cannot swallow neighbors, and
// their saved pixels are restored verbatim afterward. When mask is non-nil,
// growth is confined to it.
//
// Frozen labels therefore never lose pixels, and an expanded label never
// overwrites a pixel already owned by a different label.
func Expand(l *grid.Int, distance, maxArea int, mask *grid.Bool) *grid.Int {
	expanded := l.Clone()
	saved := make(map[int][]int)

	for step := 0; step < distance; step++ {
		areas := expanded.Bincount()
		for label := 1; label < len(areas); label++ {
			if areas[label] < maxArea {
				continue
			}
			var where []int
			for idx, v := range expanded.Data {
				if v == label {
					where = append(where, idx)
					expanded.Data[idx] = 0
				}
			}
			saved[label] = where
		}

		expanded = morph.ExpandStep(expanded)
		if mask != nil {
			for idx := range expanded.Data {
				if !mask.Data[idx] {
					expanded.Data[idx] = 0
				}
			}
		}
	}

	for label, where := range saved {
		for _, idx := range where {
			expanded.Data[idx] = label
		}
	}
	return expanded
}
