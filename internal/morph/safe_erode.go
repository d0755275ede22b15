package morph

import "github.com/umitools/cellseg/internal/grid"

// SafeErode erodes a mask while protecting small regions: before every
// erosion pass, connected components whose area is at or below minArea are
// saved, and the saved pixels are restored in the final result. With
// nIter >= 0 exactly that many passes run. With nIter < 0, erosion
// continues until every remaining component is at or below minArea (capped
// at max(W, H) passes, which bounds any possible shrink sequence).
//
// The result is a new mask; the input is not modified.
func SafeErode(mask *grid.Bool, kern Kernel, minArea, nIter int) *grid.Bool {
	cur := mask.Clone()
	saved := grid.NewBool(mask.W, mask.H)

	limit := nIter
	if nIter < 0 {
		limit = mask.W
		if mask.H > limit {
			limit = mask.H
		}
	}

	for i := 0; i < limit; i++ {
		labels, areas := ConnectedComponentsWithStats(cur)
		allSmall := true
		for label := 1; label < len(areas); label++ {
			if areas[label] <= minArea {
				for idx, v := range labels.Data {
					if v == label {
						saved.Data[idx] = true
					}
				}
			} else {
				allSmall = false
			}
		}
		if nIter < 0 && allSmall {
			break
		}
		cur = Erode(cur, kern, 1)
	}

	for idx, v := range saved.Data {
		if v {
			cur.Data[idx] = true
		}
	}
	return cur
}
