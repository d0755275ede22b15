package morph

import "github.com/umitools/cellseg/internal/grid"

// ConnectedComponents labels 8-connected components of a boolean mask.
// Labels are assigned in scan order starting at 1; background pixels stay 0.
// Returns the label grid and the number of components found.
func ConnectedComponents(mask *grid.Bool) (*grid.Int, int) {
	labels := grid.NewInt(mask.W, mask.H)
	next := 1

	var queue []int
	for y := 0; y < mask.H; y++ {
		for x := 0; x < mask.W; x++ {
			idx := y*mask.W + x
			if !mask.Data[idx] || labels.Data[idx] != 0 {
				continue
			}
			labels.Data[idx] = next
			queue = append(queue[:0], idx)
			for len(queue) > 0 {
				ci := queue[0]
				queue = queue[1:]
				cx, cy := ci%mask.W, ci/mask.W
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						nx, ny := cx+dx, cy+dy
						if nx < 0 || ny < 0 || nx >= mask.W || ny >= mask.H {
							continue
						}
						ni := ny*mask.W + nx
						if mask.Data[ni] && labels.Data[ni] == 0 {
							labels.Data[ni] = next
							queue = append(queue, ni)
						}
					}
				}
			}
			next++
		}
	}
	return labels, next - 1
}

// ConnectedComponentsWithStats labels 8-connected components and returns the
// pixel area of each label. Areas are indexed by label, with index 0 holding
// the background pixel count.
func ConnectedComponentsWithStats(mask *grid.Bool) (*grid.Int, []int) {
	labels, n := ConnectedComponents(mask)
	areas := make([]int, n+1)
	for _, v := range labels.Data {
		areas[v]++
	}
	return labels, areas
}
