package morph

import "github.com/umitools/cellseg/internal/grid"

// ExpandStep grows every nonzero label outward by one pixel: each
// background pixel with at least one labeled 4-connected neighbor takes a
// neighboring label. When several labels compete for the same pixel the
// smallest one wins, which keeps the operation deterministic. Labeled
// pixels are never overwritten.
func ExpandStep(labels *grid.Int) *grid.Int {
	out := labels.Clone()
	for y := 0; y < labels.H; y++ {
		for x := 0; x < labels.W; x++ {
			if labels.At(x, y) != 0 {
				continue
			}
			best := 0
			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || ny < 0 || nx >= labels.W || ny >= labels.H {
					continue
				}
				if v := labels.At(nx, ny); v > 0 && (best == 0 || v < best) {
					best = v
				}
			}
			if best != 0 {
				out.Set(x, y, best)
			}
		}
	}
	return out
}
