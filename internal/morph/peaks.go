package morph

import "github.com/umitools/cellseg/internal/grid"

// Point is a 2-D pixel coordinate.
type Point struct {
	X int
	Y int
}

// PeakLocalMax finds local intensity maxima that are at least minDistance
// apart. A pixel is a peak when it is strictly positive and no pixel within
// Chebyshev distance minDistance exceeds it. Peaks closer than minDistance
// to the grid border are excluded.
//
// When bins is non-nil, only pixels inside a nonzero bin are considered and
// the neighborhood comparison is restricted to pixels of the same bin.
// Plateaus produce runs of adjacent peak pixels; callers that need one
// representative per plateau should collapse them through
// ConnectedComponents.
func PeakLocalMax(x *grid.Float64, minDistance int, bins *grid.Int) []Point {
	if minDistance < 1 {
		minDistance = 1
	}
	var peaks []Point
	for py := minDistance; py < x.H-minDistance; py++ {
		for px := minDistance; px < x.W-minDistance; px++ {
			v := x.At(px, py)
			if v <= 0 {
				continue
			}
			var bin int
			if bins != nil {
				bin = bins.At(px, py)
				if bin == 0 {
					continue
				}
			}
			isPeak := true
			for dy := -minDistance; dy <= minDistance && isPeak; dy++ {
				for dx := -minDistance; dx <= minDistance; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := px+dx, py+dy
					if nx < 0 || ny < 0 || nx >= x.W || ny >= x.H {
						continue
					}
					if bins != nil && bins.At(nx, ny) != bin {
						continue
					}
					if x.At(nx, ny) > v {
						isPeak = false
						break
					}
				}
			}
			if isPeak {
				peaks = append(peaks, Point{X: px, Y: py})
			}
		}
	}
	return peaks
}
