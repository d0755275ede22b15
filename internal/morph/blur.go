package morph

import (
	"math"

	"github.com/umitools/cellseg/internal/grid"
)

// gaussianKernel1D returns a normalized 1-D Gaussian kernel of the given
// odd size. Sigma follows the usual kernel-size heuristic
// 0.3*((k-1)*0.5 - 1) + 0.8 so blur strength tracks the kernel size.
func gaussianKernel1D(k int) []float64 {
	if k < 1 {
		k = 1
	}
	if k%2 == 0 {
		k++
	}
	sigma := 0.3*(float64(k-1)*0.5-1) + 0.8
	kern := make([]float64, k)
	r := k / 2
	sum := 0.0
	for i := 0; i < k; i++ {
		d := float64(i - r)
		kern[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += kern[i]
	}
	for i := range kern {
		kern[i] /= sum
	}
	return kern
}

// GaussianBlur convolves the grid with a separable Gaussian kernel of size
// k x k. Borders are handled by clamping to the nearest edge pixel.
func GaussianBlur(g *grid.Float64, k int) *grid.Float64 {
	kern := gaussianKernel1D(k)
	r := len(kern) / 2

	clamp := func(v, lo, hi int) int {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}

	// Horizontal pass.
	tmp := grid.NewFloat64(g.W, g.H)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			var acc float64
			for i, w := range kern {
				px := clamp(x+i-r, 0, g.W-1)
				acc += w * g.At(px, y)
			}
			tmp.Set(x, y, acc)
		}
	}

	// Vertical pass.
	out := grid.NewFloat64(g.W, g.H)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			var acc float64
			for i, w := range kern {
				py := clamp(y+i-r, 0, g.H-1)
				acc += w * tmp.At(x, py)
			}
			out.Set(x, y, acc)
		}
	}
	return out
}
