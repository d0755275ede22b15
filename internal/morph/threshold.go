package morph

import "github.com/umitools/cellseg/internal/grid"

const otsuBins = 256

// OtsuThreshold computes a global threshold for a float grid by maximizing
// inter-class variance over a 256-bin histogram spanning the grid's value
// range. The returned value separates background (below) from foreground
// (at or above). A constant grid yields its single value.
func OtsuThreshold(g *grid.Float64) float64 {
	if len(g.Data) == 0 {
		return 0
	}
	min, max := g.Data[0], g.Data[0]
	for _, v := range g.Data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max == min {
		return min
	}

	var histo [otsuBins]int
	scale := float64(otsuBins-1) / (max - min)
	for _, v := range g.Data {
		histo[int((v-min)*scale)]++
	}

	total := len(g.Data)
	var totalWeightedSum float64
	for i, n := range histo {
		totalWeightedSum += float64(i) * float64(n)
	}

	var (
		bestBin      int
		bestVariance float64
		bgPixels     int
		bgSum        float64
	)
	for i, n := range histo {
		bgPixels += n
		bgSum += float64(i) * float64(n)

		fgPixels := total - bgPixels
		if bgPixels == 0 || fgPixels == 0 {
			continue
		}
		fgSum := totalWeightedSum - bgSum

		bgMean := bgSum / float64(bgPixels)
		fgMean := fgSum / float64(fgPixels)
		diff := bgMean - fgMean
		variance := float64(bgPixels) * float64(fgPixels) * diff * diff
		if variance > bestVariance {
			bestVariance = variance
			bestBin = i
		}
	}

	// Threshold sits at the upper edge of the best background bin.
	return min + float64(bestBin+1)/scale
}

// Threshold returns the mask of pixels with values at or above t.
func Threshold(g *grid.Float64, t float64) *grid.Bool {
	out := grid.NewBool(g.W, g.H)
	for i, v := range g.Data {
		out.Data[i] = v >= t
	}
	return out
}
