package labels

import (
	"github.com/umitools/cellseg/internal/grid"
	"github.com/umitools/cellseg/internal/morph"
)

// MarkerOptions configures watershed marker derivation.
type MarkerOptions struct {
	// K is the erosion kernel size.
	K int

	// Square selects a square kernel instead of a disk.
	Square bool

	// MinArea stops erosion of regions at or below this area.
	MinArea int

	// NIter is the number of erosion passes; -1 erodes until every region
	// is at or below MinArea.
	NIter int

	// FloatK is the close/open kernel size applied when deriving markers
	// from a float grid.
	FloatK int

	// FloatThreshold binarizes a float grid before erosion. Zero means
	// pick a threshold automatically with Otsu's method.
	FloatThreshold float64
}

// DefaultMarkerOptions returns the marker-derivation defaults.
func DefaultMarkerOptions() MarkerOptions {
	return MarkerOptions{K: 3, MinArea: 100, NIter: -1, FloatK: 5}
}

// Markers derives a watershed seed mask from a float score grid: the grid
// is thresholded (Otsu unless an explicit threshold is set), smoothed with
// a morphological close and open, then safely eroded down to seed regions.
func Markers(x *grid.Float64, opts MarkerOptions) *grid.Bool {
	threshold := opts.FloatThreshold
	if threshold == 0 {
		threshold = morph.OtsuThreshold(x)
	}
	mask := morph.Threshold(x, threshold)
	if opts.FloatK > 1 {
		smooth := morph.Disk(opts.FloatK)
		mask = morph.Open(morph.Close(mask, smooth, 1), smooth, 1)
	}
	return safeErodeMask(mask, opts)
}

// MarkersFromMask derives a watershed seed mask from an existing boolean
// foreground mask by safe erosion alone.
func MarkersFromMask(mask *grid.Bool, opts MarkerOptions) *grid.Bool {
	return safeErodeMask(mask, opts)
}

func safeErodeMask(mask *grid.Bool, opts MarkerOptions) *grid.Bool {
	kern := morph.Disk(opts.K)
	if opts.Square {
		kern = morph.Square(opts.K)
	}
	return morph.SafeErode(mask, kern, opts.MinArea, opts.NIter)
}
