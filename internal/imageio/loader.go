package imageio

import (
	"fmt"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"

	"github.com/umitools/cellseg/internal/grid"
)

// LoadCounts decodes a stained-tissue image into a count grid. The image
// is converted to grayscale and, when blurRadius is positive, smoothed
// before sampling. Pixel values map to counts in [0, 255].
func LoadCounts(path string, blurRadius float64) (*grid.Float64, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	gray := effect.Grayscale(img)
	if blurRadius > 0 {
		gray = blur.Gaussian(gray, blurRadius)
	}

	bounds := gray.Bounds()
	g := grid.NewFloat64(bounds.Dx(), bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, _, _, _ := gray.At(x, y).RGBA()
			g.Set(x-bounds.Min.X, y-bounds.Min.Y, float64(r>>8))
		}
	}
	return g, nil
}
