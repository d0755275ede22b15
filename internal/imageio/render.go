package imageio

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/umitools/cellseg/internal/grid"
)

// goldenAngle spaces consecutive label hues far apart so touching cells
// stay visually distinct.
const goldenAngle = 137.50776405003785

// RenderLabels draws a label grid as a color image. Background pixels are
// black; every label gets a fixed hue, so the same labeling always renders
// identically.
func RenderLabels(l *grid.Int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, l.W, l.H))
	for y := 0; y < l.H; y++ {
		for x := 0; x < l.W; x++ {
			label := l.At(x, y)
			if label == 0 {
				img.SetNRGBA(x, y, color.NRGBA{A: 255})
				continue
			}
			img.SetNRGBA(x, y, labelColor(label))
		}
	}
	return img
}

// SaveLabels renders a label grid and writes it to path. The format
// follows the file extension.
func SaveLabels(path string, l *grid.Int) error {
	if err := imaging.Save(RenderLabels(l), path); err != nil {
		return fmt.Errorf("failed to save labels: %w", err)
	}
	return nil
}

// SaveScores writes a score grid as a grayscale image, mapping [0, 1]
// to black through white.
func SaveScores(path string, g *grid.Float64) error {
	img := image.NewGray(image.Rect(0, 0, g.W, g.H))
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			v := math.Min(math.Max(g.At(x, y), 0), 1)
			img.SetGray(x, y, color.Gray{Y: uint8(v * 255)})
		}
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save scores: %w", err)
	}
	return nil
}

func labelColor(label int) color.NRGBA {
	hue := math.Mod(float64(label)*goldenAngle, 360)
	r, g, b := colorful.Hsv(hue, 0.65, 0.95).RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
