package morph

import (
	"testing"

	"github.com/umitools/cellseg/internal/grid"
)

// fillRect sets a rectangular block of a mask, bounds inclusive.
func fillRect(m *grid.Bool, x1, y1, x2, y2 int) {
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			m.Set(x, y, true)
		}
	}
}

func TestDiskKernelIsCrossAtSize3(t *testing.T) {
	kern := Disk(3)
	want := map[[2]int]bool{
		{0, 0}: true, {1, 0}: true, {-1, 0}: true, {0, 1}: true, {0, -1}: true,
	}
	if len(kern.Offsets) != len(want) {
		t.Fatalf("Disk(3): got %d offsets, want %d", len(kern.Offsets), len(want))
	}
	for _, off := range kern.Offsets {
		if !want[off] {
			t.Errorf("Disk(3): unexpected offset %v", off)
		}
	}
}

func TestSquareKernelSize(t *testing.T) {
	if got := len(Square(3).Offsets); got != 9 {
		t.Errorf("Square(3): got %d offsets, want 9", got)
	}
}

func TestErodeShrinksRect(t *testing.T) {
	mask := grid.NewBool(10, 10)
	fillRect(mask, 2, 2, 7, 7) // 6x6 block

	eroded := Erode(mask, Square(3), 1)
	if got := eroded.CountTrue(); got != 16 {
		t.Errorf("eroded area: got %d, want 16 (4x4)", got)
	}
	if !eroded.At(3, 3) || eroded.At(2, 2) {
		t.Errorf("erosion did not shrink the block by one pixel per side")
	}
}

func TestDilateThenErodeRestoresRect(t *testing.T) {
	mask := grid.NewBool(12, 12)
	fillRect(mask, 4, 4, 7, 7)

	closed := Close(mask, Square(3), 1)
	if closed.CountTrue() != mask.CountTrue() {
		t.Errorf("close changed a solid block: got %d pixels, want %d", closed.CountTrue(), mask.CountTrue())
	}
}

func TestConnectedComponents(t *testing.T) {
	mask := grid.NewBool(10, 6)
	fillRect(mask, 0, 0, 2, 2) // area 9
	fillRect(mask, 6, 3, 9, 5) // area 12

	labels, areas := ConnectedComponentsWithStats(mask)
	if len(areas) != 3 {
		t.Fatalf("got %d components, want 2", len(areas)-1)
	}
	// Scan order: the top-left block is labeled first.
	if areas[1] != 9 || areas[2] != 12 {
		t.Errorf("areas: got %v, want [_, 9, 12]", areas)
	}
	if labels.At(1, 1) != 1 || labels.At(7, 4) != 2 {
		t.Errorf("labels not assigned in scan order")
	}
}

func TestConnectedComponentsDiagonal(t *testing.T) {
	// Two diagonal pixels are 8-connected and must share a label.
	mask := grid.BoolFromRows([][]int{
		{1, 0},
		{0, 1},
	})
	_, n := ConnectedComponents(mask)
	if n != 1 {
		t.Errorf("diagonal pixels: got %d components, want 1", n)
	}
}

func TestExpandStep(t *testing.T) {
	labels := grid.IntFromRows([][]int{
		{0, 0, 0, 0, 0},
		{0, 1, 0, 2, 0},
		{0, 0, 0, 0, 0},
	})

	out := ExpandStep(labels)
	if out.At(1, 1) != 1 || out.At(3, 1) != 2 {
		t.Fatalf("existing labels must be preserved")
	}
	if out.At(1, 0) != 1 || out.At(0, 1) != 1 {
		t.Errorf("label 1 did not grow to its 4-neighbors")
	}
	// The pixel between the two labels is contested; the smaller label wins.
	if out.At(2, 1) != 1 {
		t.Errorf("contested pixel: got %d, want 1", out.At(2, 1))
	}
	// Diagonal neighbors are not reached in one step.
	if out.At(0, 0) != 0 {
		t.Errorf("expansion must not reach diagonal neighbors")
	}
}

func TestPeakLocalMax(t *testing.T) {
	x := grid.NewFloat64(15, 9)
	x.Set(4, 4, 10)
	x.Set(11, 4, 8)

	peaks := PeakLocalMax(x, 2, nil)
	if len(peaks) != 2 {
		t.Fatalf("got %d peaks, want 2: %v", len(peaks), peaks)
	}
	if peaks[0] != (Point{X: 4, Y: 4}) || peaks[1] != (Point{X: 11, Y: 4}) {
		t.Errorf("peak positions: got %v", peaks)
	}
}

func TestPeakLocalMaxMinDistance(t *testing.T) {
	x := grid.NewFloat64(15, 9)
	x.Set(5, 4, 10)
	x.Set(7, 4, 8) // within distance 3 of the brighter peak

	peaks := PeakLocalMax(x, 3, nil)
	if len(peaks) != 1 || peaks[0] != (Point{X: 5, Y: 4}) {
		t.Errorf("expected only the brighter peak, got %v", peaks)
	}
}

func TestPeakLocalMaxRespectsBins(t *testing.T) {
	x := grid.NewFloat64(11, 7)
	x.Set(3, 3, 10)
	x.Set(5, 3, 8)
	bins := grid.NewInt(11, 7)
	for i := range bins.Data {
		bins.Data[i] = 1
	}
	// Put the dimmer peak in its own bin: both become per-bin maxima.
	bins.Set(5, 3, 2)

	peaks := PeakLocalMax(x, 2, bins)
	if len(peaks) != 2 {
		t.Errorf("per-bin peaks: got %v, want two peaks", peaks)
	}
}

func TestOtsuThresholdSeparatesBimodal(t *testing.T) {
	g := grid.NewFloat64(10, 10)
	for i := range g.Data {
		if i < 70 {
			g.Data[i] = 1
		} else {
			g.Data[i] = 100
		}
	}

	thresh := OtsuThreshold(g)
	if thresh <= 1 || thresh > 100 {
		t.Fatalf("threshold %v does not separate the modes", thresh)
	}
	mask := Threshold(g, thresh)
	if got := mask.CountTrue(); got != 30 {
		t.Errorf("foreground pixels: got %d, want 30", got)
	}
}

func TestOtsuThresholdConstant(t *testing.T) {
	g := grid.NewFloat64(4, 4)
	for i := range g.Data {
		g.Data[i] = 7
	}
	if got := OtsuThreshold(g); got != 7 {
		t.Errorf("constant grid: got %v, want 7", got)
	}
}

func TestSafeErodePreservesSmallComponents(t *testing.T) {
	mask := grid.NewBool(30, 20)
	fillRect(mask, 1, 1, 3, 3)    // area 9, below minArea
	fillRect(mask, 10, 2, 25, 17) // area 256

	out := SafeErode(mask, Disk(3), 20, 2)
	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			if !out.At(x, y) {
				t.Fatalf("small component eroded at (%d,%d)", x, y)
			}
		}
	}
	if out.CountTrue() >= mask.CountTrue() {
		t.Errorf("large component was not eroded")
	}
}

func TestSafeErodeUntilSmall(t *testing.T) {
	mask := grid.NewBool(40, 40)
	fillRect(mask, 5, 5, 34, 34) // area 900

	out := SafeErode(mask, Disk(3), 100, -1)
	_, areas := ConnectedComponentsWithStats(out)
	for label := 1; label < len(areas); label++ {
		if areas[label] > 100 {
			t.Errorf("component %d still has area %d > 100", label, areas[label])
		}
	}
	if out.CountTrue() == 0 {
		t.Errorf("erosion removed everything")
	}
}
