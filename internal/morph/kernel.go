package morph

import "github.com/umitools/cellseg/internal/grid"

// Kernel is a binary structuring element for erosion and dilation. Set
// pixels participate in the operation; unset pixels are skipped.
type Kernel struct {
	Size    int
	Offsets [][2]int // (dx, dy) pairs of set pixels relative to the center
}

// Square returns a k x k structuring element with every pixel set.
func Square(k int) Kernel {
	kern := Kernel{Size: k}
	r := (k - 1) / 2
	for dy := -r; dy <= k-1-r; dy++ {
		for dx := -r; dx <= k-1-r; dx++ {
			kern.Offsets = append(kern.Offsets, [2]int{dx, dy})
		}
	}
	return kern
}

// Disk returns a k x k elliptical structuring element: pixels whose center
// lies within the inscribed ellipse are set. For k=3 this is the
// 4-connected cross.
func Disk(k int) Kernel {
	kern := Kernel{Size: k}
	r := float64(k-1) / 2
	if r == 0 {
		kern.Offsets = append(kern.Offsets, [2]int{0, 0})
		return kern
	}
	ri := (k - 1) / 2
	for dy := -ri; dy <= k-1-ri; dy++ {
		for dx := -ri; dx <= k-1-ri; dx++ {
			fx, fy := float64(dx)/r, float64(dy)/r
			if fx*fx+fy*fy <= 1.0 {
				kern.Offsets = append(kern.Offsets, [2]int{dx, dy})
			}
		}
	}
	return kern
}

// Erode performs n iterations of binary erosion: a pixel stays set only if
// every structuring-element neighbor inside the grid is set. Out-of-bounds
// neighbors count as set, so regions touching the border keep their border
// edge.
func Erode(mask *grid.Bool, kern Kernel, n int) *grid.Bool {
	cur := mask.Clone()
	for i := 0; i < n; i++ {
		next := grid.NewBool(mask.W, mask.H)
		for y := 0; y < mask.H; y++ {
			for x := 0; x < mask.W; x++ {
				if !cur.At(x, y) {
					continue
				}
				keep := true
				for _, off := range kern.Offsets {
					nx, ny := x+off[0], y+off[1]
					if nx < 0 || ny < 0 || nx >= mask.W || ny >= mask.H {
						continue
					}
					if !cur.At(nx, ny) {
						keep = false
						break
					}
				}
				next.Set(x, y, keep)
			}
		}
		cur = next
	}
	return cur
}

// Dilate performs n iterations of binary dilation: a pixel becomes set if
// any structuring-element neighbor is set.
func Dilate(mask *grid.Bool, kern Kernel, n int) *grid.Bool {
	cur := mask.Clone()
	for i := 0; i < n; i++ {
		next := grid.NewBool(mask.W, mask.H)
		for y := 0; y < mask.H; y++ {
			for x := 0; x < mask.W; x++ {
				if cur.At(x, y) {
					next.Set(x, y, true)
					continue
				}
				for _, off := range kern.Offsets {
					nx, ny := x+off[0], y+off[1]
					if nx < 0 || ny < 0 || nx >= mask.W || ny >= mask.H {
						continue
					}
					if cur.At(nx, ny) {
						next.Set(x, y, true)
						break
					}
				}
			}
		}
		cur = next
	}
	return cur
}

// Close performs dilation followed by erosion, fusing narrow breaks and
// filling small holes.
func Close(mask *grid.Bool, kern Kernel, n int) *grid.Bool {
	return Erode(Dilate(mask, kern, n), kern, n)
}

// Open performs erosion followed by dilation, removing thin protrusions and
// isolated specks.
func Open(mask *grid.Bool, kern Kernel, n int) *grid.Bool {
	return Dilate(Erode(mask, kern, n), kern, n)
}
