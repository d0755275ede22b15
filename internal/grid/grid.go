package grid

// Float64 is a dense 2-D grid of float64 values, such as per-pixel UMI
// counts or confidence scores. Data is stored row-major: index = y*W + x.
type Float64 struct {
	W, H int
	Data []float64
}

// NewFloat64 creates a zero-filled float grid of the given size.
func NewFloat64(w, h int) *Float64 {
	return &Float64{W: w, H: h, Data: make([]float64, w*h)}
}

// Float64FromRows builds a grid from row slices. All rows must have the
// same length.
func Float64FromRows(rows [][]float64) *Float64 {
	if len(rows) == 0 {
		return NewFloat64(0, 0)
	}
	g := NewFloat64(len(rows[0]), len(rows))
	for y, row := range rows {
		copy(g.Data[y*g.W:(y+1)*g.W], row)
	}
	return g
}

// At returns the value at (x, y).
func (g *Float64) At(x, y int) float64 { return g.Data[y*g.W+x] }

// Set stores v at (x, y).
func (g *Float64) Set(x, y int, v float64) { g.Data[y*g.W+x] = v }

// Clone returns a deep copy.
func (g *Float64) Clone() *Float64 {
	out := NewFloat64(g.W, g.H)
	copy(out.Data, g.Data)
	return out
}

// Int is a dense 2-D grid of integers. It is used for instance labels
// (0 = background, positive values = distinct instances) and for spatial
// bin assignments (0 = no bin).
type Int struct {
	W, H int
	Data []int
}

// NewInt creates a zero-filled integer grid of the given size.
func NewInt(w, h int) *Int {
	return &Int{W: w, H: h, Data: make([]int, w*h)}
}

// IntFromRows builds a grid from row slices. All rows must have the same
// length.
func IntFromRows(rows [][]int) *Int {
	if len(rows) == 0 {
		return NewInt(0, 0)
	}
	g := NewInt(len(rows[0]), len(rows))
	for y, row := range rows {
		copy(g.Data[y*g.W:(y+1)*g.W], row)
	}
	return g
}

// At returns the value at (x, y).
func (g *Int) At(x, y int) int { return g.Data[y*g.W+x] }

// Set stores v at (x, y).
func (g *Int) Set(x, y int, v int) { g.Data[y*g.W+x] = v }

// Clone returns a deep copy.
func (g *Int) Clone() *Int {
	out := NewInt(g.W, g.H)
	copy(out.Data, g.Data)
	return out
}

// Max returns the largest value in the grid, or 0 for an empty grid.
func (g *Int) Max() int {
	max := 0
	for _, v := range g.Data {
		if v > max {
			max = v
		}
	}
	return max
}

// Bincount returns the number of occurrences of every value in [0, Max()].
// The result is indexed by value, so Bincount()[label] is the pixel area of
// that label.
func (g *Int) Bincount() []int {
	counts := make([]int, g.Max()+1)
	for _, v := range g.Data {
		if v >= 0 {
			counts[v]++
		}
	}
	return counts
}

// Bool is a dense 2-D boolean mask.
type Bool struct {
	W, H int
	Data []bool
}

// NewBool creates an all-false mask of the given size.
func NewBool(w, h int) *Bool {
	return &Bool{W: w, H: h, Data: make([]bool, w*h)}
}

// BoolFromRows builds a mask from row slices of 0/1 values. All rows must
// have the same length.
func BoolFromRows(rows [][]int) *Bool {
	if len(rows) == 0 {
		return NewBool(0, 0)
	}
	g := NewBool(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, v := range row {
			g.Data[y*g.W+x] = v != 0
		}
	}
	return g
}

// At returns the value at (x, y).
func (g *Bool) At(x, y int) bool { return g.Data[y*g.W+x] }

// Set stores v at (x, y).
func (g *Bool) Set(x, y int, v bool) { g.Data[y*g.W+x] = v }

// Clone returns a deep copy.
func (g *Bool) Clone() *Bool {
	out := NewBool(g.W, g.H)
	copy(out.Data, g.Data)
	return out
}

// CountTrue returns the number of set pixels.
func (g *Bool) CountTrue() int {
	n := 0
	for _, v := range g.Data {
		if v {
			n++
		}
	}
	return n
}
