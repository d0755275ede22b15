package grid

import "testing"

func TestFloat64FromRows(t *testing.T) {
	g := Float64FromRows([][]float64{
		{1, 2, 3},
		{4, 5, 6},
	})

	if g.W != 3 || g.H != 2 {
		t.Fatalf("size: got %dx%d, want 3x2", g.W, g.H)
	}
	if g.At(2, 0) != 3 {
		t.Errorf("At(2,0): got %v, want 3", g.At(2, 0))
	}
	if g.At(0, 1) != 4 {
		t.Errorf("At(0,1): got %v, want 4", g.At(0, 1))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := Float64FromRows([][]float64{{1, 2}, {3, 4}})
	c := g.Clone()
	c.Set(0, 0, 99)

	if g.At(0, 0) != 1 {
		t.Errorf("mutating a clone changed the original: got %v", g.At(0, 0))
	}
}

func TestIntBincount(t *testing.T) {
	g := IntFromRows([][]int{
		{0, 0, 1},
		{2, 2, 2},
	})

	counts := g.Bincount()
	want := []int{2, 1, 3}
	if len(counts) != len(want) {
		t.Fatalf("Bincount length: got %d, want %d", len(counts), len(want))
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("Bincount[%d]: got %d, want %d", i, counts[i], want[i])
		}
	}
}

func TestIntMaxEmpty(t *testing.T) {
	if got := NewInt(0, 0).Max(); got != 0 {
		t.Errorf("Max of empty grid: got %d, want 0", got)
	}
}

func TestBoolCountTrue(t *testing.T) {
	g := BoolFromRows([][]int{
		{1, 0, 1},
		{0, 1, 0},
	})
	if got := g.CountTrue(); got != 3 {
		t.Errorf("CountTrue: got %d, want 3", got)
	}
}
