package mixture

import (
	"errors"
	"math"
	"testing"

	"github.com/umitools/cellseg/internal/grid"
)

func testParams() Params {
	return Params{
		W: [2]float64{0.8, 0.2},
		R: [2]float64{2, 50},
		P: [2]float64{0.5, 0.4},
	}
}

func TestConfidenceRange(t *testing.T) {
	x := grid.Float64FromRows([][]float64{
		{0, 1, 5},
		{20, 75, 300},
	})
	fit := Fit{Global: &Params{
		W: [2]float64{0.9, 0.1},
		R: [2]float64{1.5, 40},
		P: [2]float64{0.6, 0.35},
	}}

	conf, err := Confidence(x, fit, nil)
	if err != nil {
		t.Fatalf("Confidence failed: %v", err)
	}
	for i, v := range conf.Data {
		if v < 0 || v > 1 || math.IsNaN(v) {
			t.Errorf("confidence[%d] = %v, want in [0,1]", i, v)
		}
	}
	// Bright pixels must score higher than dim ones.
	if conf.At(1, 1) <= conf.At(1, 0) {
		t.Errorf("confidence at count 75 (%v) should exceed count 1 (%v)", conf.At(1, 1), conf.At(1, 0))
	}
}

func TestConfidencePerBinWithoutBinsFails(t *testing.T) {
	x := grid.NewFloat64(2, 2)
	fit := Fit{PerBin: map[int]Params{1: testParams()}}

	_, err := Confidence(x, fit, nil)
	if !errors.Is(err, ErrBinsRequired) {
		t.Fatalf("got error %v, want ErrBinsRequired", err)
	}
	_, _, err = Conditionals(x, fit, nil)
	if !errors.Is(err, ErrBinsRequired) {
		t.Fatalf("Conditionals: got error %v, want ErrBinsRequired", err)
	}
}

func TestConditionalsPerBin(t *testing.T) {
	x := grid.Float64FromRows([][]float64{
		{1, 1},
		{60, 60},
	})
	bins := grid.IntFromRows([][]int{
		{1, 0},
		{2, 2},
	})
	bright := Params{
		W: [2]float64{0.5, 0.5},
		R: [2]float64{2, 60},
		P: [2]float64{0.5, 0.5},
	}
	fit := Fit{PerBin: map[int]Params{1: testParams(), 2: bright}}

	bg, cell, err := Conditionals(x, fit, bins)
	if err != nil {
		t.Fatalf("Conditionals failed: %v", err)
	}
	// Pixels outside every bin score zero.
	if bg.At(1, 0) != 0 || cell.At(1, 0) != 0 {
		t.Errorf("unbinned pixel must score zero, got bg=%v cell=%v", bg.At(1, 0), cell.At(1, 0))
	}
	// Binned pixels score against their own parameters.
	if bg.At(0, 0) != nbPMF(1, testParams().R[0], testParams().P[0]) {
		t.Errorf("bin 1 background conditional mismatch")
	}
	if cell.At(0, 1) != nbPMF(60, bright.R[1], bright.P[1]) {
		t.Errorf("bin 2 cell conditional mismatch")
	}
}

func TestConfidencePerBinRange(t *testing.T) {
	x := grid.Float64FromRows([][]float64{
		{1, 2, 400},
		{55, 0, 3},
	})
	bins := grid.IntFromRows([][]int{
		{1, 1, 1},
		{1, 0, 1},
	})
	fit := Fit{PerBin: map[int]Params{1: testParams()}}

	conf, err := Confidence(x, fit, bins)
	if err != nil {
		t.Fatalf("Confidence failed: %v", err)
	}
	for i, v := range conf.Data {
		if v < 0 || v > 1 || math.IsNaN(v) {
			t.Errorf("confidence[%d] = %v, want in [0,1]", i, v)
		}
	}
	if conf.At(0, 1) <= conf.At(0, 0) {
		t.Errorf("count 55 should outscore count 1")
	}
}
