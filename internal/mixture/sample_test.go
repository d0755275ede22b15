package mixture

import (
	"testing"

	"golang.org/x/exp/rand"

	"github.com/umitools/cellseg/internal/grid"
)

// testGrid builds a grid with a dim background and two bright patches.
func testGrid() *grid.Float64 {
	g := grid.NewFloat64(20, 20)
	for i := range g.Data {
		g.Data[i] = float64(1 + i%3)
	}
	for y := 3; y < 7; y++ {
		for x := 3; x < 7; x++ {
			g.Set(x, y, 60)
		}
	}
	for y := 12; y < 16; y++ {
		for x := 12; x < 16; x++ {
			g.Set(x, y, 55)
		}
	}
	return g
}

func fitOptions() RunOptions {
	opts := DefaultRunOptions()
	opts.EM.Mu = [2]float64{2, 55}
	opts.EM.Var = [2]float64{4, 70}
	opts.EM.Precision = 1e-6
	return opts
}

func TestRunGlobalFit(t *testing.T) {
	opts := fitOptions()
	fit := Run(testGrid(), opts)

	if fit.Binned() {
		t.Fatal("expected a global fit without bins")
	}
	p := fit.Global
	if p.W[0] <= p.W[1] {
		t.Errorf("background should dominate: got weights %v", p.W)
	}
	mu := p.Mu()
	if mu[1] < 40 || mu[1] > 70 {
		t.Errorf("cell mean: got %v, want near the bright patches", mu[1])
	}
}

func TestRunSeedDeterminism(t *testing.T) {
	g := testGrid()
	opts := fitOptions()
	opts.Downsample = 100 // force weighted downsampling
	opts.Seed = 42

	a := Run(g, opts)
	b := Run(g, opts)
	if *a.Global != *b.Global {
		t.Errorf("same seed produced different fits:\n%+v\n%+v", *a.Global, *b.Global)
	}
}

func TestRunWorkersMatchSequential(t *testing.T) {
	g := testGrid()
	bins := grid.NewInt(20, 20)
	for i := range bins.Data {
		if i%20 < 10 {
			bins.Data[i] = 1
		} else {
			bins.Data[i] = 2
		}
	}
	opts := fitOptions()
	opts.Bins = bins
	opts.Seed = 7

	seq := Run(g, opts)
	opts.Workers = 4
	par := Run(g, opts)

	for label, p := range seq.PerBin {
		if par.PerBin[label] != p {
			t.Errorf("bin %d: parallel fit differs from sequential", label)
		}
	}
}

func TestRunPerBinFit(t *testing.T) {
	g := testGrid()
	bins := grid.NewInt(20, 20)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			switch {
			case y < 10:
				bins.Set(x, y, 1)
			case y >= 10 && x >= 10:
				bins.Set(x, y, 2)
			}
			// Remaining pixels stay in no bin.
		}
	}
	opts := fitOptions()
	opts.Bins = bins

	fit := Run(g, opts)
	if !fit.Binned() {
		t.Fatal("expected per-bin parameters")
	}
	if len(fit.PerBin) != 2 {
		t.Fatalf("got %d bins, want 2", len(fit.PerBin))
	}
	for _, label := range []int{1, 2} {
		if _, ok := fit.PerBin[label]; !ok {
			t.Errorf("missing fit for bin %d", label)
		}
	}
}

func TestRunUsePeaks(t *testing.T) {
	g := grid.NewFloat64(30, 30)
	g.Set(5, 5, 50)
	g.Set(20, 20, 60)
	opts := fitOptions()
	opts.UsePeaks = true
	opts.MinDistance = 3

	pools := buildPools(g, opts)
	if len(pools[0]) != 2 {
		t.Fatalf("peak pool: got %d samples, want 2: %v", len(pools[0]), pools[0])
	}
}

func TestBuildPoolsFiltersNonPositive(t *testing.T) {
	g := grid.Float64FromRows([][]float64{
		{0, 1, 2},
		{3, 0, 0},
	})
	pools := buildPools(g, DefaultRunOptions())
	if len(pools[0]) != 3 {
		t.Errorf("pool: got %v, want the three positive values", pools[0])
	}
}

func TestDownsampleSmallPoolUnmodified(t *testing.T) {
	g := grid.Float64FromRows([][]float64{{2, 3, 4}})
	opts := fitOptions()
	opts.Downsample = 100 // absolute budget far above the pool size

	// Run must not shrink a pool already within budget; verify through the
	// pool builder plus the budget arithmetic.
	pools := buildPools(g, opts)
	if len(pools[0]) != 3 {
		t.Fatalf("pool size: got %d, want 3", len(pools[0]))
	}
}

func TestDownsampleFavorsBrightValues(t *testing.T) {
	pool := make([]float64, 0, 200)
	for i := 0; i < 100; i++ {
		pool = append(pool, 2)
		pool = append(pool, 1000)
	}

	src := rand.NewSource(1)
	picked := downsample(pool, 50, src)
	if len(picked) != 50 {
		t.Fatalf("got %d samples, want 50", len(picked))
	}
	bright := 0
	for _, v := range picked {
		if v == 1000 {
			bright++
		}
	}
	if bright <= 25 {
		t.Errorf("log weighting should favor bright values: got %d of 50", bright)
	}
}
