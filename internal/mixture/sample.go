package mixture

import (
	"math"
	"sort"
	"sync"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/umitools/cellseg/internal/grid"
	"github.com/umitools/cellseg/internal/morph"
)

// RunOptions configures sample selection and fitting for Run.
type RunOptions struct {
	// UsePeaks restricts training samples to local intensity maxima
	// instead of all positive pixels. Adjacent peak pixels collapse to a
	// single representative sample.
	UsePeaks bool

	// MinDistance is the minimum separation between peaks when UsePeaks
	// is set.
	MinDistance int

	// Downsample bounds the number of training samples per fit. An
	// integral value is an absolute budget, split across bins by their
	// share of the total pool; a fractional value keeps that fraction of
	// every pool. Pools already within budget are used unmodified.
	Downsample float64

	// Bins optionally partitions pixels into groups fitted independently.
	// Zero bin labels are ignored.
	Bins *grid.Int

	// Seed fully determines the downsampling randomness.
	Seed uint64

	// Workers bounds the number of concurrent per-bin fits. Values below
	// 2 fit sequentially. Sample selection is always sequential, so
	// results do not depend on this setting.
	Workers int

	// EM configures the underlying estimator.
	EM EMOptions
}

// DefaultRunOptions returns the driver defaults: all positive pixels,
// an even component prior, and a one-million sample budget.
func DefaultRunOptions() RunOptions {
	return RunOptions{
		MinDistance: 21,
		Downsample:  1e6,
		EM: EMOptions{
			W:         [2]float64{0.5, 0.5},
			Mu:        [2]float64{10, 300},
			Var:       [2]float64{20, 400},
			MaxIter:   2000,
			Precision: 1e-6,
		},
	}
}

// Run builds training sample pools from the count grid and fits mixture
// parameters for each pool. Without bins the result holds a single global
// parameter set; with bins it maps every nonzero bin label to its own fit.
//
// Downsampling draws without replacement with probability proportional to
// the log of each sample's count, so bright pixels are favored without
// deterministically dominating. Samples must be strictly positive for the
// log weighting to be meaningful; pools are built from positive pixels
// only. Identical options and seed reproduce the exact same fit.
func Run(x *grid.Float64, opts RunOptions) Fit {
	pools := buildPools(x, opts)

	keys := make([]int, 0, len(pools))
	total := 0
	for k, pool := range pools {
		keys = append(keys, k)
		total += len(pool)
	}
	sort.Ints(keys)

	// Downsampling consumes the seeded generator sequentially in bin
	// order so results are reproducible.
	rng := rand.NewSource(opts.Seed)
	fractional := opts.Downsample != math.Trunc(opts.Downsample)
	for _, k := range keys {
		pool := pools[k]
		var target int
		if fractional {
			target = int(float64(len(pool)) * opts.Downsample)
		} else if total > 0 {
			target = int(opts.Downsample * float64(len(pool)) / float64(total))
		}
		if len(pool) > target {
			pools[k] = downsample(pool, target, rng)
		}
	}

	results := make(map[int]Params, len(keys))
	if opts.Workers > 1 {
		var wg sync.WaitGroup
		var mu sync.Mutex
		sem := make(chan struct{}, opts.Workers)
		for _, k := range keys {
			wg.Add(1)
			go func(k int, pool []float64) {
				defer wg.Done()
				sem <- struct{}{}
				p := FitMixture(pool, opts.EM)
				<-sem
				mu.Lock()
				results[k] = p
				mu.Unlock()
			}(k, pools[k])
		}
		wg.Wait()
	} else {
		for _, k := range keys {
			results[k] = FitMixture(pools[k], opts.EM)
		}
	}

	if opts.Bins == nil {
		p := results[0]
		return Fit{Global: &p}
	}
	return Fit{PerBin: results}
}

// buildPools selects training samples per the configured policy. Pool key 0
// is used when no bins are given.
func buildPools(x *grid.Float64, opts RunOptions) map[int][]float64 {
	pools := make(map[int][]float64)

	switch {
	case opts.UsePeaks:
		peakMask := grid.NewBool(x.W, x.H)
		for _, p := range morph.PeakLocalMax(x, opts.MinDistance, opts.Bins) {
			peakMask.Set(p.X, p.Y, true)
		}
		// Plateaus yield runs of adjacent peak pixels; keep one sample per
		// connected run.
		peakLabels, _ := morph.ConnectedComponents(peakMask)
		added := make(map[int]bool)
		for y := 0; y < x.H; y++ {
			for px := 0; px < x.W; px++ {
				label := peakLabels.At(px, y)
				if label <= 0 || added[label] {
					continue
				}
				key := 0
				if opts.Bins != nil {
					key = opts.Bins.At(px, y)
				}
				pools[key] = append(pools[key], x.At(px, y))
				added[label] = true
			}
		}

	case opts.Bins != nil:
		for i, label := range opts.Bins.Data {
			if label > 0 {
				if _, ok := pools[label]; !ok {
					pools[label] = []float64{}
				}
				if x.Data[i] > 0 {
					pools[label] = append(pools[label], x.Data[i])
				}
			}
		}

	default:
		pool := []float64{}
		for _, v := range x.Data {
			if v > 0 {
				pool = append(pool, v)
			}
		}
		pools[0] = pool
	}
	return pools
}

// downsample draws n samples from the pool without replacement, weighted by
// log count.
func downsample(pool []float64, n int, src rand.Source) []float64 {
	weights := make([]float64, len(pool))
	for i, v := range pool {
		weights[i] = math.Log(v)
	}
	sampler := sampleuv.NewWeighted(weights, src)
	out := make([]float64, 0, n)
	for len(out) < n {
		idx, ok := sampler.Take()
		if !ok {
			break
		}
		out = append(out, pool[idx])
	}
	return out
}
