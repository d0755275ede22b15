package mixture

import "github.com/umitools/cellseg/internal/grid"

// Conditionals computes, for every pixel, the likelihood of observing its
// count under the background and cell components of the fit. With per-bin
// parameters each pixel is scored against its own bin's fit and bins must
// be non-nil; pixels outside every fitted bin score zero.
func Conditionals(x *grid.Float64, fit Fit, bins *grid.Int) (bg, cell *grid.Float64, err error) {
	bg = grid.NewFloat64(x.W, x.H)
	cell = grid.NewFloat64(x.W, x.H)

	if fit.Binned() {
		if bins == nil {
			return nil, nil, ErrBinsRequired
		}
		for i, label := range bins.Data {
			p, ok := fit.PerBin[label]
			if !ok {
				continue
			}
			bg.Data[i] = nbPMF(x.Data[i], p.R[0], p.P[0])
			cell.Data[i] = nbPMF(x.Data[i], p.R[1], p.P[1])
		}
		return bg, cell, nil
	}

	p := *fit.Global
	for i, v := range x.Data {
		bg.Data[i] = nbPMF(v, p.R[0], p.P[0])
		cell.Data[i] = nbPMF(v, p.R[1], p.P[1])
	}
	return bg, cell, nil
}

// Confidence computes the posterior probability of each pixel belonging to
// the cell component:
//
//	w1*cell / (w0*bg + w1*cell)
//
// Values are in [0, 1]. Pixels where both weighted likelihoods vanish
// (counts far outside both components, or pixels outside every fitted bin)
// score zero. With per-bin parameters, bins must be non-nil or
// ErrBinsRequired is returned.
func Confidence(x *grid.Float64, fit Fit, bins *grid.Int) (*grid.Float64, error) {
	bg, cell, err := Conditionals(x, fit, bins)
	if err != nil {
		return nil, err
	}

	out := grid.NewFloat64(x.W, x.H)
	weightAt := func(i int) (w0, w1 float64, ok bool) {
		if fit.Binned() {
			p, found := fit.PerBin[bins.Data[i]]
			if !found {
				return 0, 0, false
			}
			return p.W[0], p.W[1], true
		}
		return fit.Global.W[0], fit.Global.W[1], true
	}

	for i := range out.Data {
		w0, w1, ok := weightAt(i)
		if !ok {
			continue
		}
		tau0 := w0 * bg.Data[i]
		tau1 := w1 * cell.Data[i]
		if sum := tau0 + tau1; sum > 0 {
			out.Data[i] = tau1 / sum
		}
	}
	return out, nil
}
