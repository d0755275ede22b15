package mixture

import "errors"

// ErrBinsRequired is returned when per-bin parameters are used to score a
// grid but no bin grid is supplied.
var ErrBinsRequired = errors.New("mixture: per-bin parameters require a bin grid")

// Params holds fitted Negative-Binomial mixture parameters. Index 0 is the
// background component, index 1 the cell component.
//
// W are the mixing weights (summing to 1), R the NB shape parameters
// (positive) and P the NB probability parameters (in (0, 1)). The bounds
// hold for any fit that did not collapse; a collapsed fit reports its last
// finite snapshot, which may predate convergence.
type Params struct {
	W [2]float64
	R [2]float64
	P [2]float64
}

// Mu returns the component means r*(1-p)/p implied by the parameters.
func (p Params) Mu() [2]float64 {
	return [2]float64{
		p.R[0]/p.P[0] - p.R[0],
		p.R[1]/p.P[1] - p.R[1],
	}
}

// Fit is the result of Run: either one global parameter set or a mapping
// from bin label to parameters. Exactly one of the two fields is set.
type Fit struct {
	Global *Params
	PerBin map[int]Params
}

// Binned reports whether the fit carries per-bin parameters.
func (f Fit) Binned() bool { return f.PerBin != nil }
