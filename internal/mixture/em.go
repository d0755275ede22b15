package mixture

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mathext"
)

// EMOptions configures a single EM fit.
type EMOptions struct {
	// W are the initial mixing weights of (background, cell).
	W [2]float64

	// Mu are the initial component means.
	Mu [2]float64

	// Var are the initial component variances. Each must exceed the
	// corresponding mean for the Negative-Binomial parameterization to be
	// valid (overdispersion).
	Var [2]float64

	// MaxIter caps the number of EM iterations.
	MaxIter int

	// Precision stops the loop once the largest absolute parameter change
	// between iterations falls below it.
	Precision float64
}

// DefaultEMOptions returns the estimator defaults: a heavily
// background-weighted prior with a dim background and a bright cell
// component.
func DefaultEMOptions() EMOptions {
	return EMOptions{
		W:         [2]float64{0.99, 0.01},
		Mu:        [2]float64{10, 300},
		Var:       [2]float64{20, 400},
		MaxIter:   2000,
		Precision: 1e-3,
	}
}

// lamThetaToR converts the auxiliary (lambda, theta) pair back to the NB
// shape parameter.
func lamThetaToR(lam, theta float64) float64 {
	return -lam / math.Log(theta)
}

// muVarToLamTheta converts a mean/variance pair to the auxiliary
// (lambda, theta) parameterization that linearizes the moment updates.
func muVarToLamTheta(mu, variance float64) (lam, theta float64) {
	r := mu * mu / (variance - mu)
	theta = mu / variance
	lam = -r * math.Log(theta)
	return lam, theta
}

// lamThetaToMu returns the component mean implied by (lambda, theta).
func lamThetaToMu(lam, theta float64) float64 {
	r := lamThetaToR(lam, theta)
	return r/theta - r
}

// FitMixture runs EM over the sample slice x and returns the estimated
// mixture parameters (weights, shapes, probabilities).
//
// The loop alternates:
//
//   - E-step: per-sample responsibilities tau[k] = w[k] * NB(r[k], theta[k]).pmf(x),
//     normalized per sample. Samples whose responsibility sum collapses to
//     (near) zero are force-assigned: background when x < 2*mu[0], cell
//     otherwise.
//   - M-step: closed-form re-estimation of w, lambda and theta from
//     responsibility-weighted digamma terms.
//
// Iteration ends when the largest absolute change across w, lambda and
// theta drops below opts.Precision, when opts.MaxIter is reached, or when
// any parameter turns NaN. On NaN the last finite snapshot is returned; if
// the very first iteration collapses, that snapshot is the initial
// conversion of opts, essentially unfit.
func FitMixture(x []float64, opts EMOptions) Params {
	w := opts.W
	var lam, theta [2]float64
	lam[0], theta[0] = muVarToLamTheta(opts.Mu[0], opts.Var[0])
	lam[1], theta[1] = muVarToLamTheta(opts.Mu[1], opts.Var[1])

	prevW, prevLam, prevTheta := w, lam, theta
	tau0 := make([]float64, len(x))
	tau1 := make([]float64, len(x))
	collapsed := false

	for iter := 0; iter < opts.MaxIter; iter++ {
		r := [2]float64{
			lamThetaToR(lam[0], theta[0]),
			lamThetaToR(lam[1], theta[1]),
		}
		bgMean := lamThetaToMu(lam[0], theta[0])

		// E-step.
		for i, xi := range x {
			t0 := w[0] * nbPMF(xi, r[0], theta[0])
			t1 := w[1] * nbPMF(xi, r[1], theta[1])
			if t0+t1 <= 1e-9 {
				// Both components reject this sample; force an assignment
				// so normalization cannot divide by zero.
				if xi < 2*bgMean {
					t0 = 1
				} else {
					t1 = 1
				}
			}
			sum := t0 + t1
			tau0[i] = t0 / sum
			tau1[i] = t1 / sum
		}

		beta := [2]float64{
			1 - 1/(1-theta[0]) - 1/math.Log(theta[0]),
			1 - 1/(1-theta[1]) - 1/math.Log(theta[1]),
		}

		// M-step: responsibility-weighted sums of the digamma delta terms.
		var tauSum, tauDelta, tauResidual [2]float64
		dgR := [2]float64{mathext.Digamma(r[0]), mathext.Digamma(r[1])}
		for i, xi := range x {
			d0 := r[0] * (mathext.Digamma(r[0]+xi) - dgR[0])
			d1 := r[1] * (mathext.Digamma(r[1]+xi) - dgR[1])
			tauSum[0] += tau0[i]
			tauSum[1] += tau1[i]
			tauDelta[0] += tau0[i] * d0
			tauDelta[1] += tau1[i] * d1
			tauResidual[0] += tau0[i] * (xi - (1-beta[0])*d0)
			tauResidual[1] += tau1[i] * (xi - (1-beta[1])*d1)
		}

		total := tauSum[0] + tauSum[1]
		w = [2]float64{tauSum[0] / total, tauSum[1] / total}
		lam = [2]float64{tauDelta[0] / tauSum[0], tauDelta[1] / tauSum[1]}
		theta = [2]float64{
			beta[0] * tauDelta[0] / tauResidual[0],
			beta[1] * tauDelta[1] / tauResidual[1],
		}

		collapsed = anyNaN(w) || anyNaN(lam) || anyNaN(theta)
		diffs := []float64{
			math.Abs(w[0] - prevW[0]), math.Abs(w[1] - prevW[1]),
			math.Abs(lam[0] - prevLam[0]), math.Abs(lam[1] - prevLam[1]),
			math.Abs(theta[0] - prevTheta[0]), math.Abs(theta[1] - prevTheta[1]),
		}
		if floats.Max(diffs) < opts.Precision || collapsed {
			break
		}
		prevW, prevLam, prevTheta = w, lam, theta
	}

	if collapsed {
		w, lam, theta = prevW, prevLam, prevTheta
	}
	return Params{
		W: w,
		R: [2]float64{
			lamThetaToR(lam[0], theta[0]),
			lamThetaToR(lam[1], theta[1]),
		},
		P: theta,
	}
}

func anyNaN(v [2]float64) bool {
	return math.IsNaN(v[0]) || math.IsNaN(v[1])
}
