package mixture

import "math"

// nbPMF evaluates the Negative-Binomial probability mass function at x for
// shape r and probability p:
//
//	pmf(x) = Gamma(x+r) / (Gamma(r) * x!) * p^r * (1-p)^x
//
// computed in log space to stay finite for large counts. Invalid parameters
// (r <= 0 or p outside (0, 1)) yield NaN, matching the behavior the EM
// collapse recovery relies on.
func nbPMF(x, r, p float64) float64 {
	if r <= 0 || p <= 0 || p >= 1 || x < 0 {
		return math.NaN()
	}
	lgXR, _ := math.Lgamma(x + r)
	lgR, _ := math.Lgamma(r)
	lgX1, _ := math.Lgamma(x + 1)
	logPMF := lgXR - lgR - lgX1 + r*math.Log(p) + x*math.Log(1-p)
	return math.Exp(logPMF)
}
