// Package mixture separates cell signal from background noise in UMI count
// grids by fitting a two-component Negative-Binomial mixture model with
// Expectation-Maximization.
//
// The package has three entry points, matching the stages of the fit:
//
//   - Run selects training samples from a count grid (optionally restricted
//     to local intensity peaks, optionally per spatial bin, optionally
//     downsampled) and fits mixture parameters for each sample pool.
//   - FitMixture is the underlying EM estimator over a 1-D sample slice.
//   - Conditionals and Confidence score every pixel of a grid against the
//     fitted parameters, yielding per-class likelihoods and a posterior
//     cell-probability map in [0, 1].
//
// Component index 0 is background and index 1 is cell throughout.
//
// # Numerical Robustness
//
// The EM loop recovers from its own degeneracies instead of failing:
// near-zero responsibility sums force an assignment by comparing the count
// against twice the background mean, and a NaN appearing in any parameter
// ends the loop with the last finite parameter snapshot. Reaching the
// iteration cap without convergence is not an error; the current estimate
// is returned. The only surfaced error is a configuration violation:
// scoring with per-bin parameters but no bin grid.
package mixture
