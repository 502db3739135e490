// Package histogram turns a converged Monte Carlo ensemble into
// volume- and number-weighted size distributions with observability limits.
//
// 🚀 What does it compute?
//
//	Starting from the raw per-repetition contribution sets, the
//	Histogrammer re-evaluates each repetition's summed intensity, solves a
//	fresh (scale, background) fit against the measurement, and converts
//	every contribution into physical fractions:
//
//	  volume fraction   scale·v² / (V_particle·contrast)
//	  number fraction   volume fraction / V_particle, normalized to Σ = 1
//	  minimum required  min over q of σ(q)·volFrac / (scale·I_c(q)),
//	                    per particle volume — the smallest fraction still
//	                    distinguishable from the measurement noise
//
//	The fractions are then binned per parameter dimension on linear or
//	logarithmic edges, averaged across repetitions (mean ± sample std),
//	and the per-bin minimum-required curve takes the max over repetitions.
//
// Because the fractions are recomputed from the frozen contribution sets,
// the same ensemble can be re-histogrammed with different bin counts,
// axis scales or contrast factors without re-running the optimizer.
//
// ✨ Key features:
//   - half-open bins on raw (uncompensated) parameter values
//   - per-dimension bin count and axis scale, scalar broadcast
//   - raw fraction matrices exposed for downstream statistics
//   - RangeMoments: weighted mean/variance/skewness/kurtosis of any
//     parameter sub-range, reported as across-repetition mean ± std
//
// All computation is deterministic; identical ensembles and options yield
// identical distributions.
package histogram
