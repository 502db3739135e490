// Package sasdata holds the measured small-angle scattering curve that the
// Monte Carlo engine fits against: momentum transfer q, intensity I, the
// per-point uncertainty σ, and (for anisotropic measurements) the detector
// angle ψ.
//
// 🚀 What does sasdata guarantee?
//
//	A Dataset is validated once, at construction, and immutable afterwards:
//	  • q, I and σ have equal length n, with n ≥ 1
//	  • every q value is finite
//	  • every σ value is strictly positive
//	Downstream components (the optimizer, the scaling solver, the
//	histogrammer) rely on these invariants and never re-check them.
//
// ✨ Key features:
//   - strict construction via New with sentinel errors on invalid input
//   - optional ψ column via WithPsi for oriented (2D) shape models
//   - missing σ column defaulted to a fraction of I (logged once, Warn)
//   - SizeBounds derives the observable size window [π/q_max, π/Δq_min]
//     used for automatic shape-parameter bounds
//   - Clip applies q/ψ windows and intensity masks, returning a new Dataset
//
// ⚙️ Usage:
//
//	ds, err := sasdata.New(q, i, sigma)
//	if err != nil {
//	  // ErrLengthMismatch, ErrNonPositiveUncertainty, …
//	}
//	lo, hi, _ := ds.SizeBounds()
//
// All accessors return views of the internal arrays; callers must not
// mutate them.
package sasdata
