// Package mcfit is the Monte Carlo core: it infers a population of discrete
// shape contributions whose combined scattered intensity reproduces a
// measured curve within its uncertainty.
//
// 🚀 How does the optimization work?
//
//	A contribution set of NumContribs parameter vectors is seeded (random,
//	from the lower bound, or from a prior ensemble) and then refined by
//	single-contribution replacement: on every iteration one contribution —
//	chosen round-robin so each is revisited at a bounded interval — is
//	tentatively replaced by a fresh random draw. The candidate total
//	intensity is formed incrementally (subtract the old contribution's
//	cached intensity and volume², add the trial's, O(n_q) per iteration),
//	rescaled by the scaling solver, and accepted iff its reduced
//	chi-square is strictly smaller. The attempt converges once
//	χ²_red ≤ ConvergenceCriterion, or exhausts MaxIterations and is
//	retried with a fresh seed; after MaxRetries+2 failed attempts the run
//	fails with ErrOptimizationFailed.
//
// The optimizer is an explicit state machine:
//
//	INIT → SEEDING → ITERATING → {CONVERGED | EXHAUSTED}
//
// with the retry counter as explicit state rather than loop nesting.
//
// ✨ Key features:
//   - two memory modes behind one accept/reject algorithm: Cached keeps a
//     (NumContribs × n_q) per-contribution intensity matrix, LowMemory
//     recomputes single rows on demand — both produce identical decisions
//   - two-phase scaling warm start per attempt (robust Nelder–Mead, then
//     the exact refined solve) to avoid stalls on badly scaled seeds
//   - prior seeding with exact reuse, random duplication or subsampling
//   - RunRepetitions: embarrassingly parallel repetitions on independent
//     SplitMix64-derived RNG streams, merged all-or-nothing
//   - cooperative cancellation via context, checked once per iteration
//
// Concurrency: a single Optimizer.Run is strictly sequential — every
// candidate depends on the previously committed state. Repetitions share
// only the read-only Dataset and Model and may run concurrently.
package mcfit
