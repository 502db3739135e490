// Package scaling fits the two free linear parameters of a Monte Carlo
// candidate — intensity scale and flat background — against a measured
// curve, and reports the goodness of fit as a reduced chi-square.
//
// 🚀 What does the solver minimize?
//
//	χ²_red = Σ_k ((I_obs(k) − s·I_calc(k) − b) / σ(k))² / n
//
//	over (s, b), with b fixed at 0 when the background is disabled.
//
// Two passes are provided, mirroring the classic coarse/refined warm start:
//
//   - SolveRobust — derivative-free Nelder–Mead minimization (gonum
//     optimize) seeded from the initial guess. Slow but tolerant of poor
//     seeds; used once per optimizer attempt after seeding.
//   - Solve — the exact weighted linear least-squares solution via the 2×2
//     normal equations (gonum mat). Deterministic and O(n); used on every
//     Monte Carlo iteration.
//
// Both passes return identical minima on well-conditioned inputs; the
// two-phase warm start is kept to avoid stalls on badly scaled seeds, not
// as a correctness requirement.
//
// Errors: ErrDegenerateFit when the calculated intensity is identically
// zero or the normal system is singular — the scale is then undefined and
// the current optimizer attempt must be abandoned.
package scaling
