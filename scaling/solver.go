// Package scaling - coarse and refined (scale, background) solvers.
//
// Design principles:
//   - Deterministic: identical inputs yield identical outputs in both passes.
//   - Strict sentinels from types.go; optimizer failures in the coarse pass
//     are folded into ErrDegenerateFit with the cause attached via %w.
//   - Hot-path discipline: Solve allocates nothing and runs in O(n); it is
//     called once per Monte Carlo iteration.
package scaling

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// InitialGuess seeds the solver the way the Monte Carlo engine expects:
// scale from the peak ratio max(observed)/max(calculated), background from
// the observed minimum.
//
// Complexity: O(n).
func InitialGuess(observed, calculated []float64) Result {
	if len(observed) == 0 || len(calculated) == 0 {
		return Result{}
	}

	var (
		maxObs  = floats.Max(observed)
		minObs  = floats.Min(observed)
		maxCalc = floats.Max(calculated)
	)

	var scale float64
	if maxCalc != 0 {
		scale = maxObs / maxCalc
	}

	return Result{Scale: scale, Background: minObs}
}

// ReducedChiSquare returns Σ((obs−fit)/σ)²/n for two already-aligned curves.
//
// Complexity: O(n).
func ReducedChiSquare(observed, fitted, sigma []float64) float64 {
	var (
		sum float64
		k   int
	)
	for k = 0; k < len(observed); k++ {
		r := (observed[k] - fitted[k]) / sigma[k]
		sum += r * r
	}

	return sum / float64(len(observed))
}

// Solve computes the exact weighted linear least-squares (scale, background)
// for observed ≈ scale·calculated + background with weights 1/σ². When
// allowBackground is false the background is fixed at 0 and only the scale
// is fitted.
//
// The minimization problem is linear in both parameters, so the refined
// solution is closed-form; the guess argument keeps the call signature
// uniform with SolveRobust and seeds nothing here.
//
// Errors: ErrDimensionMismatch on ragged input, ErrDegenerateFit when
// calculated is identically zero or the normal system is singular.
//
// Complexity: O(n) time, O(1) space.
func Solve(observed, calculated, sigma []float64, guess Result, allowBackground bool) (Result, error) {
	_ = guess // the closed-form solution is seed-independent

	n := len(observed)
	if n == 0 || len(calculated) != n || len(sigma) != n {
		return Result{}, ErrDimensionMismatch
	}
	if allZero(calculated) {
		return Result{}, ErrDegenerateFit
	}

	// Weighted normal equations for the design [calculated, 1]:
	//   [Σw·c²  Σw·c] [s]   [Σw·c·o]
	//   [Σw·c   Σw  ] [b] = [Σw·o  ]
	var (
		swcc, swc, sw, swco, swo float64
		k                        int
	)
	for k = 0; k < n; k++ {
		w := 1 / (sigma[k] * sigma[k])
		c := calculated[k]
		o := observed[k]
		swcc += w * c * c
		swc += w * c
		sw += w
		swco += w * c * o
		swo += w * o
	}

	var res Result
	if allowBackground {
		det := swcc*sw - swc*swc
		if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
			return Result{}, ErrDegenerateFit
		}
		res.Scale = (swco*sw - swc*swo) / det
		res.Background = (swcc*swo - swc*swco) / det
	} else {
		if swcc == 0 || math.IsNaN(swcc) || math.IsInf(swcc, 0) {
			return Result{}, ErrDegenerateFit
		}
		res.Scale = swco / swcc
	}

	res.ReducedChiSquare = chiSquareAt(observed, calculated, sigma, res.Scale, res.Background)
	if math.IsNaN(res.ReducedChiSquare) {
		return Result{}, ErrDegenerateFit
	}

	return res, nil
}

// SolveRobust minimizes the reduced chi-square with derivative-free
// Nelder–Mead, seeded from guess. It tolerates badly scaled seeds at the
// cost of speed and is intended for the once-per-attempt warm start.
//
// Errors: as Solve; optimizer failures are reported as ErrDegenerateFit
// with the underlying cause wrapped.
//
// Complexity: O(iterations · n).
func SolveRobust(observed, calculated, sigma []float64, guess Result, allowBackground bool) (Result, error) {
	n := len(observed)
	if n == 0 || len(calculated) != n || len(sigma) != n {
		return Result{}, ErrDimensionMismatch
	}
	if allZero(calculated) {
		return Result{}, ErrDegenerateFit
	}

	var (
		problem optimize.Problem
		init    []float64
	)
	if allowBackground {
		problem = optimize.Problem{
			Func: func(x []float64) float64 {
				return chiSquareAt(observed, calculated, sigma, x[0], x[1])
			},
		}
		init = []float64{guess.Scale, guess.Background}
	} else {
		problem = optimize.Problem{
			Func: func(x []float64) float64 {
				return chiSquareAt(observed, calculated, sigma, x[0], 0)
			},
		}
		init = []float64{guess.Scale}
	}

	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-12,
			Iterations: 50,
		},
	}
	sol, err := optimize.Minimize(problem, init, settings, &optimize.NelderMead{})
	if err != nil {
		return Result{}, fmt.Errorf("%w: coarse pass: %v", ErrDegenerateFit, err)
	}

	var res Result
	res.Scale = sol.X[0]
	if allowBackground {
		res.Background = sol.X[1]
	}
	res.ReducedChiSquare = sol.F
	if math.IsNaN(res.ReducedChiSquare) {
		return Result{}, ErrDegenerateFit
	}

	return res, nil
}

// chiSquareAt evaluates the objective at a specific (scale, background).
func chiSquareAt(observed, calculated, sigma []float64, scale, background float64) float64 {
	var (
		sum float64
		k   int
	)
	for k = 0; k < len(observed); k++ {
		r := (observed[k] - scale*calculated[k] - background) / sigma[k]
		sum += r * r
	}

	return sum / float64(len(observed))
}

func allZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}

	return true
}
