// Package scaling - result record and sentinel errors.
package scaling

import "errors"

// Sentinel errors returned by the solver.
var (
	// ErrDegenerateFit indicates an identically-zero calculated intensity
	// or a singular least-squares system; the scale factor is undefined.
	ErrDegenerateFit = errors.New("scaling: degenerate fit, scale factor is undefined")

	// ErrDimensionMismatch indicates input curves of unequal or zero length.
	ErrDimensionMismatch = errors.New("scaling: observed, calculated and uncertainty must share a non-zero length")
)

// Result holds one solved (scale, background) pair and the reduced
// chi-square of the scaled curve against the observation.
type Result struct {
	Scale            float64
	Background       float64
	ReducedChiSquare float64
}
