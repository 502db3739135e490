// Package sasdata - Dataset construction, validation and clipping.
//
// Design principles:
//   - All invariants are enforced exactly once, in New; accessors are plain
//     reads with no checks in hot paths.
//   - Only sentinel errors from types.go are returned.
//   - Input slices are copied; a Dataset never aliases caller memory.
package sasdata

import (
	"math"
)

// Dataset is one validated, immutable measured scattering curve.
//
// Invariants (established by New):
//   - Len() ≥ 1
//   - all q finite
//   - all σ > 0
//   - ψ, when present, has the same length as q
type Dataset struct {
	q     []float64
	i     []float64
	sigma []float64
	psi   []float64 // nil when not supplied
}

// New validates and copies the supplied columns into a Dataset.
//
// sigma may be nil: each σ is then defaulted to a fraction of the
// corresponding intensity (see WithDefaultUncertaintyFraction) and a single
// Warn-level notice is logged. A supplied but non-positive σ (including an
// all-zero column) is rejected with ErrNonPositiveUncertainty.
//
// Complexity: O(n) time, O(n) space.
func New(q, intensity, sigma []float64, opts ...Option) (*Dataset, error) {
	o := newOptions(opts)
	if o.uncertaintyFraction <= 0 || o.uncertaintyFraction > 1 {
		return nil, ErrBadUncertaintyFraction
	}
	if len(q) == 0 {
		return nil, ErrNoQ
	}
	if len(intensity) == 0 {
		return nil, ErrNoIntensity
	}
	if len(intensity) != len(q) {
		return nil, ErrLengthMismatch
	}
	if sigma != nil && len(sigma) != len(q) {
		return nil, ErrLengthMismatch
	}
	if o.psi != nil && len(o.psi) != len(q) {
		return nil, ErrLengthMismatch
	}

	var n = len(q)
	ds := &Dataset{
		q:     make([]float64, n),
		i:     make([]float64, n),
		sigma: make([]float64, n),
	}
	copy(ds.q, q)
	copy(ds.i, intensity)

	var k int
	for k = 0; k < n; k++ {
		if math.IsNaN(ds.q[k]) || math.IsInf(ds.q[k], 0) {
			return nil, ErrNonFiniteQ
		}
	}

	if sigma == nil {
		// Non-fatal condition: derive σ from I, notify once.
		o.logger.Warn("sasdata: no uncertainties provided, defaulting to a fraction of intensity",
			"fraction", o.uncertaintyFraction)
		for k = 0; k < n; k++ {
			ds.sigma[k] = o.uncertaintyFraction * ds.i[k]
		}
	} else {
		copy(ds.sigma, sigma)
	}
	for k = 0; k < n; k++ {
		if !(ds.sigma[k] > 0) || math.IsInf(ds.sigma[k], 0) {
			return nil, ErrNonPositiveUncertainty
		}
	}

	if o.psi != nil {
		ds.psi = make([]float64, n)
		copy(ds.psi, o.psi)
	}

	return ds, nil
}

// Len returns the number of data points.
func (d *Dataset) Len() int { return len(d.q) }

// Q returns the momentum transfer values. Read-only view.
func (d *Dataset) Q() []float64 { return d.q }

// I returns the measured intensity values. Read-only view.
func (d *Dataset) I() []float64 { return d.i }

// Sigma returns the per-point uncertainties. Read-only view.
func (d *Dataset) Sigma() []float64 { return d.sigma }

// Psi returns the detector angles, or nil for isotropic data. Read-only view.
func (d *Dataset) Psi() []float64 { return d.psi }

// HasPsi reports whether detector angles are present.
func (d *Dataset) HasPsi() bool { return d.psi != nil }

// SizeBounds derives the observable size window from the q vector:
// the smallest resolvable size is π/q_max, the largest is π/Δq where Δq is
// the smaller of |q_min| and the smallest positive q step.
//
// Returns ErrDegenerateSizeBounds when q admits no positive scale (e.g. a
// single point at q = 0).
//
// Complexity: O(n).
func (d *Dataset) SizeBounds() (lower, upper float64, err error) {
	var (
		qmax float64
		step = math.Inf(1)
		k    int
	)
	for k = 0; k < len(d.q); k++ {
		if a := math.Abs(d.q[k]); a > qmax {
			qmax = a
		}
	}
	// Smallest positive |q| competes with the smallest positive q step.
	for k = 0; k < len(d.q); k++ {
		if a := math.Abs(d.q[k]); a > 0 && a < step {
			step = a
		}
	}
	for k = 1; k < len(d.q); k++ {
		if dq := math.Abs(d.q[k] - d.q[k-1]); dq > 0 && dq < step {
			step = dq
		}
	}
	if qmax == 0 || math.IsInf(step, 1) {
		return 0, 0, ErrDegenerateSizeBounds
	}

	return math.Pi / qmax, math.Pi / step, nil
}

// Clip returns a new Dataset restricted to the supplied Window. The lower
// q/ψ limits are exclusive and the upper limits inclusive, so a window
// starting at 0 removes the q = 0 point.
//
// Returns ErrEmptyAfterClip when nothing remains.
//
// Complexity: O(n) time, O(n) space.
func (d *Dataset) Clip(w Window) (*Dataset, error) {
	keep := make([]bool, len(d.q))
	var n, k int
	for k = 0; k < len(d.q); k++ {
		keep[k] = true
		if w.MaskZeroIntensity && d.i[k] == 0 {
			keep[k] = false
		}
		if w.MaskNegativeIntensity && d.i[k] <= 0 {
			keep[k] = false
		}
		if w.QMax > w.QMin && !(d.q[k] > w.QMin && d.q[k] <= w.QMax) {
			keep[k] = false
		}
		if d.psi != nil && w.PsiMax > w.PsiMin &&
			!(d.psi[k] > w.PsiMin && d.psi[k] <= w.PsiMax) {
			keep[k] = false
		}
		if keep[k] {
			n++
		}
	}
	if n == 0 {
		return nil, ErrEmptyAfterClip
	}

	out := &Dataset{
		q:     make([]float64, 0, n),
		i:     make([]float64, 0, n),
		sigma: make([]float64, 0, n),
	}
	if d.psi != nil {
		out.psi = make([]float64, 0, n)
	}
	for k = 0; k < len(d.q); k++ {
		if !keep[k] {
			continue
		}
		out.q = append(out.q, d.q[k])
		out.i = append(out.i, d.i[k])
		out.sigma = append(out.sigma, d.sigma[k])
		if d.psi != nil {
			out.psi = append(out.psi, d.psi[k])
		}
	}

	return out, nil
}
