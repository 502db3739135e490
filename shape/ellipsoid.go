// Package shape - oriented ellipsoid model for anisotropic data.
package shape

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/scatterlab/mcsas/sasdata"
)

// degToRad converts detector angles (degrees clockwise from top) to radians.
const degToRad = math.Pi / 180

// Ellipsoid is the d = 3 shape model: an ellipsoid of revolution described
// by its equatorial radius R1, meridional radius R2 and in-plane orientation
// offset (degrees). R1 < R2 is prolate (cigar), R1 > R2 oblate (disk).
//
// The form factor is evaluated against the dataset's per-point ψ angles, so
// Ellipsoid requires a Dataset constructed with sasdata.WithPsi.
type Ellipsoid struct {
	equatorial  Param
	meridional  Param
	orientation Param
}

// Default orientation window, symmetric around perfect alignment.
const (
	defaultOrientationMin = -45.0
	defaultOrientationMax = 45.0
)

// NewEllipsoid builds an Ellipsoid with the given radius bounds and the
// default ±45° orientation window.
func NewEllipsoid(eqMin, eqMax, merMin, merMax float64) (*Ellipsoid, error) {
	return NewOrientedEllipsoid(eqMin, eqMax, merMin, merMax,
		defaultOrientationMin, defaultOrientationMax)
}

// NewOrientedEllipsoid builds an Ellipsoid with explicit bounds for all
// three dimensions.
func NewOrientedEllipsoid(eqMin, eqMax, merMin, merMax, rotMin, rotMax float64) (*Ellipsoid, error) {
	if err := validateBounds(eqMin, eqMax); err != nil {
		return nil, err
	}
	if err := validateBounds(merMin, merMax); err != nil {
		return nil, err
	}
	if err := validateBounds(rotMin, rotMax); err != nil {
		return nil, err
	}

	return &Ellipsoid{
		equatorial:  Param{Name: "equatorial radius", Min: eqMin, Max: eqMax},
		meridional:  Param{Name: "meridional radius", Min: merMin, Max: merMax},
		orientation: Param{Name: "orientation", Min: rotMin, Max: rotMax},
	}, nil
}

// Params returns the three dimensions in column order.
func (e *Ellipsoid) Params() []Param {
	return []Param{e.equatorial, e.meridional, e.orientation}
}

// Sample returns a (count × 3) matrix of parameter vectors drawn uniformly
// within the configured bounds from the supplied RNG stream.
//
// Complexity: O(count).
func (e *Ellipsoid) Sample(count int, rng *rand.Rand) *mat.Dense {
	var (
		ps  = e.Params()
		out = mat.NewDense(count, len(ps), nil)
		k   int
		c   int
	)
	for c = 0; c < len(ps); c++ {
		u := distuv.Uniform{Min: ps[c].Min, Max: ps[c].Max, Src: rng}
		for k = 0; k < count; k++ {
			out.Set(k, c, u.Rand())
		}
	}

	return out
}

// Volume returns (4π/3)·R1^(2·exponent)·R2^exponent per row; exponent 1
// yields the true ellipsoid-of-revolution volume.
//
// Complexity: O(count).
func (e *Ellipsoid) Volume(params mat.Matrix, exponent float64) ([]float64, error) {
	n, err := checkDims(params, 3)
	if err != nil {
		return nil, err
	}

	out := make([]float64, n)
	var k int
	for k = 0; k < n; k++ {
		out[k] = (4.0 / 3.0 * math.Pi) *
			math.Pow(params.At(k, 0), 2*exponent) *
			math.Pow(params.At(k, 1), exponent)
	}

	return out, nil
}

// FormFactor evaluates the oriented-ellipsoid form factor: for each data
// point the cross-section radius at the misalignment angle (ψ − rot) is
// r = √(R1²·sin² + R2²·cos²), then the Rayleigh kernel is applied to q·r.
//
// Fails with ErrPsiRequired when the dataset has no ψ column.
//
// Complexity: O(count · n_q).
func (e *Ellipsoid) FormFactor(ds *sasdata.Dataset, params mat.Matrix) (*mat.Dense, error) {
	n, err := checkDims(params, 3)
	if err != nil {
		return nil, err
	}
	if !ds.HasPsi() {
		return nil, ErrPsiRequired
	}

	var (
		q   = ds.Q()
		psi = ds.Psi()
		out = mat.NewDense(n, len(q), nil)
		k   int
		j   int
	)
	for k = 0; k < n; k++ {
		var (
			r1  = params.At(k, 0)
			r2  = params.At(k, 1)
			rot = params.At(k, 2)
			row = out.RawRowView(k)
		)
		for j = 0; j < len(q); j++ {
			sda := math.Sin((psi[j] - rot) * degToRad)
			cda := math.Cos((psi[j] - rot) * degToRad)
			r := math.Sqrt(r1*r1*sda*sda + r2*r2*cda*cda)
			row[j] = sphereKernel(q[j] * r)
		}
	}

	return out, nil
}
