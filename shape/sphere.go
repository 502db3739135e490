// Package shape - isotropic sphere model.
package shape

import (
	"log/slog"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/scatterlab/mcsas/sasdata"
)

// Sphere is the d = 1 shape model: each contribution is a homogeneous sphere
// described by its radius.
type Sphere struct {
	radius Param
}

// NewSphere builds a Sphere with the given radius bounds (length units must
// match 1/q of the dataset).
func NewSphere(min, max float64) (*Sphere, error) {
	if err := validateBounds(min, max); err != nil {
		return nil, err
	}

	return &Sphere{radius: Param{Name: "radius", Min: min, Max: max}}, nil
}

// NewAutoSphere derives the radius bounds from the dataset's observable size
// window [π/q_max, π/Δq_min]. The auto-derivation is a non-fatal
// convenience and is logged once at Warn level.
func NewAutoSphere(ds *sasdata.Dataset) (*Sphere, error) {
	lo, hi, err := ds.SizeBounds()
	if err != nil {
		return nil, err
	}
	slog.Default().Warn("shape: no radius bounds provided, derived from q range",
		"min", lo, "max", hi)

	return NewSphere(lo, hi)
}

// Params returns the single radius dimension.
func (s *Sphere) Params() []Param { return []Param{s.radius} }

// Sample returns a (count × 1) matrix of radii drawn uniformly within the
// configured bounds from the supplied RNG stream.
//
// Complexity: O(count).
func (s *Sphere) Sample(count int, rng *rand.Rand) *mat.Dense {
	u := distuv.Uniform{Min: s.radius.Min, Max: s.radius.Max, Src: rng}
	out := mat.NewDense(count, 1, nil)
	var k int
	for k = 0; k < count; k++ {
		out.Set(k, 0, u.Rand())
	}

	return out
}

// Volume returns (4π/3)·r^(3·exponent) per row. With exponent 1 this is the
// true particle volume; the default 0.5 compensates the V² intensity
// weighting.
//
// Complexity: O(count).
func (s *Sphere) Volume(params mat.Matrix, exponent float64) ([]float64, error) {
	n, err := checkDims(params, 1)
	if err != nil {
		return nil, err
	}

	out := make([]float64, n)
	var k int
	for k = 0; k < n; k++ {
		out[k] = (4.0 / 3.0 * math.Pi) * math.Pow(params.At(k, 0), 3*exponent)
	}

	return out, nil
}

// FormFactor returns the Rayleigh sphere function per contribution and q:
// F(qr) = 3·(sin qr − qr·cos qr)/(qr)³, with the analytic limit F(0) = 1.
//
// Complexity: O(count · n_q).
func (s *Sphere) FormFactor(ds *sasdata.Dataset, params mat.Matrix) (*mat.Dense, error) {
	n, err := checkDims(params, 1)
	if err != nil {
		return nil, err
	}

	var (
		q   = ds.Q()
		out = mat.NewDense(n, len(q), nil)
		k   int
		j   int
	)
	for k = 0; k < n; k++ {
		r := params.At(k, 0)
		row := out.RawRowView(k)
		for j = 0; j < len(q); j++ {
			row[j] = sphereKernel(q[j] * r)
		}
	}

	return out, nil
}

// sphereKernel evaluates the Rayleigh function at qr, guarding the removable
// singularity at qr = 0 where the series limit is exactly 1.
func sphereKernel(qr float64) float64 {
	if qr == 0 {
		return 1
	}

	return 3 * (math.Sin(qr) - qr*math.Cos(qr)) / (qr * qr * qr)
}
