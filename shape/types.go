// Package shape - model contract, parameter metadata and sentinel errors.
package shape

import (
	"errors"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/scatterlab/mcsas/sasdata"
)

// Sentinel errors returned by shape models.
var (
	// ErrParamDimension indicates that a parameter matrix column count does
	// not match the model dimensionality.
	ErrParamDimension = errors.New("shape: parameter matrix column count does not match model dimensionality")

	// ErrBadBounds indicates non-finite or inverted parameter bounds.
	ErrBadBounds = errors.New("shape: parameter bounds must be finite with min < max")

	// ErrPsiRequired indicates that an oriented model was used with a
	// dataset lacking detector angles.
	ErrPsiRequired = errors.New("shape: oriented form factor requires dataset psi angles")
)

// DefaultCompensationExponent counteracts the volume² weighting of scattered
// intensity per particle: volumes are computed as param^(3·exponent).
const DefaultCompensationExponent = 0.5

// Param describes one shape-parameter dimension: its name and the closed
// range values are sampled from and histogrammed over.
type Param struct {
	Name string
	Min  float64
	Max  float64
}

// Model is the capability set every particle shape implements.
//
// A Model is immutable after construction. Sample draws from the
// caller-supplied RNG only, so independent streams give independent,
// reproducible ensembles.
type Model interface {
	// Params returns the ordered parameter dimensions (len = d).
	Params() []Param

	// Sample returns a (count × d) matrix of parameter vectors drawn
	// uniformly within the configured bounds.
	Sample(count int, rng *rand.Rand) *mat.Dense

	// Volume returns the compensated volume of each row of params,
	// applying the given compensation exponent (1 yields true volumes).
	// Fails with ErrParamDimension on a column-count mismatch.
	Volume(params mat.Matrix, exponent float64) ([]float64, error)

	// FormFactor returns the (count × n_q) form-factor matrix for the
	// dataset's q (and ψ, for oriented models), normalized to 1 at q = 0.
	// Fails with ErrParamDimension on a column-count mismatch.
	FormFactor(ds *sasdata.Dataset, params mat.Matrix) (*mat.Dense, error)
}

// validateBounds rejects non-finite or inverted ranges.
func validateBounds(min, max float64) error {
	if math.IsNaN(min) || math.IsNaN(max) ||
		math.IsInf(min, 0) || math.IsInf(max, 0) || !(min < max) {
		return ErrBadBounds
	}

	return nil
}

// checkDims verifies that params is (·× d).
func checkDims(params mat.Matrix, d int) (rows int, err error) {
	r, c := params.Dims()
	if c != d {
		return 0, ErrParamDimension
	}

	return r, nil
}
