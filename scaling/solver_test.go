package scaling_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scatterlab/mcsas/scaling"
)

// synthetic builds observed = scale·calc + background with unit σ.
func synthetic(scale, background float64) (obs, calc, sigma []float64) {
	calc = []float64{10, 8, 5, 3, 2, 1, 0.5, 0.2}
	obs = make([]float64, len(calc))
	sigma = make([]float64, len(calc))
	for k := range calc {
		obs[k] = scale*calc[k] + background
		sigma[k] = 0.1
	}

	return obs, calc, sigma
}

// TestSolve_ExactRecovery verifies that the refined pass recovers a known
// scale and background exactly, with zero residual.
func TestSolve_ExactRecovery(t *testing.T) {
	obs, calc, sigma := synthetic(2.5, 0.75)

	res, err := scaling.Solve(obs, calc, sigma, scaling.Result{}, true)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, res.Scale, 1e-9, "scale recovered")
	assert.InDelta(t, 0.75, res.Background, 1e-9, "background recovered")
	assert.InDelta(t, 0.0, res.ReducedChiSquare, 1e-12, "perfect fit has zero χ²")
}

// TestSolve_NoBackground verifies that the background stays fixed at zero
// when disabled.
func TestSolve_NoBackground(t *testing.T) {
	obs, calc, sigma := synthetic(3.0, 0)

	res, err := scaling.Solve(obs, calc, sigma, scaling.Result{}, false)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, res.Scale, 1e-9, "scale recovered")
	assert.Equal(t, 0.0, res.Background, "background forced to zero")
}

// TestSolve_Degenerate verifies the identically-zero calculated guard.
func TestSolve_Degenerate(t *testing.T) {
	obs := []float64{1, 2, 3}
	calc := []float64{0, 0, 0}
	sigma := []float64{1, 1, 1}

	_, err := scaling.Solve(obs, calc, sigma, scaling.Result{}, true)
	assert.ErrorIs(t, err, scaling.ErrDegenerateFit, "zero calculated must error")

	_, err = scaling.SolveRobust(obs, calc, sigma, scaling.Result{}, true)
	assert.ErrorIs(t, err, scaling.ErrDegenerateFit, "coarse pass guards too")
}

// TestSolve_DimensionMismatch verifies ragged-input rejection.
func TestSolve_DimensionMismatch(t *testing.T) {
	_, err := scaling.Solve([]float64{1}, []float64{1, 2}, []float64{1}, scaling.Result{}, true)
	assert.ErrorIs(t, err, scaling.ErrDimensionMismatch)

	_, err = scaling.Solve(nil, nil, nil, scaling.Result{}, true)
	assert.ErrorIs(t, err, scaling.ErrDimensionMismatch)
}

// TestSolve_Deterministic verifies bit-identical repeatability.
func TestSolve_Deterministic(t *testing.T) {
	obs, calc, sigma := synthetic(1.7, 0.3)

	a, err := scaling.Solve(obs, calc, sigma, scaling.Result{}, true)
	require.NoError(t, err)
	b, err := scaling.Solve(obs, calc, sigma, scaling.Result{}, true)
	require.NoError(t, err)
	assert.Equal(t, a, b, "identical inputs yield identical results")
}

// TestSolveRobust_AgreesWithExact verifies that the coarse pass lands on the
// same minimum as the closed-form solution on well-conditioned input.
func TestSolveRobust_AgreesWithExact(t *testing.T) {
	obs, calc, sigma := synthetic(2.0, 0.5)

	exact, err := scaling.Solve(obs, calc, sigma, scaling.Result{}, true)
	require.NoError(t, err)

	guess := scaling.InitialGuess(obs, calc)
	coarse, err := scaling.SolveRobust(obs, calc, sigma, guess, true)
	require.NoError(t, err)

	assert.InDelta(t, exact.Scale, coarse.Scale, 1e-4, "scales agree")
	assert.InDelta(t, exact.Background, coarse.Background, 1e-3, "backgrounds agree")
}

// TestInitialGuess verifies the peak-ratio / minimum seeding rule.
func TestInitialGuess(t *testing.T) {
	obs := []float64{10, 6, 2}
	calc := []float64{5, 3, 1}

	g := scaling.InitialGuess(obs, calc)
	assert.InDelta(t, 2.0, g.Scale, 1e-12, "scale = max(obs)/max(calc)")
	assert.InDelta(t, 2.0, g.Background, 1e-12, "background = min(obs)")
}

// TestReducedChiSquare verifies the normalization by n.
func TestReducedChiSquare(t *testing.T) {
	obs := []float64{1, 2}
	fit := []float64{0, 4}
	sigma := []float64{1, 2}

	// residuals: 1 and −1 ⇒ χ²_red = (1+1)/2 = 1.
	assert.InDelta(t, 1.0, scaling.ReducedChiSquare(obs, fit, sigma), 1e-12)
}
