package sasdata_test

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scatterlab/mcsas/sasdata"
)

// TestNew_MissingColumns verifies the mandatory-column sentinels.
func TestNew_MissingColumns(t *testing.T) {
	_, err := sasdata.New(nil, []float64{1}, []float64{1})
	assert.ErrorIs(t, err, sasdata.ErrNoQ, "missing q must error")

	_, err = sasdata.New([]float64{1}, nil, []float64{1})
	assert.ErrorIs(t, err, sasdata.ErrNoIntensity, "missing intensity must error")
}

// TestNew_LengthMismatch verifies that ragged columns are rejected,
// including a ragged ψ column.
func TestNew_LengthMismatch(t *testing.T) {
	_, err := sasdata.New([]float64{1, 2}, []float64{1}, []float64{1, 2})
	assert.ErrorIs(t, err, sasdata.ErrLengthMismatch, "short intensity must error")

	_, err = sasdata.New([]float64{1, 2}, []float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, sasdata.ErrLengthMismatch, "short sigma must error")

	_, err = sasdata.New([]float64{1, 2}, []float64{1, 2}, []float64{1, 2},
		sasdata.WithPsi([]float64{0}))
	assert.ErrorIs(t, err, sasdata.ErrLengthMismatch, "short psi must error")
}

// TestNew_NonFiniteQ verifies that NaN and Inf q entries are rejected.
func TestNew_NonFiniteQ(t *testing.T) {
	_, err := sasdata.New([]float64{1, math.NaN()}, []float64{1, 1}, []float64{1, 1})
	assert.ErrorIs(t, err, sasdata.ErrNonFiniteQ, "NaN q must error")

	_, err = sasdata.New([]float64{1, math.Inf(1)}, []float64{1, 1}, []float64{1, 1})
	assert.ErrorIs(t, err, sasdata.ErrNonFiniteQ, "Inf q must error")
}

// TestNew_ZeroUncertainty verifies that an all-zero σ column
// is a configuration error raised before any fitting can start.
func TestNew_ZeroUncertainty(t *testing.T) {
	q := []float64{0.1, 0.2, 0.3}
	i := []float64{3, 2, 1}
	sigma := []float64{0, 0, 0}

	_, err := sasdata.New(q, i, sigma)
	assert.ErrorIs(t, err, sasdata.ErrNonPositiveUncertainty,
		"all-zero uncertainties must be rejected at construction")
}

// TestNew_DefaultUncertainty verifies that a missing σ column is defaulted
// to a fraction of I.
func TestNew_DefaultUncertainty(t *testing.T) {
	q := []float64{0.1, 0.2}
	i := []float64{100, 50}

	ds, err := sasdata.New(q, i, nil,
		sasdata.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		sasdata.WithDefaultUncertaintyFraction(0.02))
	require.NoError(t, err, "defaulted uncertainties should construct")
	assert.InDelta(t, 2.0, ds.Sigma()[0], 1e-12, "σ[0] = 0.02·I[0]")
	assert.InDelta(t, 1.0, ds.Sigma()[1], 1e-12, "σ[1] = 0.02·I[1]")
}

// TestNew_BadUncertaintyFraction verifies the fraction range check.
func TestNew_BadUncertaintyFraction(t *testing.T) {
	_, err := sasdata.New([]float64{1}, []float64{1}, nil,
		sasdata.WithDefaultUncertaintyFraction(0))
	assert.ErrorIs(t, err, sasdata.ErrBadUncertaintyFraction, "zero fraction must error")

	_, err = sasdata.New([]float64{1}, []float64{1}, nil,
		sasdata.WithDefaultUncertaintyFraction(1.5))
	assert.ErrorIs(t, err, sasdata.ErrBadUncertaintyFraction, "fraction > 1 must error")
}

// TestNew_CopiesInput verifies that mutating caller slices after New does
// not affect the Dataset.
func TestNew_CopiesInput(t *testing.T) {
	q := []float64{0.1, 0.2}
	i := []float64{2, 1}
	s := []float64{0.1, 0.1}

	ds, err := sasdata.New(q, i, s)
	require.NoError(t, err)

	q[0] = 99
	i[0] = 99
	s[0] = 99
	assert.Equal(t, 0.1, ds.Q()[0], "Dataset must not alias caller q")
	assert.Equal(t, 2.0, ds.I()[0], "Dataset must not alias caller I")
	assert.Equal(t, 0.1, ds.Sigma()[0], "Dataset must not alias caller σ")
}

// TestSizeBounds verifies the π/q_max .. π/Δq_min derivation.
func TestSizeBounds(t *testing.T) {
	q := []float64{0.01, 0.02, 0.04}
	i := []float64{1, 1, 1}
	s := []float64{1, 1, 1}
	ds, err := sasdata.New(q, i, s)
	require.NoError(t, err)

	lo, hi, err := ds.SizeBounds()
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/0.04, lo, 1e-12, "lower bound is π/q_max")
	// smallest positive scale: min(|q_min|, min Δq) = min(0.01, 0.01) = 0.01
	assert.InDelta(t, math.Pi/0.01, hi, 1e-12, "upper bound is π/Δq_min")
}

// TestSizeBounds_Degenerate verifies that a lone q = 0 point yields no bounds.
func TestSizeBounds_Degenerate(t *testing.T) {
	ds, err := sasdata.New([]float64{0}, []float64{1}, []float64{1})
	require.NoError(t, err)

	_, _, err = ds.SizeBounds()
	assert.ErrorIs(t, err, sasdata.ErrDegenerateSizeBounds,
		"q = {0} admits no size window")
}

// TestClip verifies window semantics: lower limit exclusive, upper inclusive,
// masks applied, and the empty-result sentinel.
func TestClip(t *testing.T) {
	q := []float64{0.1, 0.2, 0.3, 0.4}
	i := []float64{4, 0, -2, 1}
	s := []float64{1, 1, 1, 1}
	ds, err := sasdata.New(q, i, s)
	require.NoError(t, err)

	out, err := ds.Clip(sasdata.Window{QMin: 0.1, QMax: 0.3})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.2, 0.3}, out.Q(), "q window is (QMin, QMax]")

	out, err = ds.Clip(sasdata.Window{MaskNegativeIntensity: true})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.4}, out.Q(), "mask drops I ≤ 0")

	out, err = ds.Clip(sasdata.Window{MaskZeroIntensity: true})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Len(), "mask drops only I == 0")

	_, err = ds.Clip(sasdata.Window{QMin: 10, QMax: 20})
	assert.ErrorIs(t, err, sasdata.ErrEmptyAfterClip, "empty window must error")
}
