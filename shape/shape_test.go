package shape_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/scatterlab/mcsas/sasdata"
	"github.com/scatterlab/mcsas/shape"
)

func testDataset(t *testing.T) *sasdata.Dataset {
	t.Helper()
	q := []float64{0, 0.5, 1, 2}
	i := []float64{1, 1, 1, 1}
	s := []float64{1, 1, 1, 1}
	ds, err := sasdata.New(q, i, s)
	require.NoError(t, err)

	return ds
}

// TestNewSphere_BadBounds verifies bound validation.
func TestNewSphere_BadBounds(t *testing.T) {
	_, err := shape.NewSphere(2, 1)
	assert.ErrorIs(t, err, shape.ErrBadBounds, "inverted bounds must error")

	_, err = shape.NewSphere(1, math.Inf(1))
	assert.ErrorIs(t, err, shape.ErrBadBounds, "infinite bound must error")

	_, err = shape.NewSphere(math.NaN(), 1)
	assert.ErrorIs(t, err, shape.ErrBadBounds, "NaN bound must error")
}

// TestSphere_Volume verifies the compensated-volume formula and the
// dimensionality check.
func TestSphere_Volume(t *testing.T) {
	s, err := shape.NewSphere(1, 10)
	require.NoError(t, err)

	params := mat.NewDense(2, 1, []float64{2, 3})

	// True volumes at exponent 1.
	v, err := s.Volume(params, 1.0)
	require.NoError(t, err)
	assert.InDelta(t, 4.0/3.0*math.Pi*8, v[0], 1e-12, "V(r=2) = 4π/3·8")
	assert.InDelta(t, 4.0/3.0*math.Pi*27, v[1], 1e-12, "V(r=3) = 4π/3·27")

	// Compensated volumes at the default exponent: r^(3·0.5) = r^1.5.
	v, err = s.Volume(params, shape.DefaultCompensationExponent)
	require.NoError(t, err)
	assert.InDelta(t, 4.0/3.0*math.Pi*math.Pow(2, 1.5), v[0], 1e-12,
		"compensated volume uses r^(3·exponent)")

	_, err = s.Volume(mat.NewDense(2, 2, nil), 1.0)
	assert.ErrorIs(t, err, shape.ErrParamDimension, "d=1 model rejects 2 columns")
}

// TestSphere_FormFactor verifies normalization at q = 0, the analytic value
// at finite qr, and the dimensionality check.
func TestSphere_FormFactor(t *testing.T) {
	s, err := shape.NewSphere(1, 10)
	require.NoError(t, err)
	ds := testDataset(t)

	params := mat.NewDense(1, 1, []float64{2})
	ff, err := s.FormFactor(ds, params)
	require.NoError(t, err)

	rows, cols := ff.Dims()
	assert.Equal(t, 1, rows, "one row per contribution")
	assert.Equal(t, ds.Len(), cols, "one column per q")
	assert.Equal(t, 1.0, ff.At(0, 0), "form factor is 1 at q = 0")

	qr := 1.0 * 2.0 // q = 1, r = 2
	want := 3 * (math.Sin(qr) - qr*math.Cos(qr)) / (qr * qr * qr)
	assert.InDelta(t, want, ff.At(0, 2), 1e-12, "Rayleigh function at qr = 2")

	_, err = s.FormFactor(ds, mat.NewDense(1, 3, nil))
	assert.ErrorIs(t, err, shape.ErrParamDimension, "d=1 model rejects 3 columns")
}

// TestSphere_Sample verifies bounds, shape and determinism of sampling.
func TestSphere_Sample(t *testing.T) {
	s, err := shape.NewSphere(1, 10)
	require.NoError(t, err)

	p := s.Sample(100, rand.New(rand.NewSource(42)))
	rows, cols := p.Dims()
	assert.Equal(t, 100, rows)
	assert.Equal(t, 1, cols)
	for k := 0; k < rows; k++ {
		r := p.At(k, 0)
		assert.GreaterOrEqual(t, r, 1.0, "sample within lower bound")
		assert.Less(t, r, 10.0, "sample within upper bound")
	}

	// Same seed, same stream, same draw.
	p2 := s.Sample(100, rand.New(rand.NewSource(42)))
	assert.True(t, mat.Equal(p, p2), "sampling is deterministic per seed")
}

// TestNewAutoSphere verifies bound derivation from the q window.
func TestNewAutoSphere(t *testing.T) {
	q := []float64{0.01, 0.02, 0.04}
	ds, err := sasdata.New(q, []float64{1, 1, 1}, []float64{1, 1, 1})
	require.NoError(t, err)

	s, err := shape.NewAutoSphere(ds)
	require.NoError(t, err)
	ps := s.Params()
	require.Len(t, ps, 1)
	assert.InDelta(t, math.Pi/0.04, ps[0].Min, 1e-12, "min radius π/q_max")
	assert.InDelta(t, math.Pi/0.01, ps[0].Max, 1e-12, "max radius π/Δq_min")
}

// TestEllipsoid_Volume verifies the d=3 volume formula.
func TestEllipsoid_Volume(t *testing.T) {
	e, err := shape.NewEllipsoid(1, 10, 1, 10)
	require.NoError(t, err)

	params := mat.NewDense(1, 3, []float64{2, 3, 0})
	v, err := e.Volume(params, 1.0)
	require.NoError(t, err)
	assert.InDelta(t, 4.0/3.0*math.Pi*4*3, v[0], 1e-12, "V = 4π/3·R1²·R2")

	_, err = e.Volume(mat.NewDense(1, 1, nil), 1.0)
	assert.ErrorIs(t, err, shape.ErrParamDimension, "d=3 model rejects 1 column")
}

// TestEllipsoid_FormFactorRequiresPsi verifies the oriented-model guard and
// the sphere degeneration R1 = R2.
func TestEllipsoid_FormFactorRequiresPsi(t *testing.T) {
	e, err := shape.NewEllipsoid(1, 10, 1, 10)
	require.NoError(t, err)

	_, err = e.FormFactor(testDataset(t), mat.NewDense(1, 3, []float64{2, 2, 0}))
	assert.ErrorIs(t, err, shape.ErrPsiRequired, "ellipsoid needs ψ angles")

	q := []float64{0, 0.5, 1}
	ds, err := sasdata.New(q, []float64{1, 1, 1}, []float64{1, 1, 1},
		sasdata.WithPsi([]float64{0, 45, 90}))
	require.NoError(t, err)

	// With R1 = R2 = r the cross-section is r at every angle, so the
	// oriented form factor must equal the sphere's.
	ff, err := e.FormFactor(ds, mat.NewDense(1, 3, []float64{2, 2, 13}))
	require.NoError(t, err)

	s, err := shape.NewSphere(1, 10)
	require.NoError(t, err)
	sphereFF, err := s.FormFactor(ds, mat.NewDense(1, 1, []float64{2}))
	require.NoError(t, err)

	for j := 0; j < ds.Len(); j++ {
		assert.InDelta(t, sphereFF.At(0, j), ff.At(0, j), 1e-12,
			"degenerate ellipsoid matches sphere at q index %d", j)
	}
}

// TestEllipsoid_Sample verifies per-dimension bounds.
func TestEllipsoid_Sample(t *testing.T) {
	e, err := shape.NewOrientedEllipsoid(1, 2, 3, 4, -45, 45)
	require.NoError(t, err)

	p := e.Sample(50, rand.New(rand.NewSource(7)))
	rows, cols := p.Dims()
	assert.Equal(t, 50, rows)
	assert.Equal(t, 3, cols)
	for k := 0; k < rows; k++ {
		assert.GreaterOrEqual(t, p.At(k, 0), 1.0)
		assert.Less(t, p.At(k, 0), 2.0)
		assert.GreaterOrEqual(t, p.At(k, 1), 3.0)
		assert.Less(t, p.At(k, 1), 4.0)
		assert.GreaterOrEqual(t, p.At(k, 2), -45.0)
		assert.Less(t, p.At(k, 2), 45.0)
	}
}
