// Package mcfit - contribution-set bookkeeping for the replacement loop.
package mcfit

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/scatterlab/mcsas/sasdata"
	"github.com/scatterlab/mcsas/shape"
)

// contribSet carries the mutable state of one optimization attempt: the
// parameter matrix, per-contribution compensated volumes, and the running
// totals that make each iteration O(n_q).
//
// Invariants (restored by every commit):
//   - total[j] == Σ_i intensity(i)[j]   where intensity(i) = F_i(q)²·v_i²
//   - vst      == Σ_i v_i²
//
// In Cached mode the per-contribution intensity rows live in cache; in
// LowMemory mode they are recomputed on demand by intensityOf.
type contribSet struct {
	ds       *sasdata.Dataset
	model    shape.Model
	exponent float64
	mode     MemoryMode

	params  *mat.Dense // nc × d
	volumes []float64  // nc compensated volumes
	total   []float64  // n_q running summed intensity
	vst     float64    // running Σ v²
	cache   *mat.Dense // nc × n_q intensity rows, nil in LowMemory mode

	// scratch row reused by intensityOf in LowMemory mode.
	scratch []float64
}

// newContribSet takes ownership of params and computes every derived
// quantity from scratch. O(nc · n_q).
func newContribSet(ds *sasdata.Dataset, model shape.Model, params *mat.Dense,
	exponent float64, mode MemoryMode) (*contribSet, error) {

	nc, _ := params.Dims()
	nq := ds.Len()

	volumes, err := model.Volume(params, exponent)
	if err != nil {
		return nil, err
	}
	ff, err := model.FormFactor(ds, params)
	if err != nil {
		return nil, err
	}

	cs := &contribSet{
		ds:       ds,
		model:    model,
		exponent: exponent,
		mode:     mode,
		params:   params,
		volumes:  volumes,
		total:    make([]float64, nq),
	}

	// Turn the form factors into intensities in place: I_i = F_i²·v_i².
	var i, j int
	for i = 0; i < nc; i++ {
		v2 := volumes[i] * volumes[i]
		cs.vst += v2
		row := ff.RawRowView(i)
		for j = 0; j < nq; j++ {
			// Evaluation order matters: both memory modes must produce
			// bit-identical intensities for identical decisions.
			row[j] = row[j] * row[j] * v2
			cs.total[j] += row[j]
		}
	}

	if mode == Cached {
		cs.cache = ff
	} else {
		cs.scratch = make([]float64, nq)
	}

	return cs, nil
}

// intensityOf returns the intensity row of contribution i. In Cached mode
// this is a view into the cache; in LowMemory mode the row is recomputed
// into the scratch buffer, which stays valid until the next call.
func (cs *contribSet) intensityOf(i int) ([]float64, error) {
	if cs.mode == Cached {
		return cs.cache.RawRowView(i), nil
	}

	ff, err := cs.model.FormFactor(cs.ds, cs.params.RowView(i).T())
	if err != nil {
		return nil, err
	}
	v2 := cs.volumes[i] * cs.volumes[i]
	row := ff.RawRowView(0)
	for j := range row {
		cs.scratch[j] = row[j] * row[j] * v2
	}

	return cs.scratch, nil
}

// commit replaces contribution i with the trial draw and restores the
// running-total invariants. oldInt must be the row previously returned by
// intensityOf(i) for the same index. O(n_q).
func (cs *contribSet) commit(i int, trialParams, oldInt, trialInt []float64, trialVol float64) {
	cs.params.SetRow(i, trialParams)
	vOld := cs.volumes[i]
	cs.volumes[i] = trialVol
	cs.vst += trialVol*trialVol - vOld*vOld

	for j := range cs.total {
		cs.total[j] += trialInt[j] - oldInt[j]
	}
	if cs.mode == Cached {
		cs.cache.SetRow(i, trialInt)
	}
}

// normalized writes total/vst into dst, the volume-squared normalized summed
// intensity handed to the scaling solver. O(n_q).
func (cs *contribSet) normalized(dst []float64) {
	floats.ScaleTo(dst, 1/cs.vst, cs.total)
}

// recomputeTotals rebuilds total and vst from the parameter matrix without
// the incremental shortcuts. Used to bound accumulated floating-point drift
// in tests; never called on the hot path.
func (cs *contribSet) recomputeTotals() ([]float64, float64, error) {
	volumes, err := cs.model.Volume(cs.params, cs.exponent)
	if err != nil {
		return nil, 0, err
	}
	ff, err := cs.model.FormFactor(cs.ds, cs.params)
	if err != nil {
		return nil, 0, err
	}

	var (
		nc, _ = cs.params.Dims()
		total = make([]float64, cs.ds.Len())
		vst   float64
		i, j  int
	)
	for i = 0; i < nc; i++ {
		v2 := volumes[i] * volumes[i]
		vst += v2
		row := ff.RawRowView(i)
		for j = 0; j < len(total); j++ {
			f := row[j]
			total[j] += f * f * v2
		}
	}

	return total, vst, nil
}
