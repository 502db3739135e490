// Package histogram - per-contribution fraction computation.
package histogram

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/scatterlab/mcsas/sasdata"
	"github.com/scatterlab/mcsas/scaling"
	"github.com/scatterlab/mcsas/shape"
)

// Histogrammer converts converged ensembles into physical distributions.
// Construct with New; a Histogrammer is immutable and safe for repeated
// Compute calls with different ensembles.
type Histogrammer struct {
	ds     *sasdata.Dataset
	model  shape.Model
	opts   Options
	bins   []int
	scales []AxisScale
}

// New validates the configuration against the dataset and model and
// returns a ready histogrammer.
//
// Errors: ErrNilDataset, ErrNilModel, one of the Options sentinels, or
// ErrLogScaleBounds when a logarithmic axis meets a non-positive bound.
func New(ds *sasdata.Dataset, model shape.Model, opts Options) (*Histogrammer, error) {
	if ds == nil {
		return nil, ErrNilDataset
	}
	if model == nil {
		return nil, ErrNilModel
	}

	params := model.Params()
	bins, scales, err := opts.validate(len(params))
	if err != nil {
		return nil, err
	}
	for k, s := range scales {
		if s == Log && params[k].Min <= 0 {
			return nil, ErrLogScaleBounds
		}
	}

	return &Histogrammer{ds: ds, model: model, opts: opts, bins: bins, scales: scales}, nil
}

// computeFractions re-evaluates every repetition from its frozen
// contribution set: summed intensity, fresh scaling solve, then the volume,
// number and minimum-required (observability) fractions.
//
// Complexity: O(reps · nc · n_q).
func (h *Histogrammer) computeFractions(sets []*mat.Dense) (*Fractions, error) {
	var (
		reps = len(sets)
		nq   = h.ds.Len()
		obs  = h.ds.I()
		sig  = h.ds.Sigma()
	)

	nc, _ := sets[0].Dims()
	fr := &Fractions{
		Volume:      mat.NewDense(reps, nc, nil),
		Number:      mat.NewDense(reps, nc, nil),
		MinVolume:   mat.NewDense(reps, nc, nil),
		MinNumber:   mat.NewDense(reps, nc, nil),
		TotalVolume: make([]float64, reps),
		TotalNumber: make([]float64, reps),
		Scalings:    make([]scaling.Result, reps),
	}

	norm := make([]float64, nq)
	for r, set := range sets {
		vComp, err := h.model.Volume(set, h.opts.CompensationExponent)
		if err != nil {
			return nil, err
		}
		// True particle volumes, exponent 1.
		vTrue, err := h.model.Volume(set, 1)
		if err != nil {
			return nil, err
		}
		ff, err := h.model.FormFactor(h.ds, set)
		if err != nil {
			return nil, err
		}

		// Per-contribution intensities and the vst-normalized total.
		var vst float64
		for j := 0; j < nq; j++ {
			norm[j] = 0
		}
		for c := 0; c < nc; c++ {
			v2 := vComp[c] * vComp[c]
			vst += v2
			row := ff.RawRowView(c)
			for j := 0; j < nq; j++ {
				row[j] = row[j] * row[j] * v2
				norm[j] += row[j]
			}
		}
		for j := 0; j < nq; j++ {
			norm[j] /= vst
		}

		sc, err := scaling.Solve(obs, norm, sig, scaling.InitialGuess(obs, norm), h.opts.Background)
		if err != nil {
			return nil, err
		}
		fr.Scalings[r] = sc

		// Raw fractions.
		for c := 0; c < nc; c++ {
			volFrac := sc.Scale * vComp[c] * vComp[c] / (vTrue[c] * h.opts.ContrastFactor)
			fr.Volume.Set(r, c, volFrac)
			fr.Number.Set(r, c, volFrac/vTrue[c])

			// Observability: the most informative q is where the partial
			// intensity rises highest above the noise floor.
			minReq := math.Inf(1)
			row := ff.RawRowView(c)
			for j := 0; j < nq; j++ {
				v := sig[j] * volFrac / (sc.Scale * row[j])
				if v < minReq {
					minReq = v
				}
			}
			minReq /= vTrue[c]
			if math.IsNaN(minReq) {
				minReq = 0
			}
			fr.MinVolume.Set(r, c, minReq)
		}
		fr.TotalVolume[r] = floats.Sum(fr.Volume.RawRowView(r))
		fr.TotalNumber[r] = floats.Sum(fr.Number.RawRowView(r))
		totalNum := fr.TotalNumber[r]

		// Normalize number fractions to Σ = 1 per repetition and scale the
		// number observability limits by the same raw total.
		for c := 0; c < nc; c++ {
			fr.Number.Set(r, c, fr.Number.At(r, c)/totalNum)
			fr.MinNumber.Set(r, c, fr.MinVolume.At(r, c)/vTrue[c]/totalNum)
		}
	}

	return fr, nil
}
