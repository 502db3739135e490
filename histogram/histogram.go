// Package histogram - bin-edge construction and ensemble binning.
package histogram

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/scatterlab/mcsas/mcfit"
	"github.com/scatterlab/mcsas/shape"
)

// Distribution is the full histogramming output: the raw fraction matrices
// plus one binned histogram per parameter dimension. The frozen contribution
// sets are retained for RangeMoments.
type Distribution struct {
	// Fractions holds the raw per-contribution fractions and per-rep
	// scaling results.
	Fractions *Fractions

	// Histograms holds one binned record per parameter dimension, in
	// Params() order.
	Histograms []DimensionHistogram

	sets []*mat.Dense
}

// Compute converts a converged ensemble into a Distribution.
//
// Errors: ErrNilEnsemble, ErrRaggedEnsemble, or anything the shape model or
// scaling solver can return on the frozen sets.
//
// Complexity: O(reps · nc · (n_q + d·log B)).
func (h *Histogrammer) Compute(ens *mcfit.Ensemble) (*Distribution, error) {
	if ens == nil || len(ens.Results) == 0 {
		return nil, ErrNilEnsemble
	}

	var (
		d    = len(h.model.Params())
		sets = make([]*mat.Dense, len(ens.Results))
	)
	for r, res := range ens.Results {
		if res == nil || res.Contributions == nil {
			return nil, ErrNilEnsemble
		}
		sets[r] = res.Contributions
	}
	nc, cols := sets[0].Dims()
	if cols != d {
		return nil, ErrRaggedEnsemble
	}
	for _, set := range sets[1:] {
		if r, c := set.Dims(); r != nc || c != d {
			return nil, ErrRaggedEnsemble
		}
	}

	fr, err := h.computeFractions(sets)
	if err != nil {
		return nil, err
	}

	dist := &Distribution{
		Fractions:  fr,
		Histograms: make([]DimensionHistogram, d),
		sets:       sets,
	}
	params := h.model.Params()
	for k := 0; k < d; k++ {
		dist.Histograms[k] = h.binDimension(k, params[k], sets, fr)
	}

	return dist, nil
}

// binEdges builds B+1 edges over [min, max] on the requested scale. Log
// bounds are validated at construction time.
func binEdges(min, max float64, bins int, scale AxisScale) []float64 {
	edges := make([]float64, bins+1)
	switch scale {
	case Log:
		ratio := max / min
		for i := 0; i <= bins; i++ {
			edges[i] = min * math.Pow(ratio, float64(i)/float64(bins))
		}
	default:
		step := (max - min) / float64(bins)
		for i := 0; i <= bins; i++ {
			edges[i] = min + float64(i)*step
		}
	}
	// Pin the endpoints exactly.
	edges[0] = min
	edges[bins] = max

	return edges
}

// binIndex locates v in the half-open partition [edges[i], edges[i+1]).
// Values outside [edges[0], edges[B]) return -1.
func binIndex(edges []float64, v float64) int {
	if v < edges[0] || v >= edges[len(edges)-1] {
		return -1
	}
	i := sort.SearchFloat64s(edges, v)
	if i < len(edges) && edges[i] == v {
		return i
	}

	return i - 1
}

// binDimension bins one parameter dimension across all repetitions and
// aggregates the cross-repetition statistics.
func (h *Histogrammer) binDimension(dim int, param shape.Param, sets []*mat.Dense, fr *Fractions) DimensionHistogram {
	var (
		bins  = h.bins[dim]
		reps  = len(sets)
		edges = binEdges(param.Min, param.Max, bins, h.scales[dim])
		out   = DimensionHistogram{
			Param:         param,
			Scale:         h.scales[dim],
			Edges:         edges,
			Centers:       make([]float64, bins),
			Widths:        make([]float64, bins),
			VolumePerRep:  mat.NewDense(reps, bins, nil),
			NumberPerRep:  mat.NewDense(reps, bins, nil),
			VolumeMean:    make([]float64, bins),
			VolumeStd:     make([]float64, bins),
			NumberMean:    make([]float64, bins),
			NumberStd:     make([]float64, bins),
			VolumeMinimum: make([]float64, bins),
			NumberMinimum: make([]float64, bins),
		}
	)
	for b := 0; b < bins; b++ {
		out.Centers[b] = 0.5 * (edges[b] + edges[b+1])
		out.Widths[b] = edges[b+1] - edges[b]
	}

	// Per-repetition per-bin minimum-required averages.
	var (
		minVolRep = mat.NewDense(reps, bins, nil)
		minNumRep = mat.NewDense(reps, bins, nil)
		members   = make([]int, bins)
	)
	for r, set := range sets {
		for b := range members {
			members[b] = 0
		}
		nc, _ := set.Dims()
		for c := 0; c < nc; c++ {
			b := binIndex(edges, set.At(c, dim))
			if b < 0 {
				continue
			}
			out.VolumePerRep.Set(r, b, out.VolumePerRep.At(r, b)+fr.Volume.At(r, c))
			out.NumberPerRep.Set(r, b, out.NumberPerRep.At(r, b)+fr.Number.At(r, c))
			minVolRep.Set(r, b, minVolRep.At(r, b)+fr.MinVolume.At(r, c))
			minNumRep.Set(r, b, minNumRep.At(r, b)+fr.MinNumber.At(r, c))
			members[b]++
		}
		// Empty bins stay zero; NaN averages are clamped to zero.
		for b := 0; b < bins; b++ {
			if members[b] == 0 {
				continue
			}
			mv := minVolRep.At(r, b) / float64(members[b])
			mn := minNumRep.At(r, b) / float64(members[b])
			if math.IsNaN(mv) {
				mv = 0
			}
			if math.IsNaN(mn) {
				mn = 0
			}
			minVolRep.Set(r, b, mv)
			minNumRep.Set(r, b, mn)
		}
	}

	// Across repetitions: mean ± sample std, observability max.
	column := make([]float64, reps)
	for b := 0; b < bins; b++ {
		for r := 0; r < reps; r++ {
			column[r] = out.VolumePerRep.At(r, b)
		}
		out.VolumeMean[b] = stat.Mean(column, nil)
		if reps > 1 {
			out.VolumeStd[b] = stat.StdDev(column, nil)
		}

		for r := 0; r < reps; r++ {
			column[r] = out.NumberPerRep.At(r, b)
		}
		out.NumberMean[b] = stat.Mean(column, nil)
		if reps > 1 {
			out.NumberStd[b] = stat.StdDev(column, nil)
		}

		out.VolumeMinimum[b] = maxFinite(minVolRep, b, reps)
		out.NumberMinimum[b] = maxFinite(minNumRep, b, reps)
	}

	return out
}

// maxFinite returns the per-bin max over repetitions, skipping +Inf entries
// so a single unobservable repetition cannot blow up the limit curve.
func maxFinite(m *mat.Dense, bin, reps int) float64 {
	var best float64
	for r := 0; r < reps; r++ {
		v := m.At(r, bin)
		if math.IsInf(v, 1) {
			continue
		}
		if v > best {
			best = v
		}
	}

	return best
}
