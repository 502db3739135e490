// Package histogram - weighted sub-range moment statistics.
package histogram

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// RangeMoments computes the weighted mean, variance, skewness and excess
// kurtosis of parameter dimension dim restricted to the half-open range
// [lo, hi). The statistic is evaluated per repetition over the selected
// contributions and reported as the across-repetition mean ± sample
// standard deviation; repetitions with no contribution in range are
// skipped.
//
// Errors: ErrBadDimension, ErrBadRange, ErrBadWeighting, or ErrEmptyRange
// when no repetition has a contribution in [lo, hi).
//
// Complexity: O(reps · nc).
func (d *Distribution) RangeMoments(dim int, lo, hi float64, w Weighting) (Moments, error) {
	if dim < 0 || len(d.Histograms) <= dim {
		return Moments{}, ErrBadDimension
	}
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) || !(lo < hi) {
		return Moments{}, ErrBadRange
	}
	if w != ByVolume && w != ByNumber {
		return Moments{}, ErrBadWeighting
	}

	weightsOf := d.Fractions.Volume
	if w == ByNumber {
		weightsOf = d.Fractions.Number
	}

	var (
		means, variances, skews, kurts []float64
		xs, ws                         []float64
	)
	for r, set := range d.sets {
		nc, _ := set.Dims()
		xs, ws = xs[:0], ws[:0]
		for c := 0; c < nc; c++ {
			v := set.At(c, dim)
			if v < lo || v >= hi {
				continue
			}
			xs = append(xs, v)
			ws = append(ws, weightsOf.At(r, c))
		}
		if len(xs) == 0 {
			continue
		}

		means = append(means, finiteOrZero(stat.Mean(xs, ws)))
		variances = append(variances, finiteOrZero(stat.Variance(xs, ws)))
		skews = append(skews, finiteOrZero(stat.Skew(xs, ws)))
		kurts = append(kurts, finiteOrZero(stat.ExKurtosis(xs, ws)))
	}
	if len(means) == 0 {
		return Moments{}, ErrEmptyRange
	}

	out := Moments{Repetitions: len(means)}
	out.Mean, out.MeanStd = meanStd(means)
	out.Variance, out.VarianceStd = meanStd(variances)
	out.Skew, out.SkewStd = meanStd(skews)
	out.ExKurtosis, out.ExKurtosisStd = meanStd(kurts)

	return out, nil
}

// meanStd reports the mean and sample standard deviation, zero std for a
// single sample.
func meanStd(v []float64) (float64, float64) {
	m := stat.Mean(v, nil)
	if len(v) < 2 {
		return m, 0
	}

	return m, stat.StdDev(v, nil)
}

// finiteOrZero clamps the NaN produced by degenerate selections (a single
// member, zero total weight) to zero.
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}

	return v
}
