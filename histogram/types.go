// Package histogram - options, output records and sentinel errors.
package histogram

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/scatterlab/mcsas/scaling"
	"github.com/scatterlab/mcsas/shape"
)

// Sentinel errors returned by the histogrammer.
var (
	// ErrNilDataset indicates a nil dataset.
	ErrNilDataset = errors.New("histogram: dataset is nil")

	// ErrNilModel indicates a nil shape model.
	ErrNilModel = errors.New("histogram: shape model is nil")

	// ErrNilEnsemble indicates a nil or empty ensemble.
	ErrNilEnsemble = errors.New("histogram: ensemble is nil or holds no repetitions")

	// ErrRaggedEnsemble indicates repetitions whose contribution sets do
	// not share one (count × dimensionality) shape.
	ErrRaggedEnsemble = errors.New("histogram: repetitions must share one contribution-set shape")

	// ErrBadBinCount indicates a non-positive bin count or a Bins slice
	// whose length is neither 1 nor the model dimensionality.
	ErrBadBinCount = errors.New("histogram: bin counts must be positive, one per dimension or a single broadcast value")

	// ErrBadScaleCount indicates a Scales slice whose length is neither 1
	// nor the model dimensionality, or an unknown scale value.
	ErrBadScaleCount = errors.New("histogram: axis scales must be valid, one per dimension or a single broadcast value")

	// ErrBadContrast indicates a non-positive contrast factor.
	ErrBadContrast = errors.New("histogram: ContrastFactor must be positive")

	// ErrBadExponent indicates a compensation exponent outside (0, 1].
	ErrBadExponent = errors.New("histogram: CompensationExponent must be in (0, 1]")

	// ErrLogScaleBounds indicates a logarithmic axis over a non-positive
	// parameter bound.
	ErrLogScaleBounds = errors.New("histogram: logarithmic axis requires strictly positive parameter bounds")

	// ErrBadDimension indicates a parameter dimension index out of range.
	ErrBadDimension = errors.New("histogram: parameter dimension out of range")

	// ErrBadRange indicates a sub-range with lo >= hi or non-finite limits.
	ErrBadRange = errors.New("histogram: sub-range limits must be finite with lo < hi")

	// ErrEmptyRange indicates a sub-range that captures no contribution in
	// any repetition.
	ErrEmptyRange = errors.New("histogram: sub-range holds no contributions")

	// ErrBadWeighting indicates an unknown weighting value.
	ErrBadWeighting = errors.New("histogram: unknown weighting")
)

// AxisScale selects the bin-edge spacing of one parameter dimension.
type AxisScale int

const (
	// Log spaces the edges logarithmically, the natural choice for size
	// distributions spanning decades.
	Log AxisScale = iota

	// Linear spaces the edges uniformly.
	Linear
)

// String implements fmt.Stringer for diagnostics.
func (s AxisScale) String() string {
	switch s {
	case Log:
		return "log"
	case Linear:
		return "linear"
	default:
		return "unknown"
	}
}

// Weighting selects which fraction weights a statistic.
type Weighting int

const (
	// ByVolume weights by volume fraction.
	ByVolume Weighting = iota

	// ByNumber weights by normalized number fraction.
	ByNumber
)

// Options configures one histogramming pass. The zero value is not valid;
// start from DefaultOptions.
type Options struct {
	// Bins holds the bin count per parameter dimension; a single value is
	// broadcast to every dimension.
	Bins []int

	// Scales holds the axis scale per parameter dimension; a single value
	// is broadcast to every dimension.
	Scales []AxisScale

	// ContrastFactor is the scattering contrast Δρ² converting intensity
	// into absolute volume fractions; 1 leaves fractions relative.
	ContrastFactor float64

	// CompensationExponent must match the exponent the ensemble was fitted
	// with; see shape.DefaultCompensationExponent.
	CompensationExponent float64

	// Background enables the flat background term of the fresh per-rep
	// scaling solve.
	Background bool
}

// DefaultOptions returns the canonical configuration: 50 logarithmic bins
// per dimension, relative contrast, exponent 0.5, background on.
func DefaultOptions() Options {
	return Options{
		Bins:                 []int{50},
		Scales:               []AxisScale{Log},
		ContrastFactor:       1,
		CompensationExponent: 0.5,
		Background:           true,
	}
}

// validate checks consistency against the model dimensionality d and
// returns the per-dimension bin counts and scales with broadcast applied.
func (o Options) validate(d int) ([]int, []AxisScale, error) {
	if !(o.ContrastFactor > 0) {
		return nil, nil, ErrBadContrast
	}
	if !(o.CompensationExponent > 0) || o.CompensationExponent > 1 {
		return nil, nil, ErrBadExponent
	}

	bins := make([]int, d)
	switch len(o.Bins) {
	case 1:
		for k := range bins {
			bins[k] = o.Bins[0]
		}
	case d:
		copy(bins, o.Bins)
	default:
		return nil, nil, ErrBadBinCount
	}
	for _, b := range bins {
		if b < 1 {
			return nil, nil, ErrBadBinCount
		}
	}

	scales := make([]AxisScale, d)
	switch len(o.Scales) {
	case 1:
		for k := range scales {
			scales[k] = o.Scales[0]
		}
	case d:
		copy(scales, o.Scales)
	default:
		return nil, nil, ErrBadScaleCount
	}
	for _, s := range scales {
		if s != Log && s != Linear {
			return nil, nil, ErrBadScaleCount
		}
	}

	return bins, scales, nil
}

// Fractions holds the physical per-contribution fractions of the whole
// ensemble, one row per repetition and one column per contribution.
type Fractions struct {
	// Volume holds the volume fractions scale·v²/(V_particle·contrast).
	Volume *mat.Dense

	// Number holds the number fractions, normalized so every row sums to 1.
	Number *mat.Dense

	// MinVolume holds the observability limits: the smallest volume
	// fraction of each contribution still distinguishable from noise.
	MinVolume *mat.Dense

	// MinNumber holds the number-weighted observability limits, normalized
	// by the per-repetition raw number total.
	MinNumber *mat.Dense

	// TotalVolume is the per-repetition sum of volume fractions.
	TotalVolume []float64

	// TotalNumber is the per-repetition raw number total before
	// normalization.
	TotalNumber []float64

	// Scalings holds the fresh per-repetition (scale, background, χ²_red).
	Scalings []scaling.Result
}

// DimensionHistogram is the binned distribution of one parameter dimension.
type DimensionHistogram struct {
	// Param is the dimension this histogram describes.
	Param shape.Param

	// Scale is the axis scale the edges were built with.
	Scale AxisScale

	// Edges are the B+1 bin edges over [Param.Min, Param.Max]; Centers and
	// Widths are the B midpoints and widths.
	Edges   []float64
	Centers []float64
	Widths  []float64

	// VolumePerRep and NumberPerRep hold the per-repetition bin sums
	// (reps × B), kept for re-aggregation and diagnostics.
	VolumePerRep *mat.Dense
	NumberPerRep *mat.Dense

	// VolumeMean/VolumeStd and NumberMean/NumberStd are the per-bin
	// across-repetition mean and sample standard deviation.
	VolumeMean []float64
	VolumeStd  []float64
	NumberMean []float64
	NumberStd  []float64

	// VolumeMinimum and NumberMinimum are the per-bin observability
	// limits: the max over repetitions of the per-repetition mean
	// minimum-required fraction of the bin's members.
	VolumeMinimum []float64
	NumberMinimum []float64
}

// Moments holds weighted distribution moments of one parameter sub-range,
// reported as across-repetition mean ± sample standard deviation.
type Moments struct {
	Mean          float64
	MeanStd       float64
	Variance      float64
	VarianceStd   float64
	Skew          float64
	SkewStd       float64
	ExKurtosis    float64
	ExKurtosisStd float64

	// Repetitions is the number of repetitions with at least one
	// contribution in the range.
	Repetitions int
}
