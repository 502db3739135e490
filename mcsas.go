// Package mcsas - top-level orchestration of fit and histogramming.
package mcsas

import (
	"context"
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/scatterlab/mcsas/histogram"
	"github.com/scatterlab/mcsas/mcfit"
	"github.com/scatterlab/mcsas/sasdata"
	"github.com/scatterlab/mcsas/scaling"
	"github.com/scatterlab/mcsas/shape"
)

// ErrBadRepetitions indicates NumReps < 1.
var ErrBadRepetitions = errors.New("mcsas: NumReps must be positive")

// Options bundles the configuration of a full analysis.
type Options struct {
	// Fit configures the Monte Carlo optimizer; see mcfit.Options.
	Fit mcfit.Options

	// Histogram configures the distribution output; see histogram.Options.
	// Its CompensationExponent is kept in lockstep with Fit's by Analyze.
	Histogram histogram.Options

	// NumReps is the number of independent repetitions the distribution
	// statistics are drawn from.
	NumReps int
}

// DefaultOptions returns the canonical configuration: default fit and
// histogram options with 100 repetitions.
func DefaultOptions() Options {
	return Options{
		Fit:       mcfit.DefaultOptions(),
		Histogram: histogram.DefaultOptions(),
		NumReps:   100,
	}
}

// Result is the stable named-field record a full analysis produces,
// consumed by external export and plotting collaborators.
type Result struct {
	// FitQ is the q grid the fit curves are reported on.
	FitQ []float64

	// FitIntensityMean and FitIntensityStd are the per-q mean and sample
	// standard deviation of the repetition fit curves.
	FitIntensityMean []float64
	FitIntensityStd  []float64

	// ContributionSets holds the frozen (NumContribs × d) parameter matrix
	// of every repetition, enabling re-histogramming without refitting.
	ContributionSets []*mat.Dense

	// MeanIterations is the average iteration count of the successful
	// attempts.
	MeanIterations float64

	// Scalings holds the per-repetition (scale, background, χ²_red) of the
	// histogramming pass.
	Scalings []scaling.Result

	// Fractions holds the raw per-contribution volume/number fractions,
	// per-repetition totals and observability limits.
	Fractions *histogram.Fractions

	// Histograms holds one binned distribution per parameter dimension.
	Histograms []histogram.DimensionHistogram

	// Distribution is the full histogramming output, kept for sub-range
	// moment statistics via RangeMoments.
	Distribution *histogram.Distribution
}

// Analyze runs the complete pipeline: NumReps Monte Carlo repetitions
// followed by one histogramming pass over the converged ensemble.
//
// Errors: ErrBadRepetitions, or anything the mcfit driver or histogrammer
// can return; any failed repetition fails the whole analysis.
func Analyze(ctx context.Context, ds *sasdata.Dataset, model shape.Model, opts Options) (*Result, error) {
	if opts.NumReps < 1 {
		return nil, ErrBadRepetitions
	}

	ens, err := mcfit.RunRepetitions(ctx, ds, model, opts.Fit, opts.NumReps)
	if err != nil {
		return nil, err
	}

	histOpts := opts.Histogram
	histOpts.CompensationExponent = opts.Fit.CompensationExponent
	histOpts.Background = opts.Fit.Background

	h, err := histogram.New(ds, model, histOpts)
	if err != nil {
		return nil, err
	}
	dist, err := h.Compute(ens)
	if err != nil {
		return nil, err
	}

	sets := make([]*mat.Dense, len(ens.Results))
	for r, res := range ens.Results {
		sets[r] = res.Contributions
	}

	return &Result{
		FitQ:             ds.Q(),
		FitIntensityMean: ens.FitIntensityMean,
		FitIntensityStd:  ens.FitIntensityStd,
		ContributionSets: sets,
		MeanIterations:   ens.MeanIterations,
		Scalings:         dist.Fractions.Scalings,
		Fractions:        dist.Fractions,
		Histograms:       dist.Histograms,
		Distribution:     dist,
	}, nil
}
