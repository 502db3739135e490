// Package mcfit - the parallel repetition driver.
package mcfit

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/scatterlab/mcsas/sasdata"
	"github.com/scatterlab/mcsas/shape"
)

// Ensemble collects the converged repetitions of one analysis together with
// the cross-repetition fit statistics.
type Ensemble struct {
	// Results holds one converged FitResult per repetition, in repetition
	// order regardless of completion order.
	Results []*FitResult

	// FitIntensityMean and FitIntensityStd are the per-q mean and sample
	// standard deviation of the repetition fit curves (std is zero for a
	// single repetition).
	FitIntensityMean []float64
	FitIntensityStd  []float64

	// MeanIterations is the average iteration count of the successful
	// attempts.
	MeanIterations float64
}

// RunRepetitions executes numReps independent Monte Carlo repetitions and
// merges them all-or-nothing: any failed repetition cancels the rest and
// fails the whole call, since partial ensembles would bias the histograms.
//
// Each repetition runs on its own SplitMix64-derived RNG stream, so results
// are deterministic for a fixed (Seed, numReps) regardless of scheduling.
// When Options.Priors is non-empty, repetition r is seeded from
// Priors[r mod len(Priors)].
//
// Concurrency: repetitions run on at most GOMAXPROCS goroutines and share
// only the read-only dataset and model.
//
// Errors: ErrBadRepetitions, anything New or Run can return, or ctx.Err().
func RunRepetitions(ctx context.Context, ds *sasdata.Dataset, model shape.Model,
	opts Options, numReps int) (*Ensemble, error) {

	if numReps < 1 {
		return nil, ErrBadRepetitions
	}
	// Fail fast on a bad configuration before spawning workers.
	if _, err := New(ds, model, opts); err != nil {
		return nil, err
	}

	base := opts.Seed
	if base == 0 {
		base = defaultRNGSeed
	}

	var (
		results = make([]*FitResult, numReps)
		g, gctx = errgroup.WithContext(ctx)
		r       int
	)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for r = 0; r < numReps; r++ {
		rep := r
		g.Go(func() error {
			repOpts := opts
			repOpts.Seed = deriveSeed(base, uint64(rep))
			if len(opts.Priors) > 0 {
				repOpts.Prior = opts.Priors[rep%len(opts.Priors)]
			}

			opt, err := New(ds, model, repOpts)
			if err != nil {
				return err
			}
			res, err := opt.Run(gctx)
			if err != nil {
				return err
			}
			results[rep] = res

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return aggregate(results, ds.Len()), nil
}

// aggregate computes the cross-repetition fit statistics.
func aggregate(results []*FitResult, nq int) *Ensemble {
	var (
		ens = &Ensemble{
			Results:          results,
			FitIntensityMean: make([]float64, nq),
			FitIntensityStd:  make([]float64, nq),
		}
		column = make([]float64, len(results))
		j, r   int
	)
	for j = 0; j < nq; j++ {
		for r = 0; r < len(results); r++ {
			column[r] = results[r].FitIntensity[j]
		}
		ens.FitIntensityMean[j] = stat.Mean(column, nil)
		if len(results) > 1 {
			ens.FitIntensityStd[j] = stat.StdDev(column, nil)
		}
	}

	var iters float64
	for r = 0; r < len(results); r++ {
		iters += float64(results[r].Iterations)
	}
	ens.MeanIterations = iters / float64(len(results))

	return ens
}
