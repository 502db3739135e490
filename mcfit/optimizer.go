// Package mcfit - the single-repetition Monte Carlo optimizer.
package mcfit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/scatterlab/mcsas/sasdata"
	"github.com/scatterlab/mcsas/scaling"
	"github.com/scatterlab/mcsas/shape"
)

// Optimizer runs the accept/reject replacement loop for one repetition.
// Construct with New; an Optimizer is immutable after construction and a
// single Run is strictly sequential.
type Optimizer struct {
	ds    *sasdata.Dataset
	model shape.Model
	opts  Options
	log   *slog.Logger
}

// New validates the configuration against the dataset and model and returns
// a ready optimizer.
//
// Errors: ErrNilDataset, ErrNilModel, or one of the Options sentinels.
func New(ds *sasdata.Dataset, model shape.Model, opts Options) (*Optimizer, error) {
	if ds == nil {
		return nil, ErrNilDataset
	}
	if model == nil {
		return nil, ErrNilModel
	}
	if err := opts.validate(len(model.Params())); err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Optimizer{ds: ds, model: model, opts: opts, log: log}, nil
}

// Run executes up to MaxRetries+2 seeding attempts and returns the first
// converged repetition. All randomness flows from the single stream seeded
// by Options.Seed, so retries are deterministic too.
//
// Errors: ErrOptimizationFailed when every attempt exhausts its iteration
// budget above the convergence criterion, or ctx.Err() on cancellation.
// A degenerate warm-start fit aborts only the attempt and counts against
// the retries, like an exhausted budget.
//
// Complexity: O(attempts · MaxIterations · n_q) plus the O(nc · n_q) seed
// cost per attempt.
func (o *Optimizer) Run(ctx context.Context) (*FitResult, error) {
	var (
		rng         = rngFromSeed(o.opts.Seed)
		maxAttempts = o.opts.MaxRetries + 2
		lastChi     float64
		lastIters   int
		attempt     int
	)
	for attempt = 1; attempt <= maxAttempts; attempt++ {
		res, chi, iters, err := o.runAttempt(ctx, rng)
		if err == nil {
			res.Attempts = attempt
			o.log.Debug("mcfit: attempt converged",
				"attempt", attempt, "iterations", res.Iterations,
				"accepted", res.Accepted, "chi2", res.Scaling.ReducedChiSquare)

			return res, nil
		}
		if !errors.Is(err, errExhausted) && !errors.Is(err, scaling.ErrDegenerateFit) {
			return nil, err
		}

		lastChi, lastIters = chi, iters
		o.log.Warn("mcfit: attempt failed, reseeding",
			"attempt", attempt, "iterations", iters, "chi2", chi, "cause", err)
	}

	return nil, fmt.Errorf("%w: %d attempts, final reduced chi-square %.6g after %d iterations",
		ErrOptimizationFailed, maxAttempts, lastChi, lastIters)
}

// runAttempt seeds one population and iterates it to convergence or
// exhaustion. On errExhausted the reduced chi-square and iteration count of
// the failed attempt are reported for diagnostics.
func (o *Optimizer) runAttempt(ctx context.Context, rng *rand.Rand) (res *FitResult, chi float64, iters int, err error) {
	// SEEDING.
	seed, err := seedParams(o.ds, o.model, o.opts, o.opts.Prior, rng)
	if err != nil {
		return nil, 0, 0, err
	}
	cs, err := newContribSet(o.ds, o.model, seed, o.opts.CompensationExponent, o.opts.MemoryMode)
	if err != nil {
		return nil, 0, 0, err
	}

	var (
		obs       = o.ds.I()
		sigma     = o.ds.Sigma()
		nq        = o.ds.Len()
		norm      = make([]float64, nq)
		candidate = make([]float64, nq)
	)

	// Two-phase warm start: robust coarse pass, then the exact solve.
	cs.normalized(norm)
	coarse, err := scaling.SolveRobust(obs, norm, sigma, scaling.InitialGuess(obs, norm), o.opts.Background)
	if err != nil {
		return nil, 0, 0, err
	}
	cur, err := scaling.Solve(obs, norm, sigma, coarse, o.opts.Background)
	if err != nil {
		return nil, 0, 0, err
	}

	// ITERATING: round-robin single-contribution replacement.
	var (
		nc       = o.opts.NumContribs
		ci       int
		accepted int
		streak   int
		it       int
	)
	for it = 0; it < o.opts.MaxIterations; it++ {
		if err = ctx.Err(); err != nil {
			return nil, 0, 0, err
		}
		if cur.ReducedChiSquare <= o.opts.ConvergenceCriterion {
			break
		}

		trial := o.model.Sample(1, rng)
		trialVols, verr := o.model.Volume(trial, o.opts.CompensationExponent)
		if verr != nil {
			return nil, 0, 0, verr
		}
		trialFF, ferr := o.model.FormFactor(o.ds, trial)
		if ferr != nil {
			return nil, 0, 0, ferr
		}

		var (
			vt       = trialVols[0]
			v2       = vt * vt
			trialInt = trialFF.RawRowView(0)
			j        int
		)
		for j = 0; j < nq; j++ {
			trialInt[j] = trialInt[j] * trialInt[j] * v2
		}

		oldInt, ierr := cs.intensityOf(ci)
		if ierr != nil {
			return nil, 0, 0, ierr
		}

		vOld := cs.volumes[ci]
		vstCand := cs.vst - vOld*vOld + vt*vt
		for j = 0; j < nq; j++ {
			candidate[j] = (cs.total[j] - oldInt[j] + trialInt[j]) / vstCand
		}

		cand, serr := scaling.Solve(obs, candidate, sigma, cur, o.opts.Background)
		// A degenerate candidate (all-zero trial intensity) is simply rejected.
		if serr == nil && cand.ReducedChiSquare < cur.ReducedChiSquare {
			cs.commit(ci, trial.RawRowView(0), oldInt, trialInt, vt)
			cur = cand
			accepted++
			streak = 0
		} else {
			streak++
		}

		ci = (ci + 1) % nc
	}

	if cur.ReducedChiSquare > o.opts.ConvergenceCriterion {
		return nil, cur.ReducedChiSquare, it, errExhausted
	}

	// CONVERGED: freeze the population and report the fitted curve from one
	// final refined solve over the committed totals.
	cs.normalized(norm)
	final, err := scaling.Solve(obs, norm, sigma, cur, o.opts.Background)
	if err != nil {
		return nil, 0, 0, err
	}

	fit := make([]float64, nq)
	var j int
	for j = 0; j < nq; j++ {
		fit[j] = final.Scale*norm[j] + final.Background
	}

	return &FitResult{
		Contributions: mat.DenseCopyOf(cs.params),
		FitIntensity:  fit,
		Scaling:       final,
		Iterations:    it,
		Accepted:      accepted,
		RejectStreak:  streak,
		State:         StateConverged,
	}, 0, 0, nil
}
