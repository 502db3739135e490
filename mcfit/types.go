// Package mcfit - options, states, results and sentinel errors.
package mcfit

import (
	"errors"
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/scatterlab/mcsas/scaling"
)

// Sentinel errors returned by the optimizer and the repetition driver.
var (
	// ErrNilDataset indicates a nil dataset.
	ErrNilDataset = errors.New("mcfit: dataset is nil")

	// ErrNilModel indicates a nil shape model.
	ErrNilModel = errors.New("mcfit: shape model is nil")

	// ErrBadContribCount indicates NumContribs < 1.
	ErrBadContribCount = errors.New("mcfit: NumContribs must be positive")

	// ErrBadIterationBudget indicates MaxIterations < 1.
	ErrBadIterationBudget = errors.New("mcfit: MaxIterations must be positive")

	// ErrBadConvergence indicates a non-positive convergence criterion.
	ErrBadConvergence = errors.New("mcfit: ConvergenceCriterion must be positive")

	// ErrBadRetries indicates MaxRetries < 0.
	ErrBadRetries = errors.New("mcfit: MaxRetries must be non-negative")

	// ErrBadExponent indicates a compensation exponent outside (0, 1].
	ErrBadExponent = errors.New("mcfit: CompensationExponent must be in (0, 1]")

	// ErrBadMemoryMode indicates an unknown memory mode value.
	ErrBadMemoryMode = errors.New("mcfit: unknown memory mode")

	// ErrBadPrior indicates a prior ensemble whose column count does not
	// match the model dimensionality, or with no rows.
	ErrBadPrior = errors.New("mcfit: prior dimensions do not match the model")

	// ErrBadRepetitions indicates a repetition count < 1.
	ErrBadRepetitions = errors.New("mcfit: repetition count must be positive")

	// ErrOptimizationFailed indicates that the convergence criterion was
	// not reached within MaxRetries+2 seeding attempts. Fatal for the whole
	// run; diagnostics (attempts, final chi-square, iterations) are
	// attached to the returned error.
	ErrOptimizationFailed = errors.New("mcfit: convergence criterion not reached within the allowed attempts")

	// errExhausted signals internally that one attempt ran out of
	// iterations; Run converts it into a retry or ErrOptimizationFailed.
	errExhausted = errors.New("mcfit: iteration budget exhausted")
)

// MemoryMode selects how per-contribution intensities are stored during the
// accept/reject loop.
//
//   - Cached     — keep the full (NumContribs × n_q) intensity matrix.
//     O(NumContribs·n_q) memory, cheapest iterations.
//   - LowMemory  — recompute the replaced contribution's intensity row on
//     demand. O(n_q) extra memory, one extra form-factor
//     evaluation per iteration.
//
// Both modes make byte-identical accept/reject decisions; only speed and
// memory differ.
type MemoryMode int

const (
	// Cached mode: store all per-contribution intensity rows.
	Cached MemoryMode = iota

	// LowMemory mode: recompute rows on demand, keep only running totals.
	LowMemory
)

// State enumerates the optimizer's lifecycle.
type State int

const (
	// StateInit is the zero value before any work happens.
	StateInit State = iota

	// StateSeeding covers population construction and the warm-start solve.
	StateSeeding

	// StateIterating covers the accept/reject replacement loop.
	StateIterating

	// StateConverged is the terminal success state (χ²_red ≤ criterion).
	StateConverged

	// StateExhausted is the terminal per-attempt failure state (iteration
	// budget spent above the criterion).
	StateExhausted
)

// String implements fmt.Stringer for diagnostics.
func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateSeeding:
		return "SEEDING"
	case StateIterating:
		return "ITERATING"
	case StateConverged:
		return "CONVERGED"
	case StateExhausted:
		return "EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}

// Options configures one Monte Carlo optimization (and, through
// RunRepetitions, the whole ensemble). The zero value is not valid; start
// from DefaultOptions.
type Options struct {
	// NumContribs is the number of simultaneous contributions (particles).
	NumContribs int

	// MaxIterations bounds the replacement loop of a single attempt.
	MaxIterations int

	// ConvergenceCriterion is the reduced chi-square at or below which an
	// attempt succeeds. 1 means "fitted to within the uncertainty".
	ConvergenceCriterion float64

	// MaxRetries is the number of re-seeded attempts after the first two;
	// a run fails after MaxRetries+2 unsuccessful attempts total.
	MaxRetries int

	// CompensationExponent counteracts the volume² intensity weighting;
	// see shape.DefaultCompensationExponent.
	CompensationExponent float64

	// StartFromMinimum seeds every contribution at half the lower non-zero
	// parameter bound instead of sampling uniformly.
	StartFromMinimum bool

	// Background enables the flat background term of the scaling solver.
	Background bool

	// MemoryMode selects Cached or LowMemory intensity bookkeeping.
	MemoryMode MemoryMode

	// Seed selects the deterministic RNG stream; 0 means the fixed default
	// seed, so runs are reproducible unless a seed is chosen explicitly.
	Seed uint64

	// Prior optionally seeds the population from an earlier result
	// (rows × d). Fewer rows than NumContribs are completed by random
	// duplication, more rows are randomly subsampled.
	Prior *mat.Dense

	// Priors optionally supplies one prior per repetition for staged
	// fitting; repetition i uses Priors[i mod len(Priors)]. Only read by
	// RunRepetitions.
	Priors []*mat.Dense

	// Logger receives the per-attempt progress notices. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns the canonical configuration: 200 contributions,
// 1e5 iterations, criterion 1.0, 5 retries, exponent 0.5, background on,
// cached memory mode, deterministic default seed.
func DefaultOptions() Options {
	return Options{
		NumContribs:          200,
		MaxIterations:        100000,
		ConvergenceCriterion: 1.0,
		MaxRetries:           5,
		CompensationExponent: 0.5,
		Background:           true,
		MemoryMode:           Cached,
	}
}

// validate checks internal consistency against the model dimensionality d.
func (o Options) validate(d int) error {
	if o.NumContribs < 1 {
		return ErrBadContribCount
	}
	if o.MaxIterations < 1 {
		return ErrBadIterationBudget
	}
	if !(o.ConvergenceCriterion > 0) {
		return ErrBadConvergence
	}
	if o.MaxRetries < 0 {
		return ErrBadRetries
	}
	if !(o.CompensationExponent > 0) || o.CompensationExponent > 1 {
		return ErrBadExponent
	}
	if o.MemoryMode != Cached && o.MemoryMode != LowMemory {
		return ErrBadMemoryMode
	}
	if o.Prior != nil {
		if r, c := o.Prior.Dims(); r < 1 || c != d {
			return ErrBadPrior
		}
	}
	for _, p := range o.Priors {
		if p == nil {
			return ErrBadPrior
		}
		if r, c := p.Dims(); r < 1 || c != d {
			return ErrBadPrior
		}
	}

	return nil
}

// FitResult is one frozen, successful repetition.
type FitResult struct {
	// Contributions is the converged (NumContribs × d) parameter matrix.
	Contributions *mat.Dense

	// FitIntensity is the reported curve scale·I_total/V²_total + background
	// from the final refined solve.
	FitIntensity []float64

	// Scaling is the final (scale, background, χ²_red) of this repetition.
	Scaling scaling.Result

	// Iterations is the number of loop iterations of the successful attempt.
	Iterations int

	// Accepted is the number of accepted replacements of that attempt.
	Accepted int

	// RejectStreak is the count of consecutive rejected moves when the
	// attempt ended, a stagnation indicator.
	RejectStreak int

	// Attempts counts seeding attempts including the successful one.
	Attempts int

	// State is StateConverged for any returned result.
	State State
}
