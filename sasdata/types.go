// Package sasdata - sentinel errors and construction options.
package sasdata

import (
	"errors"
	"log/slog"
)

// Sentinel errors returned by Dataset construction and clipping.
var (
	// ErrNoQ indicates that no q values were provided.
	ErrNoQ = errors.New("sasdata: no q values provided")

	// ErrNoIntensity indicates that no intensity values were provided.
	ErrNoIntensity = errors.New("sasdata: no intensity values provided")

	// ErrLengthMismatch indicates that q, I, σ (and ψ, when present) do not
	// share a common length.
	ErrLengthMismatch = errors.New("sasdata: data columns must have equal length")

	// ErrNonFiniteQ indicates that q contains NaN or ±Inf entries.
	ErrNonFiniteQ = errors.New("sasdata: q contains non-finite values")

	// ErrNonPositiveUncertainty indicates a σ entry that is zero, negative,
	// or NaN. An all-zero uncertainty column is rejected through this error
	// before any fitting starts.
	ErrNonPositiveUncertainty = errors.New("sasdata: uncertainties must be strictly positive")

	// ErrBadUncertaintyFraction indicates an out-of-range default
	// uncertainty fraction (must lie in (0, 1]).
	ErrBadUncertaintyFraction = errors.New("sasdata: default uncertainty fraction must be in (0, 1]")

	// ErrDegenerateSizeBounds indicates that no positive q value or q step
	// exists, so no observable size window can be derived.
	ErrDegenerateSizeBounds = errors.New("sasdata: cannot derive size bounds from q")

	// ErrEmptyAfterClip indicates that clipping removed every data point.
	ErrEmptyAfterClip = errors.New("sasdata: no data points remain after clipping")
)

// defaultUncertaintyFraction is applied when no σ column is supplied:
// σ = defaultUncertaintyFraction · I. One percent matches the commonly
// recommended noise floor for counting detectors.
const defaultUncertaintyFraction = 0.01

// options collects construction-time settings; zero value is not used
// directly, see newOptions.
type options struct {
	psi                 []float64
	uncertaintyFraction float64
	logger              *slog.Logger
}

// Option is a functional option for New.
type Option func(*options)

// WithPsi attaches detector angle values (degrees clockwise from top) to the
// Dataset. Required by oriented shape models; must match len(q).
func WithPsi(psi []float64) Option {
	return func(o *options) {
		o.psi = psi
	}
}

// WithDefaultUncertaintyFraction overrides the fraction of I used as σ when
// no uncertainty column is supplied. Must lie in (0, 1]; validated in New.
func WithDefaultUncertaintyFraction(f float64) Option {
	return func(o *options) {
		o.uncertaintyFraction = f
	}
}

// WithLogger sets the logger used for the one-time non-fatal notices
// (defaulted uncertainties). Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(opts []Option) options {
	o := options{
		uncertaintyFraction: defaultUncertaintyFraction,
		logger:              slog.Default(),
	}
	for _, fn := range opts {
		fn(&o)
	}

	return o
}

// Window describes the clipping applied by Dataset.Clip. Zero-valued limits
// are ignored, so the zero Window is a no-op except for the masks.
type Window struct {
	// QMin and QMax restrict q to (QMin, QMax]; the lower limit is
	// exclusive so q = 0 can be excluded cleanly.
	QMin, QMax float64

	// PsiMin and PsiMax restrict ψ to (PsiMin, PsiMax]; only applied when
	// the Dataset carries ψ values.
	PsiMin, PsiMax float64

	// MaskZeroIntensity drops points with I == 0.
	MaskZeroIntensity bool

	// MaskNegativeIntensity drops points with I ≤ 0.
	MaskNegativeIntensity bool
}
