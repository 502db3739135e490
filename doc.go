// Package mcsas recovers particle size distributions from small-angle
// scattering curves by Monte Carlo inversion — without assuming any
// analytical distribution shape.
//
// 🚀 What is mcsas?
//
//	A form-free inversion engine: a population of discrete shape
//	contributions is refined by random single-contribution replacement
//	until its combined scattered intensity matches the measured curve
//	within the measurement uncertainty. Repeating the fit many times
//	turns the converged populations into size distributions with
//	uncertainty estimates and observability limits:
//		• sasdata/   — measured curve container, validation, clipping
//		• shape/     — particle models (sphere, oriented ellipsoid)
//		• scaling/   — coarse + refined (scale, background) solvers
//		• mcfit/     — the Monte Carlo optimizer and repetition driver
//		• histogram/ — volume/number-weighted distributions and moments
//
// ✨ Why choose mcsas?
//
//   - Form-free – no a-priori distribution assumed, the data decides
//   - Uncertainty-aware – every histogram bin carries mean ± std and a
//     minimum-required (observability) fraction
//   - Deterministic – fixed seeds reproduce entire ensembles bit for bit
//   - Parallel – repetitions fan out across cores on independent RNG streams
//
// Quick start:
//
//	ds, err := sasdata.New(q, intensity, sigma)
//	model, err := shape.NewSphere(1, 100)
//	res, err := mcsas.Analyze(ctx, ds, model, mcsas.DefaultOptions())
//
// Analyze runs the repetitions, histograms the ensemble and returns a
// stable named-field Result consumed by export or plotting collaborators.
package mcsas
