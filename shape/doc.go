// Package shape defines the pluggable particle-shape capability set used by
// the Monte Carlo engine: per-shape volumes, scattering form factors, and
// bounded random sampling of shape parameters.
//
// 🚀 What is a shape model?
//
//	Each simulated contribution is one particle described by a parameter
//	vector of dimensionality d (a sphere by its radius, d = 1; an oriented
//	ellipsoid by two radii and an orientation angle, d = 3). A Model turns
//	a (count × d) parameter matrix into:
//	  • a length-count vector of compensated volumes, and
//	  • a (count × n_q) form-factor matrix F, normalized to 1 at q = 0,
//	such that each contribution scatters I_c(q) = F_c(q)² · V_c².
//
// ✨ Key features:
//   - closed set of models chosen at configuration time (Sphere, Ellipsoid)
//   - volume compensation: V ∝ param^(3·exponent), default exponent 0.5,
//     counteracting the V² weighting of scattered intensity per particle
//   - deterministic bounded uniform sampling via gonum's distuv and an
//     injectable RNG stream
//   - NewAutoSphere derives radius bounds from the measurable q window
//
// ⚙️ Usage:
//
//	m, err := shape.NewSphere(0.5e-9, 35e-9)
//	params := m.Sample(200, rng)           // 200×1 radii
//	vols, _ := m.Volume(params, 0.5)       // compensated volumes
//	ff, _ := m.FormFactor(ds, params)      // 200×len(q) form factors
//
// Models are stateless after construction and safe for concurrent use with
// per-goroutine RNG streams.
package shape
