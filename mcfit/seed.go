// Package mcfit - population seeding strategies.
package mcfit

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/scatterlab/mcsas/sasdata"
	"github.com/scatterlab/mcsas/shape"
)

// seedParams builds the initial (NumContribs × d) parameter matrix.
//
// Precedence:
//  1. prior      — reuse an earlier ensemble: exact copy when the row count
//     matches, random subsampling with replacement when larger,
//     verbatim rows completed by random duplicates when smaller.
//  2. minimum    — StartFromMinimum places every contribution at half the
//     lower parameter bound (observable lower size for a zero
//     bound), useful when large scatterers would otherwise
//     dominate the first accepted moves.
//  3. random     — uniform draws within the model bounds (the default).
//
// The returned matrix is owned by the caller; prior is never mutated.
func seedParams(ds *sasdata.Dataset, model shape.Model, o Options,
	prior *mat.Dense, rng *rand.Rand) (*mat.Dense, error) {

	var (
		nc     = o.NumContribs
		params = model.Params()
		d      = len(params)
	)

	if prior != nil {
		rows, _ := prior.Dims()
		out := mat.NewDense(nc, d, nil)
		switch {
		case rows == nc:
			out.Copy(prior)
		case rows > nc:
			// Subsample with replacement so every run of a staged fit
			// remains a fair draw from the prior population.
			var i int
			for i = 0; i < nc; i++ {
				out.SetRow(i, mat.Row(nil, rng.Intn(rows), prior))
			}
		default:
			// Keep the full prior verbatim, duplicate random rows to fill.
			var i int
			for i = 0; i < rows; i++ {
				out.SetRow(i, mat.Row(nil, i, prior))
			}
			for i = rows; i < nc; i++ {
				out.SetRow(i, mat.Row(nil, rng.Intn(rows), prior))
			}
		}

		return out, nil
	}

	if o.StartFromMinimum {
		row := make([]float64, d)
		var k int
		for k = 0; k < d; k++ {
			v := 0.5 * params[k].Min
			if params[k].Min == 0 {
				lo, _, err := ds.SizeBounds()
				if err != nil {
					return nil, err
				}
				v = lo
			}
			row[k] = v
		}

		out := mat.NewDense(nc, d, nil)
		var i int
		for i = 0; i < nc; i++ {
			out.SetRow(i, row)
		}

		return out, nil
	}

	return model.Sample(nc, rng), nil
}
