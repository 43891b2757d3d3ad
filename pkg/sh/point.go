package sh

import (
	"math"

	"github.com/planetdyn/shtk/pkg/legendre"
	"github.com/planetdyn/shtk/pkg/types"
)

// EvalOptions controls point evaluation and grid synthesis.
type EvalOptions struct {
	// LMaxCalc truncates the expansion to this degree when positive and
	// smaller than the coefficient set's LMax.
	LMaxCalc int
}

func effectiveLMax(c *types.Coeffs, opts *EvalOptions) int {
	lmax := c.LMax
	if opts != nil && opts.LMaxCalc > 0 && opts.LMaxCalc < lmax {
		lmax = opts.LMaxCalc
	}
	return lmax
}

// EvalPoint evaluates the expansion at a single geographic point, with
// lat and lon in degrees. Opts may be nil.
func EvalPoint(c *types.Coeffs, lat, lon float64, opts *EvalOptions) (float64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	if lat < -90 || lat > 90 {
		return 0, types.ErrLatOutOfRange
	}
	lmax := effectiveLMax(c, opts)

	theta := (90.0 - lat) * math.Pi / 180.0
	phi := lon * math.Pi / 180.0
	p, err := legendre.Row(c.Norm, c.CondonShortley, lmax, math.Cos(theta))
	if err != nil {
		return 0, err
	}

	// Collapse over degrees first so the longitude trig is evaluated
	// once per order.
	am := make([]float64, lmax+1)
	bm := make([]float64, lmax+1)
	for l := 0; l <= lmax; l++ {
		for m := 0; m <= l; m++ {
			plm := p[legendre.Index(l, m)]
			am[m] += plm * c.C[l][m]
			bm[m] += plm * c.S[l][m]
		}
	}

	var val float64
	for m := 0; m <= lmax; m++ {
		s, cs := math.Sincos(float64(m) * phi)
		val += am[m]*cs + bm[m]*s
	}
	return val, nil
}
