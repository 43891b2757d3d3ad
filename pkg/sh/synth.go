package sh

import (
	"context"
	"math"

	"github.com/planetdyn/shtk/pkg/legendre"
	"github.com/planetdyn/shtk/pkg/types"
	"github.com/planetdyn/shtk/pkg/utils"
)

// ExpandOptions controls grid synthesis.
type ExpandOptions struct {
	// Sampling selects the longitudinal sampling of the Driscoll and
	// Healy grid: 1 for nlon = nlat, 2 for equally spaced in degrees.
	// Defaults to 2.
	Sampling int

	// Extend adds the redundant 360E column and the 90S row.
	Extend bool

	// LMaxCalc truncates the expansion when positive.
	LMaxCalc int
}

// ExpandDH synthesizes the expansion on a Driscoll and Healy sampled
// grid with n = 2(lmax+1) latitude bands. Opts may be nil.
func ExpandDH(c *types.Coeffs, opts *ExpandOptions) (*types.Grid, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	sampling := 2
	extend := false
	if opts != nil {
		if opts.Sampling != 0 {
			sampling = opts.Sampling
		}
		extend = opts.Extend
	}
	lmax := c.LMax
	if opts != nil && opts.LMaxCalc > 0 && opts.LMaxCalc < lmax {
		lmax = opts.LMaxCalc
	}

	n := 2 * (lmax + 1)
	g, err := types.NewGrid(n, sampling, extend)
	if err != nil {
		return nil, err
	}
	g.LMax = lmax
	g.Name = c.Name
	g.Units = c.Units

	// Longitude trig tables, shared by every latitude band.
	nlonBase := n * sampling
	lonStep := 2 * math.Pi / float64(nlonBase)
	cosTab := make([][]float64, lmax+1)
	sinTab := make([][]float64, lmax+1)
	for m := 0; m <= lmax; m++ {
		cosTab[m] = make([]float64, g.NLon)
		sinTab[m] = make([]float64, g.NLon)
		for j := 0; j < g.NLon; j++ {
			s, cs := math.Sincos(float64(m) * float64(j) * lonStep)
			cosTab[m][j] = cs
			sinTab[m][j] = s
		}
	}

	// Latitude bands are independent, so they are synthesized by a
	// worker pool. Each worker writes into its own slice of Vals.
	rows := make([]int, g.NLat)
	for i := range rows {
		rows[i] = i
	}
	pool := utils.NewWorkerPool(0, func(_ context.Context, i int) (struct{}, error) {
		theta := (90.0 - g.LatAt(i)) * math.Pi / 180.0
		p, err := legendre.Row(c.Norm, c.CondonShortley, lmax, math.Cos(theta))
		if err != nil {
			return struct{}{}, err
		}

		am := make([]float64, lmax+1)
		bm := make([]float64, lmax+1)
		for l := 0; l <= lmax; l++ {
			for m := 0; m <= l; m++ {
				plm := p[legendre.Index(l, m)]
				am[m] += plm * c.C[l][m]
				bm[m] += plm * c.S[l][m]
			}
		}

		row := g.Vals[i*g.NLon : (i+1)*g.NLon]
		for j := range row {
			var val float64
			for m := 0; m <= lmax; m++ {
				val += am[m]*cosTab[m][j] + bm[m]*sinTab[m][j]
			}
			row[j] = val
		}
		return struct{}{}, nil
	})

	_, errs := pool.ProcessItems(context.Background(), rows)
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}
