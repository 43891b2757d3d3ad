// Package sh implements spherical-harmonic operations on coefficient
// sets: storage-layout conversion, point evaluation, and grid synthesis.
package sh

import (
	"fmt"
	"math"

	"github.com/planetdyn/shtk/pkg/types"
)

// VectorIndex returns the position of the coefficient of degree l and
// order m in the 1-D vector layout produced by CilmToVector. Cosine
// coefficients occupy l*l+m, sine coefficients l*l+l+m.
func VectorIndex(sine bool, l, m int) int {
	if sine {
		return l*l + l + m
	}
	return l*l + m
}

// CilmToVector packs a coefficient set into a single vector of length
// (lmax+1)^2, ordered by degree: C_l0..C_ll followed by S_l1..S_ll for
// each degree l.
func CilmToVector(c *types.Coeffs) ([]float64, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	v := make([]float64, (c.LMax+1)*(c.LMax+1))
	for l := 0; l <= c.LMax; l++ {
		for m := 0; m <= l; m++ {
			v[VectorIndex(false, l, m)] = c.C[l][m]
			if m > 0 {
				v[VectorIndex(true, l, m)] = c.S[l][m]
			}
		}
	}
	return v, nil
}

// VectorToCilm unpacks a vector in the CilmToVector layout back into a
// coefficient set. The vector length must be a perfect square.
func VectorToCilm(v []float64, norm types.Normalization) (*types.Coeffs, error) {
	if len(v) == 0 {
		return nil, types.ErrNilCoeffs
	}
	n := int(math.Round(math.Sqrt(float64(len(v)))))
	if n*n != len(v) {
		return nil, fmt.Errorf("vector length %d is not a perfect square", len(v))
	}
	c, err := types.NewCoeffs(n-1, norm)
	if err != nil {
		return nil, err
	}
	for l := 0; l <= c.LMax; l++ {
		for m := 0; m <= l; m++ {
			c.C[l][m] = v[VectorIndex(false, l, m)]
			if m > 0 {
				c.S[l][m] = v[VectorIndex(true, l, m)]
			}
		}
	}
	return c, nil
}
