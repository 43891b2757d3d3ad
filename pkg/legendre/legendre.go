// Package legendre computes associated Legendre functions for spherical
// harmonic expansions. All four normalization conventions used by
// pkg/types are supported, with an optional Condon-Shortley phase.
package legendre

import (
	"fmt"
	"math"

	"github.com/planetdyn/shtk/pkg/types"
)

// Index returns the position of degree l, order m in a packed row as
// produced by Row.
func Index(l, m int) int {
	return l*(l+1)/2 + m
}

// RowLen returns the length of a packed row of maximum degree lmax.
func RowLen(lmax int) int {
	return (lmax + 1) * (lmax + 2) / 2
}

// Row computes P_lm(z) for all 0 <= m <= l <= lmax at a single argument
// z = cos(theta), packed so that the value of degree l and order m is at
// Index(l, m). The three-term recursions used here are stable for the
// normalized conventions to degrees of a few thousand; the unnormalized
// convention overflows beyond degree ~85 and is intended for low-degree
// work only.
func Row(norm types.Normalization, condonShortley bool, lmax int, z float64) ([]float64, error) {
	if lmax < 0 {
		return nil, types.ErrInvalidDegree
	}
	if z < -1 || z > 1 {
		return nil, fmt.Errorf("argument %g outside [-1, 1]", z)
	}

	switch norm {
	case types.Geodesy4Pi:
		return row4pi(lmax, z, condonShortley), nil
	case types.Schmidt:
		p := row4pi(lmax, z, condonShortley)
		for l := 0; l <= lmax; l++ {
			f := 1.0 / math.Sqrt(float64(2*l+1))
			for m := 0; m <= l; m++ {
				p[Index(l, m)] *= f
			}
		}
		return p, nil
	case types.Orthonormal:
		p := row4pi(lmax, z, condonShortley)
		f := 1.0 / math.Sqrt(4*math.Pi)
		for i := range p {
			p[i] *= f
		}
		return p, nil
	case types.Unnormalized:
		return rowUnnorm(lmax, z, condonShortley), nil
	default:
		return nil, fmt.Errorf("%w: %d", types.ErrInvalidNorm, int(norm))
	}
}

// row4pi computes geodesy 4-pi fully normalized values.
func row4pi(lmax int, z float64, condonShortley bool) []float64 {
	p := make([]float64, RowLen(lmax))
	u := math.Sqrt((1 - z) * (1 + z)) // sin(theta), non-negative
	phase := 1.0
	if condonShortley {
		phase = -1.0
	}

	p[0] = 1
	if lmax == 0 {
		return p
	}

	// Sectoral values P_mm seed each order's recursion. The sqrt(2) of
	// the m=0 to m=1 step carries the (2 - delta_m0) factor.
	pmm := 1.0
	for m := 1; m <= lmax; m++ {
		if m == 1 {
			pmm = phase * math.Sqrt(3) * u
		} else {
			pmm = phase * math.Sqrt(float64(2*m+1)/float64(2*m)) * u * pmm
		}
		p[Index(m, m)] = pmm
	}

	for m := 0; m < lmax; m++ {
		p[Index(m+1, m)] = math.Sqrt(float64(2*m+3)) * z * p[Index(m, m)]
		for l := m + 2; l <= lmax; l++ {
			a := math.Sqrt(float64((2*l-1)*(2*l+1)) / float64((l-m)*(l+m)))
			b := math.Sqrt(float64(2*l+1) * float64((l+m-1)*(l-m-1)) /
				(float64((l-m)*(l+m)) * float64(2*l-3)))
			p[Index(l, m)] = a*z*p[Index(l-1, m)] - b*p[Index(l-2, m)]
		}
	}
	return p
}

// rowUnnorm computes plain associated Legendre functions.
func rowUnnorm(lmax int, z float64, condonShortley bool) []float64 {
	p := make([]float64, RowLen(lmax))
	u := math.Sqrt((1 - z) * (1 + z))
	phase := 1.0
	if condonShortley {
		phase = -1.0
	}

	p[0] = 1
	if lmax == 0 {
		return p
	}

	pmm := 1.0
	for m := 1; m <= lmax; m++ {
		pmm = phase * float64(2*m-1) * u * pmm
		p[Index(m, m)] = pmm
	}

	for m := 0; m < lmax; m++ {
		p[Index(m+1, m)] = float64(2*m+1) * z * p[Index(m, m)]
		for l := m + 2; l <= lmax; l++ {
			p[Index(l, m)] = (float64(2*l-1)*z*p[Index(l-1, m)] -
				float64(l+m-1)*p[Index(l-2, m)]) / float64(l-m)
		}
	}
	return p
}
