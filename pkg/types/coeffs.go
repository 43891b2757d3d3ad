package types

import (
	"fmt"
	"time"
)

// Coeffs holds a real spherical-harmonic coefficient set.
//
// Storage is ragged: C[l][m] and S[l][m] are valid for 0 <= m <= l <= LMax.
// S[l][0] is always zero. The interpretation of the coefficients depends on
// Norm and CondonShortley; the default convention is geodesy 4-pi
// normalized harmonics without the Condon-Shortley phase.
type Coeffs struct {
	LMax int
	Norm Normalization

	// CondonShortley indicates that the (-1)^m phase is built into the
	// coefficients. Off by default.
	CondonShortley bool

	C [][]float64
	S [][]float64

	// Metadata
	Name      string
	Units     string
	CreatedAt time.Time
}

// NewCoeffs allocates a zeroed coefficient set of maximum degree lmax.
func NewCoeffs(lmax int, norm Normalization) (*Coeffs, error) {
	if lmax < 0 {
		return nil, ErrInvalidDegree
	}
	if !norm.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNorm, int(norm))
	}
	c := &Coeffs{
		LMax:      lmax,
		Norm:      norm,
		C:         make([][]float64, lmax+1),
		S:         make([][]float64, lmax+1),
		CreatedAt: time.Now().UTC(),
	}
	for l := 0; l <= lmax; l++ {
		c.C[l] = make([]float64, l+1)
		c.S[l] = make([]float64, l+1)
	}
	return c, nil
}

// Validate checks structural consistency of the coefficient set.
func (c *Coeffs) Validate() error {
	if c == nil {
		return ErrNilCoeffs
	}
	if c.LMax < 0 {
		return ErrInvalidDegree
	}
	if !c.Norm.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidNorm, int(c.Norm))
	}
	if len(c.C) != c.LMax+1 || len(c.S) != c.LMax+1 {
		return fmt.Errorf("coefficient storage does not match lmax %d", c.LMax)
	}
	for l := 0; l <= c.LMax; l++ {
		if len(c.C[l]) != l+1 || len(c.S[l]) != l+1 {
			return fmt.Errorf("degree %d row has wrong length", l)
		}
	}
	return nil
}

// Set assigns the cosine and sine coefficients of degree l and order m.
func (c *Coeffs) Set(l, m int, clm, slm float64) error {
	if l < 0 || l > c.LMax {
		return fmt.Errorf("%w: l=%d, lmax=%d", ErrInvalidDegree, l, c.LMax)
	}
	if m < 0 || m > l {
		return fmt.Errorf("%w: l=%d, m=%d", ErrInvalidOrder, l, m)
	}
	c.C[l][m] = clm
	if m > 0 {
		c.S[l][m] = slm
	}
	return nil
}

// At returns the cosine and sine coefficients of degree l and order m.
func (c *Coeffs) At(l, m int) (clm, slm float64, err error) {
	if l < 0 || l > c.LMax {
		return 0, 0, fmt.Errorf("%w: l=%d, lmax=%d", ErrInvalidDegree, l, c.LMax)
	}
	if m < 0 || m > l {
		return 0, 0, fmt.Errorf("%w: l=%d, m=%d", ErrInvalidOrder, l, m)
	}
	return c.C[l][m], c.S[l][m], nil
}

// Truncate returns a deep copy of c limited to degree lmax. Truncating
// beyond LMax returns a full copy.
func (c *Coeffs) Truncate(lmax int) (*Coeffs, error) {
	if lmax < 0 {
		return nil, ErrInvalidDegree
	}
	if lmax > c.LMax {
		lmax = c.LMax
	}
	out, err := NewCoeffs(lmax, c.Norm)
	if err != nil {
		return nil, err
	}
	out.CondonShortley = c.CondonShortley
	out.Name = c.Name
	out.Units = c.Units
	out.CreatedAt = c.CreatedAt
	for l := 0; l <= lmax; l++ {
		copy(out.C[l], c.C[l])
		copy(out.S[l], c.S[l])
	}
	return out, nil
}

// Copy returns a deep copy of the coefficient set.
func (c *Coeffs) Copy() (*Coeffs, error) {
	return c.Truncate(c.LMax)
}
