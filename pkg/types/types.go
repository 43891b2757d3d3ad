package types

import (
	"errors"
	"fmt"
)

// Validation errors
var (
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrEmptyPath       = errors.New("path cannot be empty")
	ErrInvalidDegree   = errors.New("degree must be non-negative")
	ErrInvalidOrder    = errors.New("order must satisfy 0 <= m <= l")
	ErrInvalidNorm     = errors.New("unknown normalization")
	ErrNilCoeffs       = errors.New("coefficient set is nil")
	ErrEmptyGrid       = errors.New("grid has no values")
	ErrInvalidSampling = errors.New("sampling must be 1 or 2")
	ErrLatOutOfRange   = errors.New("latitude must be in [-90, 90]")
	ErrInvalidTol      = errors.New("tolerance must be positive")
	ErrModelNotFound   = errors.New("model not found")
)

// ContextKey is the type used for context values set by the server middleware.
type ContextKey string

const (
	// ContextKeyRequestID carries the per-request UUID.
	ContextKeyRequestID ContextKey = "request_id"
	// ContextKeyRequestSource identifies where a request originated (server, cli).
	ContextKeyRequestSource ContextKey = "request_source"
)

// Normalization identifies the spherical-harmonic normalization convention
// of a coefficient set. The numeric values follow the SHTOOLS norm codes.
type Normalization int

const (
	// Geodesy4Pi is the geodesy 4-pi fully normalized convention (default).
	Geodesy4Pi Normalization = 1
	// Schmidt is the Schmidt semi-normalized convention.
	Schmidt Normalization = 2
	// Unnormalized uses plain associated Legendre functions.
	Unnormalized Normalization = 3
	// Orthonormal harmonics integrate to unity over the sphere.
	Orthonormal Normalization = 4
)

// String implements fmt.Stringer.
func (n Normalization) String() string {
	switch n {
	case Geodesy4Pi:
		return "4pi"
	case Schmidt:
		return "schmidt"
	case Unnormalized:
		return "unnorm"
	case Orthonormal:
		return "ortho"
	default:
		return fmt.Sprintf("normalization(%d)", int(n))
	}
}

// Valid reports whether n is one of the four supported conventions.
func (n Normalization) Valid() bool {
	return n >= Geodesy4Pi && n <= Orthonormal
}

// ParseNormalization converts a config/CLI string to a Normalization.
func ParseNormalization(s string) (Normalization, error) {
	switch s {
	case "4pi", "":
		return Geodesy4Pi, nil
	case "schmidt":
		return Schmidt, nil
	case "unnorm":
		return Unnormalized, nil
	case "ortho":
		return Orthonormal, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidNorm, s)
	}
}

// Check describes a reference-point self check for a model: the expanded
// field evaluated at (Lat, Lon) must equal Want within an absolute
// tolerance of Tol.
type Check struct {
	Lat  float64 `json:"lat" yaml:"lat" mapstructure:"lat"`
	Lon  float64 `json:"lon" yaml:"lon" mapstructure:"lon"`
	Want float64 `json:"want" yaml:"want" mapstructure:"want"`
	Tol  float64 `json:"tol" yaml:"tol" mapstructure:"tol"`
}

// Validate checks that the Check is well formed.
func (c *Check) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return ErrLatOutOfRange
	}
	if c.Tol <= 0 {
		return ErrInvalidTol
	}
	return nil
}
