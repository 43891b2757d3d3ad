package dto

import "strings"

// EvaluateRequest asks for a single point evaluation.
type EvaluateRequest struct {
	Model string  `json:"model" binding:"required"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// Validate performs validation on EvaluateRequest
func (r *EvaluateRequest) Validate() error {
	if strings.TrimSpace(r.Model) == "" {
		return ErrEmptyModel
	}
	if r.Lat < -90 || r.Lat > 90 {
		return ErrLatOutOfRange
	}
	return nil
}

// EvaluateResponse carries the evaluated value.
type EvaluateResponse struct {
	Model string  `json:"model"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Value float64 `json:"value"`
}

// ExpandRequest asks for grid synthesis.
type ExpandRequest struct {
	Model    string `json:"model" binding:"required"`
	Sampling int    `json:"sampling,omitempty"`
	Extend   bool   `json:"extend,omitempty"`
	LMaxCalc int    `json:"lmax_calc,omitempty"`

	// Export writes the grid to Parquet and returns the path.
	Export bool `json:"export,omitempty"`
}

// Validate performs validation on ExpandRequest
func (r *ExpandRequest) Validate() error {
	if strings.TrimSpace(r.Model) == "" {
		return ErrEmptyModel
	}
	if r.Sampling != 0 && r.Sampling != 1 && r.Sampling != 2 {
		return ErrBadSampling
	}
	return nil
}

// ExpandResponse summarizes a synthesized grid.
type ExpandResponse struct {
	Model string `json:"model"`
	NLat  int    `json:"nlat"`
	NLon  int    `json:"nlon"`
	LMax  int    `json:"lmax"`
	Path  string `json:"path,omitempty"`
}

// VerifyRequest asks for a reference-point self check.
type VerifyRequest struct {
	Model string  `json:"model" binding:"required"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Want  float64 `json:"want"`
	Tol   float64 `json:"tol"`
}

// Validate performs validation on VerifyRequest
func (r *VerifyRequest) Validate() error {
	if strings.TrimSpace(r.Model) == "" {
		return ErrEmptyModel
	}
	if r.Lat < -90 || r.Lat > 90 {
		return ErrLatOutOfRange
	}
	if r.Tol <= 0 {
		return ErrBadTolerance
	}
	return nil
}
