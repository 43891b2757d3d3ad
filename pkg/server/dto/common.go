// Package dto defines the request and response bodies of the HTTP API.
package dto

import (
	"errors"
	"strings"
)

// Validation errors shared by request types.
var (
	ErrEmptyModel    = errors.New("model cannot be empty")
	ErrLatOutOfRange = errors.New("lat must be in [-90, 90]")
	ErrBadSampling   = errors.New("sampling must be 1 or 2")
	ErrBadTolerance  = errors.New("tol must be positive")
)

// Result represents a generic API result
type Result struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// LoadModelRequest asks the server to load a coefficient file.
type LoadModelRequest struct {
	Name string `json:"name" binding:"required"`
	// Path is optional; empty means resolve via data dir or catalog.
	Path string `json:"path,omitempty"`
}

// Validate performs validation on LoadModelRequest
func (r *LoadModelRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyModel
	}
	return nil
}

// ModelInfo summarizes a loaded model.
type ModelInfo struct {
	Name  string `json:"name"`
	LMax  int    `json:"lmax"`
	Norm  string `json:"norm"`
	Units string `json:"units,omitempty"`
}
