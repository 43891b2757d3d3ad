package shtk

import (
	"context"

	"github.com/planetdyn/shtk/pkg/sh"
	"github.com/planetdyn/shtk/pkg/types"
)

// This file defines focused interfaces; the main Toolkit interface is
// composed from them. Consumers should depend on the smallest interface
// that meets their needs.

// ModelStore manages the set of loaded, named coefficient models.
type ModelStore interface {
	// LoadModel reads a coefficient file and registers it under name.
	// An empty path resolves against the data directory and then the
	// catalog, when one is configured.
	LoadModel(ctx context.Context, name, path string) (*types.Coeffs, error)

	// GetModel returns a previously loaded model.
	GetModel(ctx context.Context, name string) (*types.Coeffs, error)

	// ListModels returns the names of all loaded models.
	ListModels(ctx context.Context) []string

	// RemoveModel unloads a model.
	RemoveModel(ctx context.Context, name string) error
}

// Evaluator evaluates loaded models.
type Evaluator interface {
	// EvalPoint evaluates a model at a geographic point in degrees.
	EvalPoint(ctx context.Context, model string, lat, lon float64) (float64, error)

	// Expand synthesizes a model on a Driscoll and Healy grid.
	Expand(ctx context.Context, model string, opts *sh.ExpandOptions) (*types.Grid, error)

	// Verify evaluates a reference-point check against a model.
	Verify(ctx context.Context, model string, check types.Check) (*VerifyResult, error)
}

// Exporter persists evaluation products.
type Exporter interface {
	// ExportGrid writes a grid to Parquet and returns the file path.
	ExportGrid(ctx context.Context, grid *types.Grid) (string, error)

	// ExportCoeffs writes a loaded model's coefficients to Parquet.
	ExportCoeffs(ctx context.Context, model string) (string, error)
}

// Toolkit is the full client surface.
type Toolkit interface {
	ModelStore
	Evaluator
	Exporter

	// Close releases resources held by the client.
	Close() error
}
