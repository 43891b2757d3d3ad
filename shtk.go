package shtk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/planetdyn/shtk/pkg/catalog"
	"github.com/planetdyn/shtk/pkg/sh"
	"github.com/planetdyn/shtk/pkg/shio"
	"github.com/planetdyn/shtk/pkg/types"
)

// Config holds client-level defaults.
type Config struct {
	// DataDir is searched for "<name>.shape" when LoadModel gets no
	// explicit path.
	DataDir string

	// DefaultNorm tags coefficient files that do not declare a
	// normalization. Zero means geodesy 4-pi.
	DefaultNorm types.Normalization

	// CondonShortley marks loaded coefficients as carrying the (-1)^m
	// phase.
	CondonShortley bool

	// LMaxCalc truncates every evaluation and synthesis when positive.
	LMaxCalc int
}

// VerifyResult reports the outcome of a reference-point check.
type VerifyResult struct {
	Model string  `json:"model"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Value float64 `json:"value"`
	Want  float64 `json:"want"`
	Diff  float64 `json:"diff"`
	Tol   float64 `json:"tol"`
	OK    bool    `json:"ok"`
}

// Client implements Toolkit.
type Client struct {
	config *Config
	logger *slog.Logger

	mu     sync.RWMutex
	models map[string]*types.Coeffs

	// Optional collaborators.
	index    *catalog.Index
	fetcher  catalog.Fetcher
	exporter *shio.ParquetWriter
}

var _ Toolkit = (*Client)(nil)

// NewClient creates a new toolkit client. Logger may be nil, in which
// case logging is discarded.
func NewClient(cfg *Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.DefaultNorm == 0 {
		cfg.DefaultNorm = types.Geodesy4Pi
	}
	if !cfg.DefaultNorm.Valid() {
		return nil, fmt.Errorf("%w: %d", types.ErrInvalidNorm, int(cfg.DefaultNorm))
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		config: cfg,
		logger: logger,
		models: make(map[string]*types.Coeffs),
	}, nil
}

// WithCatalog attaches a model catalog used to resolve names that are
// not present on disk.
func (c *Client) WithCatalog(idx *catalog.Index, fetcher catalog.Fetcher) *Client {
	c.index = idx
	c.fetcher = fetcher
	return c
}

// WithExporter attaches a Parquet writer for ExportGrid and ExportCoeffs.
func (c *Client) WithExporter(w *shio.ParquetWriter) *Client {
	c.exporter = w
	return c
}

// LoadModel implements ModelStore.
func (c *Client) LoadModel(ctx context.Context, name, path string) (*types.Coeffs, error) {
	if name == "" {
		return nil, types.ErrEmptyName
	}
	var err error
	if path == "" {
		path, err = c.resolve(ctx, name)
		if err != nil {
			return nil, err
		}
	}

	start := time.Now()
	coeffs, err := shio.ReadShape(path, &shio.ReadOptions{Norm: c.config.DefaultNorm})
	if err != nil {
		return nil, fmt.Errorf("failed to load model %q: %w", name, err)
	}
	coeffs.Name = name
	coeffs.CondonShortley = c.config.CondonShortley

	c.mu.Lock()
	c.models[name] = coeffs
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "Model loaded and persisted to registry",
		"model", name, "lmax", coeffs.LMax, "duration", time.Since(start))
	return coeffs, nil
}

// resolve finds a coefficient file for name: the data directory first,
// then the catalog.
func (c *Client) resolve(ctx context.Context, name string) (string, error) {
	if c.config.DataDir != "" {
		p := filepath.Join(c.config.DataDir, name+".shape")
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	if c.index != nil && c.fetcher != nil {
		entry, err := c.index.Find(name)
		if err != nil {
			return "", err
		}
		c.logger.InfoContext(ctx, "Fetching model from catalog", "model", name, "url", entry.URL)
		return c.fetcher.Fetch(ctx, entry)
	}
	return "", fmt.Errorf("%w: %q has no local file and no catalog is configured",
		types.ErrModelNotFound, name)
}

// GetModel implements ModelStore.
func (c *Client) GetModel(_ context.Context, name string) (*types.Coeffs, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	coeffs, ok := c.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrModelNotFound, name)
	}
	return coeffs, nil
}

// ListModels implements ModelStore.
func (c *Client) ListModels(_ context.Context) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.models))
	for n := range c.models {
		names = append(names, n)
	}
	return names
}

// RemoveModel implements ModelStore.
func (c *Client) RemoveModel(_ context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.models[name]; !ok {
		return fmt.Errorf("%w: %q", types.ErrModelNotFound, name)
	}
	delete(c.models, name)
	return nil
}

// EvalPoint implements Evaluator.
func (c *Client) EvalPoint(ctx context.Context, model string, lat, lon float64) (float64, error) {
	coeffs, err := c.GetModel(ctx, model)
	if err != nil {
		return 0, err
	}
	val, err := sh.EvalPoint(coeffs, lat, lon, &sh.EvalOptions{LMaxCalc: c.config.LMaxCalc})
	if err != nil {
		return 0, fmt.Errorf("failed to evaluate model %q: %w", model, err)
	}
	c.logger.DebugContext(ctx, "Point evaluated", "model", model, "lat", lat, "lon", lon, "value", val)
	return val, nil
}

// Expand implements Evaluator.
func (c *Client) Expand(ctx context.Context, model string, opts *sh.ExpandOptions) (*types.Grid, error) {
	coeffs, err := c.GetModel(ctx, model)
	if err != nil {
		return nil, err
	}
	var o sh.ExpandOptions
	if opts != nil {
		o = *opts
	}
	if o.LMaxCalc == 0 {
		o.LMaxCalc = c.config.LMaxCalc
	}

	start := time.Now()
	grid, err := sh.ExpandDH(coeffs, &o)
	if err != nil {
		return nil, fmt.Errorf("failed to expand model %q: %w", model, err)
	}
	c.logger.InfoContext(ctx, "Grid synthesized",
		"model", model, "nlat", grid.NLat, "nlon", grid.NLon, "duration", time.Since(start))
	return grid, nil
}

// Verify implements Evaluator.
func (c *Client) Verify(ctx context.Context, model string, check types.Check) (*VerifyResult, error) {
	if err := check.Validate(); err != nil {
		return nil, err
	}
	val, err := c.EvalPoint(ctx, model, check.Lat, check.Lon)
	if err != nil {
		return nil, err
	}
	res := &VerifyResult{
		Model: model,
		Lat:   check.Lat,
		Lon:   check.Lon,
		Value: val,
		Want:  check.Want,
		Diff:  val - check.Want,
		Tol:   check.Tol,
		OK:    math.Abs(val-check.Want) <= check.Tol,
	}
	if res.OK {
		c.logger.InfoContext(ctx, "Model verified", "model", model, "diff", res.Diff)
	} else {
		c.logger.ErrorContext(ctx, "Model verification failed",
			"model", model, "diff", res.Diff, "tol", check.Tol)
	}
	return res, nil
}

// ErrNoExporter is returned when export is requested without a writer.
var ErrNoExporter = errors.New("no parquet exporter configured")

// ExportGrid implements Exporter.
func (c *Client) ExportGrid(ctx context.Context, grid *types.Grid) (string, error) {
	if c.exporter == nil {
		return "", ErrNoExporter
	}
	path, err := c.exporter.WriteGrid(ctx, grid)
	if err != nil {
		return "", err
	}
	c.logger.InfoContext(ctx, "Grid persisted to parquet", "path", path)
	return path, nil
}

// ExportCoeffs implements Exporter.
func (c *Client) ExportCoeffs(ctx context.Context, model string) (string, error) {
	if c.exporter == nil {
		return "", ErrNoExporter
	}
	coeffs, err := c.GetModel(ctx, model)
	if err != nil {
		return "", err
	}
	path, err := c.exporter.WriteCoeffs(ctx, coeffs)
	if err != nil {
		return "", err
	}
	c.logger.InfoContext(ctx, "Coefficients persisted to parquet", "model", model, "path", path)
	return path, nil
}

// Close implements Toolkit.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.models = make(map[string]*types.Coeffs)
	return nil
}
