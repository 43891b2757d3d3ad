package shio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/planetdyn/shtk/pkg/types"
)

// ParquetWriter exports grids and coefficient sets to Parquet files.
type ParquetWriter struct {
	baseDir string
}

// NewParquetWriter creates a writer rooted at baseDir. Subdirectories for
// grids and coefficient sets are created up front.
func NewParquetWriter(baseDir string) (*ParquetWriter, error) {
	for _, d := range []string{"grids", "coeffs"} {
		if err := os.MkdirAll(filepath.Join(baseDir, d), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}
	return &ParquetWriter{baseDir: baseDir}, nil
}

// ParquetGridRow is the schema for one grid sample.
type ParquetGridRow struct {
	Model string  `parquet:"model"`
	Lat   float64 `parquet:"lat"`
	Lon   float64 `parquet:"lon"`
	Value float64 `parquet:"value"`
}

// ParquetCoeffRow is the schema for one coefficient record.
type ParquetCoeffRow struct {
	Model  string  `parquet:"model"`
	Degree int32   `parquet:"degree"`
	Order  int32   `parquet:"order"`
	C      float64 `parquet:"c"`
	S      float64 `parquet:"s"`
}

// WriteGrid writes every grid sample to a timestamped Parquet file and
// returns its path.
func (w *ParquetWriter) WriteGrid(ctx context.Context, g *types.Grid) (string, error) {
	if err := g.Validate(); err != nil {
		return "", err
	}
	rows := make([]ParquetGridRow, 0, len(g.Vals))
	for i := 0; i < g.NLat; i++ {
		for j := 0; j < g.NLon; j++ {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			rows = append(rows, ParquetGridRow{
				Model: g.Name,
				Lat:   g.LatAt(i),
				Lon:   g.LonAt(j),
				Value: g.At(i, j),
			})
		}
	}
	path := w.timestampedPath("grids", g.Name)
	if err := parquet.WriteFile(path, rows); err != nil {
		return "", fmt.Errorf("failed to write grid parquet file: %w", err)
	}
	return path, nil
}

// WriteCoeffs writes a coefficient set to a timestamped Parquet file and
// returns its path.
func (w *ParquetWriter) WriteCoeffs(ctx context.Context, c *types.Coeffs) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	rows := make([]ParquetCoeffRow, 0, (c.LMax+1)*(c.LMax+2)/2)
	for l := 0; l <= c.LMax; l++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		for m := 0; m <= l; m++ {
			rows = append(rows, ParquetCoeffRow{
				Model:  c.Name,
				Degree: int32(l),
				Order:  int32(m),
				C:      c.C[l][m],
				S:      c.S[l][m],
			})
		}
	}
	path := w.timestampedPath("coeffs", c.Name)
	if err := parquet.WriteFile(path, rows); err != nil {
		return "", fmt.Errorf("failed to write coefficient parquet file: %w", err)
	}
	return path, nil
}

func (w *ParquetWriter) timestampedPath(kind, name string) string {
	if name == "" {
		name = "unnamed"
	}
	filename := fmt.Sprintf("%s_%s_%d.parquet", name,
		time.Now().Format("20060102_150405"), time.Now().UnixNano())
	return filepath.Join(w.baseDir, kind, filename)
}
