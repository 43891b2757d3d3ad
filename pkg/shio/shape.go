// Package shio reads and writes spherical-harmonic coefficient files and
// exports grids and coefficient sets to Parquet.
package shio

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/planetdyn/shtk/pkg/types"
)

// ReadOptions controls parsing of .shape coefficient files.
type ReadOptions struct {
	// LMax caps the degree read from the file when positive; records of
	// higher degree are skipped. The returned set's LMax is the highest
	// degree actually read.
	LMax int

	// Skip is the number of header lines to skip before the records.
	Skip int

	// Norm is the normalization to tag the coefficients with. Files do
	// not carry it; defaults to geodesy 4-pi.
	Norm types.Normalization
}

type record struct {
	l, m int
	c, s float64
}

// ReadShape parses a .shape file: whitespace-separated records of
// "l m Clm Slm", one per line. Opts may be nil.
func ReadShape(path string, opts *ReadOptions) (*types.Coeffs, error) {
	if path == "" {
		return nil, types.ErrEmptyPath
	}
	maxL := 0
	skip := 0
	norm := types.Geodesy4Pi
	if opts != nil {
		maxL = opts.LMax
		skip = opts.Skip
		if opts.Norm != 0 {
			norm = opts.Norm
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open coefficient file: %w", err)
	}
	defer f.Close()

	var records []record
	maxDeg := 0
	lineNo := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		if lineNo <= skip {
			continue
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		rec, err := parseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filepath.Base(path), lineNo, err)
		}
		if maxL > 0 && rec.l > maxL {
			continue
		}
		if rec.l > maxDeg {
			maxDeg = rec.l
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read coefficient file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: no coefficient records found", filepath.Base(path))
	}

	coeffs, err := types.NewCoeffs(maxDeg, norm)
	if err != nil {
		return nil, err
	}
	coeffs.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for _, rec := range records {
		if err := coeffs.Set(rec.l, rec.m, rec.c, rec.s); err != nil {
			return nil, err
		}
	}
	return coeffs, nil
}

func parseRecord(line string) (record, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return record{}, fmt.Errorf("expected at least 4 fields, got %d", len(fields))
	}
	l, err := strconv.Atoi(fields[0])
	if err != nil {
		return record{}, fmt.Errorf("invalid degree %q", fields[0])
	}
	m, err := strconv.Atoi(fields[1])
	if err != nil {
		return record{}, fmt.Errorf("invalid order %q", fields[1])
	}
	if l < 0 {
		return record{}, types.ErrInvalidDegree
	}
	if m < 0 || m > l {
		return record{}, fmt.Errorf("%w: l=%d, m=%d", types.ErrInvalidOrder, l, m)
	}
	c, err := parseFloat(fields[2])
	if err != nil {
		return record{}, fmt.Errorf("invalid cosine coefficient %q", fields[2])
	}
	s, err := parseFloat(fields[3])
	if err != nil {
		return record{}, fmt.Errorf("invalid sine coefficient %q", fields[3])
	}
	return record{l: l, m: m, c: c, s: s}, nil
}

// parseFloat accepts Fortran-style D exponents alongside the usual E.
func parseFloat(s string) (float64, error) {
	s = strings.ReplaceAll(strings.ReplaceAll(s, "D", "E"), "d", "e")
	return strconv.ParseFloat(s, 64)
}

// WriteShape writes a coefficient set in the .shape record format.
func WriteShape(path string, c *types.Coeffs) error {
	if path == "" {
		return types.ErrEmptyPath
	}
	if err := c.Validate(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create coefficient file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for l := 0; l <= c.LMax; l++ {
		for m := 0; m <= l; m++ {
			if _, err := fmt.Fprintf(w, "%5d %5d %24.16e %24.16e\n",
				l, m, c.C[l][m], c.S[l][m]); err != nil {
				return fmt.Errorf("failed to write record: %w", err)
			}
		}
	}
	return w.Flush()
}
