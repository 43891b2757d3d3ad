package types

import (
	"fmt"
	"math"
)

// Grid is a regular latitude/longitude grid of a scalar field on the
// sphere, laid out like a Driscoll and Healy sampled grid. Values are
// stored row-major: Vals[i*NLon+j], with row 0 at 90N and column 0 at 0E,
// latitude decreasing with i and longitude increasing with j.
//
// N is the number of latitude bands of the underlying grid. Without the
// extended row/column the grid covers [90, -90) x [0, 360); Extend adds
// the redundant 360E column and the 90S row.
type Grid struct {
	Vals []float64

	N        int
	Sampling int
	Extend   bool
	NLat     int
	NLon     int

	// LMax is the maximum degree resolvable by the grid spacing.
	LMax int

	Name  string
	Units string
}

// NewGrid allocates a zeroed grid with n latitude bands.
func NewGrid(n, sampling int, extend bool) (*Grid, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid number of latitude bands: %d", n)
	}
	if sampling != 1 && sampling != 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampling, sampling)
	}
	g := &Grid{
		N:        n,
		Sampling: sampling,
		Extend:   extend,
		NLat:     n,
		NLon:     n * sampling,
	}
	if extend {
		g.NLat++
		g.NLon++
	}
	g.Vals = make([]float64, g.NLat*g.NLon)
	return g, nil
}

// Validate checks structural consistency of the grid.
func (g *Grid) Validate() error {
	if g == nil || len(g.Vals) == 0 {
		return ErrEmptyGrid
	}
	if g.Sampling != 1 && g.Sampling != 2 {
		return fmt.Errorf("%w: %d", ErrInvalidSampling, g.Sampling)
	}
	if len(g.Vals) != g.NLat*g.NLon {
		return fmt.Errorf("grid has %d values, expected %d", len(g.Vals), g.NLat*g.NLon)
	}
	return nil
}

// LatStep returns the latitude spacing in degrees.
func (g *Grid) LatStep() float64 { return 180.0 / float64(g.N) }

// LonStep returns the longitude spacing in degrees.
func (g *Grid) LonStep() float64 { return 360.0 / float64(g.N*g.Sampling) }

// LatAt returns the latitude of row i in degrees.
func (g *Grid) LatAt(i int) float64 { return 90.0 - float64(i)*g.LatStep() }

// LonAt returns the longitude of column j in degrees.
func (g *Grid) LonAt(j int) float64 { return float64(j) * g.LonStep() }

// At returns the value at row i, column j.
func (g *Grid) At(i, j int) float64 { return g.Vals[i*g.NLon+j] }

// SetAt assigns the value at row i, column j.
func (g *Grid) SetAt(i, j int, v float64) { g.Vals[i*g.NLon+j] = v }

// Lookup returns the nearest-neighbour value at (lat N, lon E) in degrees.
// Longitude wraps; latitude is clamped to the grid.
func (g *Grid) Lookup(lat, lon float64) float64 {
	i := int(math.Round((90.0 - lat) / g.LatStep()))
	if i < 0 {
		i = 0
	}
	if i > g.NLat-1 {
		i = g.NLat - 1
	}
	lon = math.Mod(lon, 360.0)
	if lon < 0 {
		lon += 360.0
	}
	j := int(math.Round(lon/g.LonStep())) % (g.N * g.Sampling)
	return g.At(i, j)
}

// Interpolate returns the bilinearly interpolated value at (lat N, lon E)
// in degrees. Longitude wraps around the grid; latitudes south of the last
// row are an error for non-extended grids.
func (g *Grid) Interpolate(lat, lon float64) (float64, error) {
	if lat < -90 || lat > 90 {
		return 0, ErrLatOutOfRange
	}
	fi := (90.0 - lat) / g.LatStep()
	i0 := int(math.Floor(fi))
	if i0 >= g.NLat-1 {
		if fi > float64(g.NLat-1)+1e-12 {
			return 0, fmt.Errorf("latitude %g below southernmost grid row", lat)
		}
		i0 = g.NLat - 2
	}
	ti := fi - float64(i0)

	lon = math.Mod(lon, 360.0)
	if lon < 0 {
		lon += 360.0
	}
	fj := lon / g.LonStep()
	nlon := g.N * g.Sampling
	j0 := int(math.Floor(fj)) % nlon
	j1 := (j0 + 1) % nlon
	tj := fj - math.Floor(fj)

	v00 := g.At(i0, j0)
	v01 := g.At(i0, j1)
	v10 := g.At(i0+1, j0)
	v11 := g.At(i0+1, j1)

	v := v00*(1-ti)*(1-tj) + v01*(1-ti)*tj + v10*ti*(1-tj) + v11*ti*tj
	return v, nil
}
