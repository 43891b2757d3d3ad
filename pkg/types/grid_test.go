package types

import (
	"math"
	"testing"
)

func TestNewGrid(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		sampling int
		extend   bool
		wantLat  int
		wantLon  int
	}{
		{name: "equally sampled", n: 8, sampling: 1, wantLat: 8, wantLon: 8},
		{name: "equally spaced", n: 8, sampling: 2, wantLat: 8, wantLon: 16},
		{name: "extended", n: 8, sampling: 2, extend: true, wantLat: 9, wantLon: 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGrid(tt.n, tt.sampling, tt.extend)
			if err != nil {
				t.Fatalf("NewGrid error = %v", err)
			}
			if g.NLat != tt.wantLat || g.NLon != tt.wantLon {
				t.Errorf("grid is %dx%d, want %dx%d", g.NLat, g.NLon, tt.wantLat, tt.wantLon)
			}
			if len(g.Vals) != tt.wantLat*tt.wantLon {
				t.Errorf("Vals has %d entries, want %d", len(g.Vals), tt.wantLat*tt.wantLon)
			}
			if err := g.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}

	if _, err := NewGrid(8, 3, false); err == nil {
		t.Error("sampling=3 should be rejected")
	}
	if _, err := NewGrid(0, 1, false); err == nil {
		t.Error("n=0 should be rejected")
	}
}

func TestGridCoordinates(t *testing.T) {
	g, _ := NewGrid(4, 2, false) // 45 degree lat step, 45 degree lon step

	if got := g.LatAt(0); got != 90 {
		t.Errorf("LatAt(0) = %g, want 90", got)
	}
	if got := g.LatAt(2); got != 0 {
		t.Errorf("LatAt(2) = %g, want 0", got)
	}
	if got := g.LonAt(3); got != 135 {
		t.Errorf("LonAt(3) = %g, want 135", got)
	}
}

func TestGridLookup(t *testing.T) {
	g, _ := NewGrid(4, 2, false)
	for i := 0; i < g.NLat; i++ {
		for j := 0; j < g.NLon; j++ {
			g.SetAt(i, j, float64(i*100+j))
		}
	}

	// Exact node.
	if got := g.Lookup(45, 90); got != 102 {
		t.Errorf("Lookup(45,90) = %g, want 102", got)
	}
	// Nearest neighbour rounding.
	if got := g.Lookup(44, 91); got != 102 {
		t.Errorf("Lookup(44,91) = %g, want 102", got)
	}
	// Longitude wraps.
	if got := g.Lookup(90, 359); got != g.At(0, 0) {
		t.Errorf("Lookup near 360E = %g, want wrap to column 0", got)
	}
	// Negative longitudes are normalized.
	if got := g.Lookup(45, -270); got != 102 {
		t.Errorf("Lookup(45,-270) = %g, want 102", got)
	}
	// Latitude clamps at the poles.
	if got := g.Lookup(200, 0); got != g.At(0, 0) {
		t.Errorf("Lookup above north pole = %g", got)
	}
}

func TestGridInterpolate(t *testing.T) {
	g, _ := NewGrid(4, 2, false)
	// A field linear in row index interpolates exactly.
	for i := 0; i < g.NLat; i++ {
		for j := 0; j < g.NLon; j++ {
			g.SetAt(i, j, float64(i))
		}
	}

	v, err := g.Interpolate(67.5, 10) // halfway between rows 0 and 1
	if err != nil {
		t.Fatalf("Interpolate error = %v", err)
	}
	if math.Abs(v-0.5) > 1e-12 {
		t.Errorf("Interpolate(67.5,10) = %g, want 0.5", v)
	}

	// Grid nodes reproduce exactly.
	v, err = g.Interpolate(45, 90)
	if err != nil {
		t.Fatalf("Interpolate error = %v", err)
	}
	if math.Abs(v-1.0) > 1e-12 {
		t.Errorf("Interpolate(45,90) = %g, want 1", v)
	}

	if _, err := g.Interpolate(95, 0); err == nil {
		t.Error("latitude beyond 90 should error")
	}
	if _, err := g.Interpolate(-89, 0); err == nil {
		t.Error("latitude south of the last row should error for non-extended grids")
	}
}
