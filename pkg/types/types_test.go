package types

import (
	"errors"
	"testing"
)

func TestParseNormalization(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Normalization
		wantErr bool
	}{
		{name: "4pi", input: "4pi", want: Geodesy4Pi},
		{name: "empty defaults to 4pi", input: "", want: Geodesy4Pi},
		{name: "schmidt", input: "schmidt", want: Schmidt},
		{name: "unnorm", input: "unnorm", want: Unnormalized},
		{name: "ortho", input: "ortho", want: Orthonormal},
		{name: "unknown", input: "geodesy", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNormalization(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseNormalization(%q) expected error, got %v", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidNorm) {
					t.Errorf("expected ErrInvalidNorm, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseNormalization(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseNormalization(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizationString(t *testing.T) {
	if Geodesy4Pi.String() != "4pi" {
		t.Errorf("Geodesy4Pi.String() = %q", Geodesy4Pi.String())
	}
	if Normalization(9).Valid() {
		t.Error("Normalization(9) should not be valid")
	}
}

func TestCheckValidation(t *testing.T) {
	tests := []struct {
		name    string
		check   Check
		wantErr error
	}{
		{
			name:    "valid check",
			check:   Check{Lat: 10, Lon: 30, Want: 3395259.548270001, Tol: 1e-9},
			wantErr: nil,
		},
		{
			name:    "latitude out of range",
			check:   Check{Lat: 91, Lon: 0, Want: 1, Tol: 1e-9},
			wantErr: ErrLatOutOfRange,
		},
		{
			name:    "zero tolerance",
			check:   Check{Lat: 0, Lon: 0, Want: 1, Tol: 0},
			wantErr: ErrInvalidTol,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check.Validate()
			if err != tt.wantErr {
				t.Errorf("Check.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
