package geom

import (
	"math"
	"testing"

	"github.com/vennkit/vennkit/pkg/errors"
)

func TestSolveSeparation(t *testing.T) {
	tests := []struct {
		name   string
		r      float64
		target float64
	}{
		{"SmallLens", 2.2, 1.0},
		{"HalfArea", 2.2, math.Pi * 2.2 * 2.2 / 2},
		{"NearFull", 2.2, math.Pi*2.2*2.2 - 0.1},
		{"NearZero", 2.2, 0.05},
		{"UnitRadius", 1.0, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := SolveSeparation(tt.r, tt.target)
			if err != nil {
				t.Fatalf("SolveSeparation: %v", err)
			}
			if d < 0 || d > 2*tt.r {
				t.Fatalf("d = %g outside [0, %g]", d, 2*tt.r)
			}
			if got := LensArea(tt.r, d); math.Abs(got-tt.target) > AreaTolerance {
				t.Errorf("LensArea(r, d) = %g, want %g within %g", got, tt.target, AreaTolerance)
			}
		})
	}
}

func TestSolveSeparationExactBounds(t *testing.T) {
	// Target zero collapses toward a touching configuration.
	d, err := SolveSeparation(1, 0)
	if err != nil {
		t.Fatalf("SolveSeparation(1, 0): %v", err)
	}
	if area := LensArea(1, d); area > AreaTolerance {
		t.Errorf("area at solved d = %g, want ~0", area)
	}

	// Target of the full disk area collapses toward full overlap.
	d, err = SolveSeparation(1, math.Pi)
	if err != nil {
		t.Fatalf("SolveSeparation(1, pi): %v", err)
	}
	if area := LensArea(1, d); math.Abs(area-math.Pi) > AreaTolerance {
		t.Errorf("area at solved d = %g, want ~pi", area)
	}
}

func TestSolveSeparationErrors(t *testing.T) {
	tests := []struct {
		name     string
		r        float64
		target   float64
		wantCode errors.Code
	}{
		{"NegativeRadius", -1, 1, errors.ErrCodeInvalidInput},
		{"ZeroRadius", 0, 1, errors.ErrCodeInvalidInput},
		{"NegativeTarget", 1, -0.1, errors.ErrCodeUnsolvableSeparation},
		{"TargetExceedsDisk", 1, math.Pi + 1, errors.ErrCodeUnsolvableSeparation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SolveSeparation(tt.r, tt.target)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestSolveSeparationDeterministic(t *testing.T) {
	d1, err1 := SolveSeparation(2.2, 5.46959)
	d2, err2 := SolveSeparation(2.2, 5.46959)
	if err1 != nil || err2 != nil {
		t.Fatalf("errors: %v, %v", err1, err2)
	}
	if d1 != d2 {
		t.Errorf("solver not deterministic: %g vs %g", d1, d2)
	}
}
