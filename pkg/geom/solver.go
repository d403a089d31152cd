package geom

import (
	"math"

	"github.com/vennkit/vennkit/pkg/errors"
)

// Solver tolerances. The area tolerance matches the reference behavior of the
// layout system; the width tolerance terminates the bracket when it collapses
// to numerical noise, which bounds the iteration count well below MaxSolverIterations.
const (
	AreaTolerance  = 0.005
	widthTolerance = 1e-9

	// MaxSolverIterations caps the bisection loop. Exceeding it means the
	// monotonicity precondition was violated, which is an implementation bug.
	MaxSolverIterations = 100
)

// SolveSeparation finds the center distance d ∈ [0, 2r] at which two circles
// of radius r overlap in a lens of the target area. The lens area is
// monotonically non-increasing in d, so the bracket [0, 2r] always contains
// the answer and bisection converges.
//
// Returns ErrCodeUnsolvableSeparation if targetArea lies outside [0, πr²]
// before any iteration begins; the caller must choose a larger radius or a
// smaller requested area. An exhausted iteration cap is reported as
// ErrCodeInternal: it cannot occur for a correct area function.
func SolveSeparation(r, targetArea float64) (float64, error) {
	if r <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "radius must be positive, got %g", r)
	}
	maxArea := math.Pi * r * r
	if targetArea < 0 || targetArea > maxArea+AreaTolerance {
		return 0, errors.New(errors.ErrCodeUnsolvableSeparation,
			"target lens area %.4f outside reachable range [0, %.4f] at radius %.3f", targetArea, maxArea, r)
	}

	lo, hi := 0.0, 2*r
	for i := 0; i < MaxSolverIterations; i++ {
		mid := (lo + hi) / 2
		area := LensArea(r, mid)

		if math.Abs(area-targetArea) < AreaTolerance || hi-lo < widthTolerance {
			return mid, nil
		}
		if area > targetArea {
			lo = mid
		} else {
			hi = mid
		}
	}

	return 0, errors.New(errors.ErrCodeInternal,
		"separation solver failed to converge for radius %.3f target %.4f", r, targetArea)
}
