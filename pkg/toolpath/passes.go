package toolpath

import (
	"fmt"
	"math"
)

// SchedulePasses computes the ordered sequence of per-pass target depths
// for a cut of maxDepth mm taken in increments of stepDown mm. All depths
// are positive magnitudes; pass k targets min(k*stepDown, maxDepth).
//
// The returned sequence is non-empty and strictly increasing, and its last
// element is exactly maxDepth. A final pass whose depth increment over the
// previous pass would be below epsilon is folded into the previous pass,
// so the schedule never ends with a near-zero kiss cut.
func SchedulePasses(maxDepth, stepDown, epsilon float64) ([]float64, error) {
	if maxDepth <= 0 {
		return nil, fmt.Errorf("%w: max depth must be positive, got %g", ErrInvalidParameter, maxDepth)
	}
	if stepDown <= 0 {
		return nil, fmt.Errorf("%w: step-down must be positive, got %g", ErrInvalidParameter, stepDown)
	}

	total := int(math.Ceil(maxDepth / stepDown))
	if total < 1 {
		total = 1
	}
	passes := make([]float64, 0, total)
	for k := 1; k <= total; k++ {
		passes = append(passes, math.Min(float64(k)*stepDown, maxDepth))
	}

	// Fold a sub-epsilon final increment into the previous pass. The
	// previous pass is promoted to maxDepth so the last element stays
	// exact.
	if n := len(passes); n >= 2 && passes[n-1]-passes[n-2] < epsilon {
		passes[n-2] = maxDepth
		passes = passes[:n-1]
	}
	return passes, nil
}
