package toolpath

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// MapDepths converts a grid of normalized intensity samples in [0,1] into
// a grid of target cutting depths in mm.
//
// The mapping is linear with the darker-is-deeper convention: intensity 0
// (black) maps to -maxDepth, intensity 1 (white) maps to 0 (the stock
// surface). Depths are therefore always <= 0; every downstream stage
// relies on this sign convention.
//
// The sample grid is never written to; a new depth grid of the same
// dimensions is returned.
func MapDepths(samples *mat.Dense, maxDepth float64) (*mat.Dense, error) {
	if samples == nil {
		return nil, fmt.Errorf("%w: nil sample grid", ErrEmptyInput)
	}
	rows, cols := samples.Dims()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("%w: %dx%d sample grid", ErrEmptyInput, rows, cols)
	}
	if maxDepth <= 0 {
		return nil, fmt.Errorf("%w: max depth must be positive, got %g", ErrInvalidParameter, maxDepth)
	}

	depths := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			depths.Set(r, c, -(1-samples.At(r, c))*maxDepth)
		}
	}
	return depths, nil
}
