// Package toolpath implements the planning half of the heightmap-to-G-code
// compiler: parameter validation, depth mapping, pass scheduling and raster
// path planning.
//
// All stages are pure and deterministic: given the same grid and parameters
// they produce the same waypoint sequence. Validation happens eagerly at the
// start of each stage, so no stage ever returns a partially built result.
package toolpath

import "errors"

var (
	// ErrInvalidParameter reports an out-of-range or mutually inconsistent
	// configuration value, such as a non-positive step-down or a boundary
	// margin too large for the toolpath dimensions.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrEmptyInput reports a zero-size sample grid.
	ErrEmptyInput = errors.New("empty input grid")

	// ErrNumericDegeneracy reports a grid with a single row or column,
	// which leaves the raster scan direction undefined.
	ErrNumericDegeneracy = errors.New("degenerate grid")
)
