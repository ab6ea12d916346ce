package toolpath

import (
	"fmt"
	"math"
)

// Params holds the machining configuration for a single generation run.
// A Params value is treated as immutable once validated: the pipeline
// copies it by value and never writes back.
type Params struct {
	// PixelSize is the physical size of one heightmap sample in mm. It is
	// only consulted when Width or Height are zero, in which case the
	// toolpath dimensions are derived from the grid size. When both the
	// explicit dimensions and the pixel size are set, the explicit
	// dimensions take precedence.
	PixelSize float64

	// MaxDepth is the maximum cutting depth in mm, as a positive
	// magnitude. Black samples cut to this depth.
	MaxDepth float64

	// SafeZ is the height in mm above the stock surface that is
	// guaranteed collision free for rapid moves.
	SafeZ float64

	// FeedXY is the cutting feed rate for lateral moves in mm/min.
	FeedXY float64

	// FeedZ is the feed rate for plunge and retract moves in mm/min.
	FeedZ float64

	// SpindleSpeed is the spindle speed in RPM.
	SpindleSpeed float64

	// StepDown is the depth increment per pass in mm. Must be positive
	// and no larger than MaxDepth.
	StepDown float64

	// Margin is the boundary margin in mm kept clear on all four sides of
	// the toolpath rectangle.
	Margin float64

	// Width and Height are the total toolpath dimensions in mm.
	Width  float64
	Height float64

	// Subdivisions is the number of interpolated waypoints inserted
	// between each pair of adjacent samples along the scan direction.
	Subdivisions int

	// RetractBetweenRows controls whether the tool retracts to SafeZ at
	// the end of every row, or only between passes.
	RetractBetweenRows bool

	// PassEpsilon is the minimum depth delta of the final pass. A last
	// pass whose increment over the previous pass is below this threshold
	// is folded into the previous pass instead of producing a near-zero
	// kiss cut.
	PassEpsilon float64
}

// DefaultParams returns the parameter set the original tool started with.
func DefaultParams() Params {
	return Params{
		PixelSize:          0.1,
		MaxDepth:           2.0,
		SafeZ:              2.0,
		FeedXY:             300,
		FeedZ:              100,
		SpindleSpeed:       20000,
		StepDown:           2.0,
		Margin:             0,
		Subdivisions:       0,
		RetractBetweenRows: true,
		PassEpsilon:        0.01,
	}
}

// DeriveDimensions fills in Width and Height from the grid size and
// PixelSize when they are unset. Explicitly set dimensions win over the
// pixel-size derivation.
func (p *Params) DeriveDimensions(rows, cols int) {
	if p.Width <= 0 && p.PixelSize > 0 {
		p.Width = float64(cols) * p.PixelSize
	}
	if p.Height <= 0 && p.PixelSize > 0 {
		p.Height = float64(rows) * p.PixelSize
	}
}

// Validate checks the parameter set for out-of-range and mutually
// inconsistent values. It returns an error wrapping ErrInvalidParameter on
// the first violation found. Invalid configuration is never clamped.
func (p Params) Validate() error {
	if p.MaxDepth <= 0 {
		return fmt.Errorf("%w: max depth must be positive, got %g", ErrInvalidParameter, p.MaxDepth)
	}
	if p.StepDown <= 0 {
		return fmt.Errorf("%w: step-down must be positive, got %g", ErrInvalidParameter, p.StepDown)
	}
	if p.StepDown > p.MaxDepth {
		return fmt.Errorf("%w: step-down %g exceeds max depth %g", ErrInvalidParameter, p.StepDown, p.MaxDepth)
	}
	if p.SafeZ <= 0 {
		return fmt.Errorf("%w: safe Z must be positive, got %g", ErrInvalidParameter, p.SafeZ)
	}
	if p.FeedXY <= 0 {
		return fmt.Errorf("%w: XY feed rate must be positive, got %g", ErrInvalidParameter, p.FeedXY)
	}
	if p.FeedZ <= 0 {
		return fmt.Errorf("%w: Z feed rate must be positive, got %g", ErrInvalidParameter, p.FeedZ)
	}
	if p.SpindleSpeed <= 0 {
		return fmt.Errorf("%w: spindle speed must be positive, got %g", ErrInvalidParameter, p.SpindleSpeed)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: toolpath dimensions must be positive, got %gx%g", ErrInvalidParameter, p.Width, p.Height)
	}
	if p.Margin < 0 {
		return fmt.Errorf("%w: boundary margin must not be negative, got %g", ErrInvalidParameter, p.Margin)
	}
	if 2*p.Margin >= math.Min(p.Width, p.Height) {
		return fmt.Errorf("%w: boundary margin %g leaves no machining area inside %gx%g",
			ErrInvalidParameter, p.Margin, p.Width, p.Height)
	}
	if p.Subdivisions < 0 {
		return fmt.Errorf("%w: subdivisions must not be negative, got %d", ErrInvalidParameter, p.Subdivisions)
	}
	if p.PassEpsilon < 0 {
		return fmt.Errorf("%w: pass epsilon must not be negative, got %g", ErrInvalidParameter, p.PassEpsilon)
	}
	return nil
}
