package toolpath

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"opencarve/internal/models"
)

// surfaceEps is the depth magnitude below which a sample is treated as
// untouched stock surface. Rows that sit entirely at the surface produce
// no cutting moves.
const surfaceEps = 1e-9

// Pass couples a scheduled target depth (positive magnitude, mm) with the
// waypoint sequence planned for that pass.
type Pass struct {
	Depth     float64
	Waypoints []models.Waypoint
}

// Plan walks the depth grid in a boustrophedon raster pattern and produces
// the ordered waypoint sequence for one machining pass.
//
// Grid cell (r,c) maps into the machining rectangle inset by the boundary
// margin: column 0 lands on x=margin, the last column on x=width-margin,
// and the top image row on y=height-margin so the image appears upright on
// the machine bed. Even rows scan left to right, odd rows right to left,
// which avoids a rapid back to the row start between rows.
//
// passDepth, when positive, caps the cut depth of every waypoint at that
// pass target: z = max(depth, -passDepth). A non-positive passDepth leaves
// depths unclipped.
//
// Rows whose samples all sit at the stock surface yield a single safe-Z
// rapid and no plunge. The tool retracts to safe Z at the end of every
// row when RetractBetweenRows is set, and always at the end of the pass.
func Plan(depths *mat.Dense, p Params, passDepth float64) ([]models.Waypoint, error) {
	if depths == nil {
		return nil, fmt.Errorf("%w: nil depth grid", ErrEmptyInput)
	}
	rows, cols := depths.Dims()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("%w: %dx%d depth grid", ErrEmptyInput, rows, cols)
	}
	if rows < 2 || cols < 2 {
		return nil, fmt.Errorf("%w: %dx%d depth grid has no scan direction", ErrNumericDegeneracy, rows, cols)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	innerW := p.Width - 2*p.Margin
	innerH := p.Height - 2*p.Margin
	stepX := innerW / float64(cols-1)
	stepY := innerH / float64(rows-1)

	clip := func(z float64) float64 {
		if passDepth > 0 && z < -passDepth {
			return -passDepth
		}
		return z
	}
	xAt := func(c int) float64 { return p.Margin + float64(c)*stepX }

	waypoints := make([]models.Waypoint, 0, rows*(cols*(p.Subdivisions+1)+2))
	atSafe := true

	for r := 0; r < rows; r++ {
		// Top image row machines at the far Y edge.
		y := p.Margin + float64(rows-1-r)*stepY

		order := make([]int, cols)
		for i := range order {
			if r%2 == 0 {
				order[i] = i
			} else {
				order[i] = cols - 1 - i
			}
		}

		surface := true
		for _, c := range order {
			if clip(depths.At(r, c)) < -surfaceEps {
				surface = false
				break
			}
		}
		if surface {
			waypoints = append(waypoints, models.Waypoint{X: xAt(order[0]), Y: y, Z: p.SafeZ, Kind: models.Rapid})
			atSafe = true
			continue
		}

		x0, z0 := xAt(order[0]), clip(depths.At(r, order[0]))
		if atSafe {
			// Position over the row start, then plunge. The plunge is the
			// first cut move and gets the Z feed rate from the emitter.
			waypoints = append(waypoints, models.Waypoint{X: x0, Y: y, Z: p.SafeZ, Kind: models.Rapid})
		}
		waypoints = append(waypoints, models.Waypoint{X: x0, Y: y, Z: z0, Kind: models.Cut})

		prevX, prevZ := x0, z0
		for i := 1; i < cols; i++ {
			c := order[i]
			curX, curZ := xAt(c), clip(depths.At(r, c))
			for s := 1; s <= p.Subdivisions; s++ {
				t := float64(s) / float64(p.Subdivisions+1)
				waypoints = append(waypoints, models.Waypoint{
					X:    prevX + t*(curX-prevX),
					Y:    y,
					Z:    prevZ + t*(curZ-prevZ),
					Kind: models.Cut,
				})
			}
			waypoints = append(waypoints, models.Waypoint{X: curX, Y: y, Z: curZ, Kind: models.Cut})
			prevX, prevZ = curX, curZ
		}

		if p.RetractBetweenRows {
			waypoints = append(waypoints, models.Waypoint{X: prevX, Y: y, Z: p.SafeZ, Kind: models.Rapid})
			atSafe = true
		} else {
			atSafe = false
		}
	}

	// The pass always ends retracted so the next pass can rapid freely.
	if !atSafe && len(waypoints) > 0 {
		last := waypoints[len(waypoints)-1]
		waypoints = append(waypoints, models.Waypoint{X: last.X, Y: last.Y, Z: p.SafeZ, Kind: models.Rapid})
	}
	return waypoints, nil
}
