package gcode

import "math"

// mergeTolerance is the collinearity tolerance in mm: three consecutive
// points A, B, C merge when the detour through B is shorter than this.
const mergeTolerance = 1e-6

// Optimize merges runs of consecutive linear moves that share a feed rate
// and are collinear within tolerance into single moves spanning the run.
// Collinearity uses the triangle test |AB| + |BC| - |AC| < tolerance, so
// only monotone continuations merge; a reversal (as at the end of a
// boustrophedon row) never collapses.
//
// A merge run is broken by any rapid move, spindle command, comment or
// feed change, which keeps the merged program's trajectory and feed
// profile identical to the input's. The input is never mutated; a new
// sequence is returned. Optimize is idempotent: optimizing an already
// optimized sequence returns it unchanged.
func Optimize(cmds []Command) []Command {
	out := make([]Command, 0, len(cmds))

	var pos, runStart point
	inRun := false

	for _, cmd := range cmds {
		lm, ok := cmd.(LinearMove)
		if !ok {
			if rm, isRapid := cmd.(RapidMove); isRapid {
				pos = point{rm.X, rm.Y, rm.Z}
			}
			inRun = false
			out = append(out, cmd)
			continue
		}

		end := point{lm.X, lm.Y, lm.Z}
		if inRun {
			prev := out[len(out)-1].(LinearMove)
			if prev.Feed == lm.Feed && collinear(runStart, pos, end) {
				out[len(out)-1] = LinearMove{X: lm.X, Y: lm.Y, Z: lm.Z, Feed: lm.Feed}
				pos = end
				continue
			}
		}
		out = append(out, lm)
		runStart = pos
		pos = end
		inRun = true
	}
	return out
}

type point struct {
	x, y, z float64
}

func dist(a, b point) float64 {
	dx := b.x - a.x
	dy := b.y - a.y
	dz := b.z - a.z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func collinear(a, b, c point) bool {
	return dist(a, b)+dist(b, c)-dist(a, c) < mergeTolerance
}
