package gcode

import (
	"fmt"
	"math"

	"opencarve/internal/models"
	"opencarve/pkg/toolpath"
)

// feed selection treats a move as purely vertical when its lateral
// component is below this threshold.
const lateralEps = 1e-9

// Emit turns the planned passes into a flat ordered command sequence.
//
// The program brackets all motion with a single spindle start and a single
// spindle stop: M3 before the first move, M5 after the last. Rapid-tagged
// waypoints become G0 moves with no feed word. Cut-tagged waypoints become
// G1 moves whose feed is chosen by move type: a purely vertical move
// (plunge or retract) gets the Z feed rate, everything else the XY feed
// rate. Using the lateral feed for a plunge is the bug class this rule
// exists to prevent.
//
// Waypoint order is preserved exactly, pass after pass. Each pass is
// preceded by a comment naming its target depth; the planner's trailing
// retract plus the next pass's leading rapid form the retract/re-plunge
// between passes. The program parks over the origin at safe Z before the
// spindle stops.
func Emit(passes []toolpath.Pass, p toolpath.Params) []Command {
	cmds := make([]Command, 0, emittedLen(passes))
	cmds = append(cmds,
		Comment{Text: "opencarve toolpath"},
		Comment{Text: "absolute coordinates, units mm"},
		SpindleOn{RPM: p.SpindleSpeed},
		RapidMove{X: 0, Y: 0, Z: p.SafeZ},
	)

	pos := models.Waypoint{X: 0, Y: 0, Z: p.SafeZ}
	for i, pass := range passes {
		cmds = append(cmds, Comment{Text: fmt.Sprintf("pass %d/%d, target depth %.3f mm", i+1, len(passes), pass.Depth)})
		for _, wp := range pass.Waypoints {
			if wp.Kind == models.Rapid {
				cmds = append(cmds, RapidMove{X: wp.X, Y: wp.Y, Z: wp.Z})
			} else {
				feed := p.FeedXY
				if vertical(pos, wp) {
					feed = p.FeedZ
				}
				cmds = append(cmds, LinearMove{X: wp.X, Y: wp.Y, Z: wp.Z, Feed: feed})
			}
			pos = wp
		}
	}

	cmds = append(cmds, RapidMove{X: 0, Y: 0, Z: p.SafeZ}, SpindleOff{})
	return cmds
}

func vertical(from, to models.Waypoint) bool {
	dx := to.X - from.X
	dy := to.Y - from.Y
	return math.Abs(dx) < lateralEps && math.Abs(dy) < lateralEps && to.Z != from.Z
}

func emittedLen(passes []toolpath.Pass) int {
	n := 6
	for _, pass := range passes {
		n += len(pass.Waypoints) + 1
	}
	return n
}
