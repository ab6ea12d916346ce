package gcode

import "time"

const (
	// DefaultRapidRate is the rapid traverse rate assumed for G0 moves,
	// in mm/min. Rapids carry no feed word, so the estimator has to
	// assume a machine default.
	DefaultRapidRate = 1500.0

	// DefaultCutRate is the fallback feed in mm/min for a linear move
	// with a non-positive feed word.
	DefaultCutRate = 300.0
)

// Estimate sums the execution time of the command sequence from segment
// lengths and feed rates, starting from the machine origin.
//
// The sum is a lower bound: acceleration and deceleration ramps, spindle
// spin-up and dwells are ignored. For surface machining programs the
// error is small because most moves are long relative to the ramps.
func Estimate(cmds []Command) time.Duration {
	var pos point
	minutes := 0.0

	for _, cmd := range cmds {
		var target point
		var rate float64
		switch m := cmd.(type) {
		case RapidMove:
			target = point{m.X, m.Y, m.Z}
			rate = DefaultRapidRate
		case LinearMove:
			target = point{m.X, m.Y, m.Z}
			rate = m.Feed
			if rate <= 0 {
				rate = DefaultCutRate
			}
		default:
			continue
		}
		minutes += dist(pos, target) / rate
		pos = target
	}
	return time.Duration(minutes * float64(time.Minute))
}
