package models

// MoveKind distinguishes non-cutting positioning moves from in-material
// cutting moves.
type MoveKind int

const (
	// Rapid is a non-cutting repositioning move executed at safe height.
	Rapid MoveKind = iota

	// Cut is an in-material move executed at a cutting feed rate.
	Cut
)

// Waypoint is a single point on the planned toolpath in machine
// coordinates (mm).
//
// Waypoints are produced in execution order; the order defines the
// physical motion sequence and must never be rearranged by later stages.
type Waypoint struct {
	// X, Y, Z are the absolute machine coordinates in mm. Z uses the
	// surface convention: 0 is the stock surface, negative values are
	// inside the material, positive values are above the stock.
	X, Y, Z float64

	// Kind tags the waypoint as a rapid positioning point or a cutting
	// point. The command emitter uses the tag to pick between rapid and
	// feed moves.
	Kind MoveKind
}
