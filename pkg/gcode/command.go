// Package gcode implements the emission half of the heightmap-to-G-code
// compiler: the command model, the command emitter, the merging
// postprocessor, the time estimator and a parser for generated programs.
//
// The command vocabulary is the fixed subset understood by the rest of the
// system: G0 (rapid), G1 (linear feed move), M3 (spindle on), M5 (spindle
// off) and comments. Coordinates are absolute millimeters.
package gcode

import (
	"fmt"
	"strings"
)

// Command is one executable G-code statement. The concrete types are
// RapidMove, LinearMove, SpindleOn, SpindleOff and Comment. A command
// sequence is ordered; the order is the execution order on the machine.
// Commands are immutable once emitted.
type Command interface {
	// String renders the command as a single program line without a
	// trailing newline. Formatting is fixed-precision and locale
	// independent.
	String() string

	command()
}

// RapidMove is a non-cutting repositioning move (G0) executed at the
// machine's default rapid rate.
type RapidMove struct {
	X, Y, Z float64
}

// LinearMove is a cutting move (G1) executed at an explicit feed rate in
// mm/min.
type LinearMove struct {
	X, Y, Z float64
	Feed    float64
}

// SpindleOn starts the spindle (M3) at the given speed in RPM.
type SpindleOn struct {
	RPM float64
}

// SpindleOff stops the spindle (M5).
type SpindleOff struct{}

// Comment is a non-executable program annotation.
type Comment struct {
	Text string
}

func (RapidMove) command()  {}
func (LinearMove) command() {}
func (SpindleOn) command()  {}
func (SpindleOff) command() {}
func (Comment) command()    {}

func (m RapidMove) String() string {
	return fmt.Sprintf("G0 X%.3f Y%.3f Z%.3f", m.X, m.Y, m.Z)
}

func (m LinearMove) String() string {
	return fmt.Sprintf("G1 X%.3f Y%.3f Z%.3f F%.0f", m.X, m.Y, m.Z, m.Feed)
}

func (s SpindleOn) String() string {
	return fmt.Sprintf("M3 S%.0f", s.RPM)
}

func (SpindleOff) String() string {
	return "M5"
}

func (c Comment) String() string {
	return "; " + c.Text
}

// Program is an ordered command sequence ready for rendering to text.
type Program []Command

// String renders the program one command per line, with a trailing
// newline.
func (p Program) String() string {
	var sb strings.Builder
	for _, cmd := range p {
		sb.WriteString(cmd.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Moves counts the motion commands in the program.
func (p Program) Moves() int {
	n := 0
	for _, cmd := range p {
		switch cmd.(type) {
		case RapidMove, LinearMove:
			n++
		}
	}
	return n
}
