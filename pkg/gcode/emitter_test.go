package gcode

import (
	"strings"
	"testing"

	"opencarve/internal/models"
	"opencarve/pkg/toolpath"
)

func emitterParams() toolpath.Params {
	p := toolpath.DefaultParams()
	p.Width = 10
	p.Height = 10
	return p
}

// TestEmitSpindleBracketing verifies that exactly one spindle start comes
// before the first motion and exactly one spindle stop after the last.
func TestEmitSpindleBracketing(t *testing.T) {
	passes := []toolpath.Pass{{
		Depth: 2,
		Waypoints: []models.Waypoint{
			{X: 0, Y: 0, Z: 2, Kind: models.Rapid},
			{X: 0, Y: 0, Z: -2, Kind: models.Cut},
			{X: 5, Y: 0, Z: -2, Kind: models.Cut},
			{X: 5, Y: 0, Z: 2, Kind: models.Rapid},
		},
	}}

	cmds := Emit(passes, emitterParams())

	firstMotion, lastMotion, spindleOn, spindleOff := -1, -1, -1, -1
	for i, cmd := range cmds {
		switch cmd.(type) {
		case RapidMove, LinearMove:
			if firstMotion < 0 {
				firstMotion = i
			}
			lastMotion = i
		case SpindleOn:
			if spindleOn >= 0 {
				t.Error("More than one spindle start emitted")
			}
			spindleOn = i
		case SpindleOff:
			if spindleOff >= 0 {
				t.Error("More than one spindle stop emitted")
			}
			spindleOff = i
		}
	}

	if spindleOn < 0 || spindleOn > firstMotion {
		t.Errorf("Spindle start at %d, expected before first motion at %d", spindleOn, firstMotion)
	}
	if spindleOff < lastMotion {
		t.Errorf("Spindle stop at %d, expected after last motion at %d", spindleOff, lastMotion)
	}
}

// TestEmitFeedSelection verifies the feed-by-move-type rule: plunges and
// retracts use the Z feed, lateral cuts the XY feed, rapids no feed.
func TestEmitFeedSelection(t *testing.T) {
	p := emitterParams()
	passes := []toolpath.Pass{{
		Depth: 2,
		Waypoints: []models.Waypoint{
			{X: 3, Y: 4, Z: p.SafeZ, Kind: models.Rapid},
			{X: 3, Y: 4, Z: -2, Kind: models.Cut},  // plunge
			{X: 6, Y: 4, Z: -2, Kind: models.Cut},  // lateral
			{X: 8, Y: 4, Z: -1, Kind: models.Cut},  // lateral with Z component
			{X: 8, Y: 4, Z: p.SafeZ, Kind: models.Cut}, // feed retract
		},
	}}

	cmds := Emit(passes, p)

	var linears []LinearMove
	for _, cmd := range cmds {
		if lm, ok := cmd.(LinearMove); ok {
			linears = append(linears, lm)
		}
	}
	if len(linears) != 4 {
		t.Fatalf("Expected 4 linear moves, got %d", len(linears))
	}

	if linears[0].Feed != p.FeedZ {
		t.Errorf("Plunge feed %g, expected Z feed %g", linears[0].Feed, p.FeedZ)
	}
	if linears[1].Feed != p.FeedXY {
		t.Errorf("Lateral feed %g, expected XY feed %g", linears[1].Feed, p.FeedXY)
	}
	if linears[2].Feed != p.FeedXY {
		t.Errorf("Diagonal feed %g, expected XY feed %g", linears[2].Feed, p.FeedXY)
	}
	if linears[3].Feed != p.FeedZ {
		t.Errorf("Retract feed %g, expected Z feed %g", linears[3].Feed, p.FeedZ)
	}
}

// TestEmitOrderPreserved verifies that waypoint order survives emission
// pass after pass, with a pass comment preceding each pass.
func TestEmitOrderPreserved(t *testing.T) {
	passes := []toolpath.Pass{
		{Depth: 1, Waypoints: []models.Waypoint{
			{X: 1, Y: 1, Z: 2, Kind: models.Rapid},
			{X: 1, Y: 1, Z: -1, Kind: models.Cut},
			{X: 1, Y: 1, Z: 2, Kind: models.Rapid},
		}},
		{Depth: 2, Waypoints: []models.Waypoint{
			{X: 1, Y: 1, Z: 2, Kind: models.Rapid},
			{X: 1, Y: 1, Z: -2, Kind: models.Cut},
			{X: 1, Y: 1, Z: 2, Kind: models.Rapid},
		}},
	}

	cmds := Emit(passes, emitterParams())

	var cutZs []float64
	for _, cmd := range cmds {
		if lm, ok := cmd.(LinearMove); ok {
			cutZs = append(cutZs, lm.Z)
		}
	}
	if len(cutZs) != 2 || cutZs[0] != -1 || cutZs[1] != -2 {
		t.Errorf("Expected cut depths in pass order [-1 -2], got %v", cutZs)
	}

	text := Program(cmds).String()
	if !strings.Contains(text, "pass 1/2") || !strings.Contains(text, "pass 2/2") {
		t.Errorf("Expected per-pass comments in program:\n%s", text)
	}
}

// TestCommandFormatting verifies the fixed decimal formatting of the
// program text.
func TestCommandFormatting(t *testing.T) {
	cases := []struct {
		cmd  Command
		want string
	}{
		{RapidMove{X: 1, Y: 2.5, Z: 3}, "G0 X1.000 Y2.500 Z3.000"},
		{LinearMove{X: 0.0015, Y: -1, Z: -0.5, Feed: 300}, "G1 X0.002 Y-1.000 Z-0.500 F300"},
		{SpindleOn{RPM: 20000}, "M3 S20000"},
		{SpindleOff{}, "M5"},
		{Comment{Text: "hello"}, "; hello"},
	}
	for _, tc := range cases {
		if got := tc.cmd.String(); got != tc.want {
			t.Errorf("String() = %q, expected %q", got, tc.want)
		}
	}
}
