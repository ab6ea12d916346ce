// Package carving wires the compiler stages into a single pipeline: depth
// mapping, pass scheduling, path planning, command emission, postprocessing
// and time estimation.
package carving

import (
	"fmt"
	"time"

	"opencarve/pkg/gcode"
	"opencarve/pkg/heightmap"
	"opencarve/pkg/toolpath"
)

// Generator runs the heightmap-to-G-code pipeline for one parameter set.
//
// The pipeline is pure and synchronous: given the same grid and parameters
// it deterministically produces the same program and estimate, with no
// shared mutable state and no I/O. Hosting code that runs generation off
// its main thread only has to snapshot the grid and parameters before
// calling Generate; a stale run is cancelled by discarding its result.
type Generator struct {
	params toolpath.Params

	// OptimizeOutput runs the command-merging postprocessor on the
	// emitted program.
	OptimizeOutput bool

	// Verbose prints stage progress while generating.
	Verbose bool
}

// NewGenerator creates a generator with the provided parameters. The
// parameter set is copied; later mutation by the caller does not affect
// the generator.
func NewGenerator(params toolpath.Params) *Generator {
	return &Generator{
		params:         params,
		OptimizeOutput: true,
	}
}

// Generate compiles the heightmap into a toolpath program and returns it
// together with the machining time estimate.
//
// All validation happens before any output is produced; on error the
// returned program is nil and no partial command sequence escapes.
func (g *Generator) Generate(grid *heightmap.Grid) (gcode.Program, time.Duration, error) {
	if grid == nil {
		return nil, 0, fmt.Errorf("generate: %w", toolpath.ErrEmptyInput)
	}
	rows, cols := grid.Dims()

	params := g.params
	params.DeriveDimensions(rows, cols)
	if err := params.Validate(); err != nil {
		return nil, 0, fmt.Errorf("generate: %w", err)
	}

	g.logf("Step 1: Mapping %dx%d samples to depths (max %.3f mm)...\n", rows, cols, params.MaxDepth)
	depths, err := toolpath.MapDepths(grid.Samples(), params.MaxDepth)
	if err != nil {
		return nil, 0, fmt.Errorf("generate: %w", err)
	}

	g.logf("Step 2: Scheduling passes (step-down %.3f mm)...\n", params.StepDown)
	targets, err := toolpath.SchedulePasses(params.MaxDepth, params.StepDown, params.PassEpsilon)
	if err != nil {
		return nil, 0, fmt.Errorf("generate: %w", err)
	}

	g.logf("Step 3: Planning %d pass(es) over %.1fx%.1f mm...\n", len(targets), params.Width, params.Height)
	passes := make([]toolpath.Pass, 0, len(targets))
	for _, depth := range targets {
		waypoints, err := toolpath.Plan(depths, params, depth)
		if err != nil {
			return nil, 0, fmt.Errorf("generate: %w", err)
		}
		passes = append(passes, toolpath.Pass{Depth: depth, Waypoints: waypoints})
	}

	g.logf("Step 4: Emitting commands...\n")
	program := gcode.Program(gcode.Emit(passes, params))

	if g.OptimizeOutput {
		before := len(program)
		program = gcode.Optimize(program)
		g.logf("Step 5: Postprocessor merged %d of %d commands\n", before-len(program), before)
	}

	estimate := gcode.Estimate(program)
	g.logf("Estimated machining time: %.2f minutes\n", estimate.Minutes())

	return program, estimate, nil
}

func (g *Generator) logf(format string, args ...interface{}) {
	if g.Verbose {
		fmt.Printf(format, args...)
	}
}
