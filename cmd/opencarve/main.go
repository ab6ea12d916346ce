package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"opencarve/pkg/carving"
	"opencarve/pkg/config"
	"opencarve/pkg/gcode"
	"opencarve/pkg/heightmap"
	"opencarve/pkg/visualization"
)

func main() {
	// Parse command line arguments
	inputPath := flag.String("input", "", "Grayscale heightmap image (PNG, JPEG, TIFF, BMP or SVG)")
	outputPath := flag.String("output", "output.nc", "Output G-code filename")
	configPath := flag.String("config", "", "Optional YAML configuration file")
	writeConfig := flag.String("write-config", "", "Write a default configuration file to the given path and exit")

	pixelSize := flag.Float64("pixel-size", 0, "Pixel size in mm per sample (used when width/height are unset)")
	width := flag.Float64("width", 0, "Toolpath width in mm (takes precedence over pixel size)")
	height := flag.Float64("height", 0, "Toolpath height in mm (takes precedence over pixel size)")
	maxDepth := flag.Float64("max-depth", 0, "Maximum cutting depth in mm")
	stepDown := flag.Float64("step-down", 0, "Depth increment per pass in mm")
	margin := flag.Float64("margin", -1, "Boundary margin in mm")
	subdivisions := flag.Int("subdivisions", -1, "Interpolated points between adjacent samples")

	invert := flag.Bool("invert", false, "Invert the heightmap so light areas cut deep")
	smoothing := flag.Float64("smooth", -1, "Low-pass smoothing cutoff as a fraction of Nyquist (0 disables)")
	noOptimize := flag.Bool("no-optimize", false, "Skip the command-merging postprocessor")
	preview := flag.String("preview", "", "Write a top-down PNG preview of the toolpath to the given path")
	stats := flag.Bool("stats", false, "Print program statistics (bounds, path length)")
	quiet := flag.Bool("quiet", false, "Suppress progress output")
	flag.Parse()

	if *writeConfig != "" {
		if err := config.CreateDefaultConfigFile(*writeConfig); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *writeConfig)
		return
	}

	if *inputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Command line flags override the configuration file.
	if *pixelSize > 0 {
		cfg.Carving.PixelSize = *pixelSize
	}
	if *width > 0 {
		cfg.Carving.Width = *width
	}
	if *height > 0 {
		cfg.Carving.Height = *height
	}
	if *maxDepth > 0 {
		cfg.Carving.MaxDepth = *maxDepth
	}
	if *stepDown > 0 {
		cfg.Carving.StepDown = *stepDown
	}
	if *margin >= 0 {
		cfg.Carving.Margin = *margin
	}
	if *subdivisions >= 0 {
		cfg.Carving.Subdivisions = *subdivisions
	}
	if *invert {
		cfg.Heightmap.Invert = true
	}
	if *smoothing >= 0 {
		cfg.Heightmap.Smoothing = *smoothing
	}
	if *noOptimize {
		cfg.Output.Optimize = false
	}
	if *quiet {
		cfg.Output.Verbose = false
	}

	verbose := cfg.Output.Verbose
	if verbose {
		fmt.Println("================================")
		fmt.Println("OPENCARVE - HEIGHTMAP TO G-CODE")
		fmt.Println("================================")
	}

	grid, err := heightmap.Load(*inputPath)
	if err != nil {
		log.Fatalf("Failed to load heightmap: %v", err)
	}
	rows, cols := grid.Dims()
	if cfg.Heightmap.Invert {
		grid = grid.Inverted()
	}
	if cfg.Heightmap.Smoothing > 0 {
		grid = grid.Smoothed(cfg.Heightmap.Smoothing)
	}

	if verbose {
		mean, stddev := grid.Stats()
		fmt.Printf("Loaded %dx%d heightmap from %s\n", cols, rows, *inputPath)
		fmt.Printf("Intensity mean %.3f, stddev %.3f\n", mean, stddev)
	}

	generator := carving.NewGenerator(cfg.ToolpathParams())
	generator.OptimizeOutput = cfg.Output.Optimize
	generator.Verbose = verbose

	startTime := time.Now()
	program, estimate, err := generator.Generate(grid)
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	text := program.String()
	if err := os.WriteFile(*outputPath, []byte(text), 0644); err != nil {
		log.Fatalf("Failed to write G-code: %v", err)
	}

	if verbose {
		fmt.Printf("\nGenerated %d commands (%d moves) in %.2f seconds\n",
			len(program), program.Moves(), time.Since(startTime).Seconds())
		fmt.Printf("G-code saved to: %s\n", *outputPath)
	}
	if cfg.Output.Estimate {
		fmt.Printf("Estimated machining time: %.2f minutes\n", estimate.Minutes())
	}

	if *stats || *preview != "" {
		model, err := gcode.ParseString(text)
		if err != nil {
			log.Fatalf("Failed to parse generated program: %v", err)
		}
		for _, warning := range model.Warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
		}

		if *stats {
			printStats(model)
		}
		if *preview != "" {
			renderer, err := visualization.NewRenderer(model, 4.0)
			if err != nil {
				log.Fatalf("Failed to create preview renderer: %v", err)
			}
			img, err := renderer.RenderTopDown()
			if err != nil {
				log.Fatalf("Failed to render preview: %v", err)
			}
			if err := visualization.SavePNG(img, *preview); err != nil {
				log.Fatalf("Failed to save preview: %v", err)
			}
			fmt.Printf("Preview saved to: %s\n", *preview)
		}
	}
}

func printStats(model *gcode.Model) {
	b := model.Bounds
	var sb strings.Builder
	fmt.Fprintf(&sb, "Program statistics:\n")
	fmt.Fprintf(&sb, "===================\n")
	fmt.Fprintf(&sb, "Segments: %d\n", len(model.Segments))
	fmt.Fprintf(&sb, "Bounds X: [%.3f, %.3f] mm\n", b.XMin, b.XMax)
	fmt.Fprintf(&sb, "Bounds Y: [%.3f, %.3f] mm\n", b.YMin, b.YMax)
	fmt.Fprintf(&sb, "Bounds Z: [%.3f, %.3f] mm\n", b.ZMin, b.ZMax)
	fmt.Fprintf(&sb, "Total path length: %.1f mm\n", model.Distance)
	fmt.Fprintf(&sb, "Cutting path length: %.1f mm\n", model.CutDistance)
	fmt.Print(sb.String())
}
