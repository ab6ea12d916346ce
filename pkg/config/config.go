// Package config provides configuration loading and management for
// opencarve. It handles loading configuration from YAML files and provides
// default values matching the original tool's startup parameters.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"opencarve/pkg/toolpath"
)

// Config represents the application configuration loaded from YAML.
type Config struct {
	// Machine groups the parameters of the physical machine setup.
	Machine struct {
		// SafeZ is the collision-free rapid height in mm.
		SafeZ float64 `yaml:"safeZ"`

		// FeedXY is the lateral cutting feed rate in mm/min.
		FeedXY float64 `yaml:"feedXY"`

		// FeedZ is the plunge/retract feed rate in mm/min.
		FeedZ float64 `yaml:"feedZ"`

		// SpindleSpeed is the spindle speed in RPM.
		SpindleSpeed float64 `yaml:"spindleSpeed"`
	} `yaml:"machine"`

	// Carving groups the parameters of the cut itself.
	Carving struct {
		// PixelSize is the mm-per-sample scale used to derive toolpath
		// dimensions when Width/Height are left at zero.
		PixelSize float64 `yaml:"pixelSize"`

		// MaxDepth is the maximum cutting depth in mm.
		MaxDepth float64 `yaml:"maxDepth"`

		// StepDown is the per-pass depth increment in mm.
		StepDown float64 `yaml:"stepDown"`

		// Margin is the boundary margin in mm.
		Margin float64 `yaml:"margin"`

		// Width and Height are the explicit toolpath dimensions in mm.
		// They take precedence over the pixel-size derivation.
		Width  float64 `yaml:"width"`
		Height float64 `yaml:"height"`

		// Subdivisions is the number of interpolated points between
		// adjacent samples along the scan direction.
		Subdivisions int `yaml:"subdivisions"`

		// RetractBetweenRows retracts to safe Z at every row end when
		// set; otherwise the tool only retracts between passes.
		RetractBetweenRows bool `yaml:"retractBetweenRows"`

		// PassEpsilon is the minimum final-pass depth delta in mm.
		PassEpsilon float64 `yaml:"passEpsilon"`
	} `yaml:"carving"`

	// Heightmap groups input preprocessing options.
	Heightmap struct {
		// Invert flips the intensity convention so light areas cut deep.
		Invert bool `yaml:"invert"`

		// Smoothing is the low-pass cutoff as a fraction of Nyquist in
		// (0,1]; zero disables smoothing.
		Smoothing float64 `yaml:"smoothing"`
	} `yaml:"heightmap"`

	// Output groups program post-generation options.
	Output struct {
		// Optimize runs the command-merging postprocessor.
		Optimize bool `yaml:"optimize"`

		// Estimate prints the machining time estimate.
		Estimate bool `yaml:"estimate"`

		// Verbose controls the level of progress output.
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	p := toolpath.DefaultParams()

	cfg.Machine.SafeZ = p.SafeZ
	cfg.Machine.FeedXY = p.FeedXY
	cfg.Machine.FeedZ = p.FeedZ
	cfg.Machine.SpindleSpeed = p.SpindleSpeed

	cfg.Carving.PixelSize = p.PixelSize
	cfg.Carving.MaxDepth = p.MaxDepth
	cfg.Carving.StepDown = p.StepDown
	cfg.Carving.Margin = p.Margin
	cfg.Carving.Subdivisions = p.Subdivisions
	cfg.Carving.RetractBetweenRows = p.RetractBetweenRows
	cfg.Carving.PassEpsilon = p.PassEpsilon

	cfg.Heightmap.Invert = false
	cfg.Heightmap.Smoothing = 0

	cfg.Output.Optimize = true
	cfg.Output.Estimate = true
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file. If the file doesn't
// exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the
// specified path.
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}

// ToolpathParams converts the configuration into the validated parameter
// set the pipeline consumes. Validation is the caller's responsibility so
// that error reporting stays at the invocation boundary.
func (c *Config) ToolpathParams() toolpath.Params {
	return toolpath.Params{
		PixelSize:          c.Carving.PixelSize,
		MaxDepth:           c.Carving.MaxDepth,
		SafeZ:              c.Machine.SafeZ,
		FeedXY:             c.Machine.FeedXY,
		FeedZ:              c.Machine.FeedZ,
		SpindleSpeed:       c.Machine.SpindleSpeed,
		StepDown:           c.Carving.StepDown,
		Margin:             c.Carving.Margin,
		Width:              c.Carving.Width,
		Height:             c.Carving.Height,
		Subdivisions:       c.Carving.Subdivisions,
		RetractBetweenRows: c.Carving.RetractBetweenRows,
		PassEpsilon:        c.Carving.PassEpsilon,
	}
}
