// Package config provides configuration loading and management for mrcvol.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Pad parameters
	Pad struct {
		// Distance is the minimum empty margin around the density, in physical units
		Distance float64 `yaml:"distance"`
	} `yaml:"pad"`

	// Trim parameters
	Trim struct {
		// Threshold is the lowest density kept inside the bounding box
		Threshold float64 `yaml:"threshold"`

		// Margin is the number of voxels kept around the bounding box
		Margin int `yaml:"margin"`

		// ForceCube centres the cropped region in a cube
		ForceCube bool `yaml:"forceCube"`
	} `yaml:"trim"`

	// Fusion parameters
	Fusion struct {
		// Epsilon stands in for exact zeros while fusing
		Epsilon float64 `yaml:"epsilon"`
	} `yaml:"fusion"`

	// Preview parameters
	Preview struct {
		// Format is the image format for slice previews, "jpg" or "png"
		Format string `yaml:"format"`

		// Quality is the JPEG quality, 1 to 100
		Quality int `yaml:"quality"`
	} `yaml:"preview"`

	// Output parameters
	Output struct {
		// Verbose enables debug logging
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Pad.Distance = 10.0

	cfg.Trim.Threshold = 0.01
	cfg.Trim.Margin = 2
	cfg.Trim.ForceCube = false

	cfg.Fusion.Epsilon = 1e-7

	cfg.Preview.Format = "jpg"
	cfg.Preview.Quality = 90

	cfg.Output.Verbose = false

	return cfg
}

// Validate checks the values that have a restricted range
func (c *Config) Validate() error {
	if c.Pad.Distance < 0 {
		return fmt.Errorf("pad.distance must be non-negative, got %g", c.Pad.Distance)
	}
	if c.Trim.Margin < 0 {
		return fmt.Errorf("trim.margin must be non-negative, got %d", c.Trim.Margin)
	}
	if c.Fusion.Epsilon <= 0 {
		return fmt.Errorf("fusion.epsilon must be positive, got %g", c.Fusion.Epsilon)
	}
	switch c.Preview.Format {
	case "jpg", "png":
	default:
		return fmt.Errorf("preview.format must be jpg or png, got %q", c.Preview.Format)
	}
	if c.Preview.Quality < 1 || c.Preview.Quality > 100 {
		return fmt.Errorf("preview.quality must be between 1 and 100, got %d", c.Preview.Quality)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
