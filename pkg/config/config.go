// Package config loads the implement configuration from a YAML file and
// applies defaults for anything left unset.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hashtag-agritech/hashtag-go/pkg/ddop"
)

// Validation errors.
var (
	ErrSectionCount = errors.New("sections must be between 1 and 256")
	ErrWorkingWidth = errors.New("working width must be positive")
	ErrTankCapacity = errors.New("tank capacity must not be negative")
)

// Config is the implement configuration.
type Config struct {
	// Device identity, reported in the device descriptor.
	Designator      string `yaml:"designator"`
	SoftwareVersion string `yaml:"software_version"`
	SerialNumber    string `yaml:"serial_number"`
	StructureLabel  string `yaml:"structure_label"`

	// Geometry.
	Sections       int   `yaml:"sections"`
	WorkingWidthMM int32 `yaml:"working_width_mm"`

	// Tank.
	TankCapacity int32 `yaml:"tank_capacity"`
	TankVolume   int32 `yaml:"tank_volume"`

	// NMEAListen is the TCP address the positioning feed listener binds
	// to. Empty disables the listener.
	NMEAListen string `yaml:"nmea_listen"`

	// Logging.
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Paths. Empty disables the corresponding feature.
	StatePath  string `yaml:"state_path"`
	OplogPath  string `yaml:"oplog_path"`
	ExportPath string `yaml:"export_path"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Designator:      "Hashtag Sprayer",
		SoftwareVersion: "1.0.0",
		StructureLabel:  "HASHTAG1",
		Sections:        16,
		WorkingWidthMM:  12000,
		TankCapacity:    4000000,
		TankVolume:      3000000,
		NMEAListen:      ":10110",
		LogLevel:        "info",
		LogFormat:       "console",
	}
}

// Load reads the configuration from path, layered over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the device descriptor
// cannot represent.
func (c *Config) Validate() error {
	if c.Sections < 1 || c.Sections > ddop.MaxSections {
		return fmt.Errorf("%w: got %d", ErrSectionCount, c.Sections)
	}
	if c.WorkingWidthMM <= 0 {
		return fmt.Errorf("%w: got %d", ErrWorkingWidth, c.WorkingWidthMM)
	}
	if c.TankCapacity < 0 {
		return fmt.Errorf("%w: got %d", ErrTankCapacity, c.TankCapacity)
	}
	return nil
}
