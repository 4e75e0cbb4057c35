package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/frc-862/lightning-util/internal/drivers/bridge"
	"github.com/frc-862/lightning-util/internal/drivers/simulated"
	"github.com/frc-862/lightning-util/internal/swerve"
)

const (
	DefaultDt       = 0.02
	DefaultDuration = 5.0
	DefaultSpeed    = 2.0
	DefaultModule   = "mk4i_l2"
	DefaultRate     = 20.0
	DefaultAddr     = ":5805"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Name       string  `yaml:"name"`
	Module     string  `yaml:"module"`
	Driver     string  `yaml:"driver"`
	Integrator string  `yaml:"integrator"`
	Scenario   string  `yaml:"scenario"`
	Speed      float64 `yaml:"speed"`
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
	Seed       int64   `yaml:"seed"`

	// Geometry overrides the Module preset when set.
	Geometry *swerve.ModuleConfiguration `yaml:"geometry,omitempty"`

	Modules   []ModuleConfig        `yaml:"modules"`
	Drive     simulated.DriveParams `yaml:"drive"`
	Steer     simulated.SteerParams `yaml:"steer"`
	Neo       NeoConfig             `yaml:"neo"`
	Bridge    bridge.Config         `yaml:"bridge"`
	Telemetry TelemetryConfig       `yaml:"telemetry"`
}

// ModuleConfig describes one corner of the robot.
type ModuleConfig struct {
	Name          string  `yaml:"name"`
	DriveID       int     `yaml:"drive_id"`
	InitialAngle  float64 `yaml:"initial_angle"`
	MagnetOffset  float64 `yaml:"magnet_offset"`
	EncoderOffset float64 `yaml:"encoder_offset"`
}

type NeoConfig struct {
	VoltageCompensation float64 `yaml:"voltage_compensation"`
	CurrentLimit        float64 `yaml:"current_limit"`
}

type TelemetryConfig struct {
	Addr string  `yaml:"addr"`
	Rate float64 `yaml:"rate"`
}

func DefaultModules() []ModuleConfig {
	return []ModuleConfig{
		{Name: "front_left", DriveID: 1},
		{Name: "front_right", DriveID: 3},
		{Name: "back_left", DriveID: 5},
		{Name: "back_right", DriveID: 7},
	}
}

func DefaultConfig() *Config {
	return &Config{
		Name:       "default",
		Module:     DefaultModule,
		Driver:     "sim",
		Integrator: "rk4",
		Scenario:   "random",
		Speed:      DefaultSpeed,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Modules:    DefaultModules(),
		Drive:      simulated.DefaultDriveParams(),
		Steer:      simulated.DefaultSteerParams(),
		Neo: NeoConfig{
			VoltageCompensation: 12,
			CurrentLimit:        40,
		},
		Bridge: bridge.Config{
			Addr: "localhost:5810",
			Baud: 115200,
		},
		Telemetry: TelemetryConfig{
			Addr: DefaultAddr,
			Rate: DefaultRate,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ModuleGeometry resolves the module geometry from the explicit override or
// the named preset.
func (c *Config) ModuleGeometry() (swerve.ModuleConfiguration, error) {
	if c.Geometry != nil {
		return *c.Geometry, nil
	}
	g, ok := swerve.Presets[c.Module]
	if !ok {
		return swerve.ModuleConfiguration{}, fmt.Errorf("%w: unknown module preset %q", ErrInvalidConfig, c.Module)
	}
	return g, nil
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, c.Duration)
	}
	if len(c.Modules) == 0 {
		return fmt.Errorf("%w: no modules", ErrInvalidConfig)
	}
	switch c.Driver {
	case "sim", "neo":
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidConfig, c.Driver)
	}
	g, err := c.ModuleGeometry()
	if err != nil {
		return err
	}
	if err := g.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
