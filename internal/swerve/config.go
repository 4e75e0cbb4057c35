package swerve

import (
	"fmt"
	"math"
)

// ModuleConfiguration holds the static geometry of a module. It is a value
// type and is never mutated after construction.
type ModuleConfiguration struct {
	WheelDiameter  float64 `yaml:"wheel_diameter"`  // meters
	DriveReduction float64 `yaml:"drive_reduction"` // wheel rotations per motor rotation
	DriveInverted  bool    `yaml:"drive_inverted"`
	SteerReduction float64 `yaml:"steer_reduction"` // module rotations per motor rotation
	SteerInverted  bool    `yaml:"steer_inverted"`
}

// Well-known module geometries.
var (
	MK4L1 = ModuleConfiguration{
		WheelDiameter:  0.10033,
		DriveReduction: (14.0 / 50.0) * (25.0 / 19.0) * (15.0 / 45.0),
		DriveInverted:  true,
		SteerReduction: (15.0 / 32.0) * (10.0 / 60.0),
		SteerInverted:  true,
	}
	MK4L2 = ModuleConfiguration{
		WheelDiameter:  0.10033,
		DriveReduction: (14.0 / 50.0) * (27.0 / 17.0) * (15.0 / 45.0),
		DriveInverted:  true,
		SteerReduction: (15.0 / 32.0) * (10.0 / 60.0),
		SteerInverted:  true,
	}
	MK4L3 = ModuleConfiguration{
		WheelDiameter:  0.10033,
		DriveReduction: (14.0 / 50.0) * (28.0 / 16.0) * (15.0 / 45.0),
		DriveInverted:  true,
		SteerReduction: (15.0 / 32.0) * (10.0 / 60.0),
		SteerInverted:  true,
	}
	MK4iL1 = ModuleConfiguration{
		WheelDiameter:  0.10033,
		DriveReduction: (14.0 / 50.0) * (25.0 / 19.0) * (15.0 / 45.0),
		DriveInverted:  true,
		SteerReduction: (14.0 / 50.0) * (10.0 / 60.0),
		SteerInverted:  false,
	}
	MK4iL2 = ModuleConfiguration{
		WheelDiameter:  0.10033,
		DriveReduction: (14.0 / 50.0) * (27.0 / 17.0) * (15.0 / 45.0),
		DriveInverted:  true,
		SteerReduction: (14.0 / 50.0) * (10.0 / 60.0),
		SteerInverted:  false,
	}
	MK4iL3 = ModuleConfiguration{
		WheelDiameter:  0.10033,
		DriveReduction: (14.0 / 50.0) * (28.0 / 16.0) * (15.0 / 45.0),
		DriveInverted:  true,
		SteerReduction: (14.0 / 50.0) * (10.0 / 60.0),
		SteerInverted:  false,
	}
)

// Presets maps preset names to module geometries.
var Presets = map[string]ModuleConfiguration{
	"mk4_l1":  MK4L1,
	"mk4_l2":  MK4L2,
	"mk4_l3":  MK4L3,
	"mk4i_l1": MK4iL1,
	"mk4i_l2": MK4iL2,
	"mk4i_l3": MK4iL3,
}

// WheelCircumference returns the distance the wheel travels per wheel rotation.
func (c ModuleConfiguration) WheelCircumference() float64 {
	return math.Pi * c.WheelDiameter
}

// DrivePositionFactor converts motor rotations into meters of travel.
func (c ModuleConfiguration) DrivePositionFactor() float64 {
	return math.Pi * c.WheelDiameter * c.DriveReduction
}

// SteerPositionFactor converts motor rotations into module radians.
func (c ModuleConfiguration) SteerPositionFactor() float64 {
	return 2 * math.Pi * c.SteerReduction
}

// Validate rejects geometries that no drivetrain can have.
func (c ModuleConfiguration) Validate() error {
	if !(c.WheelDiameter > 0) || math.IsInf(c.WheelDiameter, 0) {
		return fmt.Errorf("%w: wheel diameter %v", ErrInvalidConfiguration, c.WheelDiameter)
	}
	if !(c.DriveReduction > 0) || math.IsInf(c.DriveReduction, 0) {
		return fmt.Errorf("%w: drive reduction %v", ErrInvalidConfiguration, c.DriveReduction)
	}
	if c.SteerReduction < 0 || math.IsNaN(c.SteerReduction) || math.IsInf(c.SteerReduction, 0) {
		return fmt.Errorf("%w: steer reduction %v", ErrInvalidConfiguration, c.SteerReduction)
	}
	return nil
}
