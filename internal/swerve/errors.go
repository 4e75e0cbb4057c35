package swerve

import "errors"

// Construction errors. Controllers never return errors once built; these are
// the only failures a module can report.
var (
	// ErrDriveController indicates the drive controller factory failed.
	ErrDriveController = errors.New("swerve: drive controller construction failed")

	// ErrSteerController indicates the steer controller factory failed.
	ErrSteerController = errors.New("swerve: steer controller construction failed")

	// ErrInvalidConfiguration indicates a module configuration that cannot describe real hardware.
	ErrInvalidConfiguration = errors.New("swerve: invalid module configuration")
)
