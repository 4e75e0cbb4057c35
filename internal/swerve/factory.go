package swerve

import (
	"fmt"
	"io"
)

// ModuleFactory composes modules from one drive factory and one steer factory
// sharing a module geometry. D and S are the hardware configuration types the
// two factories accept.
type ModuleFactory[D, S any] struct {
	config ModuleConfiguration
	drive  DriveControllerFactory[D]
	steer  SteerControllerFactory[S]
}

func NewModuleFactory[D, S any](cfg ModuleConfiguration, drive DriveControllerFactory[D], steer SteerControllerFactory[S]) *ModuleFactory[D, S] {
	return &ModuleFactory[D, S]{
		config: cfg,
		drive:  drive,
		steer:  steer,
	}
}

// Configuration returns the geometry shared by every module this factory builds.
func (f *ModuleFactory[D, S]) Configuration() ModuleConfiguration {
	return f.config
}

type createOptions struct {
	container Container
}

// CreateOption customizes a single Create call.
type CreateOption func(*createOptions)

// WithContainer hands a telemetry container to both controller factories.
// A nil container is the same as no option.
func WithContainer(c Container) CreateOption {
	return func(o *createOptions) {
		o.container = c
	}
}

// Create builds the drive and steer controllers and binds them into a module.
// It fails only when one of the controller factories fails. A drive
// controller that implements io.Closer is closed when the steer factory fails.
func (f *ModuleFactory[D, S]) Create(driveCfg D, steerCfg S, opts ...CreateOption) (*Module, error) {
	var o createOptions
	for _, opt := range opts {
		opt(&o)
	}

	drive, err := f.drive.Create(driveCfg, f.config, o.container)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDriveController, err)
	}
	steer, err := f.steer.Create(steerCfg, f.config, o.container)
	if err != nil {
		// Release the half built module's drive if it holds resources.
		if c, ok := drive.(io.Closer); ok {
			c.Close()
		}
		return nil, fmt.Errorf("%w: %w", ErrSteerController, err)
	}

	return NewModule(drive, steer), nil
}
