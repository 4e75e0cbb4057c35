// Package swerve provides a hardware-agnostic abstraction over a single
// swerve-drive module: one independently driven and independently steered
// wheel.
//
// The package is split into three layers:
//
//   - [DriveController] and [SteerController]: capability sets that concrete
//     motor/encoder drivers implement.
//   - [DriveControllerFactory], [SteerControllerFactory] and [ModuleFactory]:
//     composition of controllers from hardware configuration and a shared
//     [ModuleConfiguration].
//   - [Module]: the runtime object that optimizes each (speed, angle)
//     setpoint and exposes module state to odometry and telemetry.
//
// # Usage
//
//	factory := swerve.NewModuleFactory(swerve.MK4iL2, driveFactory, steerFactory)
//	mod, err := factory.Create(driveCfg, steerCfg, swerve.WithContainer(layout))
//	if err != nil {
//		return err
//	}
//	// once per control tick
//	mod.Set(speed, angle)
//	pos := mod.Position()
//
// # Thread Safety
//
// A Module is NOT safe for concurrent use. It is meant to be driven by one
// fixed-period control loop. Controllers polled from another goroutine
// (for example by a telemetry server) must synchronize internally.
package swerve
