// Package simulated provides drive and steer controllers backed by a
// first-order DC motor model instead of real hardware.
//
// Each controller runs its own closed loop (a [control.PID] at 1 kHz) and
// integrates its motor with an [dynamo.Integrator], the way a smart motor
// controller runs on-board. Controllers are advanced explicitly through
// [Hardware.Step]; reads and writes are mutex guarded so a telemetry
// goroutine may poll them while the control loop runs.
package simulated
