// Package dynamo provides the numeric primitives shared by the simulated
// hardware: state vectors and the ODE interfaces they are integrated through.
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: numerical stepper interface
//
// # Example
//
//	motor := &simulated.MotorModel{KS: 0.15, KV: 2.6, KA: 0.3, ...}
//	integ := integrators.NewRK4()
//	x = integ.Step(motor, x, dynamo.Control{volts}, t, dt)
package dynamo
