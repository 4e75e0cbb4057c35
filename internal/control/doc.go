// Package control provides the closed-loop controllers that simulated motor
// controllers run on-board:
//
//   - [PID]: Proportional-Integral-Derivative controller with static and
//     velocity feedforward and a symmetric output clamp
//
// # Usage
//
//	pid := control.NewPID(0.2, 0, 0)
//	pid.KV = 2.4 // volts per (m/s)
//	pid.MaxOutput = 12
//	volts := pid.Calculate(measured, setpoint, dt)
//
// PID supports live tuning through GetParams/SetParam.
package control
