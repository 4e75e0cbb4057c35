package sim

import "github.com/frc-862/lightning-util/internal/swerve"

// Stepper advances simulated hardware by dt seconds.
type Stepper interface {
	Step(dt float64)
}

// Drivetrain is a set of named modules and the hardware they run on.
type Drivetrain struct {
	Names    []string
	Modules  []*swerve.Module
	Hardware Stepper
}

// Scenario supplies the per-module setpoint for each tick. Chassis
// kinematics happen upstream, so scenarios speak module setpoints directly.
type Scenario interface {
	Name() string
	Setpoint(module int, t float64) swerve.Setpoint
}

// Sample is one module at one tick.
type Sample struct {
	Requested swerve.Setpoint
	Commanded swerve.Setpoint
	// Measured is the steer angle the optimization saw.
	Measured float64
	State    swerve.ModuleState
}

type Metric interface {
	Name() string
	Observe(module int, s Sample, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(t float64, samples []Sample)
}

type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
}

type Result struct {
	Modules    []string
	Times      []float64
	Samples    [][]Sample // [tick][module]
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Series extracts one column of a module's samples.
func (r *Result) Series(module int, f func(Sample) float64) []float64 {
	out := make([]float64, len(r.Samples))
	for i, row := range r.Samples {
		if module < len(row) {
			out[i] = f(row[module])
		}
	}
	return out
}
