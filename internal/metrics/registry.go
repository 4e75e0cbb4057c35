package metrics

import "github.com/frc-862/lightning-util/internal/sim"

// Default returns the metric set every run records.
func Default() []sim.Metric {
	return []sim.Metric{
		NewSteerTravel(),
		NewMaxSteerDelta(),
		NewReversals(),
		NewVelocityError(),
		NewPeakCurrent(),
	}
}
