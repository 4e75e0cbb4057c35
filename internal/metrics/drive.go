package metrics

import (
	"math"

	"github.com/frc-862/lightning-util/internal/sim"
)

// VelocityError is the mean absolute gap between commanded and measured
// drive velocity.
type VelocityError struct {
	name    string
	sum     float64
	samples int
}

func NewVelocityError() *VelocityError {
	return &VelocityError{name: "velocity_error"}
}

func (v *VelocityError) Name() string { return v.name }

func (v *VelocityError) Observe(module int, smp sim.Sample, t float64) {
	v.sum += math.Abs(smp.Commanded.SpeedMetersPerSecond - smp.State.DriveVelocity)
	v.samples++
}

func (v *VelocityError) Value() float64 {
	if v.samples == 0 {
		return 0
	}
	return v.sum / float64(v.samples)
}

func (v *VelocityError) Reset() {
	v.sum = 0
	v.samples = 0
}

// PeakCurrent is the highest drive amperage any module reported.
type PeakCurrent struct {
	name string
	peak float64
}

func NewPeakCurrent() *PeakCurrent {
	return &PeakCurrent{name: "peak_current"}
}

func (p *PeakCurrent) Name() string { return p.name }

func (p *PeakCurrent) Observe(module int, smp sim.Sample, t float64) {
	if a := math.Abs(smp.State.DriveAmperage); a > p.peak {
		p.peak = a
	}
}

func (p *PeakCurrent) Value() float64 { return p.peak }
func (p *PeakCurrent) Reset()         { p.peak = 0 }
