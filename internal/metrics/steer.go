package metrics

import (
	"math"

	"github.com/frc-862/lightning-util/internal/sim"
	"github.com/frc-862/lightning-util/internal/swerve"
)

// SteerTravel sums how far the commanded heading sits from the measured
// one, over every module and tick. Lower means less turning.
type SteerTravel struct {
	name string
	sum  float64
}

func NewSteerTravel() *SteerTravel {
	return &SteerTravel{name: "steer_travel"}
}

func (s *SteerTravel) Name() string { return s.name }

func (s *SteerTravel) Observe(module int, smp sim.Sample, t float64) {
	s.sum += math.Abs(swerve.ShortestAngle(smp.Measured, smp.Commanded.SteerAngleRadians))
}

func (s *SteerTravel) Value() float64 { return s.sum }
func (s *SteerTravel) Reset()         { s.sum = 0 }

// MaxSteerDelta is the largest single-tick turn the module was asked to
// make. An optimizing module never exceeds π/2.
type MaxSteerDelta struct {
	name string
	max  float64
}

func NewMaxSteerDelta() *MaxSteerDelta {
	return &MaxSteerDelta{name: "max_steer_delta"}
}

func (m *MaxSteerDelta) Name() string { return m.name }

func (m *MaxSteerDelta) Observe(module int, smp sim.Sample, t float64) {
	d := math.Abs(swerve.ShortestAngle(smp.Measured, smp.Commanded.SteerAngleRadians))
	if d > m.max {
		m.max = d
	}
}

func (m *MaxSteerDelta) Value() float64 { return m.max }
func (m *MaxSteerDelta) Reset()         { m.max = 0 }

// Reversals counts ticks where the optimization flipped the drive direction.
type Reversals struct {
	name  string
	count int
}

func NewReversals() *Reversals {
	return &Reversals{name: "reversals"}
}

func (r *Reversals) Name() string { return r.name }

func (r *Reversals) Observe(module int, smp sim.Sample, t float64) {
	req, cmd := smp.Requested.SpeedMetersPerSecond, smp.Commanded.SpeedMetersPerSecond
	if req != 0 && cmd == -req {
		r.count++
	}
}

func (r *Reversals) Value() float64 { return float64(r.count) }
func (r *Reversals) Reset()         { r.count = 0 }
