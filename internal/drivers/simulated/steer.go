package simulated

import (
	"math"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/frc-862/lightning-util/internal/control"
	"github.com/frc-862/lightning-util/internal/dynamo"
	"github.com/frc-862/lightning-util/internal/swerve"
)

// SteerParams configures one simulated steer motor and its absolute encoder.
// Motor constants are in module radians.
type SteerParams struct {
	Name       string     `yaml:"name"`
	Motor      MotorModel `yaml:"motor"`
	Kp         float64    `yaml:"kp"`
	Ki         float64    `yaml:"ki"`
	Kd         float64    `yaml:"kd"`
	BusVoltage float64    `yaml:"bus_voltage"`
	// InitialAngle is the physical module heading at power on.
	InitialAngle float64 `yaml:"initial_angle"`
	// MagnetOffset is where the absolute encoder magnet sits relative to
	// straight ahead; EncoderOffset is the calibrated correction for it.
	MagnetOffset  float64 `yaml:"magnet_offset"`
	EncoderOffset float64 `yaml:"encoder_offset"`
}

// DefaultSteerParams approximates a NEO steering an MK4i module.
func DefaultSteerParams() SteerParams {
	return SteerParams{
		Motor: MotorModel{
			KS:                0.05,
			KV:                0.43,
			KA:                0.01,
			Resistance:        0.114,
			HeatCapacity:      200,
			ThermalResistance: 0.3,
			Ambient:           25,
		},
		Kp:         8,
		Kd:         0.05,
		BusVoltage: 12,
	}
}

// Steer is a simulated steer controller. The motor encoder is relative and
// reads zero at power on until SetMotorEncoderAngle seeds it.
type Steer struct {
	mu sync.Mutex

	name  string
	model MotorModel
	integ dynamo.Integrator
	pid   *control.PID
	bus   float64
	sign  float64

	x             dynamo.State // motor frame
	t             float64
	zero          float64 // physical angle at which the motor encoder reads 0
	reference     float64
	goal          float64 // motor frame
	magnetOffset  float64
	encoderOffset float64
}

func newSteer(p SteerParams, module swerve.ModuleConfiguration, integ dynamo.Integrator) *Steer {
	pid := control.NewPID(p.Kp, p.Ki, p.Kd)
	pid.MaxOutput = p.BusVoltage

	sign := 1.0
	if module.SteerInverted {
		sign = -1
	}

	s := &Steer{
		name:          p.Name,
		model:         p.Motor,
		integ:         integ,
		pid:           pid,
		bus:           p.BusVoltage,
		sign:          sign,
		x:             dynamo.State{sign * p.InitialAngle, 0, p.Motor.Ambient},
		zero:          p.InitialAngle,
		magnetOffset:  p.MagnetOffset,
		encoderOffset: p.EncoderOffset,
	}
	s.goal = s.x[0]
	return s
}

func (s *Steer) physical() float64 { return s.sign * s.x[0] }

// Step advances the motor by dt seconds.
func (s *Steer) Step(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int(math.Ceil(dt / maxSubstep))
	if n < 1 {
		return
	}
	h := dt / float64(n)

	for i := 0; i < n; i++ {
		volts := s.pid.Calculate(s.x[0], s.goal, h)
		volts = math.Max(-s.bus, math.Min(s.bus, volts))

		next := s.integ.Step(&s.model, s.x, dynamo.Control{volts}, s.t, h)
		s.t += h
		if !next.IsValid() {
			log.WithFields(log.Fields{"motor": s.name, "t": s.t}).Warn("steer model diverged, holding last angle")
			next = dynamo.State{s.x[0], 0, s.x[2]}
			s.pid.Reset()
		}
		s.x = next
	}
}

// SetReferenceAngle steers to the equivalent of radians nearest the current
// encoder angle.
func (s *Steer) SetReferenceAngle(radians float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reference = radians
	enc := s.physical() - s.zero
	target := enc + swerve.NormalizeNegPiToPi(radians-enc)
	s.goal = s.sign * (target + s.zero)
}

func (s *Steer) StateAngle() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.physical() - s.zero
}

// AbsoluteAngle is the offset corrected absolute encoder reading in [0, 2π).
func (s *Steer) AbsoluteAngle() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.absolute()
}

func (s *Steer) absolute() float64 {
	raw := swerve.NormalizeZeroToTwoPi(s.physical() + s.magnetOffset)
	return swerve.NormalizeZeroToTwoPi(raw - s.encoderOffset)
}

func (s *Steer) SetMotorEncoderAngle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Keep the physical goal where it was so the module does not jump.
	s.zero = s.physical() - s.absolute()
}

func (s *Steer) Temperature() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.x[2]
}

func (s *Steer) referenceAngle() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reference
}

func (s *Steer) register(c swerve.Container) {
	c.AddNumber("Absolute Encoder Angle", func() float64 { return swerve.Rotation(s.AbsoluteAngle()).Degrees() })
	c.AddNumber("Current Angle", func() float64 { return swerve.Rotation(s.StateAngle()).Degrees() })
	c.AddNumber("Target Angle", func() float64 { return swerve.Rotation(s.referenceAngle()).Degrees() })
	c.AddNumber("Steer Temperature", s.Temperature)
}
