// Package neo builds drive controllers for NEO brushless motors behind a
// SPARK MAX style motor controller.
//
// The motor controller itself is reached through the [Motor] interface, so
// the same builder serves a CAN bridge client or a test double.
package neo

type IdleMode int

const (
	IdleCoast IdleMode = iota
	IdleBrake
)

// PeriodicFrame selects one of the controller's status frames.
type PeriodicFrame int

const (
	Status0 PeriodicFrame = iota // applied output, faults
	Status1                      // velocity, temperature, voltage, current
	Status2                      // position
)

// Motor is the subset of a SPARK MAX the drive controller uses. Position and
// velocity are reported in the units set by the conversion factors.
type Motor interface {
	SetInverted(inverted bool) error
	EnableVoltageCompensation(nominalVoltage float64) error
	SetSmartCurrentLimit(amps int) error
	SetPeriodicFramePeriod(frame PeriodicFrame, periodMs int) error
	SetIdleMode(mode IdleMode) error
	SetPositionConversionFactor(factor float64) error
	SetVelocityConversionFactor(factor float64) error

	SetVelocityReference(velocity float64) error
	Position() (float64, error)
	Velocity() (float64, error)
	BusVoltage() (float64, error)
	AppliedOutput() (float64, error)
	Temperature() (float64, error)
	OutputCurrent() (float64, error)
}

// Dialer opens the motor controller with the given CAN id.
type Dialer func(canID int) (Motor, error)
