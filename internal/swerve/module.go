package swerve

import "math"

// Setpoint is the commanded (speed, angle) pair for one control tick.
type Setpoint struct {
	SpeedMetersPerSecond float64
	SteerAngleRadians    float64
}

// ModulePosition pairs accumulated drive distance with the raw steer angle.
type ModulePosition struct {
	Distance float64
	Angle    Rotation
}

// ModuleState is a snapshot read straight from the controllers.
type ModuleState struct {
	DriveVelocity    float64 `json:"drive_velocity"`
	DrivePosition    float64 `json:"drive_position"`
	SteerAngle       float64 `json:"steer_angle"`
	DriveVoltage     float64 `json:"drive_voltage"`
	DriveTemperature float64 `json:"drive_temperature"`
	DriveAmperage    float64 `json:"drive_amperage"`
	SteerTemperature float64 `json:"steer_temperature"`
}

// Module owns one drive and one steer controller for its lifetime.
type Module struct {
	drive DriveController
	steer SteerController
}

// NewModule binds a drive and a steer controller into a module.
func NewModule(drive DriveController, steer SteerController) *Module {
	return &Module{drive: drive, steer: steer}
}

// Optimize returns the setpoint that produces the same wheel velocity as sp
// while rotating the module by at most π/2 from current. The returned angle
// is in [0, 2π).
func Optimize(current float64, sp Setpoint) Setpoint {
	angle := NormalizeZeroToTwoPi(sp.SteerAngleRadians)
	speed := sp.SpeedMetersPerSecond

	difference := NormalizeNegPiToPi(angle - NormalizeZeroToTwoPi(current))
	// Past 90 degrees either way, flip the heading and reverse the wheel.
	if difference > math.Pi/2 || difference < -math.Pi/2 {
		angle += math.Pi
		speed *= -1
	}

	return Setpoint{
		SpeedMetersPerSecond: speed,
		SteerAngleRadians:    NormalizeZeroToTwoPi(angle),
	}
}

// Set commands the module toward speedMetersPerSecond at steerAngle radians.
// Both controllers receive a new reference on every call.
func (m *Module) Set(speedMetersPerSecond, steerAngle float64) {
	out := Optimize(m.SteerAngle(), Setpoint{
		SpeedMetersPerSecond: speedMetersPerSecond,
		SteerAngleRadians:    steerAngle,
	})

	m.drive.SetReferenceSpeed(out.SpeedMetersPerSecond)
	m.steer.SetReferenceAngle(out.SteerAngleRadians)
}

// Apply is Set for a Setpoint value.
func (m *Module) Apply(sp Setpoint) {
	m.Set(sp.SpeedMetersPerSecond, sp.SteerAngleRadians)
}

func (m *Module) DriveVelocity() float64 { return m.drive.StateVelocity() }

// SteerAngle is the raw angle reported by the steer controller.
func (m *Module) SteerAngle() float64 { return m.steer.StateAngle() }

// Position returns the accumulated drive distance and raw steer angle.
func (m *Module) Position() ModulePosition {
	return ModulePosition{
		Distance: m.drive.StatePosition(),
		Angle:    Rotation(m.SteerAngle()),
	}
}

// SetEncoderAngle re-seeds the steer motor encoder from the absolute encoder.
func (m *Module) SetEncoderAngle() { m.steer.SetMotorEncoderAngle() }

func (m *Module) DriveVoltage() float64     { return m.drive.Voltage() }
func (m *Module) DriveTemperature() float64 { return m.drive.Temperature() }
func (m *Module) DriveAmperage() float64    { return m.drive.Amperage() }
func (m *Module) SteerTemperature() float64 { return m.steer.Temperature() }

// SetDriveCurrentLimit forwards a current limit to the drive controller.
func (m *Module) SetDriveCurrentLimit(amps int) { m.drive.SetCurrentLimit(amps) }

// State reads every value once from the controllers.
func (m *Module) State() ModuleState {
	return ModuleState{
		DriveVelocity:    m.drive.StateVelocity(),
		DrivePosition:    m.drive.StatePosition(),
		SteerAngle:       m.steer.StateAngle(),
		DriveVoltage:     m.drive.Voltage(),
		DriveTemperature: m.drive.Temperature(),
		DriveAmperage:    m.drive.Amperage(),
		SteerTemperature: m.steer.Temperature(),
	}
}
