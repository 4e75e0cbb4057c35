package swerve_test

import "github.com/frc-862/lightning-util/internal/swerve"

type fakeDrive struct {
	reference    float64
	references   int
	velocity     float64
	position     float64
	voltage      float64
	temperature  float64
	amperage     float64
	currentLimit int
}

func (d *fakeDrive) SetReferenceSpeed(mps float64) {
	d.reference = mps
	d.references++
}
func (d *fakeDrive) StateVelocity() float64   { return d.velocity }
func (d *fakeDrive) StatePosition() float64   { return d.position }
func (d *fakeDrive) Voltage() float64         { return d.voltage }
func (d *fakeDrive) Temperature() float64     { return d.temperature }
func (d *fakeDrive) Amperage() float64        { return d.amperage }
func (d *fakeDrive) SetCurrentLimit(amps int) { d.currentLimit = amps }

type closingDrive struct {
	fakeDrive
	closed int
}

func (d *closingDrive) Close() error {
	d.closed++
	return nil
}

type fakeSteer struct {
	reference   float64
	references  int
	angle       float64
	temperature float64
	seeded      int
}

func (s *fakeSteer) SetReferenceAngle(rad float64) {
	s.reference = rad
	s.references++
}
func (s *fakeSteer) StateAngle() float64   { return s.angle }
func (s *fakeSteer) SetMotorEncoderAngle() { s.seeded++ }
func (s *fakeSteer) Temperature() float64  { return s.temperature }

type recordingContainer struct {
	numbers map[string]func() float64
	strings map[string]func() string
}

func newRecordingContainer() *recordingContainer {
	return &recordingContainer{
		numbers: make(map[string]func() float64),
		strings: make(map[string]func() string),
	}
}

func (c *recordingContainer) AddNumber(name string, supplier func() float64) {
	c.numbers[name] = supplier
}

func (c *recordingContainer) AddString(name string, supplier func() string) {
	c.strings[name] = supplier
}

var _ swerve.Container = (*recordingContainer)(nil)
