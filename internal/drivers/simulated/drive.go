package simulated

import (
	"math"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/frc-862/lightning-util/internal/control"
	"github.com/frc-862/lightning-util/internal/dynamo"
	"github.com/frc-862/lightning-util/internal/swerve"
)

// maxSubstep is the on-board loop period of a simulated motor controller.
const maxSubstep = 0.001

// DriveParams configures one simulated drive motor. Motor constants are in
// wheel units: volts per (m/s) and volts per (m/s²).
type DriveParams struct {
	Name         string     `yaml:"name"`
	Motor        MotorModel `yaml:"motor"`
	Kp           float64    `yaml:"kp"`
	Ki           float64    `yaml:"ki"`
	Kd           float64    `yaml:"kd"`
	BusVoltage   float64    `yaml:"bus_voltage"`
	CurrentLimit int        `yaml:"current_limit"`
}

// DefaultDriveParams approximates a NEO driving an MK4i L2 wheel.
func DefaultDriveParams() DriveParams {
	return DriveParams{
		Motor: MotorModel{
			KS:                0.15,
			KV:                2.6,
			KA:                0.3,
			Resistance:        0.114,
			HeatCapacity:      200,
			ThermalResistance: 0.3,
			Ambient:           25,
		},
		Kp:           0.5,
		BusVoltage:   12,
		CurrentLimit: 40,
	}
}

// Drive is a simulated drive controller.
type Drive struct {
	mu sync.Mutex

	name  string
	model MotorModel
	integ dynamo.Integrator
	pid   *control.PID
	bus   float64
	sign  float64

	x            dynamo.State // motor frame
	t            float64
	reference    float64
	voltage      float64
	amperage     float64
	currentLimit float64

	release func()
}

func newDrive(p DriveParams, module swerve.ModuleConfiguration, integ dynamo.Integrator) *Drive {
	pid := control.NewPID(p.Kp, p.Ki, p.Kd)
	pid.KS = p.Motor.KS
	pid.KV = p.Motor.KV
	pid.MaxOutput = p.BusVoltage

	sign := 1.0
	if module.DriveInverted {
		sign = -1
	}

	return &Drive{
		name:         p.Name,
		model:        p.Motor,
		integ:        integ,
		pid:          pid,
		bus:          p.BusVoltage,
		sign:         sign,
		x:            dynamo.State{0, 0, p.Motor.Ambient},
		currentLimit: float64(p.CurrentLimit),
	}
}

// Step advances the motor by dt seconds.
func (d *Drive) Step(dt float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := int(math.Ceil(dt / maxSubstep))
	if n < 1 {
		return
	}
	h := dt / float64(n)

	for i := 0; i < n; i++ {
		volts := d.pid.Calculate(d.x[1], d.sign*d.reference, h)
		volts = d.model.LimitVoltage(volts, d.x[1], d.currentLimit)
		volts = math.Max(-d.bus, math.Min(d.bus, volts))

		next := d.integ.Step(&d.model, d.x, dynamo.Control{volts}, d.t, h)
		d.t += h
		if !next.IsValid() {
			log.WithFields(log.Fields{"motor": d.name, "t": d.t}).Warn("drive model diverged, holding last position")
			next = dynamo.State{d.x[0], 0, d.x[2]}
			d.pid.Reset()
			volts = 0
		}
		d.x = next
		d.voltage = volts
		d.amperage = math.Abs(d.model.Current(volts, d.x[1]))
	}
}

// Close detaches the drive from its bus. It stops being stepped.
func (d *Drive) Close() error {
	if d.release != nil {
		d.release()
	}
	return nil
}

func (d *Drive) SetReferenceSpeed(mps float64) {
	d.mu.Lock()
	d.reference = mps
	d.mu.Unlock()
}

func (d *Drive) StateVelocity() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sign * d.x[1]
}

func (d *Drive) StatePosition() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sign * d.x[0]
}

func (d *Drive) Voltage() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sign * d.voltage
}

func (d *Drive) Temperature() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.x[2]
}

func (d *Drive) Amperage() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.amperage
}

func (d *Drive) SetCurrentLimit(amps int) {
	d.mu.Lock()
	d.currentLimit = float64(amps)
	d.mu.Unlock()
}

func (d *Drive) referenceSpeed() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reference
}

func (d *Drive) register(c swerve.Container) {
	c.AddNumber("Current Velocity", d.StateVelocity)
	c.AddNumber("Target Velocity", d.referenceSpeed)
	c.AddNumber("Voltage", d.Voltage)
	c.AddNumber("Amperage", d.Amperage)
	c.AddNumber("Drive Temperature", d.Temperature)
}
