package neo

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/frc-862/lightning-util/internal/swerve"
)

// controller answers every read, falling back to the last good value when
// the motor controller does not respond. Failures are logged at most once
// per second per motor.
type controller struct {
	id    int
	motor Motor

	mu       sync.Mutex
	last     map[string]float64
	reported *rate.Limiter
}

func newController(id int, motor Motor) *controller {
	return &controller{
		id:       id,
		motor:    motor,
		last:     make(map[string]float64),
		reported: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

func (c *controller) fail(what string, err error) {
	if c.reported.Allow() {
		log.WithFields(log.Fields{"can_id": c.id, "op": what}).WithError(err).Warn("motor controller not responding")
	}
}

func (c *controller) read(key string, fn func() (float64, error)) float64 {
	v, err := fn()
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.fail(key, err)
		return c.last[key]
	}
	c.last[key] = v
	return v
}

func (c *controller) SetReferenceSpeed(mps float64) {
	if err := c.motor.SetVelocityReference(mps); err != nil {
		c.fail("velocity reference", err)
	}
}

func (c *controller) StateVelocity() float64 { return c.read("velocity", c.motor.Velocity) }
func (c *controller) StatePosition() float64 { return c.read("position", c.motor.Position) }

// Voltage is the bus voltage scaled by the applied duty cycle.
func (c *controller) Voltage() float64 {
	bus := c.read("bus voltage", c.motor.BusVoltage)
	duty := c.read("applied output", c.motor.AppliedOutput)
	return bus * duty
}

func (c *controller) Temperature() float64 { return c.read("temperature", c.motor.Temperature) }
func (c *controller) Amperage() float64    { return c.read("current", c.motor.OutputCurrent) }

func (c *controller) SetCurrentLimit(amps int) {
	if err := c.motor.SetSmartCurrentLimit(amps); err != nil {
		c.fail("current limit", err)
	}
}

func (c *controller) register(container swerve.Container) {
	container.AddNumber("Current Velocity", c.StateVelocity)
	container.AddNumber("Voltage", c.Voltage)
	container.AddNumber("Amperage", c.Amperage)
	container.AddNumber("Drive Temperature", c.Temperature)
}
