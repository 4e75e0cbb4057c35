package bridge

import "github.com/frc-862/lightning-util/internal/drivers/neo"

// Register keys understood by the bridge firmware.
const (
	keyPing     = "ping"
	keyInverted = "inverted"
	keyVComp    = "vcomp"
	keyILimit   = "ilimit"
	keyFrame    = "frame"
	keyIdle     = "idle"
	keyPosConv  = "pconv"
	keyVelConv  = "vconv"
	keyVelRef   = "vref"
	keyVelocity = "vel"
	keyPosition = "pos"
	keyBusVolts = "vbus"
	keyDuty     = "duty"
	keyTemp     = "temp"
	keyCurrent  = "current"
)

// Motor is one motor controller behind the bridge.
type Motor struct {
	b  *Bridge
	id int
}

var _ neo.Motor = (*Motor)(nil)

// Dialer returns a neo.Dialer that checks each CAN id answers before handing
// it out.
func (b *Bridge) Dialer() neo.Dialer {
	return func(id int) (neo.Motor, error) {
		if _, err := b.Get(id, keyPing); err != nil {
			return nil, err
		}
		return &Motor{b: b, id: id}, nil
	}
}

func boolValue(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

func (m *Motor) SetInverted(inverted bool) error {
	return m.b.Set(m.id, keyInverted, boolValue(inverted))
}

func (m *Motor) EnableVoltageCompensation(nominal float64) error {
	return m.b.Set(m.id, keyVComp, nominal)
}

func (m *Motor) SetSmartCurrentLimit(amps int) error {
	return m.b.Set(m.id, keyILimit, float64(amps))
}

func (m *Motor) SetPeriodicFramePeriod(frame neo.PeriodicFrame, periodMs int) error {
	return m.b.Set(m.id, keyFrame+string(rune('0'+int(frame))), float64(periodMs))
}

func (m *Motor) SetIdleMode(mode neo.IdleMode) error {
	return m.b.Set(m.id, keyIdle, float64(mode))
}

func (m *Motor) SetPositionConversionFactor(f float64) error {
	return m.b.Set(m.id, keyPosConv, f)
}

func (m *Motor) SetVelocityConversionFactor(f float64) error {
	return m.b.Set(m.id, keyVelConv, f)
}

func (m *Motor) SetVelocityReference(v float64) error {
	return m.b.Set(m.id, keyVelRef, v)
}

func (m *Motor) Position() (float64, error)      { return m.b.Get(m.id, keyPosition) }
func (m *Motor) Velocity() (float64, error)      { return m.b.Get(m.id, keyVelocity) }
func (m *Motor) BusVoltage() (float64, error)    { return m.b.Get(m.id, keyBusVolts) }
func (m *Motor) AppliedOutput() (float64, error) { return m.b.Get(m.id, keyDuty) }
func (m *Motor) Temperature() (float64, error)   { return m.b.Get(m.id, keyTemp) }
func (m *Motor) OutputCurrent() (float64, error) { return m.b.Get(m.id, keyCurrent) }
