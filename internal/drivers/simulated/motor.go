package simulated

import (
	"math"

	"github.com/frc-862/lightning-util/internal/dynamo"
)

// MotorModel is a feedforward-characterized DC motor with a lumped thermal
// mass. Units of position follow whatever KV and KA are expressed in.
//
// State: [position, velocity, temperature]. Control: [volts].
type MotorModel struct {
	KS                float64 `yaml:"ks"` // volts to overcome static friction
	KV                float64 `yaml:"kv"` // volts per unit velocity
	KA                float64 `yaml:"ka"` // volts per unit acceleration
	Resistance        float64 `yaml:"resistance"`
	HeatCapacity      float64 `yaml:"heat_capacity"`      // J/°C
	ThermalResistance float64 `yaml:"thermal_resistance"` // °C/W to ambient
	Ambient           float64 `yaml:"ambient"`            // °C
}

func (m *MotorModel) StateDim() int   { return 3 }
func (m *MotorModel) ControlDim() int { return 1 }

func (m *MotorModel) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	v, temp := x[1], x[2]
	volts := u[0]

	var friction float64
	switch {
	case v != 0:
		friction = math.Copysign(m.KS, v)
	case math.Abs(volts) > m.KS:
		friction = math.Copysign(m.KS, volts)
	default:
		friction = volts
	}

	accel := (volts - m.KV*v - friction) / m.KA

	i := m.Current(volts, v)
	heat := i * i * m.Resistance
	cooling := (temp - m.Ambient) / m.ThermalResistance
	dTemp := (heat - cooling) / m.HeatCapacity

	return dynamo.State{v, accel, dTemp}
}

// Current is the winding current drawn at the given voltage and velocity.
func (m *MotorModel) Current(volts, velocity float64) float64 {
	return (volts - m.KV*velocity) / m.Resistance
}

// LimitVoltage reduces volts so the winding current stays within limit amps.
func (m *MotorModel) LimitVoltage(volts, velocity, limit float64) float64 {
	if limit <= 0 {
		return volts
	}
	backEMF := m.KV * velocity
	maxDelta := limit * m.Resistance
	return math.Max(backEMF-maxDelta, math.Min(backEMF+maxDelta, volts))
}

func (m *MotorModel) valid() bool {
	return m.KA > 0 && m.KV >= 0 && m.KS >= 0 && m.Resistance > 0 &&
		m.HeatCapacity > 0 && m.ThermalResistance > 0
}
