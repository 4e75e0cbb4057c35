package control

import "math"

type PID struct {
	Kp float64
	Ki float64
	Kd float64
	// KS is a static friction term applied in the direction of the setpoint.
	KS float64
	// KV scales the setpoint directly into the output.
	KV float64
	// MaxOutput clamps the output to [-MaxOutput, MaxOutput]. Zero disables it.
	MaxOutput float64

	integral float64
	prevErr  float64
	first    bool
}

func NewPID(kp, ki, kd float64) *PID {
	return &PID{
		Kp:    kp,
		Ki:    ki,
		Kd:    kd,
		first: true,
	}
}

// Calculate returns the controller output for one period of length dt.
func (p *PID) Calculate(measurement, setpoint, dt float64) float64 {
	err := setpoint - measurement

	ff := p.KV * setpoint
	if setpoint != 0 {
		ff += math.Copysign(p.KS, setpoint)
	}

	if p.first || dt <= 0 {
		p.prevErr = err
		p.first = false
		return p.clamp(ff + p.Kp*err)
	}

	p.integral += err * dt
	derivative := (err - p.prevErr) / dt
	p.prevErr = err

	out := p.clamp(ff + p.Kp*err + p.Ki*p.integral + p.Kd*derivative)
	// Anti-windup: stop integrating while saturated.
	if p.MaxOutput > 0 && math.Abs(out) >= p.MaxOutput {
		p.integral -= err * dt
	}
	return out
}

func (p *PID) clamp(v float64) float64 {
	if p.MaxOutput <= 0 {
		return v
	}
	return math.Max(-p.MaxOutput, math.Min(p.MaxOutput, v))
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp": p.Kp,
		"Ki": p.Ki,
		"Kd": p.Kd,
		"KS": p.KS,
		"KV": p.KV,
	}
}

// SetParam adjusts a PID parameter
func (p *PID) SetParam(name string, value float64) {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	case "KS":
		p.KS = value
	case "KV":
		p.KV = value
	}
}
