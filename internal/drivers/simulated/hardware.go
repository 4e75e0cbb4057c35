package simulated

import (
	"errors"
	"fmt"
	"sync"

	"github.com/frc-862/lightning-util/internal/integrators"
	"github.com/frc-862/lightning-util/internal/swerve"
)

// ErrInvalidMotor indicates motor constants that cannot be integrated.
var ErrInvalidMotor = errors.New("simulated: invalid motor model")

// Hardware stands in for a CAN bus: it owns every controller built through
// its factories and advances them together.
type Hardware struct {
	mu         sync.Mutex
	integrator string
	drives     []*Drive
	steers     []*Steer
}

// NewHardware returns an empty bus whose motors integrate with the named
// integrator ("euler" or "rk4").
func NewHardware(integrator string) *Hardware {
	return &Hardware{integrator: integrator}
}

// DriveFactory builds simulated drive controllers on this bus.
func (h *Hardware) DriveFactory() swerve.DriveControllerFactory[DriveParams] {
	return swerve.DriveControllerFactoryFunc[DriveParams](func(p DriveParams, module swerve.ModuleConfiguration, c swerve.Container) (swerve.DriveController, error) {
		if err := module.Validate(); err != nil {
			return nil, err
		}
		if !p.Motor.valid() || p.BusVoltage <= 0 {
			return nil, fmt.Errorf("%w: drive %q", ErrInvalidMotor, p.Name)
		}
		integ, err := integrators.New(h.integrator)
		if err != nil {
			return nil, err
		}

		d := newDrive(p, module, integ)
		d.release = func() { h.removeDrive(d) }
		if c != nil {
			d.register(c)
		}

		h.mu.Lock()
		h.drives = append(h.drives, d)
		h.mu.Unlock()
		return d, nil
	})
}

// SteerFactory builds simulated steer controllers on this bus.
func (h *Hardware) SteerFactory() swerve.SteerControllerFactory[SteerParams] {
	return swerve.SteerControllerFactoryFunc[SteerParams](func(p SteerParams, module swerve.ModuleConfiguration, c swerve.Container) (swerve.SteerController, error) {
		if err := module.Validate(); err != nil {
			return nil, err
		}
		if !p.Motor.valid() || p.BusVoltage <= 0 {
			return nil, fmt.Errorf("%w: steer %q", ErrInvalidMotor, p.Name)
		}
		integ, err := integrators.New(h.integrator)
		if err != nil {
			return nil, err
		}

		s := newSteer(p, module, integ)
		if c != nil {
			s.register(c)
		}

		h.mu.Lock()
		h.steers = append(h.steers, s)
		h.mu.Unlock()
		return s, nil
	})
}

func (h *Hardware) removeDrive(d *Drive) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, other := range h.drives {
		if other == d {
			h.drives = append(h.drives[:i:i], h.drives[i+1:]...)
			return
		}
	}
}

// Step advances every motor on the bus by dt seconds.
func (h *Hardware) Step(dt float64) {
	h.mu.Lock()
	drives := h.drives
	steers := h.steers
	h.mu.Unlock()

	for _, d := range drives {
		d.Step(dt)
	}
	for _, s := range steers {
		s.Step(dt)
	}
}

// Len reports how many drive and steer controllers the bus holds.
func (h *Hardware) Len() (drives, steers int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.drives), len(h.steers)
}
