package neo

import (
	"fmt"
	"math"

	"github.com/frc-862/lightning-util/internal/swerve"
)

type DriveBuilder struct {
	nominalVoltage float64
	currentLimit   float64
}

func NewDriveBuilder() *DriveBuilder {
	return &DriveBuilder{
		nominalVoltage: math.NaN(),
		currentLimit:   math.NaN(),
	}
}

func (b *DriveBuilder) WithVoltageCompensation(nominalVoltage float64) *DriveBuilder {
	b.nominalVoltage = nominalVoltage
	return b
}

func (b *DriveBuilder) HasVoltageCompensation() bool {
	return !math.IsNaN(b.nominalVoltage) && !math.IsInf(b.nominalVoltage, 0)
}

func (b *DriveBuilder) WithCurrentLimit(amps float64) *DriveBuilder {
	b.currentLimit = amps
	return b
}

func (b *DriveBuilder) HasCurrentLimit() bool {
	return !math.IsNaN(b.currentLimit) && !math.IsInf(b.currentLimit, 0)
}

// Build returns a factory keyed by CAN id. Every configuration call is
// checked; a motor that rejects one is not handed out.
func (b *DriveBuilder) Build(dial Dialer) swerve.DriveControllerFactory[int] {
	nominal, limit := b.nominalVoltage, b.currentLimit
	hasComp, hasLimit := b.HasVoltageCompensation(), b.HasCurrentLimit()

	return swerve.DriveControllerFactoryFunc[int](func(id int, module swerve.ModuleConfiguration, c swerve.Container) (swerve.DriveController, error) {
		motor, err := dial(id)
		if err != nil {
			return nil, fmt.Errorf("neo %d: %w", id, err)
		}

		steps := []struct {
			what string
			fn   func() error
		}{
			{"inversion", func() error { return motor.SetInverted(module.DriveInverted) }},
			{"voltage compensation", func() error {
				if !hasComp {
					return nil
				}
				return motor.EnableVoltageCompensation(nominal)
			}},
			{"current limit", func() error {
				if !hasLimit {
					return nil
				}
				return motor.SetSmartCurrentLimit(int(limit))
			}},
			{"status 0 period", func() error { return motor.SetPeriodicFramePeriod(Status0, 100) }},
			{"status 1 period", func() error { return motor.SetPeriodicFramePeriod(Status1, 20) }},
			{"status 2 period", func() error { return motor.SetPeriodicFramePeriod(Status2, 20) }},
			{"idle mode", func() error { return motor.SetIdleMode(IdleBrake) }},
			{"position conversion", func() error { return motor.SetPositionConversionFactor(module.DrivePositionFactor()) }},
			// encoder velocity is reported in RPM
			{"velocity conversion", func() error { return motor.SetVelocityConversionFactor(module.DrivePositionFactor() / 60.0) }},
		}
		for _, s := range steps {
			if err := s.fn(); err != nil {
				return nil, fmt.Errorf("neo %d: %s: %w", id, s.what, err)
			}
		}

		d := newController(id, motor)
		if c != nil {
			d.register(c)
		}
		return d, nil
	})
}
