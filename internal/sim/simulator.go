package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/frc-862/lightning-util/internal/dynamo"
	"github.com/frc-862/lightning-util/internal/swerve"
)

// Simulator runs a drivetrain through a scenario at a fixed control period,
// the way a robot's main loop calls each module once per tick.
type Simulator struct {
	train     *Drivetrain
	metrics   []Metric
	observers []Observer
}

func New(train *Drivetrain) *Simulator {
	return &Simulator{
		train:     train,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Tick commands every module once, advances the hardware by dt and returns
// what each module was asked, commanded and reports afterwards.
func (s *Simulator) Tick(sc Scenario, t, dt float64) []Sample {
	samples := make([]Sample, len(s.train.Modules))
	for i, mod := range s.train.Modules {
		req := sc.Setpoint(i, t)
		measured := mod.SteerAngle()
		samples[i].Requested = req
		samples[i].Measured = measured
		samples[i].Commanded = swerve.Optimize(measured, req)
		mod.Apply(req)
	}

	if s.train.Hardware != nil {
		s.train.Hardware.Step(dt)
	}

	for i, mod := range s.train.Modules {
		samples[i].State = mod.State()
	}
	return samples
}

func (s *Simulator) Run(ctx context.Context, sc Scenario, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Modules: append([]string(nil), s.train.Names...),
		Times:   make([]float64, 0, steps),
		Samples: make([][]Sample, 0, steps),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		t := float64(i) * cfg.Dt
		samples := s.Tick(sc, t, cfg.Dt)

		if cfg.ValidateState {
			if err := validate(samples, t, i); err != nil {
				result.Errors = append(result.Errors, err)
				break
			}
		}

		for j, smp := range samples {
			for _, m := range s.metrics {
				m.Observe(j, smp, t)
			}
		}
		for _, obs := range s.observers {
			obs.OnStep(t, samples)
		}

		result.Times = append(result.Times, t+cfg.Dt)
		result.Samples = append(result.Samples, samples)
		result.StepsTaken++
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if len(s.train.Modules) == 0 {
		return fmt.Errorf("drivetrain has no modules")
	}
	if len(s.train.Names) != len(s.train.Modules) {
		return fmt.Errorf("drivetrain has %d names for %d modules", len(s.train.Names), len(s.train.Modules))
	}
	return nil
}

func validate(samples []Sample, t float64, step int) error {
	for i, smp := range samples {
		st := smp.State
		for _, v := range []float64{st.DriveVelocity, st.DrivePosition, st.SteerAngle, st.DriveVoltage, st.DriveAmperage} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return dynamo.StepError{Time: t, Message: fmt.Sprintf("step %d: module %d reported a non-finite value", step, i)}
			}
		}
	}
	return nil
}
