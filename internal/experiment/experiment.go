// Package experiment wires a robot configuration into modules, hardware and
// a simulator.
package experiment

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/frc-862/lightning-util/internal/config"
	"github.com/frc-862/lightning-util/internal/drivers/bridge"
	"github.com/frc-862/lightning-util/internal/drivers/neo"
	"github.com/frc-862/lightning-util/internal/drivers/simulated"
	"github.com/frc-862/lightning-util/internal/metrics"
	"github.com/frc-862/lightning-util/internal/sim"
	"github.com/frc-862/lightning-util/internal/swerve"
	"github.com/frc-862/lightning-util/internal/telemetry"
)

type options struct {
	root   *telemetry.Layout
	dialer neo.Dialer
}

type Option func(*options)

// WithTelemetry registers every module's widgets under root, one child
// layout per module.
func WithTelemetry(root *telemetry.Layout) Option {
	return func(o *options) { o.root = root }
}

// WithDialer supplies the NEO dialer instead of opening the configured bridge.
func WithDialer(d neo.Dialer) Option {
	return func(o *options) { o.dialer = d }
}

// Experiment is a built drivetrain ready to run.
type Experiment struct {
	cfg       *config.Config
	train     *sim.Drivetrain
	hardware  *simulated.Hardware
	simulator *sim.Simulator
	bridge    *bridge.Bridge
}

func New(cfg *config.Config, opts ...Option) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	geometry, err := cfg.ModuleGeometry()
	if err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	e := &Experiment{
		cfg:      cfg,
		hardware: simulated.NewHardware(cfg.Integrator),
	}

	var modules []*swerve.Module
	switch cfg.Driver {
	case "neo":
		dial := o.dialer
		if dial == nil {
			e.bridge = bridge.New(cfg.Bridge)
			if err := e.bridge.Open(); err != nil {
				return nil, err
			}
			dial = e.bridge.Dialer()
		}
		builder := neo.NewDriveBuilder()
		if cfg.Neo.VoltageCompensation > 0 {
			builder.WithVoltageCompensation(cfg.Neo.VoltageCompensation)
		}
		if cfg.Neo.CurrentLimit > 0 {
			builder.WithCurrentLimit(cfg.Neo.CurrentLimit)
		}
		factory := swerve.NewModuleFactory(geometry, builder.Build(dial), e.hardware.SteerFactory())
		modules, err = buildModules(cfg, factory, o.root, func(m config.ModuleConfig) int { return m.DriveID })
	default:
		factory := swerve.NewModuleFactory(geometry, e.hardware.DriveFactory(), e.hardware.SteerFactory())
		modules, err = buildModules(cfg, factory, o.root, func(m config.ModuleConfig) simulated.DriveParams {
			p := cfg.Drive
			p.Name = m.Name
			return p
		})
	}
	if err != nil {
		e.Close()
		return nil, err
	}

	e.train = &sim.Drivetrain{Modules: modules, Hardware: e.hardware}
	for _, m := range cfg.Modules {
		e.train.Names = append(e.train.Names, m.Name)
	}

	e.simulator = sim.New(e.train)
	for _, m := range metrics.Default() {
		e.simulator.AddMetric(m)
	}

	log.WithFields(log.Fields{
		"driver":  cfg.Driver,
		"module":  cfg.Module,
		"modules": len(modules),
	}).Debug("drivetrain built")
	return e, nil
}

func buildModules[D any](cfg *config.Config, factory *swerve.ModuleFactory[D, simulated.SteerParams], root *telemetry.Layout, driveCfg func(config.ModuleConfig) D) ([]*swerve.Module, error) {
	modules := make([]*swerve.Module, 0, len(cfg.Modules))
	for _, m := range cfg.Modules {
		steer := cfg.Steer
		steer.Name = m.Name
		steer.InitialAngle = m.InitialAngle
		steer.MagnetOffset = m.MagnetOffset
		steer.EncoderOffset = m.EncoderOffset

		var opts []swerve.CreateOption
		if root != nil {
			opts = append(opts, swerve.WithContainer(root.Layout(m.Name)))
		}

		mod, err := factory.Create(driveCfg(m), steer, opts...)
		if err != nil {
			return nil, fmt.Errorf("module %s: %w", m.Name, err)
		}
		// Relative steer encoders start at zero; seed them from the absolute
		// encoder before the first command.
		mod.SetEncoderAngle()
		modules = append(modules, mod)
	}
	return modules, nil
}

func (e *Experiment) Config() *config.Config        { return e.cfg }
func (e *Experiment) Drivetrain() *sim.Drivetrain   { return e.train }
func (e *Experiment) Simulator() *sim.Simulator     { return e.simulator }
func (e *Experiment) Hardware() *simulated.Hardware { return e.hardware }

// Scenario builds the configured scenario.
func (e *Experiment) Scenario() (sim.Scenario, error) {
	return sim.NewScenario(e.cfg.Scenario, e.cfg.Speed, len(e.cfg.Modules), e.cfg.Seed)
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	sc, err := e.Scenario()
	if err != nil {
		return nil, err
	}
	return e.simulator.Run(ctx, sc, sim.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		ValidateState: true,
	})
}

// Close releases the bridge, if one was opened.
func (e *Experiment) Close() error {
	if e.bridge == nil {
		return nil
	}
	return e.bridge.Close()
}
