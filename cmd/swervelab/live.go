package main

import (
	"context"
	"io"
	"math"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/frc-862/lightning-util/internal/config"
	"github.com/frc-862/lightning-util/internal/experiment"
	"github.com/frc-862/lightning-util/internal/sim"
	"github.com/frc-862/lightning-util/internal/telemetry"
	"github.com/frc-862/lightning-util/internal/viz"
)

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	build := func(scenario string) (*experiment.Experiment, error) {
		c := *cfg
		c.Scenario = scenario
		return experiment.New(&c)
	}

	// Free speed of the drive at bus voltage, for scaling the speed bars.
	maxSpeed := cfg.Speed
	if cfg.Drive.Motor.KV > 0 {
		maxSpeed = math.Max(maxSpeed, cfg.Drive.BusVoltage/cfg.Drive.Motor.KV)
	}
	m, err := viz.NewModel(build, sim.ListScenarios(), cfg.Scenario, cfg.Dt, maxSpeed)
	if err != nil {
		return err
	}

	// The terminal belongs to the view; keep driver warnings off it.
	log.SetOutput(io.Discard)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func serveTelemetry(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") || cfg.Telemetry.Addr == "" {
		cfg.Telemetry.Addr = addr
	}
	if cmd.Flags().Changed("rate") || cfg.Telemetry.Rate == 0 {
		cfg.Telemetry.Rate = rateHz
	}

	root := telemetry.NewLayout("drivetrain", cfg.Telemetry.Rate)
	exp, err := experiment.New(cfg, experiment.WithTelemetry(root))
	if err != nil {
		return err
	}
	defer exp.Close()

	sc, err := exp.Scenario()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := telemetry.NewServer(root)
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe(ctx, cfg.Telemetry.Addr) }()

	log.WithFields(log.Fields{
		"addr":     cfg.Telemetry.Addr,
		"scenario": cfg.Scenario,
	}).Info("serving telemetry")

	return loop(ctx, exp.Simulator(), sc, cfg, errc)
}

// loop ticks the simulator in real time until ctx is done or the server fails.
func loop(ctx context.Context, s *sim.Simulator, sc sim.Scenario, cfg *config.Config, errc <-chan error) error {
	ticker := time.NewTicker(time.Duration(cfg.Dt * float64(time.Second)))
	defer ticker.Stop()

	t := 0.0
	for {
		select {
		case <-ctx.Done():
			return <-errc
		case err := <-errc:
			return err
		case <-ticker.C:
			s.Tick(sc, t, cfg.Dt)
			t += cfg.Dt
		}
	}
}
