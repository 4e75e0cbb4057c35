package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/frc-862/lightning-util/internal/config"
	"github.com/frc-862/lightning-util/internal/experiment"
	"github.com/frc-862/lightning-util/internal/storage"
	"github.com/frc-862/lightning-util/internal/swerve"
)

func metadata(cfg *config.Config) storage.RunMetadata {
	return storage.RunMetadata{
		Name:       cfg.Name,
		Scenario:   cfg.Scenario,
		Module:     cfg.Module,
		Driver:     cfg.Driver,
		Integrator: cfg.Integrator,
		Seed:       cfg.Seed,
		Speed:      cfg.Speed,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	defer exp.Close()

	fmt.Printf("running %s on %d %s modules...\n", cfg.Scenario, len(cfg.Modules), cfg.Module)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	for _, e := range result.Errors {
		fmt.Printf("warning: %v\n", e)
	}

	runID, err := st.Save(metadata(cfg), result)
	if err != nil {
		return err
	}

	if outFile != "" {
		switch strings.ToLower(filepath.Ext(outFile)) {
		case ".csv":
			err = storage.ExportCSV(outFile, result)
		default:
			err = storage.ExportJSON(outFile, metadata(cfg), result)
		}
		if err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", outFile)
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, metrics[name])
	}
}

func compareScenarios(cmd *cobra.Command, args []string) error {
	metricNames := []string{"steer_travel", "max_steer_delta", "reversals", "velocity_error", "peak_current"}

	fmt.Printf("%-10s", "scenario")
	for _, name := range metricNames {
		fmt.Printf("  %15s", name)
	}
	fmt.Printf("  %10s\n", "time_ms")
	fmt.Println(strings.Repeat("-", 10+17*len(metricNames)+12))

	for _, scenario := range args {
		cfg, err := resolveConfig(cmd, []string{scenario})
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", scenario, err)
			continue
		}
		exp, err := experiment.New(cfg)
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", scenario, err)
			continue
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		elapsed := time.Since(start)
		exp.Close()
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", scenario, err)
			continue
		}

		fmt.Printf("%-10s", scenario)
		for _, name := range metricNames {
			fmt.Printf("  %15.4f", result.Metrics[name])
		}
		fmt.Printf("  %10.2f\n", float64(elapsed.Microseconds())/1000)
	}
	return nil
}

func parseAngle(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if degrees {
		v = swerve.FromDegrees(v).Radians()
	}
	return v, nil
}

func optimizeSetpoint(cmd *cobra.Command, args []string) error {
	current, err := parseAngle(args[0])
	if err != nil {
		return fmt.Errorf("current: %w", err)
	}
	mps, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("speed: %w", err)
	}
	target, err := parseAngle(args[2])
	if err != nil {
		return fmt.Errorf("angle: %w", err)
	}

	req := swerve.Setpoint{SpeedMetersPerSecond: mps, SteerAngleRadians: target}
	out := swerve.Optimize(current, req)
	turn := swerve.ShortestAngle(current, out.SteerAngleRadians)

	show := func(rad float64) string {
		return fmt.Sprintf("%.4f rad (%.2f°)", rad, swerve.Rotation(rad).Degrees())
	}
	fmt.Printf("requested: %+.3f m/s at %s\n", req.SpeedMetersPerSecond, show(req.SteerAngleRadians))
	fmt.Printf("commanded: %+.3f m/s at %s\n", out.SpeedMetersPerSecond, show(out.SteerAngleRadians))
	fmt.Printf("turn:      %s\n", show(turn))
	if req.SpeedMetersPerSecond != 0 && out.SpeedMetersPerSecond == -req.SpeedMetersPerSecond {
		fmt.Println("drive reversed")
	}
	return nil
}
