package main

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/frc-862/lightning-util/internal/config"
	"github.com/frc-862/lightning-util/internal/optim"
	"github.com/frc-862/lightning-util/internal/sim"
	"github.com/frc-862/lightning-util/internal/swerve"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	dt         float64
	duration   float64
	speed      float64
	seed       int64
	integrator string
	driver     string
	module     string
	driveKp    float64
	steerKp    float64

	outFile    string
	plotMod    string
	plotCol    string
	addr       string
	rateHz     float64
	degrees    bool
	tuneMetric string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "swervelab",
		Short: "swerve module simulation lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".swervelab", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario and save the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRobotFlags(runCmd)
	runCmd.Flags().StringVarP(&outFile, "out", "o", "", "also export the run to a .json or .csv file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotMod, "module", "", "only plot this module")
	plotCmd.Flags().StringVar(&plotCol, "column", "velocity", "column to plot ("+strings.Join(columnNames(), ", ")+")")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list presets and module geometries",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run the drivetrain with a live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addRobotFlags(liveCmd)

	serveCmd := &cobra.Command{
		Use:   "serve [scenario]",
		Short: "run the drivetrain in real time and publish telemetry over HTTP",
		Args:  cobra.MaximumNArgs(1),
		RunE:  serveTelemetry,
	}
	addRobotFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	serveCmd.Flags().Float64Var(&rateHz, "rate", config.DefaultRate, "telemetry sample rate limit (Hz)")

	optimizeCmd := &cobra.Command{
		Use:   "optimize [current] [speed] [angle]",
		Short: "show the setpoint a module issues for a request",
		Args:  cobra.ExactArgs(3),
		RunE:  optimizeSetpoint,
	}
	optimizeCmd.Flags().BoolVar(&degrees, "deg", false, "angles are in degrees")

	compareCmd := &cobra.Command{
		Use:   "compare [scenario] [scenario] ...",
		Short: "run several scenarios on the same robot and compare metrics",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareScenarios,
	}
	addRobotFlags(compareCmd)

	tuneCmd := &cobra.Command{
		Use:   "tune [param=lo:hi:n] ...",
		Short: "grid search controller gains (" + strings.Join(optim.ListParams(), ", ") + ")",
		Args:  cobra.MinimumNArgs(1),
		RunE:  tuneGains,
	}
	addRobotFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "velocity_error", "metric to minimize")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a recorded column",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&plotMod, "module", "", "only analyze this module")
	analyzeCmd.Flags().StringVar(&plotCol, "column", "velocity", "column to analyze")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCSVCmd, presetsCmd, liveCmd, serveCmd, optimizeCmd, compareCmd, tuneCmd, analyzeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRobotFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	cmd.Flags().StringVar(&configFile, "config", "", "robot config file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&dt, "dt", def.Dt, "control period")
	cmd.Flags().Float64Var(&duration, "time", def.Duration, "duration")
	cmd.Flags().Float64Var(&speed, "speed", def.Speed, "requested wheel speed (m/s)")
	cmd.Flags().Int64Var(&seed, "seed", def.Seed, "random seed")
	cmd.Flags().StringVar(&integrator, "integrator", def.Integrator, "integrator (euler, rk4)")
	cmd.Flags().StringVar(&driver, "driver", def.Driver, "drive driver (sim, neo)")
	cmd.Flags().StringVar(&module, "module", def.Module, "module preset")
	cmd.Flags().Float64Var(&driveKp, "drive-kp", def.Drive.Kp, "simulated drive kp")
	cmd.Flags().Float64Var(&steerKp, "steer-kp", def.Steer.Kp, "simulated steer kp")
}

// resolveConfig layers defaults, the config file, a preset, the scenario
// argument and any flags the user set, in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	scenario := cfg.Scenario
	if len(args) > 0 {
		scenario = args[0]
	}

	if preset != "" {
		p := config.GetPreset(scenario, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(scenario))
		}
		cfg.Name = p.Name
		cfg.Module = p.Module
		cfg.Speed = p.Speed
		cfg.Dt = p.Dt
		cfg.Duration = p.Duration
		cfg.Seed = p.Seed
	}
	cfg.Scenario = scenario

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("speed") {
		cfg.Speed = speed
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("driver") {
		cfg.Driver = driver
	}
	if flags.Changed("module") {
		cfg.Module = module
		cfg.Geometry = nil
	}
	if flags.Changed("drive-kp") {
		cfg.Drive.Kp = driveKp
	}
	if flags.Changed("steer-kp") {
		cfg.Steer.Kp = steerKp
	}

	if _, err := sim.NewScenario(cfg.Scenario, cfg.Speed, len(cfg.Modules), cfg.Seed); err != nil {
		return nil, fmt.Errorf("%w (available: %v)", err, sim.ListScenarios())
	}
	return cfg, cfg.Validate()
}

func listPresets(cmd *cobra.Command, args []string) error {
	scenarios := sim.ListScenarios()
	if len(args) > 0 {
		scenarios = args
	}
	for _, sc := range scenarios {
		presets := config.ListPresets(sc)
		if len(presets) == 0 {
			fmt.Printf("no presets for scenario: %s\n", sc)
			continue
		}
		fmt.Printf("presets for %s:\n", sc)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}

	fmt.Println("\nmodules:")
	for _, name := range sortedModules() {
		g := swerve.Presets[name]
		fmt.Printf("  %-8s  wheel %.4fm  drive 1:%.2f  steer 1:%.2f  inverted drive=%t steer=%t\n",
			name, g.WheelDiameter, 1/g.DriveReduction, 1/g.SteerReduction, g.DriveInverted, g.SteerInverted)
	}
	return nil
}
