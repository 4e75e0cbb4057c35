package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/frc-862/lightning-util/internal/analysis"
	"github.com/frc-862/lightning-util/internal/optim"
	"github.com/frc-862/lightning-util/internal/storage"
)

// parseRange reads "lo:hi:n" into n evenly spaced values.
func parseRange(s string) ([]float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("range %q: want lo:hi:n", s)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil, fmt.Errorf("range %q: %w", s, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, fmt.Errorf("range %q: %w", s, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return nil, fmt.Errorf("range %q: bad count", s)
	}
	return optim.Linspace(lo, hi, n), nil
}

// tuneGains takes param=lo:hi:n arguments.
func tuneGains(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, nil)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(args))
	ranges := make([][]float64, 0, len(args))
	for _, arg := range args {
		name, spec, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("expected param=lo:hi:n, got %q", arg)
		}
		r, err := parseRange(spec)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, r)
	}

	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	fmt.Printf("tuning %v on %s for %s...\n", names, cfg.Scenario, tuneMetric)
	best, val, err := g.Search(context.Background(), cfg, tuneMetric)
	if err != nil {
		return err
	}

	fmt.Printf("best %s: %.6f\n", tuneMetric, val)
	for _, name := range names {
		fmt.Printf("  %s: %.4f\n", name, best[name])
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(series.Rows) < 2 {
		return fmt.Errorf("not enough data to analyze")
	}

	fmt.Printf("run: %s (%s, dt=%.4fs)\n\n", meta.ID, meta.Scenario, meta.Dt)
	for _, mod := range meta.Modules {
		if plotMod != "" && mod != plotMod {
			continue
		}
		measured, ok := series.Column(mod + "." + plotCol)
		if !ok {
			return fmt.Errorf("unknown column %q (available: %v)", plotCol, storage.Columns)
		}

		spec := analysis.NewSpectrum(measured, meta.Dt)
		freq, amp := spec.Peak()
		fmt.Printf("%s %s: peak %.3f Hz, amplitude %.4f\n", mod, plotCol, freq, amp)

		if len(spec.Amplitudes) > 1 {
			fmt.Println(asciigraph.Plot(spec.Amplitudes[1:],
				asciigraph.Height(8),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("%s %s spectrum (0-%.0f Hz)", mod, plotCol, 0.5/meta.Dt)),
			))
			fmt.Println()
		}
	}
	return nil
}
