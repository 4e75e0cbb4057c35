// Package optim searches controller gains by running the drivetrain once per
// candidate.
package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/frc-862/lightning-util/internal/config"
	"github.com/frc-862/lightning-util/internal/experiment"
)

// Setters maps tunable gain names onto a config.
var Setters = map[string]func(cfg *config.Config, v float64){
	"drive_kp": func(c *config.Config, v float64) { c.Drive.Kp = v },
	"drive_ki": func(c *config.Config, v float64) { c.Drive.Ki = v },
	"drive_kd": func(c *config.Config, v float64) { c.Drive.Kd = v },
	"steer_kp": func(c *config.Config, v float64) { c.Steer.Kp = v },
	"steer_ki": func(c *config.Config, v float64) { c.Steer.Ki = v },
	"steer_kd": func(c *config.Config, v float64) { c.Steer.Kd = v },
}

func ListParams() []string {
	names := make([]string, 0, len(Setters))
	for name := range Setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d params but %d ranges", len(params), len(ranges))
	}
	for _, p := range params {
		if _, ok := Setters[p]; !ok {
			return nil, fmt.Errorf("unknown param: %s (available: %v)", p, ListParams())
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

// Search runs every combination of gains on a copy of base and returns the
// one that minimizes metricName. Combinations that fail to build or run are
// skipped.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, metricName, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("no candidate produced metric %q", metricName)
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		cfg := *base
		for k, v := range current {
			Setters[k](&cfg, v)
		}
		exp, err := experiment.New(&cfg)
		if err != nil {
			return nil
		}
		defer exp.Close()

		result, err := exp.Run(ctx)
		if err != nil || len(result.Errors) > 0 {
			return nil
		}

		val, ok := result.Metrics[metricName]
		if ok && val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}
