package config

import "sort"

// Presets are ready-made runs keyed by scenario, then by variant.
var Presets = map[string]map[string]*Config{
	"hold": {
		"straight": {Scenario: "hold", Module: "mk4i_l2", Speed: 2.0, Dt: 0.02, Duration: 3.0},
		"sprint":   {Scenario: "hold", Module: "mk4i_l3", Speed: 4.5, Dt: 0.02, Duration: 3.0},
	},
	"sweep": {
		"slow": {Scenario: "sweep", Module: "mk4i_l2", Speed: 1.0, Dt: 0.02, Duration: 8.0},
		"fast": {Scenario: "sweep", Module: "mk4i_l2", Speed: 3.0, Dt: 0.01, Duration: 8.0},
	},
	"reverse": {
		"crawl": {Scenario: "reverse", Module: "mk4_l1", Speed: 0.5, Dt: 0.02, Duration: 6.0},
		"full":  {Scenario: "reverse", Module: "mk4i_l2", Speed: 4.0, Dt: 0.02, Duration: 6.0},
	},
	"spin": {
		"in_place": {Scenario: "spin", Module: "mk4i_l2", Speed: 2.0, Dt: 0.02, Duration: 4.0},
	},
	"random": {
		"stress": {Scenario: "random", Module: "mk4i_l2", Speed: 3.0, Dt: 0.01, Duration: 10.0, Seed: 862},
		"gentle": {Scenario: "random", Module: "mk4_l2", Speed: 1.0, Dt: 0.02, Duration: 10.0, Seed: 1},
	},
}

// GetPreset returns a full config for the preset, or nil if it does not
// exist. Fields the preset leaves out keep their defaults.
func GetPreset(scenario, name string) *Config {
	variants, ok := Presets[scenario]
	if !ok {
		return nil
	}
	p, ok := variants[name]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Name = scenario + "_" + name
	cfg.Scenario = p.Scenario
	cfg.Module = p.Module
	cfg.Speed = p.Speed
	cfg.Dt = p.Dt
	cfg.Duration = p.Duration
	cfg.Seed = p.Seed
	return cfg
}

func ListPresets(scenario string) []string {
	variants, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
