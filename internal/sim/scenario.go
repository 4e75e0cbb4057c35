package sim

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/frc-862/lightning-util/internal/swerve"
)

// Hold commands every module to the same constant setpoint.
type Hold struct {
	Speed float64
	Angle float64
}

func (h *Hold) Name() string { return "hold" }
func (h *Hold) Setpoint(module int, t float64) swerve.Setpoint {
	return swerve.Setpoint{SpeedMetersPerSecond: h.Speed, SteerAngleRadians: h.Angle}
}

// Sweep turns the requested heading at a constant rate.
type Sweep struct {
	Speed float64
	Rate  float64 // rad/s
}

func (s *Sweep) Name() string { return "sweep" }
func (s *Sweep) Setpoint(module int, t float64) swerve.Setpoint {
	return swerve.Setpoint{SpeedMetersPerSecond: s.Speed, SteerAngleRadians: s.Rate * t}
}

// Reverse flips the requested heading by π every Period seconds. An
// optimizing module answers by reversing the wheel instead of turning.
type Reverse struct {
	Speed  float64
	Period float64
}

func (r *Reverse) Name() string { return "reverse" }
func (r *Reverse) Setpoint(module int, t float64) swerve.Setpoint {
	angle := 0.0
	if int(math.Floor(t/r.Period))%2 == 1 {
		angle = math.Pi
	}
	return swerve.Setpoint{SpeedMetersPerSecond: r.Speed, SteerAngleRadians: angle}
}

// Spin points each module tangent to a circle through the module corners,
// as four modules on a square chassis do when rotating in place.
type Spin struct {
	Speed   float64
	Modules int
}

func (s *Spin) Name() string { return "spin" }
func (s *Spin) Setpoint(module int, t float64) swerve.Setpoint {
	n := s.Modules
	if n < 1 {
		n = 4
	}
	corner := math.Pi/4 + float64(module)*2*math.Pi/float64(n)
	return swerve.Setpoint{SpeedMetersPerSecond: s.Speed, SteerAngleRadians: corner + math.Pi/2}
}

// Random jumps to a new uniformly random heading every Period seconds.
type Random struct {
	Speed  float64
	Period float64

	rng    *rand.Rand
	angles map[int]float64
	slot   map[int]int
}

func NewRandom(speed, period float64, seed int64) *Random {
	return &Random{
		Speed:  speed,
		Period: period,
		rng:    rand.New(rand.NewSource(seed)),
		angles: make(map[int]float64),
		slot:   make(map[int]int),
	}
}

func (r *Random) Name() string { return "random" }
func (r *Random) Setpoint(module int, t float64) swerve.Setpoint {
	slot := int(math.Floor(t / r.Period))
	if last, ok := r.slot[module]; !ok || last != slot {
		r.slot[module] = slot
		r.angles[module] = r.rng.Float64() * 2 * math.Pi
	}
	return swerve.Setpoint{SpeedMetersPerSecond: r.Speed, SteerAngleRadians: r.angles[module]}
}

var scenarios = map[string]func(speed float64, modules int, seed int64) Scenario{
	"hold":    func(speed float64, _ int, _ int64) Scenario { return &Hold{Speed: speed} },
	"sweep":   func(speed float64, _ int, _ int64) Scenario { return &Sweep{Speed: speed, Rate: math.Pi / 2} },
	"reverse": func(speed float64, _ int, _ int64) Scenario { return &Reverse{Speed: speed, Period: 1.0} },
	"spin":    func(speed float64, n int, _ int64) Scenario { return &Spin{Speed: speed, Modules: n} },
	"random":  func(speed float64, _ int, seed int64) Scenario { return NewRandom(speed, 0.5, seed) },
}

// NewScenario builds a scenario by name.
func NewScenario(name string, speed float64, modules int, seed int64) (Scenario, error) {
	fn, ok := scenarios[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %s", name)
	}
	return fn(speed, modules, seed), nil
}

func ListScenarios() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
