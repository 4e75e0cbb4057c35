package swerve

import (
	"math"
	"testing"
)

func TestInputModulus(t *testing.T) {
	tests := []struct {
		name     string
		x        float64
		min, max float64
		expected float64
	}{
		{"inside", 1.0, 0, twoPi, 1.0},
		{"lower bound", 0, 0, twoPi, 0},
		{"upper bound wraps", twoPi, 0, twoPi, 0},
		{"negative", -math.Pi / 2, 0, twoPi, 3 * math.Pi / 2},
		{"many turns", 7*twoPi + 0.25, 0, twoPi, 0.25},
		{"signed upper bound", math.Pi, -math.Pi, math.Pi, -math.Pi},
		{"signed lower bound", -math.Pi, -math.Pi, math.Pi, -math.Pi},
		{"signed inside", math.Pi / 2, -math.Pi, math.Pi, math.Pi / 2},
		{"degrees", 370, -180, 180, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InputModulus(tt.x, tt.min, tt.max)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("InputModulus(%v, %v, %v) = %v, want %v", tt.x, tt.min, tt.max, got, tt.expected)
			}
		})
	}
}

func TestNormalizeRanges(t *testing.T) {
	for x := -50.0; x <= 50.0; x += 0.113 {
		a := NormalizeZeroToTwoPi(x)
		if a < 0 || a >= twoPi {
			t.Fatalf("NormalizeZeroToTwoPi(%v) = %v out of range", x, a)
		}
		b := NormalizeNegPiToPi(x)
		if b < -math.Pi || b >= math.Pi {
			t.Fatalf("NormalizeNegPiToPi(%v) = %v out of range", x, b)
		}
		if math.Abs(math.Sin(a)-math.Sin(x)) > 1e-9 || math.Abs(math.Cos(b)-math.Cos(x)) > 1e-9 {
			t.Fatalf("normalizing %v changed the angle", x)
		}
	}
}

func TestShortestAngleIgnoresWholeTurns(t *testing.T) {
	for _, theta := range []float64{-3.0, -0.4, 0, 1.2, 2.9} {
		for _, phi := range []float64{-2.2, 0.1, 3.0} {
			base := ShortestAngle(phi, theta)
			for turns := -4; turns <= 4; turns++ {
				got := ShortestAngle(phi+float64(turns)*twoPi, theta-float64(turns)*twoPi)
				d := NormalizeNegPiToPi(got - base)
				if math.Abs(d) > 1e-9 {
					t.Errorf("theta=%v phi=%v turns=%d: got %v, want %v", theta, phi, turns, got, base)
				}
			}
			if base < -math.Pi || base >= math.Pi {
				t.Errorf("shortest angle %v out of [-pi, pi)", base)
			}
		}
	}
}

func TestOptimizeBoundary(t *testing.T) {
	out := Optimize(0, Setpoint{SpeedMetersPerSecond: 1, SteerAngleRadians: math.Pi / 2})
	if out.SpeedMetersPerSecond != 1 {
		t.Errorf("exactly 90 degrees should not reverse, got speed %v", out.SpeedMetersPerSecond)
	}

	for _, current := range []float64{0, 0.7, -2.1, 5.5, 40} {
		out := Optimize(current, Setpoint{SpeedMetersPerSecond: 1, SteerAngleRadians: current + math.Pi/2 + 1e-6})
		if out.SpeedMetersPerSecond != -1 {
			t.Errorf("current=%v: expected reversal just past 90 degrees", current)
		}
		out = Optimize(current, Setpoint{SpeedMetersPerSecond: 1, SteerAngleRadians: current + math.Pi/2 - 1e-6})
		if out.SpeedMetersPerSecond != 1 {
			t.Errorf("current=%v: unexpected reversal just inside 90 degrees", current)
		}
	}
}

func TestOptimizeNearTieStaysWithinQuarterTurn(t *testing.T) {
	for current := -10.0; current < 10; current += 0.01 {
		out := Optimize(current, Setpoint{SpeedMetersPerSecond: 1, SteerAngleRadians: current + math.Pi/2})
		if math.Abs(out.SpeedMetersPerSecond) != 1 {
			t.Fatalf("current=%v: speed magnitude changed to %v", current, out.SpeedMetersPerSecond)
		}
		if d := math.Abs(ShortestAngle(out.SteerAngleRadians, current)); d > math.Pi/2+1e-9 {
			t.Errorf("current=%v: commanded angle %v is %v from current", current, out.SteerAngleRadians, d)
		}
	}
}

func TestOptimizeOutputRange(t *testing.T) {
	for current := -10.0; current < 10; current += 0.9 {
		for target := -10.0; target < 10; target += 0.7 {
			out := Optimize(current, Setpoint{SpeedMetersPerSecond: 2, SteerAngleRadians: target})
			if out.SteerAngleRadians < 0 || out.SteerAngleRadians >= twoPi {
				t.Fatalf("commanded angle %v out of [0, 2pi)", out.SteerAngleRadians)
			}
			if math.Abs(out.SpeedMetersPerSecond) != 2 {
				t.Fatalf("speed magnitude changed: %v", out.SpeedMetersPerSecond)
			}
		}
	}
}

func TestRotation(t *testing.T) {
	r := FromDegrees(90)
	if math.Abs(r.Radians()-math.Pi/2) > 1e-12 {
		t.Errorf("expected pi/2, got %v", r.Radians())
	}
	if math.Abs(r.Degrees()-90) > 1e-9 {
		t.Errorf("expected 90, got %v", r.Degrees())
	}
	if math.Abs(r.Sin()-1) > 1e-12 || math.Abs(r.Cos()) > 1e-12 {
		t.Errorf("unexpected sin/cos %v %v", r.Sin(), r.Cos())
	}
}

func TestModuleConfigurationValidate(t *testing.T) {
	for name, cfg := range Presets {
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}

	bad := MK4iL2
	bad.WheelDiameter = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected error for zero wheel diameter")
	}

	bad = MK4iL2
	bad.DriveReduction = math.NaN()
	if err := bad.Validate(); err == nil {
		t.Error("expected error for NaN drive reduction")
	}
}

func TestDrivePositionFactor(t *testing.T) {
	cfg := ModuleConfiguration{WheelDiameter: 0.1, DriveReduction: 0.5}
	want := math.Pi * 0.1 * 0.5
	if math.Abs(cfg.DrivePositionFactor()-want) > 1e-12 {
		t.Errorf("expected %v, got %v", want, cfg.DrivePositionFactor())
	}
}
