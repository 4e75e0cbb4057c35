package neo

import (
	"errors"
	"math"
	"testing"

	"github.com/frc-862/lightning-util/internal/swerve"
)

type fakeMotor struct {
	inverted     bool
	nominal      float64
	limit        int
	frames       map[PeriodicFrame]int
	idle         IdleMode
	posFactor    float64
	velFactor    float64
	reference    float64
	velocity     float64
	failReads    bool
	rejectLimits bool
}

var errTimeout = errors.New("can timeout")

func (m *fakeMotor) SetInverted(inv bool) error                { m.inverted = inv; return nil }
func (m *fakeMotor) EnableVoltageCompensation(v float64) error { m.nominal = v; return nil }
func (m *fakeMotor) SetPeriodicFramePeriod(f PeriodicFrame, ms int) error {
	m.frames[f] = ms
	return nil
}
func (m *fakeMotor) SetIdleMode(mode IdleMode) error             { m.idle = mode; return nil }
func (m *fakeMotor) SetPositionConversionFactor(f float64) error { m.posFactor = f; return nil }
func (m *fakeMotor) SetVelocityConversionFactor(f float64) error { m.velFactor = f; return nil }
func (m *fakeMotor) SetVelocityReference(v float64) error        { m.reference = v; return nil }

func (m *fakeMotor) SetSmartCurrentLimit(amps int) error {
	if m.rejectLimits {
		return errTimeout
	}
	m.limit = amps
	return nil
}

func (m *fakeMotor) value(v float64) (float64, error) {
	if m.failReads {
		return 0, errTimeout
	}
	return v, nil
}

func (m *fakeMotor) Position() (float64, error)      { return m.value(1.25) }
func (m *fakeMotor) Velocity() (float64, error)      { return m.value(m.velocity) }
func (m *fakeMotor) BusVoltage() (float64, error)    { return m.value(12) }
func (m *fakeMotor) AppliedOutput() (float64, error) { return m.value(0.5) }
func (m *fakeMotor) Temperature() (float64, error)   { return m.value(30) }
func (m *fakeMotor) OutputCurrent() (float64, error) { return m.value(15) }

func newFake() *fakeMotor {
	return &fakeMotor{frames: make(map[PeriodicFrame]int), velocity: 2}
}

func TestBuildConfiguresMotor(t *testing.T) {
	m := newFake()
	factory := NewDriveBuilder().
		WithVoltageCompensation(12).
		WithCurrentLimit(40).
		Build(func(id int) (Motor, error) { return m, nil })

	dc, err := factory.Create(3, swerve.MK4iL2, nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if !m.inverted {
		t.Error("expected inversion from module configuration")
	}
	if m.nominal != 12 || m.limit != 40 {
		t.Errorf("expected compensation 12 and limit 40, got %v %v", m.nominal, m.limit)
	}
	if m.idle != IdleBrake {
		t.Error("expected brake mode")
	}
	if m.frames[Status0] != 100 || m.frames[Status1] != 20 || m.frames[Status2] != 20 {
		t.Errorf("unexpected frame periods %v", m.frames)
	}
	want := math.Pi * swerve.MK4iL2.WheelDiameter * swerve.MK4iL2.DriveReduction
	if math.Abs(m.posFactor-want) > 1e-12 || math.Abs(m.velFactor-want/60) > 1e-12 {
		t.Errorf("unexpected conversion factors %v %v", m.posFactor, m.velFactor)
	}

	dc.SetReferenceSpeed(3.5)
	if m.reference != 3.5 {
		t.Errorf("expected reference 3.5, got %v", m.reference)
	}
	if dc.Voltage() != 6 {
		t.Errorf("expected 6 V, got %v", dc.Voltage())
	}
}

func TestBuildWithoutOptionalSettings(t *testing.T) {
	b := NewDriveBuilder()
	if b.HasVoltageCompensation() || b.HasCurrentLimit() {
		t.Fatal("fresh builder should have no optional settings")
	}

	m := newFake()
	if _, err := b.Build(func(int) (Motor, error) { return m, nil }).Create(1, swerve.MK4L1, nil); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if m.nominal != 0 || m.limit != 0 {
		t.Errorf("optional settings applied: %v %v", m.nominal, m.limit)
	}
}

func TestBuildFailsFast(t *testing.T) {
	dialErr := errors.New("no device 9")
	_, err := NewDriveBuilder().Build(func(int) (Motor, error) { return nil, dialErr }).Create(9, swerve.MK4iL2, nil)
	if !errors.Is(err, dialErr) {
		t.Errorf("expected dial error, got %v", err)
	}

	m := newFake()
	m.rejectLimits = true
	_, err = NewDriveBuilder().WithCurrentLimit(40).Build(func(int) (Motor, error) { return m, nil }).Create(1, swerve.MK4iL2, nil)
	if !errors.Is(err, errTimeout) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestReadsFailClosed(t *testing.T) {
	m := newFake()
	dc, err := NewDriveBuilder().Build(func(int) (Motor, error) { return m, nil }).Create(1, swerve.MK4iL2, nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if v := dc.StateVelocity(); v != 2 {
		t.Fatalf("expected 2, got %v", v)
	}

	m.failReads = true
	m.velocity = 5
	if v := dc.StateVelocity(); v != 2 {
		t.Errorf("expected last known velocity 2, got %v", v)
	}
	if v := dc.Temperature(); v != 0 {
		t.Errorf("expected zero for a never-read value, got %v", v)
	}

	m.rejectLimits = true
	dc.SetCurrentLimit(10)
}
