package telemetry

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frc-862/lightning-util/internal/swerve"
)

var _ swerve.Container = (*Layout)(nil)

func TestLayoutSnapshot(t *testing.T) {
	root := NewLayout("Drivetrain", 0)
	fl := root.Layout("Front Left")
	v := 1.0
	fl.AddNumber("Current Velocity", func() float64 { return v })
	fl.AddString("Driver", func() string { return "sim" })
	fl.AddNumber("Broken", func() float64 { return math.NaN() })

	if root.Layout("Front Left") != fl {
		t.Fatal("expected the same child layout")
	}

	snap := root.Snapshot()
	if len(snap.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(snap.Children))
	}
	c := snap.Children[0]
	if c.Numbers["Current Velocity"] != 1.0 || c.Strings["Driver"] != "sim" {
		t.Errorf("unexpected snapshot %+v", c)
	}
	if c.Numbers["Broken"] != 0 {
		t.Errorf("non-finite values should publish as 0, got %v", c.Numbers["Broken"])
	}

	v = 2.0
	if got := root.Snapshot().Children[0].Numbers["Current Velocity"]; got != 2.0 {
		t.Errorf("unthrottled layout should resample, got %v", got)
	}
	if w := fl.Widgets(); len(w) != 3 || w[0] != "Current Velocity" {
		t.Errorf("unexpected widget order %v", w)
	}
}

func TestLayoutThrottle(t *testing.T) {
	root := NewLayout("root", 0.001)
	calls := 0
	root.AddNumber("n", func() float64 { calls++; return float64(calls) })

	first := root.Snapshot()
	second := root.Snapshot()
	if calls != 1 {
		t.Errorf("expected one sample within the rate limit, got %d", calls)
	}
	if first.Numbers["n"] != second.Numbers["n"] {
		t.Error("expected cached snapshot")
	}
}

func TestServer(t *testing.T) {
	root := NewLayout("Drivetrain", 0)
	root.Layout("Front Left").AddNumber("Steer Temperature", func() float64 { return 30 })

	srv := httptest.NewServer(NewServer(root).Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/telemetry/Front%20Left")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if snap.Numbers["Steer Temperature"] != 30 {
		t.Errorf("unexpected snapshot %+v", snap)
	}

	resp2, err := http.Get(srv.URL + "/telemetry/missing")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp2.StatusCode)
	}
}
