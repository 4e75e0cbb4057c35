package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/frc-862/lightning-util/internal/sim"
	"github.com/frc-862/lightning-util/internal/swerve"
)

func testResult() *sim.Result {
	row := func(v float64) []sim.Sample {
		return []sim.Sample{
			{
				Requested: swerve.Setpoint{SpeedMetersPerSecond: 2, SteerAngleRadians: 3.0},
				Commanded: swerve.Setpoint{SpeedMetersPerSecond: -2, SteerAngleRadians: 3.0 - 3.141593},
				State:     swerve.ModuleState{DriveVelocity: v, SteerAngle: 0.1},
			},
			{State: swerve.ModuleState{DriveVelocity: 2 * v}},
		}
	}
	return &sim.Result{
		Modules: []string{"fl", "fr"},
		Times:   []float64{0.02, 0.04},
		Samples: [][]sim.Sample{row(0.5), row(1.0)},
		Metrics: map[string]float64{"reversals": 2},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{Scenario: "reverse", Module: "mk4i_l2", Seed: 42, Dt: 0.02}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Scenario != "reverse" {
		t.Errorf("expected scenario 'reverse', got '%s'", meta.Scenario)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Metrics["reversals"] != 2 {
		t.Errorf("expected 2 reversals, got %f", meta.Metrics["reversals"])
	}
	if len(meta.Modules) != 2 {
		t.Errorf("expected 2 modules, got %d", len(meta.Modules))
	}

	series, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}

	if len(series.Rows) != 2 || len(series.Times) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(series.Rows))
	}
	if len(series.Header) != 1+2*len(Columns) {
		t.Errorf("expected %d columns, got %d", 1+2*len(Columns), len(series.Header))
	}

	vel, ok := series.Column("fr.velocity")
	if !ok {
		t.Fatal("missing fr.velocity column")
	}
	if vel[0] != 1.0 || vel[1] != 2.0 {
		t.Errorf("unexpected fr.velocity %v", vel)
	}

	cmd, _ := series.Column("fl.cmd_speed")
	if cmd[0] != -2 {
		t.Errorf("expected commanded speed -2, got %f", cmd[0])
	}

	if _, ok := series.Column("time"); ok {
		t.Error("time is not a data column")
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(RunMetadata{Scenario: "hold"}, testResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "nope")).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{Scenario: "hold"}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "states.csv")); os.IsNotExist(err) {
		t.Error("states.csv not created")
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	result := testResult()

	jsonPath := filepath.Join(dir, "run.json")
	if err := ExportJSON(jsonPath, RunMetadata{Scenario: "reverse"}, result); err != nil {
		t.Fatalf("export json failed: %v", err)
	}
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Steps != 2 || data.Scenario != "reverse" {
		t.Errorf("unexpected export %+v", data.RunMetadata)
	}
	if len(data.Samples[0]) != 2*len(Columns) {
		t.Errorf("expected %d values per row, got %d", 2*len(Columns), len(data.Samples[0]))
	}

	csvPath := filepath.Join(dir, "run.csv")
	if err := ExportCSV(csvPath, result); err != nil {
		t.Fatalf("export csv failed: %v", err)
	}
	if info, err := os.Stat(csvPath); err != nil || info.Size() == 0 {
		t.Error("csv export is empty")
	}
}
