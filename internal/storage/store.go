package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/frc-862/lightning-util/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Scenario   string             `json:"scenario"`
	Module     string             `json:"module"`
	Driver     string             `json:"driver"`
	Integrator string             `json:"integrator"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Speed      float64            `json:"speed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Modules    []string           `json:"modules"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Columns recorded for every module, in order.
var Columns = []string{
	"req_speed", "req_angle",
	"cmd_speed", "cmd_angle",
	"velocity", "position", "angle",
	"voltage", "amperage", "drive_temp", "steer_temp",
}

func sampleRow(smp sim.Sample) []float64 {
	st := smp.State
	return []float64{
		smp.Requested.SpeedMetersPerSecond, smp.Requested.SteerAngleRadians,
		smp.Commanded.SpeedMetersPerSecond, smp.Commanded.SteerAngleRadians,
		st.DriveVelocity, st.DrivePosition, st.SteerAngle,
		st.DriveVoltage, st.DriveAmperage, st.DriveTemperature, st.SteerTemperature,
	}
}

// Header returns the states.csv header for the given module names.
func Header(modules []string) []string {
	header := []string{"time"}
	for _, m := range modules {
		for _, c := range Columns {
			header = append(header, m+"."+c)
		}
	}
	return header
}

// Save writes metadata.json and states.csv for a run. ID, Timestamp,
// Modules and Metrics in meta are filled in from the result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Scenario, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Modules = result.Modules
	meta.Metrics = result.Metrics

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "states.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteCSV writes a result as a header row plus one row per tick.
func WriteCSV(f *os.File, result *sim.Result) error {
	w := csv.NewWriter(f)
	if err := w.Write(Header(result.Modules)); err != nil {
		return err
	}

	for i, samples := range result.Samples {
		row := []string{strconv.FormatFloat(result.Times[i], 'f', 6, 64)}
		for _, smp := range samples {
			for _, val := range sampleRow(smp) {
				row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// Series is a loaded states.csv.
type Series struct {
	Header []string
	Times  []float64
	Rows   [][]float64
}

// Column returns the values of the named column, or false if it is absent.
func (s *Series) Column(name string) ([]float64, bool) {
	for j, h := range s.Header {
		if h != name || j == 0 {
			continue
		}
		out := make([]float64, len(s.Rows))
		for i, row := range s.Rows {
			if j-1 < len(row) {
				out[i] = row[j-1]
			}
		}
		return out, true
	}
	return nil, false
}

func (s *Store) LoadStates(runID string) (*Series, error) {
	csvPath := filepath.Join(s.baseDir, runID, "states.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	series := &Series{}
	if len(records) == 0 {
		return series, nil
	}
	series.Header = records[0]

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		series.Times = append(series.Times, t)

		row := make([]float64, 0, len(record)-1)
		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				val = 0
			}
			row = append(row, val)
		}
		series.Rows = append(series.Rows, row)
	}

	return series, nil
}
