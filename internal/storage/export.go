package storage

import (
	"encoding/json"
	"os"

	"github.com/frc-862/lightning-util/internal/sim"
)

type ExportData struct {
	RunMetadata
	Steps   int         `json:"steps"`
	Header  []string    `json:"header"`
	Times   []float64   `json:"times"`
	Samples [][]float64 `json:"samples"`
}

// ExportJSON writes a whole run, metadata and samples, to one JSON file.
func ExportJSON(path string, meta RunMetadata, result *sim.Result) error {
	meta.Modules = result.Modules
	meta.Metrics = result.Metrics
	data := ExportData{
		RunMetadata: meta,
		Steps:       len(result.Times),
		Header:      Header(result.Modules),
		Times:       result.Times,
		Samples:     make([][]float64, len(result.Samples)),
	}

	for i, samples := range result.Samples {
		row := make([]float64, 0, len(samples)*len(Columns))
		for _, smp := range samples {
			row = append(row, sampleRow(smp)...)
		}
		data.Samples[i] = row
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV writes the samples of a run to a standalone CSV file.
func ExportCSV(path string, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteCSV(file, result)
}
