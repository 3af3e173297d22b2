package store

import (
	"encoding/json"
	"os"

	"github.com/san-kum/babyvec/internal/trace"
)

type ExportData struct {
	RunMetadata
	Pushes  int            `json:"pushes"`
	Samples []trace.Sample `json:"samples"`
}

func ExportJSON(path string, meta *RunMetadata, samples []trace.Sample) error {
	data := ExportData{
		RunMetadata: *meta,
		Pushes:      len(samples),
		Samples:     samples,
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
