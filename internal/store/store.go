package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/babyvec/internal/trace"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Kind      string             `json:"kind"`
	Name      string             `json:"name"`
	Growth    string             `json:"growth"`
	Timestamp time.Time          `json:"timestamp"`
	Passed    bool               `json:"passed"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Run is what gets persisted for one scenario, check or growth run.
type Run struct {
	Kind    string
	Name    string
	Growth  string
	Passed  bool
	Metrics map[string]float64
	Samples []trace.Sample
}

func (s *Store) Save(run Run) (string, error) {
	ts := s.now()
	runID := fmt.Sprintf("%s_%d", run.Kind, ts.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Kind:      run.Kind,
		Name:      run.Name,
		Growth:    run.Growth,
		Timestamp: ts,
		Passed:    run.Passed,
		Metrics:   run.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, traceFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"push", "length", "capacity", "copied_total"}); err != nil {
		return "", err
	}
	for _, smp := range run.Samples {
		row := []string{
			strconv.Itoa(smp.Push),
			strconv.Itoa(smp.Length),
			strconv.Itoa(smp.Capacity),
			strconv.Itoa(smp.CopiedTotal),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns every readable run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTrace(runID string) ([]trace.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 4

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	samples := make([]trace.Sample, 0, len(records))
	for i := 1; i < len(records); i++ {
		var vals [4]int
		for j, field := range records[i] {
			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", traceFile, i+1, err)
			}
			vals[j] = n
		}
		samples = append(samples, trace.Sample{Push: vals[0], Length: vals[1], Capacity: vals[2], CopiedTotal: vals[3]})
	}

	return samples, nil
}

// TracePath is the CSV file backing a run.
func (s *Store) TracePath(runID string) string {
	return filepath.Join(s.baseDir, runID, traceFile)
}
