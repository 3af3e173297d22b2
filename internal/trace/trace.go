package trace

import (
	"github.com/san-kum/babyvec/internal/vector"
)

// Sample is the state of a vector right after one push.
type Sample struct {
	Push        int `json:"push"`
	Length      int `json:"length"`
	Capacity    int `json:"capacity"`
	CopiedTotal int `json:"copied_total"`
}

// Recorder observes growth events and, when fed pushes, builds a sample
// series. The capacity it reports is the one seen in the last growth event.
type Recorder struct {
	events   []vector.GrowthEvent
	samples  []Sample
	capacity int
	copied   int
	pushes   int
}

func NewRecorder() *Recorder {
	return &Recorder{
		events:  make([]vector.GrowthEvent, 0),
		samples: make([]Sample, 0),
	}
}

func (r *Recorder) OnGrow(ev vector.GrowthEvent) {
	r.events = append(r.events, ev)
	r.capacity = ev.NewCapacity
	r.copied += ev.Copied
}

// OnPush records a sample for a vector that now holds length elements.
func (r *Recorder) OnPush(length int) {
	r.pushes++
	r.samples = append(r.samples, Sample{
		Push:        r.pushes,
		Length:      length,
		Capacity:    r.capacity,
		CopiedTotal: r.copied,
	})
}

func (r *Recorder) Events() []vector.GrowthEvent { return r.events }
func (r *Recorder) Samples() []Sample            { return r.samples }
func (r *Recorder) Capacity() int                { return r.capacity }

func (r *Recorder) Reset() {
	r.events = r.events[:0]
	r.samples = r.samples[:0]
	r.capacity, r.copied, r.pushes = 0, 0, 0
}

// Metrics summarises a recorded series.
func (r *Recorder) Metrics() map[string]float64 {
	m := map[string]float64{
		"pushes":      float64(r.pushes),
		"allocations": float64(len(r.events)),
		"copies":      float64(r.copied),
		"capacity":    float64(r.capacity),
	}

	peak := 0
	for _, s := range r.samples {
		if slack := s.Capacity - s.Length; slack > peak {
			peak = slack
		}
	}
	m["peak_slack"] = float64(peak)

	if r.pushes > 0 {
		m["copies_per_push"] = float64(r.copied) / float64(r.pushes)
	} else {
		m["copies_per_push"] = 0
	}
	return m
}

// Result is the outcome of a growth run.
type Result struct {
	Policy  string             `json:"policy"`
	Samples []Sample           `json:"samples"`
	Metrics map[string]float64 `json:"metrics"`
}

// Run pushes n values onto a fresh vector using g and records how it grew.
// opts are applied before g, so g always wins over a WithGrowth in opts.
func Run(g vector.Growth, n int, opts ...vector.Option) *Result {
	rec := NewRecorder()
	vopts := make([]vector.Option, 0, len(opts)+2)
	vopts = append(vopts, opts...)
	vopts = append(vopts, vector.WithGrowth(g), vector.WithObserver(rec))
	v := vector.New(vopts...)
	defer v.Release()

	for i := 0; i < n; i++ {
		v.PushBack(i)
		rec.OnPush(v.Size())
	}

	return &Result{
		Policy:  g.Name(),
		Samples: rec.Samples(),
		Metrics: rec.Metrics(),
	}
}

// Series extracts one column of the samples for plotting.
func (r *Result) Series(column string) []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		switch column {
		case "length":
			out[i] = float64(s.Length)
		case "copied":
			out[i] = float64(s.CopiedTotal)
		default:
			out[i] = float64(s.Capacity)
		}
	}
	return out
}
