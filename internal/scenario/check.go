package scenario

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/san-kum/babyvec/internal/vector"
)

type CheckConfig struct {
	Seed   int64
	Runs   int
	MaxOps int
	Growth vector.Growth
	// Pool, if set, backs every run's vector.
	Pool *vector.BlockPool
}

// Divergence is the first point where the vector and the reference model
// disagreed.
type Divergence struct {
	Seed   int64  `json:"seed"`
	Run    int    `json:"run"`
	Op     int    `json:"op"`
	Action string `json:"action"`
	Detail string `json:"detail"`
}

func (d *Divergence) Error() string {
	return fmt.Sprintf("seed %d run %d op %d (%s): %s", d.Seed, d.Run, d.Op, d.Action, d.Detail)
}

type Report struct {
	Seed     int64         `json:"seed"`
	Runs     int           `json:"runs"`
	Ops      int           `json:"ops"`
	Failures []*Divergence `json:"failures"`
}

func (r *Report) Passed() bool { return len(r.Failures) == 0 }

// Check runs random push/pop/set sequences against a vector and a plain slice
// side by side. Each run stops at its first divergence; later runs continue.
func Check(ctx context.Context, cfg CheckConfig) (*Report, error) {
	if cfg.Runs <= 0 || cfg.MaxOps <= 0 {
		return nil, fmt.Errorf("check: runs and max ops must be positive (got %d, %d)", cfg.Runs, cfg.MaxOps)
	}
	if cfg.Growth == nil {
		cfg.Growth = vector.ExactFit{}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	report := &Report{Seed: cfg.Seed, Failures: make([]*Divergence, 0)}

	for run := 0; run < cfg.Runs; run++ {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		ops, d := checkRun(rng, cfg, run)
		report.Runs++
		report.Ops += ops
		if d != nil {
			report.Failures = append(report.Failures, d)
		}
	}

	return report, nil
}

func checkRun(rng *rand.Rand, cfg CheckConfig, run int) (int, *Divergence) {
	opts := []vector.Option{vector.WithGrowth(cfg.Growth)}
	if cfg.Pool != nil {
		opts = append(opts, vector.WithPool(cfg.Pool))
	}
	v := vector.New(opts...)
	defer v.Release()

	var model []int
	n := 1 + rng.Intn(cfg.MaxOps)

	fail := func(op int, action, format string, args ...interface{}) *Divergence {
		return &Divergence{Seed: cfg.Seed, Run: run, Op: op, Action: action, Detail: fmt.Sprintf(format, args...)}
	}

	for op := 0; op < n; op++ {
		var action string
		switch k := rng.Intn(10); {
		case k < 6:
			x := rng.Int() - rng.Int()
			action = fmt.Sprintf("push %d", x)
			v.PushBack(x)
			model = append(model, x)
		case k < 8:
			action = "pop"
			v.PopBack()
			if len(model) > 0 {
				model = model[:len(model)-1]
			}
		default:
			if len(model) == 0 {
				action = "set on empty"
				if err := v.Set(0, 1); err == nil {
					return op + 1, fail(op, action, "expected bounds error")
				}
				break
			}
			i, x := rng.Intn(len(model)), rng.Int()
			action = fmt.Sprintf("set %d=%d", i, x)
			*v.At(i) = x
			model[i] = x
		}

		if v.Size() != len(model) {
			return op + 1, fail(op, action, "size %d, model %d", v.Size(), len(model))
		}
		for i, want := range model {
			if got := *v.At(i); got != want {
				return op + 1, fail(op, action, "index %d = %d, model %d", i, got, want)
			}
		}
	}

	// Popping everything must always bring the vector back to empty.
	for range model {
		v.PopBack()
	}
	v.PopBack()
	if v.Size() != 0 {
		return n, fail(n, "drain", "size %d after draining", v.Size())
	}

	return n, nil
}
