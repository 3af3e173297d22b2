package scenario

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/babyvec/internal/vector"
)

func TestBuiltinScenarios(t *testing.T) {
	growths := []vector.Growth{vector.ExactFit{}, vector.Geometric{Factor: 2}}

	for _, name := range ListBuiltin() {
		for _, g := range growths {
			t.Run(name+"/"+g.Name(), func(t *testing.T) {
				sc, err := Builtin(name)
				if err != nil {
					t.Fatalf("builtin %s: %v", name, err)
				}
				res, err := Run(context.Background(), sc, vector.WithGrowth(g))
				if err != nil {
					t.Fatalf("run failed: %v", err)
				}
				if !res.Passed {
					t.Error("expected pass")
				}
			})
		}
	}
}

func TestBuiltinUnknown(t *testing.T) {
	if _, err := Builtin("nope"); !errors.Is(err, ErrUnknownScenario) {
		t.Errorf("expected ErrUnknownScenario, got %v", err)
	}
}

func TestLoadAndRun(t *testing.T) {
	sc, err := Load("testdata/write_index.yaml")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "write-index-file" || len(sc.Steps) != 3 {
		t.Fatalf("unexpected scenario: %+v", sc)
	}

	res, err := Run(context.Background(), sc)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	expected := []int{4, 5, 3}
	for i := range expected {
		if res.Final[i] != expected[i] {
			t.Errorf("final = %v, want %v", res.Final, expected)
			break
		}
	}
	if len(res.Samples) != 3 {
		t.Errorf("expected 3 push samples, got %d", len(res.Samples))
	}
	if res.Metrics["copies"] != 3 {
		t.Errorf("expected 3 copies, got %v", res.Metrics["copies"])
	}
}

func TestRunUnknownOp(t *testing.T) {
	sc, err := Load("testdata/bad_op.yaml")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	res, err := Run(context.Background(), sc)
	if !errors.Is(err, ErrUnknownOp) {
		t.Fatalf("expected ErrUnknownOp, got %v", err)
	}
	if err.Error() != `step 1: scenario: unknown op: "insert"` {
		t.Errorf("unexpected message %q", err.Error())
	}
	if res.Passed {
		t.Error("result should not pass")
	}
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name string
		sc   *Scenario
		step int
	}{
		{
			name: "wrong get",
			sc:   &Scenario{Given: []int{4, 1, 3}, Steps: []Step{{Op: "get", Index: 2, Value: 9}}},
			step: 1,
		},
		{
			name: "wrong size",
			sc:   &Scenario{Given: []int{4}, Expect: &Expect{Size: size(2)}},
			step: -1,
		},
		{
			name: "wrong elements",
			sc:   &Scenario{Given: []int{4, 1}, Steps: []Step{{Op: "pop"}}, Expect: &Expect{Elements: []int{1}}},
			step: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(context.Background(), tt.sc)
			var ee *ExpectationError
			if !errors.As(err, &ee) {
				t.Fatalf("expected ExpectationError, got %v", err)
			}
			if ee.Step != tt.step {
				t.Errorf("expected step %d, got %d", tt.step, ee.Step)
			}
		})
	}
}

func TestRunOutOfRange(t *testing.T) {
	sc := &Scenario{Given: []int{1}, Steps: []Step{{Op: "set", Index: 1, Value: 2}}}
	res, err := Run(context.Background(), sc)
	if !errors.Is(err, vector.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if len(res.Final) != 1 || res.Final[0] != 1 {
		t.Errorf("vector modified by failed set: %v", res.Final)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sc := &Scenario{Steps: []Step{{Op: "push", Value: 1}}}
	if _, err := Run(ctx, sc); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

type growthCounter struct{ grows int }

func (g *growthCounter) OnGrow(vector.GrowthEvent) { g.grows++ }

func TestRunKeepsCallerObserver(t *testing.T) {
	sc, err := Builtin("push-onto-three")
	if err != nil {
		t.Fatal(err)
	}

	obs := &growthCounter{}
	res, err := Run(context.Background(), sc, vector.WithObserver(obs))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	// exact fit: one growth per push
	if obs.grows != 4 {
		t.Errorf("caller observer saw %d growths, want 4", obs.grows)
	}
	if len(res.Samples) != 4 || res.Metrics["allocations"] != 4 {
		t.Errorf("recorder lost events: %d samples, %v", len(res.Samples), res.Metrics)
	}
}

func TestRunLeavesCallerOptionsAlone(t *testing.T) {
	sc, err := Builtin("push-empty")
	if err != nil {
		t.Fatal(err)
	}

	marked := false
	opts := make([]vector.Option, 1, 4)
	opts[0] = vector.WithGrowth(vector.ExactFit{})
	opts[:2][1] = func(*vector.Vector) { marked = true }

	if _, err := Run(context.Background(), sc, opts...); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	opts[:2][1](vector.New())
	if !marked {
		t.Error("run wrote into the spare capacity of the caller's options")
	}
}

func TestRunWithPool(t *testing.T) {
	pool := vector.NewBlockPool()
	for _, name := range ListBuiltin() {
		sc, err := Builtin(name)
		if err != nil {
			t.Fatal(err)
		}
		res, err := Run(context.Background(), sc, vector.WithPool(pool))
		if err != nil || !res.Passed {
			t.Fatalf("%s: pooled run failed: %v", name, err)
		}
	}
	if st := pool.Stats(); st.Hits+st.Misses == 0 {
		t.Error("pool was never used")
	}
}
