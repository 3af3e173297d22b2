package scenario

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/babyvec/internal/trace"
	"github.com/san-kum/babyvec/internal/vector"
)

var (
	ErrUnknownOp       = errors.New("scenario: unknown op")
	ErrUnknownScenario = errors.New("scenario: unknown scenario")
)

// Scenario is a scripted given/when/then sequence against one vector.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Given       []int   `yaml:"given"`
	Steps       []Step  `yaml:"steps"`
	Expect      *Expect `yaml:"expect"`
}

// Step is one operation. Value is the pushed or written value for push and
// set, and the expected value for get.
type Step struct {
	Op    string `yaml:"op"`
	Index int    `yaml:"index"`
	Value int    `yaml:"value"`
}

type Expect struct {
	Size     *int  `yaml:"size"`
	Elements []int `yaml:"elements"`
}

// ExpectationError reports an observed value that differs from the script.
// Step is -1 for the final expectations.
type ExpectationError struct {
	Step  int
	Field string
	Want  interface{}
	Got   interface{}
}

func (e *ExpectationError) Error() string {
	if e.Step < 0 {
		return fmt.Sprintf("expected %s %v, got %v", e.Field, e.Want, e.Got)
	}
	return fmt.Sprintf("step %d: expected %s %v, got %v", e.Step, e.Field, e.Want, e.Got)
}

// Result is the outcome of one scenario run.
type Result struct {
	Name    string             `json:"name"`
	Passed  bool               `json:"passed"`
	Final   []int              `json:"final"`
	Samples []trace.Sample     `json:"samples"`
	Metrics map[string]float64 `json:"metrics"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = path
	}
	return &sc, nil
}

// Run builds the given elements with PushBack, applies the steps in order and
// checks the final expectations. opts configure the vector under test; any
// observers they add are notified alongside the run's own recorder.
//
// The returned Result is non-nil whenever at least the given block ran; its
// Passed field is false if any error occurred.
func Run(ctx context.Context, sc *Scenario, opts ...vector.Option) (*Result, error) {
	rec := trace.NewRecorder()
	vopts := make([]vector.Option, 0, len(opts)+1)
	vopts = append(vopts, opts...)
	vopts = append(vopts, vector.WithObserver(rec))
	v := vector.New(vopts...)
	defer v.Release()

	res := &Result{Name: sc.Name}
	finish := func(err error) (*Result, error) {
		res.Final = snapshot(v)
		res.Samples = rec.Samples()
		res.Metrics = rec.Metrics()
		res.Passed = err == nil
		return res, err
	}

	for _, x := range sc.Given {
		v.PushBack(x)
		rec.OnPush(v.Size())
	}

	for i, step := range sc.Steps {
		select {
		case <-ctx.Done():
			return finish(ctx.Err())
		default:
		}

		if err := apply(v, rec, step); err != nil {
			var ee *ExpectationError
			if errors.As(err, &ee) {
				ee.Step = i + 1
				return finish(ee)
			}
			return finish(fmt.Errorf("step %d: %w", i+1, err))
		}
	}

	if sc.Expect != nil {
		if err := sc.Expect.check(v); err != nil {
			return finish(err)
		}
	}

	return finish(nil)
}

func apply(v *vector.Vector, rec *trace.Recorder, step Step) error {
	switch step.Op {
	case "push", "push_back":
		v.PushBack(step.Value)
		rec.OnPush(v.Size())
	case "pop", "pop_back":
		v.PopBack()
	case "set":
		return v.Set(step.Index, step.Value)
	case "get":
		got, err := v.Get(step.Index)
		if err != nil {
			return err
		}
		if got != step.Value {
			return &ExpectationError{Field: fmt.Sprintf("element %d", step.Index), Want: step.Value, Got: got}
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, step.Op)
	}
	return nil
}

func (e *Expect) check(v *vector.Vector) error {
	if e.Size != nil && v.Size() != *e.Size {
		return &ExpectationError{Step: -1, Field: "size", Want: *e.Size, Got: v.Size()}
	}
	if e.Elements != nil {
		got := snapshot(v)
		if len(got) != len(e.Elements) {
			return &ExpectationError{Step: -1, Field: "elements", Want: e.Elements, Got: got}
		}
		for i := range got {
			if got[i] != e.Elements[i] {
				return &ExpectationError{Step: -1, Field: "elements", Want: e.Elements, Got: got}
			}
		}
	}
	return nil
}

func snapshot(v *vector.Vector) []int {
	out := make([]int, v.Size())
	for i := range out {
		out[i] = *v.At(i)
	}
	return out
}

func size(n int) *int { return &n }

var builtins = map[string]*Scenario{
	"push-empty": {
		Name:        "push-empty",
		Description: "an empty vector; push_back(4); size is 1 and index 0 is 4",
		Steps:       []Step{{Op: "push", Value: 4}, {Op: "get", Index: 0, Value: 4}},
		Expect:      &Expect{Size: size(1), Elements: []int{4}},
	},
	"push-onto-three": {
		Name:        "push-onto-three",
		Description: "a vector containing 4 1 3; push_back(5); size is 4 and index 3 is 5",
		Given:       []int{4, 1, 3},
		Steps:       []Step{{Op: "push", Value: 5}, {Op: "get", Index: 3, Value: 5}},
		Expect:      &Expect{Size: size(4)},
	},
	"pop-three": {
		Name:        "pop-three",
		Description: "a vector containing 4 1 3; pop_back; size is 2 and the first two items are unchanged",
		Given:       []int{4, 1, 3},
		Steps:       []Step{{Op: "pop"}},
		Expect:      &Expect{Size: size(2), Elements: []int{4, 1}},
	},
	"write-index": {
		Name:        "write-index",
		Description: "a vector containing 4 1 3; write 5 to index 1; contents are 4 5 3",
		Given:       []int{4, 1, 3},
		Steps:       []Step{{Op: "set", Index: 1, Value: 5}},
		Expect:      &Expect{Size: size(3), Elements: []int{4, 5, 3}},
	},
}

// Builtin returns a copy of a bundled scenario.
func Builtin(name string) (*Scenario, error) {
	sc, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, name)
	}
	c := *sc
	return &c, nil
}

func ListBuiltin() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
