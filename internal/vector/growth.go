package vector

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Growth decides the capacity of the replacement block when an append does
// not fit. The result must be at least need.
type Growth interface {
	Grow(length, capacity, need int) int
	Name() string
}

// ExactFit allocates precisely enough room for the pending append.
type ExactFit struct{}

func (ExactFit) Grow(length, capacity, need int) int { return need }
func (ExactFit) Name() string                        { return "exact" }

// Geometric multiplies the current capacity by Factor.
type Geometric struct {
	Factor float64
}

// NewGeometric validates factor and returns the policy.
func NewGeometric(factor float64) (Geometric, error) {
	if !(factor > 1) || math.IsInf(factor, 1) {
		return Geometric{}, fmt.Errorf("%w: %v", ErrInvalidFactor, factor)
	}
	return Geometric{Factor: factor}, nil
}

func (g Geometric) Grow(length, capacity, need int) int {
	next := int(math.Ceil(float64(capacity) * g.Factor))
	if next < need {
		next = need
	}
	return next
}

// Name is the registry name for a registered factor and "geometric(f)"
// otherwise. Either form is accepted by LookupGrowth.
func (g Geometric) Name() string {
	switch g.Factor {
	case 2:
		return "double"
	case 1.5:
		return "golden"
	}
	return "geometric(" + strconv.FormatFloat(g.Factor, 'g', -1, 64) + ")"
}

var policies = map[string]func() Growth{
	"exact":  func() Growth { return ExactFit{} },
	"double": func() Growth { return Geometric{Factor: 2} },
	"golden": func() Growth { return Geometric{Factor: 1.5} },
}

// LookupGrowth returns the policy with the given name: a registered name, or
// "geometric(f)" as reported by Geometric.Name.
func LookupGrowth(name string) (Growth, error) {
	if fn, ok := policies[name]; ok {
		return fn(), nil
	}
	if arg, ok := strings.CutPrefix(name, "geometric("); ok && strings.HasSuffix(arg, ")") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(arg, ")"), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownGrowth, name)
		}
		return NewGeometric(f)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownGrowth, name)
}

// ParseGrowth resolves a configured policy. "geometric" takes its factor from
// the second argument; every other name goes through the registry.
func ParseGrowth(name string, factor float64) (Growth, error) {
	if name == "geometric" {
		return NewGeometric(factor)
	}
	return LookupGrowth(name)
}

func ListGrowth() []string {
	names := make([]string, 0, len(policies))
	for name := range policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
