package viz

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/babyvec/internal/trace"
	"github.com/san-kum/babyvec/internal/vector"
)

const (
	modeNormal = iota
	modePush
	modeEdit
)

const historyLen = 48

// Playground is an interactive bubbletea model around one vector.
type Playground struct {
	vec      *vector.Vector
	rec      *trace.Recorder
	growth   vector.Growth
	policy   string
	policies []string
	opts     []vector.Option
	rng      *rand.Rand

	mode    int
	cursor  int
	input   string
	message string
	history []float64
	width   int
}

// NewPlayground starts an empty playground under g. opts are applied to every
// vector it builds, before the growth policy and its own recorder.
func NewPlayground(g vector.Growth, seed int64, opts ...vector.Option) Playground {
	if g == nil {
		g = vector.ExactFit{}
	}
	p := Playground{
		growth:   g,
		policy:   g.Name(),
		policies: vector.ListGrowth(),
		opts:     append([]vector.Option(nil), opts...),
		rng:      rand.New(rand.NewSource(seed)),
		width:    80,
	}
	p.rebuild(nil)
	return p
}

// rebuild swaps in a fresh vector under the current policy holding values.
func (p *Playground) rebuild(values []int) {
	if p.vec != nil {
		p.vec.Release()
	}
	p.rec = trace.NewRecorder()
	vopts := make([]vector.Option, 0, len(p.opts)+2)
	vopts = append(vopts, p.opts...)
	vopts = append(vopts, vector.WithGrowth(p.growth), vector.WithObserver(p.rec))
	p.vec = vector.New(vopts...)
	p.history = p.history[:0]
	for _, x := range values {
		p.push(x)
	}
}

func (p *Playground) push(x int) {
	p.vec.PushBack(x)
	p.rec.OnPush(p.vec.Size())
	p.history = append(p.history, float64(p.rec.Capacity()))
	if len(p.history) > historyLen {
		p.history = p.history[1:]
	}
}

func (p Playground) values() []int {
	out := make([]int, p.vec.Size())
	for i := range out {
		out[i] = *p.vec.At(i)
	}
	return out
}

func (p *Playground) clampCursor() {
	if p.cursor >= p.vec.Size() {
		p.cursor = p.vec.Size() - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (p Playground) Init() tea.Cmd { return nil }

func (p Playground) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if p.mode != modeNormal {
			return p.inputKey(msg)
		}
		return p.normalKey(msg)
	case tea.WindowSizeMsg:
		p.width = msg.Width
	}
	return p, nil
}

func (p Playground) normalKey(msg tea.KeyMsg) (Playground, tea.Cmd) {
	p.message = ""
	switch msg.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "p":
		x := p.rng.Intn(100)
		p.push(x)
		p.message = fmt.Sprintf("push_back(%d)", x)
	case "i":
		p.mode, p.input = modePush, ""
	case "x", "backspace":
		p.vec.PopBack()
		p.clampCursor()
		p.message = "pop_back()"
	case "left", "h":
		if p.cursor > 0 {
			p.cursor--
		}
	case "right", "l":
		if p.cursor < p.vec.Size()-1 {
			p.cursor++
		}
	case "+", "=":
		if p.vec.Size() > 0 {
			*p.vec.At(p.cursor)++
		}
	case "-":
		if p.vec.Size() > 0 {
			*p.vec.At(p.cursor)--
		}
	case "e", "enter":
		if p.vec.Size() > 0 {
			p.mode, p.input = modeEdit, strconv.Itoa(*p.vec.At(p.cursor))
		}
	case "g":
		p.nextPolicy()
	case "r":
		p.rebuild(nil)
		p.cursor = 0
		p.message = "released"
	}
	return p, nil
}

func (p Playground) inputKey(msg tea.KeyMsg) (Playground, tea.Cmd) {
	switch msg.String() {
	case "enter":
		x, err := strconv.Atoi(p.input)
		if err != nil {
			p.message = fmt.Sprintf("not an integer: %q", p.input)
		} else if p.mode == modePush {
			p.push(x)
			p.message = fmt.Sprintf("push_back(%d)", x)
		} else if err := p.vec.Set(p.cursor, x); err != nil {
			p.message = err.Error()
		} else {
			p.message = fmt.Sprintf("[%d] = %d", p.cursor, x)
		}
		p.mode, p.input = modeNormal, ""
	case "esc", "ctrl+c":
		p.mode, p.input = modeNormal, ""
	case "backspace":
		if len(p.input) > 0 {
			p.input = p.input[:len(p.input)-1]
		}
	default:
		if s := msg.String(); len(s) == 1 {
			c := s[0]
			if (c >= '0' && c <= '9') || (c == '-' && p.input == "") {
				p.input += s
			}
		}
	}
	return p, nil
}

// nextPolicy moves to the next registered growth policy, carrying the
// current elements over into a fresh vector.
func (p *Playground) nextPolicy() {
	if len(p.policies) == 0 {
		return
	}
	i := -1
	for j, name := range p.policies {
		if name == p.policy {
			i = j
			break
		}
	}
	next := p.policies[(i+1)%len(p.policies)]

	g, err := vector.LookupGrowth(next)
	if err != nil {
		p.message = err.Error()
		return
	}
	p.growth, p.policy = g, next
	p.rebuild(p.values())
	p.message = "growth: " + next
}

func (p Playground) View() string {
	var b strings.Builder

	b.WriteString("\n  " + Title.Render("BABYVEC") + "  " + Subtle.Render("growth "+p.policy) + "\n\n")

	sel := -1
	if p.vec.Size() > 0 {
		sel = p.cursor
	}
	m := p.rec.Metrics()
	panel := strings.Join([]string{
		RenderSlots(p.values(), p.rec.Capacity(), sel),
		"",
		strings.Join([]string{
			Metric("size", strconv.Itoa(p.vec.Size())),
			Metric("capacity", strconv.Itoa(p.rec.Capacity())),
			Metric("allocs", fmt.Sprintf("%.0f", m["allocations"])),
			Metric("copies", fmt.Sprintf("%.0f", m["copies"])),
		}, "   "),
		MetricLabel.Render("capacity ") + Sparkline(p.history, historyLen),
	}, "\n")
	b.WriteString(lipgloss.NewStyle().MarginLeft(2).Render(Panel.Render(panel)) + "\n\n")

	switch p.mode {
	case modePush:
		b.WriteString("  push value: " + p.input + "_\n")
	case modeEdit:
		b.WriteString(fmt.Sprintf("  [%d] = %s_\n", p.cursor, p.input))
	default:
		if p.message != "" {
			b.WriteString("  " + Subtle.Render(p.message) + "\n")
		} else {
			b.WriteString("\n")
		}
	}

	hints := []struct{ key, what string }{
		{"p", "push random"}, {"i", "push value"}, {"x", "pop"}, {"h/l", "move"},
		{"+/-", "adjust"}, {"e", "edit"}, {"g", "growth"}, {"r", "release"}, {"q", "quit"},
	}
	b.WriteString("\n  ")
	for _, h := range hints {
		b.WriteString(KeyHint.Render(h.key) + Subtle.Render(" "+h.what+"  "))
	}
	b.WriteString("\n")
	return b.String()
}

func RunPlayground(g vector.Growth, seed int64, opts ...vector.Option) error {
	_, err := tea.NewProgram(NewPlayground(g, seed, opts...), tea.WithAltScreen()).Run()
	return err
}
