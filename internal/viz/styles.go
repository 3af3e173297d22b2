package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00cccc"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	// Live slots, spare capacity, and the cursor.
	LiveSlot = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#005f5f")).
			Padding(0, 1)

	SpareSlot = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555566")).
			Background(lipgloss.Color("#1a1a26")).
			Padding(0, 1)

	SelectedSlot = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1a001a")).
			Background(lipgloss.Color("#ff88ff")).
			Padding(0, 1)

	StatusPass = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusFail = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00aaaa")).
		Bold(true)

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// Status renders a pass/fail badge.
func Status(passed bool) string {
	if passed {
		return StatusPass.Render("PASS")
	}
	return StatusFail.Render("FAIL")
}

// Metric renders "label value" with the metric styles.
func Metric(label, value string) string {
	return MetricLabel.Render(label+" ") + MetricValue.Render(value)
}

// Sparkline renders the last width values as block characters.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	rng := max - min
	if rng == 0 {
		rng = 1
	}

	var result strings.Builder
	for _, v := range values {
		norm := (v - min) / rng
		idx := int(norm * float64(len(chars)-1))
		c := string(chars[idx])
		if norm > 0.7 {
			result.WriteString(SparkHigh.Render(c))
		} else if norm > 0.3 {
			result.WriteString(SparkMid.Render(c))
		} else {
			result.WriteString(SparkLow.Render(c))
		}
	}
	return result.String()
}
