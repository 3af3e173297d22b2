package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/babyvec/internal/trace"
)

// Stroke colors per column in TraceToSVG.
var columnColors = map[string]string{
	"length":   "#00ccff",
	"capacity": "#00ff88",
	"copied":   "#ff88ff",
}

// TraceToSVG charts length, capacity and cumulative copies against push
// count. Capacity is drawn as a step line since it only changes on growth.
func TraceToSVG(samples []trace.Sample, width, height int) string {
	if len(samples) < 2 {
		return ""
	}

	maxX := float64(samples[len(samples)-1].Push)
	maxY := 1.0
	for _, s := range samples {
		for _, v := range []int{s.Length, s.Capacity, s.CopiedTotal} {
			if float64(v) > maxY {
				maxY = float64(v)
			}
		}
	}
	maxY *= 1.1

	px := func(push int) float64 { return float64(push) / maxX * float64(width) }
	py := func(v int) float64 { return float64(height) - float64(v)/maxY*float64(height) }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, column := range []string{"copied", "capacity", "length"} {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" data-series="%s" d="M`, columnColors[column], column))
		prev := 0
		for i, s := range samples {
			var v int
			switch column {
			case "length":
				v = s.Length
			case "capacity":
				v = s.Capacity
			default:
				v = s.CopiedTotal
			}

			x, y := px(s.Push), py(v)
			switch {
			case i == 0:
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			case column == "capacity" && v != prev:
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f L%.1f,%.1f", x, py(prev), x, y))
			default:
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
			prev = v
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
