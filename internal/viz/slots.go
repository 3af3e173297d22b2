package viz

import (
	"fmt"
	"strings"
)

// maxSlots bounds how many cells RenderSlots draws before eliding.
const maxSlots = 24

// RenderSlots draws the live elements followed by spare capacity. selected
// highlights one live index; pass -1 for none.
func RenderSlots(values []int, capacity, selected int) string {
	if capacity < len(values) {
		capacity = len(values)
	}
	if capacity == 0 {
		return Subtle.Render("(no storage)")
	}

	var b strings.Builder
	shown := capacity
	if shown > maxSlots {
		shown = maxSlots
	}

	for i := 0; i < shown; i++ {
		switch {
		case i < len(values) && i == selected:
			b.WriteString(SelectedSlot.Render(fmt.Sprint(values[i])))
		case i < len(values):
			b.WriteString(LiveSlot.Render(fmt.Sprint(values[i])))
		default:
			b.WriteString(SpareSlot.Render("·"))
		}
		b.WriteString(" ")
	}
	if capacity > shown {
		b.WriteString(Subtle.Render(fmt.Sprintf("… +%d", capacity-shown)))
	}
	return strings.TrimRight(b.String(), " ")
}
