package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/manav03panchal/dailytracker/internal/model"
	"github.com/manav03panchal/dailytracker/internal/progress"
)

const (
	cellFilled = "■"
	cellEmpty  = "□"
	barFull    = "█"
)

// Blend mixes hex color fg over white at the given opacity and returns the
// resulting #RRGGBB color.
func Blend(fg string, opacity float64) string {
	r, g, b, ok := parseHex(fg)
	if !ok {
		return fg
	}
	opacity = max(0, min(opacity, 1))
	mix := func(c uint8) uint8 {
		return uint8(float64(c)*opacity + 255*(1-opacity) + 0.5)
	}
	return fmt.Sprintf("#%02X%02X%02X", mix(r), mix(g), mix(b))
}

func parseHex(s string) (r, g, b uint8, ok bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

// HeatmapRows lays cells out in weeks of seven, one row per week, oldest
// first.
func HeatmapRows(cells []progress.Day) [][]progress.Day {
	var rows [][]progress.Day
	for len(cells) > 0 {
		n := min(7, len(cells))
		rows = append(rows, cells[:n])
		cells = cells[n:]
	}
	return rows
}

// renderCell draws one heatmap cell. Without color, cells at or above half
// opacity are drawn filled.
func renderCell(d progress.Day, color model.TaskColor, colored bool) string {
	if !colored {
		if d.Opacity >= 0.5 {
			return cellFilled
		}
		return cellEmpty
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(Blend(color.Stroke, d.Opacity)))
	if d.IsToday {
		style = style.Underline(true)
	}
	return style.Render(cellFilled)
}

// Bar returns a horizontal bar of amount scaled so that peak spans width.
func Bar(amount, peak, width int) string {
	if amount <= 0 || peak <= 0 || width <= 0 {
		return ""
	}
	n := int(float64(amount) / float64(peak) * float64(width))
	return strings.Repeat(barFull, max(n, 1))
}

// peak returns the largest trend amount.
func peak(points []progress.Point) int {
	p := 0
	for _, pt := range points {
		p = max(p, pt.Amount)
	}
	return p
}
