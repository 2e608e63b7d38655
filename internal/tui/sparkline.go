package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparkBlocks are ordered from lowest to highest.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// sparkline renders the last width points of data. When lo == hi the range
// is taken from the data itself.
func sparkline(data []float64, width int, lo, hi float64, color lipgloss.Color) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	if width < len(data) {
		data = data[len(data)-width:]
	}

	if lo == hi {
		lo, hi = data[0], data[0]
		for _, v := range data {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}

	var b strings.Builder
	for _, v := range data {
		if lo == hi {
			b.WriteRune(sparkBlocks[len(sparkBlocks)/2])
			continue
		}
		normalized := math.Max(0, math.Min(1, (v-lo)/(hi-lo)))
		b.WriteRune(sparkBlocks[int(normalized*float64(len(sparkBlocks)-1))])
	}

	return lipgloss.NewStyle().Foreground(color).Render(b.String())
}
