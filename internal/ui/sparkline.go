package ui

import (
	"math"
	"strings"
)

var bars = []rune(" ▁▂▃▄▅▆▇█")

const levelsPerRow = 8

// Sparkline renders the newest width values as height rows of block glyphs,
// scaled so the largest value fills the full height. Rows are returned top
// first and right-aligned.
func Sparkline(values []float64, width, height int) []string {
	if width <= 0 || height <= 0 {
		return nil
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	peak := Peak(values)

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}

	offset := width - len(values)
	for i, v := range values {
		level := 0
		if peak > 0 && v > 0 {
			level = int(math.Round(v / peak * float64(height*levelsPerRow)))
			if level == 0 {
				level = 1
			}
		}
		for r := 0; r < height; r++ {
			cell := level - r*levelsPerRow
			if cell < 0 {
				cell = 0
			}
			if cell > levelsPerRow {
				cell = levelsPerRow
			}
			grid[height-1-r][offset+i] = bars[cell]
		}
	}

	rows := make([]string, height)
	for r := range grid {
		rows[r] = string(grid[r])
	}
	return rows
}

// Peak returns the largest value, or 0 for an empty slice.
func Peak(values []float64) float64 {
	peak := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}
	return peak
}
