package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	defaultPivotColumn = 20
	// minPivotColumn leaves room for the longest possible lead-in before
	// the pivot (four runes, up to two cells each).
	minPivotColumn = 8
	focalTop       = "▼"
	focalBottom    = "▲"
)

// pivotColumn is the screen column the pivot letter is pinned to.
func pivotColumn(width int) int {
	if width <= 0 {
		return defaultPivotColumn
	}
	col := width * 2 / 5
	if col < minPivotColumn {
		col = minPivotColumn
	}
	return col
}

// leadPadding is how many blank cells precede before so that the pivot
// starts at col.
func leadPadding(before string, col int) int {
	pad := col - runewidth.StringWidth(before)
	if pad < 0 {
		return 0
	}
	return pad
}

// renderWord pins the pivot rune at col, colored on its own.
func renderWord(before, pivot, after string, col int, st Styles) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", leadPadding(before, col)))
	if before != "" {
		b.WriteString(st.Text.Render(before))
	}
	if pivot != "" {
		b.WriteString(st.Pivot.Render(pivot))
	}
	if after != "" {
		b.WriteString(st.Text.Render(after))
	}
	return b.String()
}

// focalLine draws the marker above or below the pivot column.
func focalLine(mark string, col int, st Styles) string {
	return strings.Repeat(" ", col) + st.Focal.Render(mark)
}

// renderReadout stacks the focal marks around the word. The word row is
// kept even when empty so the marks never jump.
func renderReadout(before, pivot, after string, col int, st Styles) string {
	return strings.Join([]string{
		focalLine(focalTop, col, st),
		renderWord(before, pivot, after, col, st),
		focalLine(focalBottom, col, st),
	}, "\n")
}
