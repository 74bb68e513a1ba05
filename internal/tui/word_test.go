package tui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/skim/internal/rsvp"
)

func TestPivotColumn(t *testing.T) {
	assert.Equal(t, defaultPivotColumn, pivotColumn(0))
	assert.Equal(t, 40, pivotColumn(100))
	assert.Equal(t, minPivotColumn, pivotColumn(10))
}

func TestLeadPadding(t *testing.T) {
	tests := []struct {
		name   string
		before string
		col    int
		want   int
	}{
		{"empty lead-in", "", 10, 10},
		{"ascii", "Ra", 10, 8},
		{"wide runes take two cells", "日本", 10, 6},
		{"never negative", "abcdef", 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, leadPadding(tt.before, tt.col))
		})
	}
}

func TestRenderWord_PivotAtColumn(t *testing.T) {
	var st Styles
	for _, word := range []string{"a", "Rates", "rise.", "international", "Überraschung"} {
		before, pivot, after := rsvp.Split(word)
		line := renderWord(before, pivot, after, 12, st)

		idx := strings.Index(line, pivot)
		require.GreaterOrEqual(t, idx, 0, word)
		assert.Equal(t, 12, runewidth.StringWidth(line[:idx]), "pivot of %q should start at column 12", word)
		assert.Equal(t, word, strings.TrimLeft(line, " "))
	}
}

func TestRenderReadout_MarksAlignWithPivot(t *testing.T) {
	var st Styles
	out := renderReadout("", "", "", 5, st)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "     "+focalTop, lines[0])
	assert.Equal(t, "     ", lines[1])
	assert.Equal(t, "     "+focalBottom, lines[2])
}
