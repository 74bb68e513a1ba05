package rsvp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractWord_RoundTrip(t *testing.T) {
	inputs := []string{
		"Markets rally as inflation cools",
		"  leading and trailing  ",
		"tabs\tand\nnewlines\t\tmixed \n in",
		"single",
		"Élection présidentielle: résultats",
	}

	for _, s := range inputs {
		t.Run(s, func(t *testing.T) {
			want := strings.Fields(s)
			require.Equal(t, len(want), CountWords(s))
			for i, w := range want {
				got, ok := ExtractWord(s, i)
				require.True(t, ok, "word %d", i)
				assert.Equal(t, w, got)
			}
			got, ok := ExtractWord(s, len(want))
			assert.False(t, ok)
			assert.Empty(t, got)
		})
	}
}

func TestExtractWord_Empty(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		index int
	}{
		{"empty text", "", 0},
		{"only delimiters", " \t\n ", 0},
		{"negative index", "hello", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, ok := ExtractWord(tt.text, tt.index)
			assert.False(t, ok)
			assert.Empty(t, w)
		})
	}
}

func TestExtractWord_TruncatesLongWords(t *testing.T) {
	long := strings.Repeat("a", 40)
	w, ok := ExtractWord("short "+long+" tail", 1)
	require.True(t, ok)
	assert.Len(t, w, MaxWordLen)

	tail, ok := ExtractWord("short "+long+" tail", 2)
	require.True(t, ok)
	assert.Equal(t, "tail", tail)
}

func TestExtractWord_TruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("é", 40)
	w, ok := ExtractWord(long, 0)
	require.True(t, ok)
	assert.Equal(t, strings.Repeat("é", MaxWordLen), w)
}

func TestExtractWord_Idempotent(t *testing.T) {
	text := "one two three"
	a, okA := ExtractWord(text, 1)
	b, okB := ExtractWord(text, 1)
	assert.Equal(t, a, b)
	assert.Equal(t, okA, okB)
}

func TestCursor(t *testing.T) {
	var c Cursor
	text := "the quick fox"

	require.True(t, c.Load(text))
	assert.Equal(t, "the", c.Word)
	require.True(t, c.Advance(text))
	assert.Equal(t, "quick", c.Word)
	require.True(t, c.Advance(text))
	assert.Equal(t, "fox", c.Word)
	assert.False(t, c.Advance(text))
	assert.Empty(t, c.Word)
	assert.Equal(t, 3, c.Index)

	c.Reset()
	assert.Equal(t, 0, c.Index)
	assert.Empty(t, c.Word)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "日本", Truncate("日本語", 2))
}
