package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStyledRunesCursor(t *testing.T) {
	runes := buildStyledRunes([]string{"ab"}, nil, 0, []rune("a"))
	require.Len(t, runes, 2)
	assert.Equal(t, correctStyle.Render("a"), runes[0].s)
	assert.Equal(t, cursorStyle.Render("b"), runes[1].s)
}

func TestBuildStyledRunesKeepsTargetOnMistype(t *testing.T) {
	runes := buildStyledRunes([]string{"ab"}, nil, 0, []rune("ax"))
	require.Len(t, runes, 2)
	assert.Equal(t, correctStyle.Render("a"), runes[0].s)
	assert.Equal(t, incorrectStyle.Render("b"), runes[1].s)
}

func TestBuildStyledRunesExtraLetters(t *testing.T) {
	runes := buildStyledRunes([]string{"ab"}, nil, 0, []rune("abc"))
	require.Len(t, runes, 3)
	assert.Equal(t, incorrectStyle.Render("c"), runes[2].s)
}

func TestBuildStyledRunesSessionStrip(t *testing.T) {
	runes := buildStyledRunes([]string{"one", "two", "six"}, []bool{false}, 1, nil)
	require.Len(t, runes, 11)
	assert.Equal(t, incorrectStyle.Render("o"), runes[0].s, "finished words show their result")
	assert.True(t, runes[3].isSpace)
	assert.Equal(t, cursorStyle.Render("t"), runes[4].s)
	assert.Equal(t, currentWordStyle.Render("w"), runes[5].s)
	assert.Equal(t, pendingStyle.Render("s"), runes[8].s)
}

func plain(s string) []styledRune {
	out := make([]styledRune, 0, len(s))
	for _, r := range s {
		out = append(out, styledRune{s: string(r), width: 1, isSpace: r == ' '})
	}
	return out
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	got := wrapStyledRunes(plain("cat ship frog"), 8)
	assert.Equal(t, "cat ship\nfrog", got)
	for _, line := range strings.Split(got, "\n") {
		assert.LessOrEqual(t, len(line), 8)
	}
}

func TestWrapStyledRunesDropsSpaceAtLineEnd(t *testing.T) {
	assert.Equal(t, "ab\ncd", wrapStyledRunes(plain("ab cd"), 2))
	assert.Equal(t, "cat\ndog", wrapStyledRunes(plain("cat dog"), 3))
}

func TestWrapStyledRunesSplitsLongWords(t *testing.T) {
	assert.Equal(t, "abc\ndef\ng", wrapStyledRunes(plain("abcdefg"), 3))
	assert.Equal(t, "abc def", wrapStyledRunes(plain("abc def"), 0))
}
