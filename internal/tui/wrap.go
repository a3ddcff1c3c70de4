// Package tui provides the Bubble Tea practice and placement interfaces.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = currentWordStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Bold(true)
	wordStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	hintStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true)
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes renders the session strip: finished words by result, the
// current word letter by letter against the input, later words as pending.
func buildStyledRunes(words []string, results []bool, current int, input []rune) []styledRune {
	var out []styledRune
	for i, word := range words {
		if i > 0 {
			out = append(out, styledRune{s: " ", width: 1, isSpace: true})
		}
		switch {
		case i < current:
			style := correctStyle
			if i < len(results) && !results[i] {
				style = incorrectStyle
			}
			out = appendWord(out, word, style)
		case i == current:
			out = appendCurrent(out, []rune(word), input)
		default:
			out = appendWord(out, word, pendingStyle)
		}
	}
	return out
}

func appendWord(out []styledRune, word string, style lipgloss.Style) []styledRune {
	for _, r := range word {
		out = append(out, styledRune{s: style.Render(string(r)), width: runewidth.RuneWidth(r)})
	}
	return out
}

func appendCurrent(out []styledRune, target, input []rune) []styledRune {
	for i, r := range target {
		style := currentWordStyle
		switch {
		case i < len(input) && input[i] == r:
			style = correctStyle
		case i < len(input):
			style = incorrectStyle
		case i == len(input):
			style = cursorStyle
		}
		out = append(out, styledRune{s: style.Render(string(r)), width: runewidth.RuneWidth(r)})
	}
	// Letters typed past the end of the word.
	for _, r := range input[min(len(input), len(target)):] {
		out = append(out, styledRune{s: incorrectStyle.Render(string(r)), width: runewidth.RuneWidth(r)})
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks lines at spaces so no line exceeds width cells.
// Words longer than width are split.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if item.isSpace {
				// The overflowing space becomes the line break.
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
				i++
				continue
			}
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}

// contentWidth is the share of the terminal used for text.
func contentWidth(termWidth int) int {
	w := int(float64(termWidth) * 0.70)
	if w < 1 {
		return 1
	}
	return w
}

// place centers content, pinning footer to the last line when there is room.
func place(width, height int, content, footer string) string {
	if width == 0 || height == 0 {
		if footer == "" {
			return content
		}
		return content + "\n\n" + footer
	}
	if footer == "" || height < 3 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(width, height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}
