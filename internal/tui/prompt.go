package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const maxInputLen = 48

// wordPrompt is the input line for one word. It counts backspaces and
// remembers when the word was shown.
type wordPrompt struct {
	input      textinput.Model
	shownAt    time.Time
	backspaces int
}

func newWordPrompt() wordPrompt {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = maxInputLen
	ti.Focus()
	return wordPrompt{input: ti}
}

func (p *wordPrompt) reset(now time.Time) {
	p.input.Reset()
	p.shownAt = now
	p.backspaces = 0
}

func (p *wordPrompt) value() string {
	return strings.TrimSpace(p.input.Value())
}

func (p *wordPrompt) runes() []rune {
	return []rune(p.input.Value())
}

// update feeds a key to the input. submitted is true when space or enter
// ends a non-empty word; the key itself is not inserted.
func (p *wordPrompt) update(msg tea.KeyMsg) (submitted bool, cmd tea.Cmd) {
	switch msg.Type {
	case tea.KeySpace, tea.KeyEnter:
		return p.value() != "", nil
	case tea.KeyBackspace, tea.KeyCtrlH:
		if p.input.Value() != "" {
			p.backspaces++
		}
	case tea.KeyRunes:
		if len(msg.Runes) == 1 && msg.Runes[0] == ' ' {
			return p.value() != "", nil
		}
	}
	p.input, cmd = p.input.Update(msg)
	return false, cmd
}

func (p *wordPrompt) elapsed(now time.Time) time.Duration {
	d := now.Sub(p.shownAt)
	if d < 0 {
		return 0
	}
	return d
}

func (p *wordPrompt) view() string {
	return p.input.View()
}
