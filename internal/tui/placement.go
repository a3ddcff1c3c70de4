package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/kinetype/internal/model"
	"github.com/verte-zerg/kinetype/internal/placement"
	"github.com/verte-zerg/kinetype/internal/threshold"
)

// Placer is the engine surface used by the placement test.
type Placer interface {
	NewPlacement() *placement.Selector
	CompletePlacement(ctx context.Context, learnerID string, res placement.Result) (threshold.Params, error)
}

type placedMsg struct {
	result placement.Result
	params threshold.Params
}

// PlacementModel runs the placement test one word at a time.
type PlacementModel struct {
	eng     Placer
	learner string
	opts    options

	width  int
	height int

	sel     *placement.Selector
	current model.WordItem
	prompt  wordPrompt
	state   practiceState
	result  placement.Result
	params  threshold.Params
	err     error
	done    bool
}

// NewPlacementModel constructs the placement TUI.
func NewPlacementModel(eng Placer, learnerID string, opts ...Option) *PlacementModel {
	m := &PlacementModel{
		eng:     eng,
		learner: learnerID,
		opts:    buildOptions(opts),
		sel:     eng.NewPlacement(),
		prompt:  newWordPrompt(),
	}
	m.advance()
	return m
}

// Init implements tea.Model.
func (m *PlacementModel) Init() tea.Cmd {
	if m.state == stateSaving {
		return m.complete()
	}
	return nil
}

// Completed reports whether the result was stored.
func (m *PlacementModel) Completed() bool {
	return m.done
}

// Result returns the stored placement result.
func (m *PlacementModel) Result() placement.Result {
	return m.result
}

// Err returns the error that stopped the test, if any.
func (m *PlacementModel) Err() error {
	return m.err
}

// Update implements tea.Model.
func (m *PlacementModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case placedMsg:
		m.result = msg.result
		m.params = msg.params
		m.done = true
		m.state = stateSummary
		return m, nil
	case errMsg:
		m.err = msg.err
		m.state = stateFailed
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch m.state {
		case stateTyping:
			submitted, cmd := m.prompt.update(msg)
			if !submitted {
				return m, cmd
			}
			return m, m.submit()
		case stateSummary, stateFailed:
			if msg.Type == tea.KeyEnter || m.state == stateFailed {
				return m, tea.Quit
			}
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m *PlacementModel) submit() tea.Cmd {
	typed := m.prompt.value()
	ans := placement.Answer{
		Correct: typed == m.current.Text,
		Input:   typed,
		Elapsed: m.prompt.elapsed(m.opts.now()),
	}
	if err := m.sel.Record(ans); err != nil {
		m.err = err
		m.state = stateFailed
		return nil
	}
	m.advance()
	if m.state == stateSaving {
		return m.complete()
	}
	return nil
}

// advance shows the next item, or moves to saving when the test is over.
func (m *PlacementModel) advance() {
	item, ok := m.sel.Next()
	if !ok {
		m.state = stateSaving
		return
	}
	m.current = item
	m.state = stateTyping
	m.prompt.reset(m.opts.now())
}

func (m *PlacementModel) complete() tea.Cmd {
	eng, learner, res := m.eng, m.learner, m.sel.Result()
	return func() tea.Msg {
		params, err := eng.CompletePlacement(context.Background(), learner, res)
		if err != nil {
			return errMsg{err: err}
		}
		return placedMsg{result: res, params: params}
	}
}

// View implements tea.Model.
func (m *PlacementModel) View() string {
	var content string
	switch m.state {
	case stateTyping:
		lines := []string{
			titleStyle.Render("Placement"),
			hintStyle.Render("Type each word and press space."),
			"",
			wordStyle.Render(m.current.Text),
		}
		if m.current.Sentence != "" {
			lines = append(lines, hintStyle.Render(m.current.Sentence))
		}
		lines = append(lines, "", m.prompt.view())
		content = lipgloss.JoinVertical(lipgloss.Center, lines...)
	case stateSaving:
		content = hintStyle.Render("Saving placement...")
	case stateSummary:
		content = m.summaryView()
	case stateFailed:
		content = incorrectStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + hintStyle.Render("press any key to exit")
	}
	footer := ""
	if m.state == stateTyping {
		footer = footerStyle.Render(fmt.Sprintf("Word %d/%d", m.sel.Answered()+1, m.sel.Items()))
	}
	return place(m.width, m.height, content, footer)
}

func (m *PlacementModel) summaryView() string {
	weak := "none"
	if len(m.result.WeakGroups) > 0 {
		names := make([]string, len(m.result.WeakGroups))
		for i, g := range m.result.WeakGroups {
			names[i] = string(g)
		}
		weak = strings.Join(names, ", ")
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Placement complete"),
		"",
		fmt.Sprintf("Correct %d/%d", m.result.Correct, len(m.result.Attempts)),
		fmt.Sprintf("Starting level %d", m.result.Level),
		fmt.Sprintf("Focus groups: %s", weak),
		fmt.Sprintf("Hesitation after %.1fs for a 5-letter word", m.params.Threshold(5)),
		"",
		hintStyle.Render("enter: continue"),
	)
}
