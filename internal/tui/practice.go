package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/verte-zerg/kinetype/internal/engine"
	"github.com/verte-zerg/kinetype/internal/generator"
	"github.com/verte-zerg/kinetype/internal/model"
	"github.com/verte-zerg/kinetype/internal/threshold"
)

// Practicer is the engine surface used by the practice loop.
type Practicer interface {
	Progress(ctx context.Context, learnerID string) (model.LearnerProgress, error)
	Params(ctx context.Context, learnerID string) (threshold.Params, error)
	BuildSession(ctx context.Context, learnerID string, spec model.SessionSpec) (generator.Session, error)
	FinishSession(ctx context.Context, learnerID, sessionID string, outcomes []model.WordOutcome) (engine.FinishResult, error)
}

type practiceState int

const (
	stateLoading practiceState = iota
	stateTyping
	stateSaving
	stateSummary
	stateFailed
)

type sessionMsg struct {
	session generator.Session
	params  threshold.Params
	level   float64
}

type finishedMsg struct {
	result engine.FinishResult
}

type errMsg struct {
	err error
}

// Option customizes a TUI model.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

// WithClock sets the time source used for word timings.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithSessionIDs sets the session id generator.
func WithSessionIDs(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// PracticeModel runs practice sessions back to back.
type PracticeModel struct {
	eng     Practicer
	learner string
	spec    model.SessionSpec
	opts    options

	width  int
	height int

	state     practiceState
	session   generator.Session
	sessionID string
	params    threshold.Params
	level     float64
	index     int
	prompt    wordPrompt
	outcomes  []model.WordOutcome
	results   []bool
	result    engine.FinishResult
	err       error
	completed int
}

// NewPracticeModel constructs the practice TUI.
func NewPracticeModel(eng Practicer, learnerID string, spec model.SessionSpec, opts ...Option) *PracticeModel {
	return &PracticeModel{
		eng:     eng,
		learner: learnerID,
		spec:    spec,
		opts:    buildOptions(opts),
		prompt:  newWordPrompt(),
	}
}

// Init implements tea.Model.
func (m *PracticeModel) Init() tea.Cmd {
	return m.loadSession()
}

// Sessions returns how many sessions were recorded.
func (m *PracticeModel) Sessions() int {
	return m.completed
}

// Err returns the error that stopped the loop, if any.
func (m *PracticeModel) Err() error {
	return m.err
}

// Update implements tea.Model.
func (m *PracticeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case sessionMsg:
		m.startSession(msg)
		return m, nil
	case finishedMsg:
		m.result = msg.result
		m.level = msg.result.NewLevel
		m.params = msg.result.Params
		m.completed++
		m.state = stateSummary
		return m, nil
	case errMsg:
		m.err = msg.err
		m.state = stateFailed
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *PracticeModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	}
	switch m.state {
	case stateTyping:
		submitted, cmd := m.prompt.update(msg)
		if !submitted {
			return m, cmd
		}
		return m, m.submitWord()
	case stateSummary:
		if msg.Type == tea.KeyEnter {
			m.state = stateLoading
			return m, m.loadSession()
		}
	case stateFailed:
		return m, tea.Quit
	}
	return m, nil
}

func (m *PracticeModel) startSession(msg sessionMsg) {
	m.session = msg.session
	m.params = msg.params
	m.level = msg.level
	m.sessionID = m.opts.newID()
	m.index = 0
	m.outcomes = m.outcomes[:0]
	m.results = m.results[:0]
	m.result = engine.FinishResult{}
	if len(m.session.Words) == 0 {
		m.err = fmt.Errorf("no words available for practice")
		m.state = stateFailed
		return
	}
	m.state = stateTyping
	m.prompt.reset(m.opts.now())
}

func (m *PracticeModel) submitWord() tea.Cmd {
	w := m.session.Words[m.index]
	typed := m.prompt.value()
	elapsed := m.prompt.elapsed(m.opts.now())
	correct := typed == w.Display
	m.outcomes = append(m.outcomes, model.WordOutcome{
		WordID:     w.Item.ID,
		Word:       w.Item.Text,
		Group:      w.Item.Group,
		Correct:    correct,
		Input:      typed,
		TimeSpent:  elapsed,
		Backspaces: m.prompt.backspaces,
		Hesitation: engine.Hesitation(m.params, w.Display, elapsed),
	})
	m.results = append(m.results, correct)
	m.index++
	if m.index < len(m.session.Words) {
		m.prompt.reset(m.opts.now())
		return nil
	}
	m.state = stateSaving
	return m.finishSession()
}

func (m *PracticeModel) loadSession() tea.Cmd {
	eng, learner, spec := m.eng, m.learner, m.spec
	return func() tea.Msg {
		ctx := context.Background()
		progress, err := eng.Progress(ctx, learner)
		if err != nil {
			return errMsg{err: err}
		}
		params, err := eng.Params(ctx, learner)
		if err != nil {
			return errMsg{err: err}
		}
		session, err := eng.BuildSession(ctx, learner, spec)
		if err != nil {
			return errMsg{err: err}
		}
		return sessionMsg{session: session, params: params, level: progress.CurrentLevel}
	}
}

func (m *PracticeModel) finishSession() tea.Cmd {
	eng, learner, id := m.eng, m.learner, m.sessionID
	outcomes := append([]model.WordOutcome(nil), m.outcomes...)
	return func() tea.Msg {
		res, err := eng.FinishSession(context.Background(), learner, id, outcomes)
		if err != nil {
			return errMsg{err: fmt.Errorf("failed to save session: %w", err)}
		}
		return finishedMsg{result: res}
	}
}

// View implements tea.Model.
func (m *PracticeModel) View() string {
	var content string
	switch m.state {
	case stateLoading:
		content = hintStyle.Render("Preparing words...")
	case stateSaving:
		content = hintStyle.Render("Saving session...")
	case stateTyping:
		content = m.typingView()
	case stateSummary:
		content = m.summaryView()
	case stateFailed:
		content = incorrectStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + hintStyle.Render("press any key to exit")
	}
	return place(m.width, m.height, content, m.renderFooter())
}

func (m *PracticeModel) typingView() string {
	texts := make([]string, len(m.session.Words))
	for i, w := range m.session.Words {
		texts[i] = w.Display
	}
	strip := buildStyledRunes(texts, m.results, m.index, m.prompt.runes())
	width := 0
	if m.width > 0 {
		width = contentWidth(m.width)
	}
	lines := []string{
		wrapStyledRunes(strip, width),
		"",
		wordStyle.Render(m.session.Words[m.index].Display),
	}
	if sentence := m.session.Words[m.index].Item.Sentence; sentence != "" {
		lines = append(lines, hintStyle.Render(sentence))
	}
	lines = append(lines, "", m.prompt.view())
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *PracticeModel) summaryView() string {
	sum := m.result.Summary
	lines := []string{
		titleStyle.Render("Session complete"),
		"",
		fmt.Sprintf("Correct %d/%d (%.1f%%)", sum.Correct, sum.Words, sum.Accuracy*100),
		fmt.Sprintf("Average %.2fs per word", sum.AvgSeconds),
		fmt.Sprintf("Level %.2f -> %.2f", sum.LevelBefore, sum.LevelAfter),
	}
	hesitations := 0
	for _, o := range m.outcomes {
		if o.Hesitation {
			hesitations++
		}
	}
	if hesitations > 0 {
		lines = append(lines, fmt.Sprintf("Hesitated on %d words", hesitations))
	}
	if len(m.result.Patch.Graduated) > 0 {
		lines = append(lines, correctStyle.Render("Mastered: "+strings.Join(m.result.Patch.Graduated, ", ")))
	}
	var practiceMore []string
	for _, e := range m.result.Patch.Upserts {
		if e.ConsecutiveCorrect == 0 {
			practiceMore = append(practiceMore, e.Word)
		}
	}
	if len(practiceMore) > 0 {
		lines = append(lines, incorrectStyle.Render("Keep practicing: "+strings.Join(practiceMore, ", ")))
	}
	lines = append(lines, "", hintStyle.Render("enter: next session  esc: quit"))
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *PracticeModel) renderFooter() string {
	segments := []string{fmt.Sprintf("Level %.2f", m.level)}
	if m.state == stateTyping && len(m.session.Words) > 0 {
		segments = append([]string{fmt.Sprintf("Word %d/%d", m.index+1, len(m.session.Words))}, segments...)
	}
	if n := len(m.results); n > 0 {
		correct := 0
		for _, ok := range m.results {
			if ok {
				correct++
			}
		}
		segments = append(segments, fmt.Sprintf("Accuracy %.1f%%", float64(correct)/float64(n)*100))
	}
	if m.completed > 0 {
		segments = append(segments, fmt.Sprintf("Sessions %d", m.completed))
	}
	return footerStyle.Render(strings.Join(segments, " · "))
}
