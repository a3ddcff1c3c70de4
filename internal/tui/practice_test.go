package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/kinetype/internal/engine"
	"github.com/verte-zerg/kinetype/internal/generator"
	"github.com/verte-zerg/kinetype/internal/ledger"
	"github.com/verte-zerg/kinetype/internal/model"
	"github.com/verte-zerg/kinetype/internal/threshold"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fakePracticer struct {
	session   generator.Session
	builds    int
	finishIDs []string
	outcomes  []model.WordOutcome
}

func (f *fakePracticer) Progress(context.Context, string) (model.LearnerProgress, error) {
	p := model.NewLearnerProgress()
	p.CurrentLevel = 3
	return p, nil
}

func (f *fakePracticer) Params(context.Context, string) (threshold.Params, error) {
	return threshold.Defaults(), nil
}

func (f *fakePracticer) BuildSession(context.Context, string, model.SessionSpec) (generator.Session, error) {
	f.builds++
	return f.session, nil
}

func (f *fakePracticer) FinishSession(_ context.Context, learnerID, sessionID string, outcomes []model.WordOutcome) (engine.FinishResult, error) {
	f.finishIDs = append(f.finishIDs, sessionID)
	f.outcomes = outcomes
	return engine.FinishResult{
		NewLevel: 3.1,
		Params:   threshold.Defaults(),
		Patch:    ledger.Patch{Upserts: []model.StruggleEntry{{Word: "frog", TotalAttempts: 1}}},
		Summary: model.SessionSummary{
			SessionID: sessionID, LearnerID: learnerID,
			Words: len(outcomes), Correct: 2, Accuracy: 2.0 / 3, LevelBefore: 3, LevelAfter: 3.1,
		},
	}, nil
}

func sessionOf(words ...string) generator.Session {
	s := generator.Session{Requested: len(words)}
	for _, w := range words {
		item := model.WordItem{ID: w, Text: w, Difficulty: 2, Group: model.GroupCVC}
		s.Words = append(s.Words, generator.Word{Item: item, Display: w, Bucket: generator.BucketNew})
	}
	return s
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	space     = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	enter     = tea.KeyMsg{Type: tea.KeyEnter}
	backspace = tea.KeyMsg{Type: tea.KeyBackspace}
	escape    = tea.KeyMsg{Type: tea.KeyEsc}
)

// send delivers msg and returns the resulting command.
func send(t *testing.T, m tea.Model, msg tea.Msg) tea.Cmd {
	t.Helper()
	_, cmd := m.Update(msg)
	return cmd
}

func startPractice(t *testing.T, f *fakePracticer, clock *fakeClock) *PracticeModel {
	t.Helper()
	m := NewPracticeModel(f, "ada", model.DefaultSessionSpec(), WithClock(clock.now), WithSessionIDs(func() string { return "sid-1" }))
	cmd := m.Init()
	require.NotNil(t, cmd)
	send(t, m, cmd())
	require.Equal(t, stateTyping, m.state)
	return m
}

func TestPracticeRecordsOutcomes(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	f := &fakePracticer{session: sessionOf("cat", "ship", "frog")}
	m := startPractice(t, f, clock)

	send(t, m, runes("cat"))
	clock.advance(time.Second)
	assert.Nil(t, send(t, m, space))

	send(t, m, runes("shp"))
	send(t, m, backspace)
	send(t, m, backspace)
	send(t, m, runes("hip"))
	clock.advance(10 * time.Second)
	assert.Nil(t, send(t, m, space))

	send(t, m, runes("frg"))
	clock.advance(time.Second)
	cmd := send(t, m, enter)
	require.NotNil(t, cmd)
	assert.Equal(t, stateSaving, m.state)

	send(t, m, cmd())
	assert.Equal(t, stateSummary, m.state)
	assert.Equal(t, []string{"sid-1"}, f.finishIDs)
	require.Len(t, f.outcomes, 3)

	cat, ship, frog := f.outcomes[0], f.outcomes[1], f.outcomes[2]
	assert.True(t, cat.Correct)
	assert.Equal(t, time.Second, cat.TimeSpent)
	assert.False(t, cat.Hesitation)

	assert.True(t, ship.Correct)
	assert.Equal(t, 2, ship.Backspaces)
	assert.True(t, ship.Hesitation)

	assert.False(t, frog.Correct)
	assert.Equal(t, "frg", frog.Input)
	assert.Equal(t, model.GroupCVC, frog.Group)

	view := m.View()
	assert.Contains(t, view, "Session complete")
	assert.Contains(t, view, "Level 3.00 -> 3.10")
	assert.Contains(t, view, "Keep practicing: frog")
	assert.Contains(t, view, "Hesitated on 1 words")
	assert.Equal(t, 1, m.Sessions())
}

func TestPracticeIgnoresEmptySubmitAndLoops(t *testing.T) {
	clock := &fakeClock{}
	f := &fakePracticer{session: sessionOf("cat")}
	m := startPractice(t, f, clock)

	assert.Nil(t, send(t, m, space))
	assert.Equal(t, 0, m.index, "blank input is not an answer")

	send(t, m, runes("cat"))
	cmd := send(t, m, space)
	require.NotNil(t, cmd)
	send(t, m, cmd())
	require.Equal(t, stateSummary, m.state)

	cmd = send(t, m, enter)
	require.NotNil(t, cmd)
	assert.Equal(t, stateLoading, m.state)
	send(t, m, cmd())
	assert.Equal(t, stateTyping, m.state)
	assert.Equal(t, 2, f.builds)
	assert.Empty(t, m.results)
}

func TestPracticeFooter(t *testing.T) {
	clock := &fakeClock{}
	m := startPractice(t, &fakePracticer{session: sessionOf("cat", "dog")}, clock)
	send(t, m, runes("cot"))
	send(t, m, space)

	footer := m.renderFooter()
	assert.Contains(t, footer, "Word 2/2")
	assert.Contains(t, footer, "Level 3.00")
	assert.Contains(t, footer, "Accuracy 0.0%")
}

func TestPracticeEscapeQuits(t *testing.T) {
	m := startPractice(t, &fakePracticer{session: sessionOf("cat")}, &fakeClock{})
	cmd := send(t, m, escape)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestPracticeEmptySessionFails(t *testing.T) {
	m := NewPracticeModel(&fakePracticer{}, "ada", model.DefaultSessionSpec())
	send(t, m, m.Init()())
	assert.Equal(t, stateFailed, m.state)
	assert.Error(t, m.Err())
	assert.Contains(t, m.View(), "no words available")
}
