package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/kinetype/internal/ledger"
	"github.com/verte-zerg/kinetype/internal/model"
	"github.com/verte-zerg/kinetype/internal/threshold"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "kinetype.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

var base = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func TestProgressDefaultsForUnknownLearner(t *testing.T) {
	s := openTestStore(t)
	p, err := s.GetProgress(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, model.MinLevel, p.CurrentLevel)
	assert.False(t, p.HasCompletedPlacement)
	assert.Empty(t, p.WeakGroups)
	assert.Empty(t, p.StruggleEntries)
}

func TestSaveProgressPartialUpdates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	level := 4.0
	done := true
	require.NoError(t, s.SaveProgress(ctx, "ada", model.ProgressUpdate{
		CurrentLevel:          &level,
		HasCompletedPlacement: &done,
		WeakGroups:            []model.PhonicsGroup{model.GroupDigraphs, model.GroupBlends},
		SetWeakGroups:         true,
	}, base))

	bumped := 4.5
	require.NoError(t, s.SaveProgress(ctx, "ada", model.ProgressUpdate{CurrentLevel: &bumped}, base))

	p, err := s.GetProgress(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, 4.5, p.CurrentLevel)
	assert.True(t, p.HasCompletedPlacement)
	assert.Equal(t, []model.PhonicsGroup{model.GroupBlends, model.GroupDigraphs}, p.WeakGroupList())

	high := 42.0
	require.NoError(t, s.SaveProgress(ctx, "ada", model.ProgressUpdate{CurrentLevel: &high}, base))
	p, err = s.GetProgress(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, model.MaxLevel, p.CurrentLevel)
}

func TestApplyBatchGraduatesAfterStreak(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	patch, err := s.ApplyBatch(ctx, "ada", []ledger.Mark{
		{Word: "ship", Group: model.GroupDigraphs, Struggled: true},
		{Word: "frog", Group: model.GroupBlends, Struggled: true},
	}, base)
	require.NoError(t, err)
	assert.Len(t, patch.Upserts, 2)

	for i := 0; i < ledger.GraduationStreak; i++ {
		_, err := s.ApplyBatch(ctx, "ada", []ledger.Mark{{Word: "ship", Group: model.GroupDigraphs}}, base.Add(time.Duration(i+1)*time.Minute))
		require.NoError(t, err)
	}

	entries, err := s.ListEntries(ctx, "ada")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "frog", entries[0].Word)
	assert.Equal(t, 1, entries[0].TotalAttempts)
	assert.True(t, entries[0].UpdatedAt.Equal(base))

	other, err := s.ListEntries(ctx, "grace")
	require.NoError(t, err)
	assert.Empty(t, other, "ledgers are per learner")
}

func TestParamsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p, found, err := s.GetParams(ctx, "ada")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, threshold.Defaults(), p)

	want := threshold.Params{BaseTime: 0.6, SecondsPerChar: 0.3, SafetyMultiplier: 1.3, SampleCount: 12, LastUpdated: base}
	require.NoError(t, s.SaveParams(ctx, "ada", want))
	got, found, err := s.GetParams(ctx, "ada")
	require.NoError(t, err)
	assert.True(t, found)
	assert.InDelta(t, want.BaseTime, got.BaseTime, 1e-9)
	assert.InDelta(t, want.SecondsPerChar, got.SecondsPerChar, 1e-9)
	assert.Equal(t, 12, got.SampleCount)
	assert.True(t, got.LastUpdated.Equal(base))
}

func commitFor(id string, at time.Time, before, after float64) SessionCommit {
	outcomes := []model.WordOutcome{
		{Word: "cat", Group: model.GroupCVC, Correct: true, Input: "cat", TimeSpent: 900 * time.Millisecond},
		{Word: "ship", Group: model.GroupDigraphs, Correct: false, Input: "sip", TimeSpent: 2 * time.Second, Backspaces: 1},
	}
	params := threshold.Params{BaseTime: 0.7, SecondsPerChar: 0.4, SafetyMultiplier: 1.3, SampleCount: 2, LastUpdated: at}
	return SessionCommit{
		Summary: model.SessionSummary{
			SessionID: id, LearnerID: "ada", FinishedAt: at,
			Words: 2, Correct: 1, Accuracy: 0.5, AvgSeconds: 1.45,
			LevelBefore: before, LevelAfter: after,
		},
		Outcomes: outcomes,
		Marks:    ledger.MarksFromOutcomes(outcomes),
		Params:   &params,
	}
}

func TestCommitSessionIsAtomicAndIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	patch, err := s.CommitSession(ctx, commitFor("s-1", base, 1, 1.1))
	require.NoError(t, err)
	require.Len(t, patch.Upserts, 1)
	assert.Equal(t, "ship", patch.Upserts[0].Word)

	done, err := s.HasSession(ctx, "s-1")
	require.NoError(t, err)
	assert.True(t, done)

	_, err = s.CommitSession(ctx, commitFor("s-1", base.Add(time.Hour), 1.1, 9))
	assert.ErrorIs(t, err, model.ErrSessionFinished)

	p, err := s.GetProgress(ctx, "ada")
	require.NoError(t, err)
	assert.InDelta(t, 1.1, p.CurrentLevel, 1e-9, "duplicate commit leaves level untouched")
	require.Len(t, p.StruggleEntries, 1)
	assert.Equal(t, 1, p.StruggleEntries[0].TotalAttempts)

	params, found, err := s.GetParams(ctx, "ada")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, params.SampleCount)

	outcomes, err := s.ListOutcomes(ctx, "s-1")
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, "sip", outcomes[1].Input)
	assert.Equal(t, 2*time.Second, outcomes[1].TimeSpent)
	assert.False(t, outcomes[1].Correct)
}

func TestListSessionsOldestFirstWithLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for i, id := range []string{"a", "b", "c"} {
		_, err := s.CommitSession(ctx, commitFor(id, base.Add(time.Duration(i)*time.Hour), 1, 1))
		require.NoError(t, err)
	}

	all, err := s.ListSessions(ctx, "ada", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].SessionID)
	assert.Equal(t, "c", all[2].SessionID)

	recent, err := s.ListSessions(ctx, "ada", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "b", recent[0].SessionID)
	assert.Equal(t, "c", recent[1].SessionID)
	assert.InDelta(t, 0.5, recent[1].Accuracy, 1e-9)
}

func TestListSessionsOrdersWithinSecond(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, err := s.CommitSession(ctx, commitFor("late", base.Add(500*time.Millisecond), 1, 1))
	require.NoError(t, err)
	_, err = s.CommitSession(ctx, commitFor("early", base, 1, 1))
	require.NoError(t, err)

	sessions, err := s.ListSessions(ctx, "ada", 0)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "early", sessions[0].SessionID)
	assert.Equal(t, "late", sessions[1].SessionID)
	assert.Equal(t, base.Add(500*time.Millisecond), sessions[1].FinishedAt)
}

func TestCommitPlacementSavesProgressAndParams(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	level := 6.0
	done := true
	params := threshold.Calibrate([]threshold.Sample{
		{Length: 3, Seconds: 1.2}, {Length: 4, Seconds: 1.6}, {Length: 5, Seconds: 2.1},
		{Length: 4, Seconds: 1.4}, {Length: 6, Seconds: 2.5},
	}, base)
	require.NoError(t, s.CommitPlacement(ctx, "ada", PlacementCommit{
		Progress: model.ProgressUpdate{CurrentLevel: &level, HasCompletedPlacement: &done},
		Params:   params,
		At:       base,
	}))

	p, err := s.GetProgress(ctx, "ada")
	require.NoError(t, err)
	assert.True(t, p.HasCompletedPlacement)
	assert.Equal(t, 6.0, p.CurrentLevel)
	got, found, err := s.GetParams(ctx, "ada")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, params.SampleCount, got.SampleCount)
}

func TestCommitPlacementRollsBackOnParamsFailure(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, err := s.db.ExecContext(ctx, "DROP TABLE threshold_params")
	require.NoError(t, err)

	level := 6.0
	done := true
	err = s.CommitPlacement(ctx, "ada", PlacementCommit{
		Progress: model.ProgressUpdate{CurrentLevel: &level, HasCompletedPlacement: &done},
		Params:   threshold.Defaults(),
		At:       base,
	})
	require.Error(t, err)

	p, err := s.GetProgress(ctx, "ada")
	require.NoError(t, err)
	assert.False(t, p.HasCompletedPlacement)
	assert.Equal(t, model.MinLevel, p.CurrentLevel)
}
