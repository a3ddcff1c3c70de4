package engine

import (
	"context"
	"fmt"

	"github.com/verte-zerg/kinetype/internal/generator"
	"github.com/verte-zerg/kinetype/internal/ledger"
	"github.com/verte-zerg/kinetype/internal/level"
	"github.com/verte-zerg/kinetype/internal/model"
	"github.com/verte-zerg/kinetype/internal/store"
	"github.com/verte-zerg/kinetype/internal/threshold"
)

// FinishResult is the learner state after a session was recorded.
type FinishResult struct {
	NewLevel float64
	Params   threshold.Params
	Patch    ledger.Patch
	Summary  model.SessionSummary
}

// BuildSession composes the next practice session for a learner.
func (e *Engine) BuildSession(ctx context.Context, learnerID string, spec model.SessionSpec) (generator.Session, error) {
	progress, err := e.Progress(ctx, learnerID)
	if err != nil {
		return generator.Session{}, err
	}
	session, err := generator.New(e.rnd).Generate(e.catalog, progress, spec)
	if err != nil {
		return generator.Session{}, fmt.Errorf("failed to generate session: %w", err)
	}
	if session.InsufficientContent {
		e.logf("level %.2f is above the hardest catalog words (difficulty %d); practicing at difficulty %d",
			progress.CurrentLevel, session.MaxDifficulty, session.MaxDifficulty)
	}
	if len(session.Words) < session.Requested {
		e.logf("catalog filled %d of %d requested words", len(session.Words), session.Requested)
	}
	return session, nil
}

// FinishSession applies a session's outcomes: the level estimate, the
// hesitation parameters and the struggle ledger are updated together. A
// session id may only be finished once; repeats return ErrSessionFinished.
func (e *Engine) FinishSession(ctx context.Context, learnerID, sessionID string, outcomes []model.WordOutcome) (FinishResult, error) {
	if sessionID == "" {
		return FinishResult{}, ErrNoSessionID
	}
	done, err := e.store.HasSession(ctx, sessionID)
	if err != nil {
		return FinishResult{}, fmt.Errorf("failed to check session: %w", err)
	}
	if done {
		return FinishResult{}, ErrSessionFinished
	}

	progress, err := e.Progress(ctx, learnerID)
	if err != nil {
		return FinishResult{}, err
	}
	params, err := e.Params(ctx, learnerID)
	if err != nil {
		return FinishResult{}, err
	}

	now := e.now()
	perf := level.Summarize(outcomes)
	before := model.ClampLevel(progress.CurrentLevel)
	after := before
	if perf.Words > 0 {
		after = level.Next(before, perf.Accuracy, perf.AvgSeconds)
	}
	adjusted := threshold.Adjust(params, timingSamples(outcomes), now)

	summary := model.SessionSummary{
		SessionID:   sessionID,
		LearnerID:   learnerID,
		FinishedAt:  now,
		Words:       perf.Words,
		Correct:     perf.Correct,
		Accuracy:    perf.Accuracy,
		AvgSeconds:  perf.AvgSeconds,
		LevelBefore: before,
		LevelAfter:  after,
	}
	commit := store.SessionCommit{
		Summary:  summary,
		Outcomes: outcomes,
		Marks:    ledger.MarksFromOutcomes(outcomes),
	}
	if adjusted.SampleCount != params.SampleCount {
		commit.Params = &adjusted
	}
	patch, err := e.store.CommitSession(ctx, commit)
	if err != nil {
		return FinishResult{}, fmt.Errorf("failed to record session: %w", err)
	}
	return FinishResult{NewLevel: after, Params: adjusted, Patch: patch, Summary: summary}, nil
}

// RecentSessions returns up to limit of the learner's latest sessions.
func (e *Engine) RecentSessions(ctx context.Context, learnerID string, limit int) ([]model.SessionSummary, error) {
	sessions, err := e.store.ListSessions(ctx, learnerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// timingSamples converts correctly typed words into calibration samples.
func timingSamples(outcomes []model.WordOutcome) []threshold.Sample {
	var samples []threshold.Sample
	for _, o := range outcomes {
		if !o.Correct {
			continue
		}
		samples = append(samples, threshold.Sample{
			Length:  TypedLength(o.Word),
			Seconds: o.TimeSpent.Seconds(),
		})
	}
	return samples
}
