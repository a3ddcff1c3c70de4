package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/verte-zerg/kinetype/internal/ledger"
	"github.com/verte-zerg/kinetype/internal/model"
	"github.com/verte-zerg/kinetype/internal/threshold"
)

// SessionCommit is everything recorded when a practice session finishes.
type SessionCommit struct {
	Summary  model.SessionSummary
	Outcomes []model.WordOutcome
	Marks    []ledger.Mark
	// Params, when set, replaces the learner's hesitation parameters.
	Params *threshold.Params
}

// HasSession reports whether a session id has already been recorded.
func (s *Store) HasSession(ctx context.Context, sessionID string) (bool, error) {
	return hasSession(ctx, s.db, sessionID)
}

// CommitSession records a finished session in one transaction: the session
// row and outcomes, the ledger patch, the new level and the hesitation
// parameters. A session id that was already recorded returns
// model.ErrSessionFinished and changes nothing.
func (s *Store) CommitSession(ctx context.Context, commit SessionCommit) (ledger.Patch, error) {
	sum := commit.Summary
	var patch ledger.Patch
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		done, err := hasSession(ctx, tx, sum.SessionID)
		if err != nil {
			return err
		}
		if done {
			return model.ErrSessionFinished
		}
		if err := insertSession(ctx, tx, sum, commit.Outcomes); err != nil {
			return err
		}
		if patch, err = applyMarks(ctx, tx, sum.LearnerID, commit.Marks, sum.FinishedAt); err != nil {
			return err
		}
		level := sum.LevelAfter
		if err := saveProgress(ctx, tx, sum.LearnerID, model.ProgressUpdate{CurrentLevel: &level}, sum.FinishedAt); err != nil {
			return err
		}
		if commit.Params != nil {
			return saveParams(ctx, tx, sum.LearnerID, *commit.Params)
		}
		return nil
	})
	if err != nil {
		return ledger.Patch{}, err
	}
	return patch, nil
}

// ListSessions returns the learner's most recent sessions, oldest first.
// A limit <= 0 returns every session.
func (s *Store) ListSessions(ctx context.Context, learnerID string, limit int) ([]model.SessionSummary, error) {
	query := sqlBuilder.
		Select("session_id", "learner_id", "finished_at", "words", "correct", "accuracy", "avg_seconds", "level_before", "level_after").
		From("sessions").
		Where(squirrel.Eq{"learner_id": learnerID}).
		OrderBy("finished_at DESC", "id DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	sqlText, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sessions query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer closeRows(rows)

	var sessions []model.SessionSummary
	for rows.Next() {
		var sum model.SessionSummary
		var finished string
		if err := rows.Scan(&sum.SessionID, &sum.LearnerID, &finished, &sum.Words, &sum.Correct,
			&sum.Accuracy, &sum.AvgSeconds, &sum.LevelBefore, &sum.LevelAfter); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if sum.FinishedAt, err = parseTime(finished); err != nil {
			return nil, err
		}
		sessions = append(sessions, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	for i, j := 0, len(sessions)-1; i < j; i, j = i+1, j-1 {
		sessions[i], sessions[j] = sessions[j], sessions[i]
	}
	return sessions, nil
}

// ListOutcomes returns the recorded word outcomes of a session in order.
func (s *Store) ListOutcomes(ctx context.Context, sessionID string) ([]model.WordOutcome, error) {
	query, args, err := sqlBuilder.
		Select("word", "phonics_group", "correct", "input", "time_ms", "backspaces", "hesitation").
		From("session_outcomes").
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build outcomes query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}
	defer closeRows(rows)

	var outcomes []model.WordOutcome
	for rows.Next() {
		var o model.WordOutcome
		var group string
		var correct, hesitation int
		var ms int64
		if err := rows.Scan(&o.Word, &group, &correct, &o.Input, &ms, &o.Backspaces, &hesitation); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		o.WordID = o.Word
		o.Group = model.PhonicsGroup(group)
		o.Correct = correct != 0
		o.Hesitation = hesitation != 0
		o.TimeSpent = msDuration(ms)
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outcomes: %w", err)
	}
	return outcomes, nil
}

func hasSession(ctx context.Context, q queryer, sessionID string) (bool, error) {
	query, args, err := sqlBuilder.
		Select("COUNT(1)").
		From("sessions").
		Where(squirrel.Eq{"session_id": sessionID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build session lookup: %w", err)
	}
	var n int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to look up session: %w", err)
	}
	return n > 0, nil
}

func insertSession(ctx context.Context, q queryer, sum model.SessionSummary, outcomes []model.WordOutcome) error {
	query, args, err := sqlBuilder.
		Insert("sessions").
		Columns("session_id", "learner_id", "finished_at", "words", "correct", "accuracy", "avg_seconds", "level_before", "level_after").
		Values(sum.SessionID, sum.LearnerID, formatTime(sum.FinishedAt), sum.Words, sum.Correct,
			sum.Accuracy, sum.AvgSeconds, sum.LevelBefore, sum.LevelAfter).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build session insert: %w", err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return model.ErrSessionFinished
		}
		return fmt.Errorf("failed to insert session: %w", err)
	}
	if len(outcomes) == 0 {
		return nil
	}

	insert := sqlBuilder.
		Insert("session_outcomes").
		Columns("session_id", "position", "word", "phonics_group", "correct", "input", "time_ms", "backspaces", "hesitation")
	for i, o := range outcomes {
		insert = insert.Values(sum.SessionID, i, o.Word, string(o.Group), boolInt(o.Correct), o.Input,
			o.TimeSpent.Milliseconds(), o.Backspaces, boolInt(o.Hesitation))
	}
	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build outcome insert: %w", err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert outcomes: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
