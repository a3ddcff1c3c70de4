package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/verte-zerg/kinetype/internal/ledger"
	"github.com/verte-zerg/kinetype/internal/model"
)

// ListEntries returns the learner's struggle ledger ordered by word.
func (s *Store) ListEntries(ctx context.Context, learnerID string) ([]model.StruggleEntry, error) {
	return listEntries(ctx, s.db, learnerID)
}

// ApplyBatch folds marks into the learner's ledger atomically and returns the
// resulting patch.
func (s *Store) ApplyBatch(ctx context.Context, learnerID string, marks []ledger.Mark, now time.Time) (ledger.Patch, error) {
	var patch ledger.Patch
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		patch, err = applyMarks(ctx, tx, learnerID, marks, now)
		return err
	})
	if err != nil {
		return ledger.Patch{}, err
	}
	return patch, nil
}

func applyMarks(ctx context.Context, q queryer, learnerID string, marks []ledger.Mark, now time.Time) (ledger.Patch, error) {
	if len(marks) == 0 {
		return ledger.Patch{}, nil
	}
	entries, err := listEntries(ctx, q, learnerID)
	if err != nil {
		return ledger.Patch{}, err
	}
	patch := ledger.Apply(entries, marks, now)
	if err := writePatch(ctx, q, learnerID, patch); err != nil {
		return ledger.Patch{}, err
	}
	return patch, nil
}

func writePatch(ctx context.Context, q queryer, learnerID string, patch ledger.Patch) error {
	if len(patch.Graduated) > 0 {
		query, args, err := sqlBuilder.
			Delete("struggle_entries").
			Where(squirrel.Eq{"learner_id": learnerID, "word": patch.Graduated}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build graduation delete: %w", err)
		}
		if _, err := q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to graduate words: %w", err)
		}
	}
	for _, e := range patch.Upserts {
		query, args, err := sqlBuilder.
			Insert("struggle_entries").
			Columns("learner_id", "word", "phonics_group", "consecutive_correct", "total_attempts", "updated_at").
			Values(learnerID, e.Word, string(e.Group), e.ConsecutiveCorrect, e.TotalAttempts, formatTime(e.UpdatedAt)).
			Suffix(`ON CONFLICT(learner_id, word) DO UPDATE SET
				phonics_group = excluded.phonics_group,
				consecutive_correct = excluded.consecutive_correct,
				total_attempts = excluded.total_attempts,
				updated_at = excluded.updated_at`).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build entry upsert: %w", err)
		}
		if _, err := q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to save struggle entry %q: %w", e.Word, err)
		}
	}
	return nil
}

func listEntries(ctx context.Context, q queryer, learnerID string) ([]model.StruggleEntry, error) {
	query, args, err := sqlBuilder.
		Select("word", "phonics_group", "consecutive_correct", "total_attempts", "updated_at").
		From("struggle_entries").
		Where(squirrel.Eq{"learner_id": learnerID}).
		OrderBy("word").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build entries query: %w", err)
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list struggle entries: %w", err)
	}
	defer closeRows(rows)

	var entries []model.StruggleEntry
	for rows.Next() {
		var e model.StruggleEntry
		var group, updated string
		if err := rows.Scan(&e.Word, &group, &e.ConsecutiveCorrect, &e.TotalAttempts, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan struggle entry: %w", err)
		}
		e.Group = model.PhonicsGroup(group)
		if e.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate struggle entries: %w", err)
	}
	return entries, nil
}
