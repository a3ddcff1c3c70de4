package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/verte-zerg/kinetype/internal/model"
)

// GetProgress returns the learner's progress. Unknown learners get the
// defaults of a learner without history.
func (s *Store) GetProgress(ctx context.Context, learnerID string) (model.LearnerProgress, error) {
	progress, _, err := getProgress(ctx, s.db, learnerID)
	if err != nil {
		return model.LearnerProgress{}, err
	}
	entries, err := listEntries(ctx, s.db, learnerID)
	if err != nil {
		return model.LearnerProgress{}, err
	}
	progress.StruggleEntries = entries
	return progress, nil
}

// SaveProgress applies a partial update to the learner row, creating it when
// missing.
func (s *Store) SaveProgress(ctx context.Context, learnerID string, update model.ProgressUpdate, now time.Time) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return saveProgress(ctx, tx, learnerID, update, now)
	})
}

func getProgress(ctx context.Context, q queryer, learnerID string) (model.LearnerProgress, bool, error) {
	query, args, err := sqlBuilder.
		Select("current_level", "has_completed_placement", "weak_groups").
		From("learners").
		Where(squirrel.Eq{"learner_id": learnerID}).
		ToSql()
	if err != nil {
		return model.LearnerProgress{}, false, fmt.Errorf("failed to build progress query: %w", err)
	}
	progress := model.NewLearnerProgress()
	var completed int
	var weak string
	err = q.QueryRowContext(ctx, query, args...).Scan(&progress.CurrentLevel, &completed, &weak)
	if errors.Is(err, sql.ErrNoRows) {
		return progress, false, nil
	}
	if err != nil {
		return model.LearnerProgress{}, false, fmt.Errorf("failed to load progress: %w", err)
	}
	progress.CurrentLevel = model.ClampLevel(progress.CurrentLevel)
	progress.HasCompletedPlacement = completed != 0
	progress.WeakGroups = model.GroupSet(decodeGroups(weak))
	return progress, true, nil
}

func saveProgress(ctx context.Context, q queryer, learnerID string, update model.ProgressUpdate, now time.Time) error {
	current, _, err := getProgress(ctx, q, learnerID)
	if err != nil {
		return err
	}
	if update.CurrentLevel != nil {
		current.CurrentLevel = model.ClampLevel(*update.CurrentLevel)
	}
	if update.HasCompletedPlacement != nil {
		current.HasCompletedPlacement = *update.HasCompletedPlacement
	}
	if update.SetWeakGroups {
		current.WeakGroups = model.GroupSet(update.WeakGroups)
	}

	query, args, err := sqlBuilder.
		Insert("learners").
		Columns("learner_id", "current_level", "has_completed_placement", "weak_groups", "updated_at").
		Values(learnerID, current.CurrentLevel, boolInt(current.HasCompletedPlacement), encodeGroups(current.WeakGroupList()), formatTime(now)).
		Suffix(`ON CONFLICT(learner_id) DO UPDATE SET
			current_level = excluded.current_level,
			has_completed_placement = excluded.has_completed_placement,
			weak_groups = excluded.weak_groups,
			updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build progress upsert: %w", err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

func encodeGroups(groups []model.PhonicsGroup) string {
	parts := make([]string, len(groups))
	for i, g := range groups {
		parts[i] = string(g)
	}
	return strings.Join(parts, ",")
}

func decodeGroups(raw string) []model.PhonicsGroup {
	var out []model.PhonicsGroup
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, model.PhonicsGroup(part))
		}
	}
	return out
}
