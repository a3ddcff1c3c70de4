package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/verte-zerg/kinetype/internal/threshold"
)

// GetParams returns the learner's hesitation parameters. found is false when
// the learner has never been calibrated.
func (s *Store) GetParams(ctx context.Context, learnerID string) (threshold.Params, bool, error) {
	return getParams(ctx, s.db, learnerID)
}

// SaveParams stores the learner's hesitation parameters.
func (s *Store) SaveParams(ctx context.Context, learnerID string, p threshold.Params) error {
	return saveParams(ctx, s.db, learnerID, p)
}

func getParams(ctx context.Context, q queryer, learnerID string) (threshold.Params, bool, error) {
	query, args, err := sqlBuilder.
		Select("base_time", "seconds_per_char", "safety_multiplier", "sample_count", "last_updated").
		From("threshold_params").
		Where(squirrel.Eq{"learner_id": learnerID}).
		ToSql()
	if err != nil {
		return threshold.Params{}, false, fmt.Errorf("failed to build params query: %w", err)
	}
	var p threshold.Params
	var updated string
	err = q.QueryRowContext(ctx, query, args...).Scan(&p.BaseTime, &p.SecondsPerChar, &p.SafetyMultiplier, &p.SampleCount, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return threshold.Defaults(), false, nil
	}
	if err != nil {
		return threshold.Params{}, false, fmt.Errorf("failed to load threshold params: %w", err)
	}
	if p.LastUpdated, err = parseTime(updated); err != nil {
		return threshold.Params{}, false, err
	}
	return p, true, nil
}

func saveParams(ctx context.Context, q queryer, learnerID string, p threshold.Params) error {
	query, args, err := sqlBuilder.
		Insert("threshold_params").
		Columns("learner_id", "base_time", "seconds_per_char", "safety_multiplier", "sample_count", "last_updated").
		Values(learnerID, p.BaseTime, p.SecondsPerChar, p.SafetyMultiplier, p.SampleCount, formatTime(p.LastUpdated)).
		Suffix(`ON CONFLICT(learner_id) DO UPDATE SET
			base_time = excluded.base_time,
			seconds_per_char = excluded.seconds_per_char,
			safety_multiplier = excluded.safety_multiplier,
			sample_count = excluded.sample_count,
			last_updated = excluded.last_updated`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build params upsert: %w", err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save threshold params: %w", err)
	}
	return nil
}
