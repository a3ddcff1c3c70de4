package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/verte-zerg/kinetype/internal/model"
	"github.com/verte-zerg/kinetype/internal/threshold"
)

// PlacementCommit is everything recorded when a placement test completes.
type PlacementCommit struct {
	Progress model.ProgressUpdate
	Params   threshold.Params
	At       time.Time
}

// CommitPlacement stores the placement progress and the calibrated
// hesitation parameters in one transaction.
func (s *Store) CommitPlacement(ctx context.Context, learnerID string, commit PlacementCommit) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := saveProgress(ctx, tx, learnerID, commit.Progress, commit.At); err != nil {
			return err
		}
		return saveParams(ctx, tx, learnerID, commit.Params)
	})
}
