package stats

import (
	"context"
	"fmt"

	"github.com/verte-zerg/kinetype/internal/model"
	"github.com/verte-zerg/kinetype/internal/threshold"
)

// Source is the read side of the learner store used by reports.
type Source interface {
	GetProgress(ctx context.Context, learnerID string) (model.LearnerProgress, error)
	GetParams(ctx context.Context, learnerID string) (threshold.Params, bool, error)
	ListSessions(ctx context.Context, learnerID string, limit int) ([]model.SessionSummary, error)
}

// Report contains precomputed data for progress rendering.
type Report struct {
	Learner    string
	Progress   model.LearnerProgress
	Params     threshold.Params
	Calibrated bool
	Sessions   []model.SessionSummary
}

// BuildReport loads everything shown by the progress report. last limits the
// session history; <= 0 loads all of it.
func BuildReport(ctx context.Context, src Source, learnerID string, last int) (Report, error) {
	progress, err := src.GetProgress(ctx, learnerID)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load progress: %w", err)
	}
	params, found, err := src.GetParams(ctx, learnerID)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load threshold params: %w", err)
	}
	sessions, err := src.ListSessions(ctx, learnerID, last)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list sessions: %w", err)
	}
	return Report{
		Learner:    learnerID,
		Progress:   progress,
		Params:     params,
		Calibrated: found,
		Sessions:   sessions,
	}, nil
}
