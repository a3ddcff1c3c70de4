package engine

import (
	"context"
	"fmt"

	"github.com/verte-zerg/kinetype/internal/model"
	"github.com/verte-zerg/kinetype/internal/placement"
	"github.com/verte-zerg/kinetype/internal/store"
	"github.com/verte-zerg/kinetype/internal/threshold"
)

// PlacementOutcome is what a completed placement test established.
type PlacementOutcome struct {
	Result placement.Result
	Params threshold.Params
}

// NewPlacement returns a selector over the whole catalog.
func (e *Engine) NewPlacement() *placement.Selector {
	return placement.NewSelector(e.catalog.AllWords(), e.rnd).WithItems(e.placementItems)
}

// RunPlacement drives a placement test from answer and stores its result.
// answer returning false ends the test early with what was gathered.
func (e *Engine) RunPlacement(ctx context.Context, learnerID string, answer func(model.WordItem) (placement.Answer, bool)) (PlacementOutcome, error) {
	res := placement.Run(e.NewPlacement(), answer)
	params, err := e.CompletePlacement(ctx, learnerID, res)
	if err != nil {
		return PlacementOutcome{}, err
	}
	return PlacementOutcome{Result: res, Params: params}, nil
}

// CompletePlacement stores the initial level, weak groups and hesitation
// calibration derived from a placement result. Either all of it is saved or
// none of it.
func (e *Engine) CompletePlacement(ctx context.Context, learnerID string, res placement.Result) (threshold.Params, error) {
	now := e.now()
	lvl := model.ClampLevel(float64(res.Level))
	done := true
	commit := store.PlacementCommit{
		Progress: model.ProgressUpdate{
			CurrentLevel:          &lvl,
			HasCompletedPlacement: &done,
			WeakGroups:            res.WeakGroups,
			SetWeakGroups:         true,
		},
		Params: threshold.Calibrate(res.Timings, now),
		At:     now,
	}
	if err := e.store.CommitPlacement(ctx, learnerID, commit); err != nil {
		return threshold.Params{}, fmt.Errorf("failed to save placement: %w", err)
	}
	return commit.Params, nil
}
