// Package engine ties the adaptive practice components to persistent learner
// state: placement, session generation and session completion.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/kinetype/internal/catalog"
	"github.com/verte-zerg/kinetype/internal/ledger"
	"github.com/verte-zerg/kinetype/internal/model"
	"github.com/verte-zerg/kinetype/internal/placement"
	"github.com/verte-zerg/kinetype/internal/random"
	"github.com/verte-zerg/kinetype/internal/store"
	"github.com/verte-zerg/kinetype/internal/threshold"
)

// ErrSessionFinished is returned when a session id is submitted twice.
var ErrSessionFinished = model.ErrSessionFinished

// ErrNoSessionID is returned when FinishSession is called without an id.
var ErrNoSessionID = errors.New("session id is required")

// ProgressStore persists the learner's level and placement state.
type ProgressStore interface {
	GetProgress(ctx context.Context, learnerID string) (model.LearnerProgress, error)
	CommitPlacement(ctx context.Context, learnerID string, commit store.PlacementCommit) error
}

// ThresholdStore reads hesitation parameters.
type ThresholdStore interface {
	GetParams(ctx context.Context, learnerID string) (threshold.Params, bool, error)
}

// SessionLog records finished sessions.
type SessionLog interface {
	HasSession(ctx context.Context, sessionID string) (bool, error)
	CommitSession(ctx context.Context, commit store.SessionCommit) (ledger.Patch, error)
	ListSessions(ctx context.Context, learnerID string, limit int) ([]model.SessionSummary, error)
}

// Store is the full persistence surface used by the engine.
type Store interface {
	ProgressStore
	ThresholdStore
	SessionLog
}

// Engine runs placement and practice sessions for learners.
type Engine struct {
	catalog        catalog.Source
	store          Store
	rnd            random.Source
	now            func() time.Time
	logf           func(format string, args ...any)
	placementItems int
}

// Option customizes an Engine.
type Option func(*Engine)

// WithRandom sets the randomness source used for sessions and placement.
func WithRandom(rnd random.Source) Option {
	return func(e *Engine) { e.rnd = rnd }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger for non-fatal diagnostics.
func WithLogger(logf func(format string, args ...any)) Option {
	return func(e *Engine) { e.logf = logf }
}

// WithPlacementItems sets the placement test length.
func WithPlacementItems(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.placementItems = n
		}
	}
}

// New returns an engine over cat and st.
func New(cat catalog.Source, st Store, opts ...Option) *Engine {
	e := &Engine{
		catalog:        cat,
		store:          st,
		rnd:            random.New(),
		now:            time.Now,
		logf:           logErrf,
		placementItems: placement.DefaultItems,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Progress returns the learner's current progress.
func (e *Engine) Progress(ctx context.Context, learnerID string) (model.LearnerProgress, error) {
	p, err := e.store.GetProgress(ctx, learnerID)
	if err != nil {
		return model.LearnerProgress{}, fmt.Errorf("failed to load progress: %w", err)
	}
	return p, nil
}

// Params returns the learner's hesitation parameters, or the defaults for a
// learner who has not been calibrated.
func (e *Engine) Params(ctx context.Context, learnerID string) (threshold.Params, error) {
	p, found, err := e.store.GetParams(ctx, learnerID)
	if err != nil {
		return threshold.Params{}, fmt.Errorf("failed to load threshold params: %w", err)
	}
	if !found {
		return threshold.Defaults(), nil
	}
	return p.Clamp(), nil
}

// Hesitation reports whether typing word took longer than the learner's
// threshold for its length.
func Hesitation(p threshold.Params, word string, elapsed time.Duration) bool {
	return elapsed.Seconds() > p.Threshold(TypedLength(word))
}

// TypedLength is the letter count timed for word. Trailing punctuation added
// to the displayed word is not counted.
func TypedLength(word string) int {
	return utf8.RuneCountInString(strings.TrimRight(word, ".,!?"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format+"\n", args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
