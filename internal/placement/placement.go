// Package placement runs the one-shot adaptive stepping test that produces an
// initial level and weak phonics groups.
package placement

import (
	"errors"
	"math"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/kinetype/internal/model"
	"github.com/verte-zerg/kinetype/internal/random"
	"github.com/verte-zerg/kinetype/internal/threshold"
)

const (
	DefaultItems     = 20
	StartDifficulty  = 3
	MaxSearchOffset  = 5
	FastAnswer       = 2 * time.Second
	fastStep         = 2
	correctStep      = 1
	incorrectStep    = -1
	highAccuracy     = 0.90
	moderateAccuracy = 0.70
)

// ErrNoPendingItem is returned by Record when no item is awaiting an answer.
var ErrNoPendingItem = errors.New("no placement item awaiting an answer")

// Answer is the learner's response to one placement item.
type Answer struct {
	Correct bool
	Input   string
	Elapsed time.Duration
}

// Attempt pairs an item with its answer.
type Attempt struct {
	Item   model.WordItem
	Answer Answer
}

// Result is the outcome of a placement test.
type Result struct {
	Level      int
	WeakGroups []model.PhonicsGroup
	Timings    []threshold.Sample
	Attempts   []Attempt
	Correct    int
	Accuracy   float64
}

// Selector draws placement items one at a time, stepping difficulty after
// every answer.
type Selector struct {
	pool       []model.WordItem
	used       map[string]struct{}
	rnd        random.Source
	difficulty int
	maxItems   int
	pending    *model.WordItem
	exhausted  bool
	attempts   []Attempt
}

// NewSelector returns a selector over pool with the default test length.
func NewSelector(pool []model.WordItem, rnd random.Source) *Selector {
	return &Selector{
		pool:       pool,
		used:       map[string]struct{}{},
		rnd:        rnd,
		difficulty: StartDifficulty,
		maxItems:   DefaultItems,
	}
}

// WithItems overrides the number of items in the test.
func (s *Selector) WithItems(n int) *Selector {
	if n > 0 {
		s.maxItems = n
	}
	return s
}

// Difficulty is the difficulty the next draw targets.
func (s *Selector) Difficulty() int {
	return s.difficulty
}

// Answered is the number of recorded answers.
func (s *Selector) Answered() int {
	return len(s.attempts)
}

// Items is the configured test length.
func (s *Selector) Items() int {
	return s.maxItems
}

// Done reports whether the test has finished.
func (s *Selector) Done() bool {
	return s.exhausted || len(s.attempts) >= s.maxItems
}

// Next returns the item awaiting an answer, drawing a new one if needed.
// It returns false when the test is over or no unused item remains.
func (s *Selector) Next() (model.WordItem, bool) {
	if s.pending != nil {
		return *s.pending, true
	}
	if s.Done() {
		return model.WordItem{}, false
	}
	item, ok := s.draw()
	if !ok {
		s.exhausted = true
		return model.WordItem{}, false
	}
	s.used[item.ID] = struct{}{}
	s.pending = &item
	return item, true
}

// Record stores the answer to the pending item and steps the difficulty.
func (s *Selector) Record(ans Answer) error {
	if s.pending == nil {
		return ErrNoPendingItem
	}
	s.attempts = append(s.attempts, Attempt{Item: *s.pending, Answer: ans})
	s.pending = nil

	step := incorrectStep
	if ans.Correct {
		step = correctStep
		if ans.Elapsed < FastAnswer {
			step = fastStep
		}
	}
	s.difficulty = clampDifficulty(s.difficulty + step)
	return nil
}

func (s *Selector) draw() (model.WordItem, bool) {
	if item, ok := random.Pick(s.rnd, s.unusedAt(s.difficulty)); ok {
		return item, true
	}
	for offset := 1; offset <= MaxSearchOffset; offset++ {
		var candidates []model.WordItem
		for _, d := range []int{s.difficulty - offset, s.difficulty + offset} {
			if d < model.MinDifficulty || d > model.MaxDifficulty {
				continue
			}
			candidates = append(candidates, s.unusedAt(d)...)
		}
		if item, ok := random.Pick(s.rnd, candidates); ok {
			return item, true
		}
	}
	return model.WordItem{}, false
}

func (s *Selector) unusedAt(difficulty int) []model.WordItem {
	var out []model.WordItem
	for _, item := range s.pool {
		if item.Difficulty != difficulty {
			continue
		}
		if _, used := s.used[item.ID]; used {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Result scores the answers gathered so far.
func (s *Selector) Result() Result {
	res := Result{Attempts: append([]Attempt(nil), s.attempts...)}
	weak := map[model.PhonicsGroup]struct{}{}
	sum := 0
	for _, a := range s.attempts {
		if !a.Answer.Correct {
			weak[a.Item.Group] = struct{}{}
			continue
		}
		res.Correct++
		sum += a.Item.Difficulty
		res.Timings = append(res.Timings, threshold.Sample{
			Length:  utf8.RuneCountInString(a.Item.Text),
			Seconds: a.Answer.Elapsed.Seconds(),
		})
	}
	res.WeakGroups = model.SortedGroups(weak)
	if len(s.attempts) > 0 {
		res.Accuracy = float64(res.Correct) / float64(len(s.attempts))
	}
	res.Level = model.MinDifficulty
	if res.Correct == 0 {
		return res
	}

	avg := float64(sum) / float64(res.Correct)
	switch {
	case res.Accuracy >= highAccuracy:
	case res.Accuracy >= moderateAccuracy:
		avg--
	default:
		avg -= 2
	}
	res.Level = clampDifficulty(int(math.Round(avg)))
	return res
}

// Run drives the selector from an answer stream until the test ends or the
// stream stops (answer returns false).
func Run(s *Selector, answer func(model.WordItem) (Answer, bool)) Result {
	for {
		item, ok := s.Next()
		if !ok {
			break
		}
		ans, ok := answer(item)
		if !ok {
			break
		}
		if err := s.Record(ans); err != nil {
			break
		}
	}
	return s.Result()
}

func clampDifficulty(d int) int {
	if d < model.MinDifficulty {
		return model.MinDifficulty
	}
	if d > model.MaxDifficulty {
		return model.MaxDifficulty
	}
	return d
}
