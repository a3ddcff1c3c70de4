// Package level adjusts a learner's continuous skill estimate after each
// session.
package level

import (
	"math"

	"github.com/verte-zerg/kinetype/internal/model"
)

// SlowSeconds is the average time per word above which gains are halved.
const SlowSeconds = 5.0

type band struct {
	minAccuracy float64
	maxAvgTime  float64
	delta       float64
}

// Bands are checked in order; the first match wins.
var bands = []band{
	{minAccuracy: 0.95, maxAvgTime: 2.5, delta: 0.05},
	{minAccuracy: 0.85, maxAvgTime: 3.0, delta: 0.03},
	{minAccuracy: 0.75, maxAvgTime: 4.0, delta: 0.01},
	{minAccuracy: 0.70, maxAvgTime: math.Inf(1), delta: 0},
	{minAccuracy: 0.50, maxAvgTime: math.Inf(1), delta: -0.02},
}

const fallbackDelta = -0.05

// Next returns the level after a session with the given accuracy (0-1) and
// average seconds per word. The result is clamped to [1, 10].
func Next(current, accuracy, avgSeconds float64) float64 {
	if math.IsNaN(current) {
		current = model.MinLevel
	}
	delta := Delta(accuracy, avgSeconds)
	return model.ClampLevel(current + delta)
}

// Delta returns the level change for a performance band. A non-positive or
// non-finite avgSeconds means the session had no usable timings; only the
// bands without a speed requirement can match then.
func Delta(accuracy, avgSeconds float64) float64 {
	untimed := !(avgSeconds > 0) || math.IsInf(avgSeconds, 0)
	delta := fallbackDelta
	for _, b := range bands {
		if untimed && !math.IsInf(b.maxAvgTime, 1) {
			continue
		}
		if accuracy >= b.minAccuracy && (untimed || avgSeconds < b.maxAvgTime) {
			delta = b.delta
			break
		}
	}
	if delta > 0 && avgSeconds > SlowSeconds {
		delta /= 2
	}
	return delta
}

// Summary is the performance of one session.
type Summary struct {
	Words    int
	Correct  int
	Accuracy float64
	// AvgSeconds is zero when Timed is zero.
	AvgSeconds float64
	Timed      int
}

// Summarize computes accuracy over all outcomes and the average time per word
// over outcomes with a positive duration.
func Summarize(outcomes []model.WordOutcome) Summary {
	s := Summary{Words: len(outcomes)}
	if len(outcomes) == 0 {
		return s
	}
	var total float64
	for _, o := range outcomes {
		if o.Correct {
			s.Correct++
		}
		secs := o.TimeSpent.Seconds()
		if secs > 0 && !math.IsInf(secs, 0) {
			total += secs
			s.Timed++
		}
	}
	s.Accuracy = float64(s.Correct) / float64(len(outcomes))
	if s.Timed > 0 {
		s.AvgSeconds = total / float64(s.Timed)
	}
	return s
}
