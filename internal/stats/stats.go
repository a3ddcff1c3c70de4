// Package stats builds and renders learner progress reports.
package stats

import (
	"math"
	"strings"

	"github.com/verte-zerg/kinetype/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline scaled between lo and hi.
// Values outside the range are clamped; a width > 0 keeps the newest values.
func Sparkline(values []float64, lo, hi float64, width int) string {
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
	}
	if len(values) == 0 {
		return ""
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - lo) / (hi - lo)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Series holds per-session values in chronological order.
type Series struct {
	Levels   []float64
	Accuracy []float64
	Seconds  []float64
}

// SessionSeries extracts chart series from session summaries.
func SessionSeries(sessions []model.SessionSummary) Series {
	s := Series{
		Levels:   make([]float64, len(sessions)),
		Accuracy: make([]float64, len(sessions)),
		Seconds:  make([]float64, len(sessions)),
	}
	for i, sum := range sessions {
		s.Levels[i] = sum.LevelAfter
		s.Accuracy[i] = sum.Accuracy * 100
		s.Seconds[i] = sum.AvgSeconds
	}
	return s
}

// Totals summarizes a run of sessions.
type Totals struct {
	Sessions int
	Words    int
	Correct  int
	Accuracy float64
	BestAcc  float64
}

// SessionTotals aggregates words and accuracy across sessions.
func SessionTotals(sessions []model.SessionSummary) Totals {
	t := Totals{Sessions: len(sessions)}
	for _, s := range sessions {
		t.Words += s.Words
		t.Correct += s.Correct
		if s.Accuracy > t.BestAcc {
			t.BestAcc = s.Accuracy
		}
	}
	if t.Words > 0 {
		t.Accuracy = float64(t.Correct) / float64(t.Words)
	}
	return t
}
