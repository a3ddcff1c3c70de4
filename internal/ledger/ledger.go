// Package ledger implements the per-learner struggle ledger: words enter on
// their first struggle and graduate after consecutive correct attempts.
package ledger

import (
	"sort"
	"time"

	"github.com/verte-zerg/kinetype/internal/model"
)

const (
	// GraduationStreak is the number of consecutive correct attempts that
	// removes a word from the ledger.
	GraduationStreak = 3
	// MaxBackspaces is the highest backspace count still treated as fluent.
	MaxBackspaces = 4
)

// Mark is one ledger-relevant attempt.
type Mark struct {
	Word      string
	Group     model.PhonicsGroup
	Struggled bool
}

// Patch is the ledger change produced by a batch of marks.
type Patch struct {
	// Upserts holds the final state of every created or updated entry.
	Upserts []model.StruggleEntry
	// Graduated lists words removed from the ledger.
	Graduated []string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return len(p.Upserts) == 0 && len(p.Graduated) == 0
}

// IsStruggle applies the struggle policy to a word outcome.
func IsStruggle(o model.WordOutcome) bool {
	return !o.Correct || o.Hesitation || o.Backspaces > MaxBackspaces
}

// MarksFromOutcomes converts outcomes into marks using IsStruggle.
func MarksFromOutcomes(outcomes []model.WordOutcome) []Mark {
	marks := make([]Mark, 0, len(outcomes))
	for _, o := range outcomes {
		marks = append(marks, Mark{Word: o.Word, Group: o.Group, Struggled: IsStruggle(o)})
	}
	return marks
}

// Apply folds marks into the existing entries. Marks for the same word are
// applied in order; marks for distinct words do not interact.
func Apply(entries []model.StruggleEntry, marks []Mark, now time.Time) Patch {
	state := make(map[string]*model.StruggleEntry, len(entries))
	for i := range entries {
		e := entries[i]
		state[e.Word] = &e
	}

	touched := map[string]struct{}{}
	graduated := map[string]struct{}{}
	for _, m := range marks {
		if m.Word == "" {
			continue
		}
		entry, tracked := state[m.Word]
		if m.Struggled {
			if !tracked {
				entry = &model.StruggleEntry{Word: m.Word, Group: m.Group}
				state[m.Word] = entry
			}
			entry.ConsecutiveCorrect = 0
			entry.TotalAttempts++
			entry.UpdatedAt = now
			touched[m.Word] = struct{}{}
			delete(graduated, m.Word)
			continue
		}
		if !tracked {
			continue
		}
		entry.ConsecutiveCorrect++
		entry.UpdatedAt = now
		if entry.ConsecutiveCorrect >= GraduationStreak {
			delete(state, m.Word)
			delete(touched, m.Word)
			graduated[m.Word] = struct{}{}
			continue
		}
		touched[m.Word] = struct{}{}
	}

	var patch Patch
	for word := range touched {
		patch.Upserts = append(patch.Upserts, *state[word])
	}
	for word := range graduated {
		patch.Graduated = append(patch.Graduated, word)
	}
	sort.Slice(patch.Upserts, func(i, j int) bool { return patch.Upserts[i].Word < patch.Upserts[j].Word })
	sort.Strings(patch.Graduated)
	return patch
}

// Merge applies a patch to entries and returns the resulting ledger sorted by word.
func Merge(entries []model.StruggleEntry, patch Patch) []model.StruggleEntry {
	byWord := make(map[string]model.StruggleEntry, len(entries)+len(patch.Upserts))
	for _, e := range entries {
		byWord[e.Word] = e
	}
	for _, e := range patch.Upserts {
		byWord[e.Word] = e
	}
	for _, w := range patch.Graduated {
		delete(byWord, w)
	}
	out := make([]model.StruggleEntry, 0, len(byWord))
	for _, e := range byWord {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out
}
