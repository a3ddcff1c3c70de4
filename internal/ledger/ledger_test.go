package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/kinetype/internal/model"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func mark(word string, struggled bool) Mark {
	return Mark{Word: word, Group: model.GroupBlends, Struggled: struggled}
}

func TestIsStruggle(t *testing.T) {
	assert.False(t, IsStruggle(model.WordOutcome{Correct: true, Backspaces: 4}))
	assert.True(t, IsStruggle(model.WordOutcome{Correct: false}))
	assert.True(t, IsStruggle(model.WordOutcome{Correct: true, Hesitation: true}))
	assert.True(t, IsStruggle(model.WordOutcome{Correct: true, Backspaces: 5}))
}

func TestApplyCreatesEntryOnFirstStruggle(t *testing.T) {
	patch := Apply(nil, []Mark{mark("frog", true)}, now)
	require.Len(t, patch.Upserts, 1)
	assert.Equal(t, "frog", patch.Upserts[0].Word)
	assert.Equal(t, 0, patch.Upserts[0].ConsecutiveCorrect)
	assert.Equal(t, 1, patch.Upserts[0].TotalAttempts)
	assert.Empty(t, patch.Graduated)
}

func TestApplyIgnoresUntrackedCorrectWord(t *testing.T) {
	patch := Apply(nil, []Mark{mark("frog", false)}, now)
	assert.True(t, patch.Empty())
}

func TestApplyStruggleResetsStreak(t *testing.T) {
	entries := []model.StruggleEntry{{Word: "frog", ConsecutiveCorrect: 2, TotalAttempts: 3}}
	patch := Apply(entries, []Mark{mark("frog", true)}, now)
	require.Len(t, patch.Upserts, 1)
	assert.Equal(t, 0, patch.Upserts[0].ConsecutiveCorrect)
	assert.Equal(t, 4, patch.Upserts[0].TotalAttempts)
}

func TestGraduatesExactlyOnThirdCorrect(t *testing.T) {
	var entries []model.StruggleEntry
	step := func(struggled bool) Patch {
		p := Apply(entries, []Mark{mark("frog", struggled)}, now)
		entries = Merge(entries, p)
		return p
	}

	step(true)
	step(true)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].TotalAttempts)

	step(false)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].ConsecutiveCorrect)

	step(false)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].ConsecutiveCorrect)

	p := step(false)
	assert.Empty(t, entries)
	assert.Equal(t, []string{"frog"}, p.Graduated)
	assert.Empty(t, p.Upserts)
}

func TestRepeatedWordInBatchIsSequential(t *testing.T) {
	entries := []model.StruggleEntry{{Word: "frog", ConsecutiveCorrect: 1, TotalAttempts: 1}}

	patch := Apply(entries, []Mark{mark("frog", false), mark("frog", true), mark("frog", false)}, now)
	require.Len(t, patch.Upserts, 1)
	assert.Equal(t, 1, patch.Upserts[0].ConsecutiveCorrect)
	assert.Equal(t, 2, patch.Upserts[0].TotalAttempts)

	patch = Apply(entries, []Mark{mark("frog", false), mark("frog", false), mark("frog", true)}, now)
	require.Len(t, patch.Upserts, 1, "re-struggle after graduation re-enters the ledger")
	assert.Empty(t, patch.Graduated)
	assert.Equal(t, 0, patch.Upserts[0].ConsecutiveCorrect)
	assert.Equal(t, 1, patch.Upserts[0].TotalAttempts)
}

func TestDistinctWordsOrderIndependent(t *testing.T) {
	entries := []model.StruggleEntry{
		{Word: "frog", ConsecutiveCorrect: 2},
		{Word: "crab", ConsecutiveCorrect: 0},
	}
	a := Apply(entries, []Mark{mark("frog", false), mark("crab", true), mark("drum", true)}, now)
	b := Apply(entries, []Mark{mark("drum", true), mark("crab", true), mark("frog", false)}, now)
	assert.Equal(t, a, b)
}

func TestConsecutiveCorrectStaysBelowGraduation(t *testing.T) {
	entries := []model.StruggleEntry{{Word: "frog"}}
	for i := 0; i < 10; i++ {
		p := Apply(entries, []Mark{mark("frog", i%4 == 0)}, now)
		for _, e := range p.Upserts {
			assert.GreaterOrEqual(t, e.ConsecutiveCorrect, 0)
			assert.Less(t, e.ConsecutiveCorrect, GraduationStreak)
		}
		entries = Merge(entries, p)
	}
}
