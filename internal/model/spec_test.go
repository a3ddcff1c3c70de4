package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRescalesPercentages(t *testing.T) {
	spec := DefaultSessionSpec()
	spec.StrugglePct, spec.NewPct, spec.ConfidencePct = 30, 50, 20

	got, err := spec.Normalize()
	require.NoError(t, err)
	assert.InDelta(t, 0.3, got.StrugglePct, 1e-9)
	assert.InDelta(t, 0.5, got.NewPct, 1e-9)
	assert.InDelta(t, 0.2, got.ConfidencePct, 1e-9)

	spec.StrugglePct, spec.NewPct, spec.ConfidencePct = 1, 1, 2
	got, err = spec.Normalize()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got.StrugglePct+got.NewPct+got.ConfidencePct, 1e-9)
	assert.InDelta(t, 0.5, got.ConfidencePct, 1e-9)
}

func TestNormalizeDefaultsWhenAllZero(t *testing.T) {
	got, err := SessionSpec{Size: 5}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, DefaultStrugglePct, got.StrugglePct)
	assert.Equal(t, DefaultNewPct, got.NewPct)
	assert.Equal(t, DefaultConfidencePct, got.ConfidencePct)
	assert.Equal(t, Never, got.Capitalization)
}

func TestNormalizeRejects(t *testing.T) {
	cases := map[string]SessionSpec{
		"size":      {Size: 0},
		"boosters":  {Size: 5, Boosters: -1},
		"negative":  {Size: 5, NewPct: -0.1},
		"frequency": {Size: 5, Punctuation: "always"},
	}
	for name, spec := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := spec.Normalize()
			assert.ErrorIs(t, err, ErrInvalidSpec)
		})
	}
}

func TestFrequencyProbability(t *testing.T) {
	assert.Equal(t, 0.0, Never.Probability())
	assert.Equal(t, 0.15, Sometimes.Probability())
	assert.Equal(t, 0.35, Often.Probability())

	f, err := ParseFrequency(" Often ")
	require.NoError(t, err)
	assert.Equal(t, Often, f)
}

func TestClampLevel(t *testing.T) {
	assert.Equal(t, MinLevel, ClampLevel(0.2))
	assert.Equal(t, MaxLevel, ClampLevel(12))
	assert.Equal(t, 4.5, ClampLevel(4.5))
}
