package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/kinetype/internal/model"
)

func TestGroupForPattern(t *testing.T) {
	cases := map[string]model.PhonicsGroup{
		"blends-r":        model.GroupBlends,
		"end-blends-st":   model.GroupBlends,
		"digraph-sh":      model.GroupDigraphs,
		"end-digraph-ck":  model.GroupDigraphs,
		"magic-e-a":       model.GroupSilentE,
		"bossy-r-ur":      model.GroupRControlled,
		"inflection-ing":  model.GroupSuffixes,
		"compound-closed": model.GroupMultisyllable,
	}
	for pattern, want := range cases {
		got, ok := GroupForPattern(pattern)
		assert.True(t, ok, pattern)
		assert.Equal(t, want, got, pattern)
	}
	_, ok := GroupForPattern("blends")
	assert.False(t, ok, "bare group name is not a pattern")
}

func TestMatchesAny(t *testing.T) {
	weak := model.GroupSet([]model.PhonicsGroup{model.GroupBlends})
	assert.True(t, MatchesAny("blends-l", weak))
	assert.True(t, MatchesAny("end-blends-mp", weak))
	assert.False(t, MatchesAny("digraph-sh", weak))
	assert.False(t, MatchesAny("blends-l", nil))
}

func TestEveryGroupHasPrefixes(t *testing.T) {
	for _, g := range model.AllGroups {
		assert.NotEmpty(t, Prefixes(g), g)
	}
}
