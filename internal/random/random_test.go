package random

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShuffleIsPermutation(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	Shuffle(NewSeeded(7), items)

	sorted := append([]int(nil), items...)
	sort.Ints(sorted)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, sorted)
}

func TestShuffleReproducible(t *testing.T) {
	a := []string{"a", "b", "c", "d", "e"}
	b := append([]string(nil), a...)
	Shuffle(NewSeeded(42), a)
	Shuffle(NewSeeded(42), b)
	assert.Equal(t, a, b)
}

func TestPickEmpty(t *testing.T) {
	_, ok := Pick(NewSeeded(1), []int{})
	require.False(t, ok)

	v, ok := Pick(NewSeeded(1), []int{9})
	require.True(t, ok)
	assert.Equal(t, 9, v)
}
