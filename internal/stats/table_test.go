package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Word", "Streak", "Attempts"}
	rows := [][]string{
		{"ship", "1/3", "12"},
		{"through", "0/3", "3"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	require.Len(t, lines, 3)
	assert.Equal(t, "Word    Streak Attempts", lines[0])
	assert.Equal(t, "ship       1/3       12", lines[1])
	assert.Equal(t, "through    0/3        3", lines[2])
}

func TestFormatTableTrimsTrailingPadding(t *testing.T) {
	lines := formatTable([]string{"Word", "Group"}, [][]string{{"a", "cvc"}, {"frog"}}, nil)
	require.Len(t, lines, 3)
	assert.Equal(t, "frog", lines[2])
	assert.Nil(t, formatTable(nil, nil, nil))
}
