package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "words.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestImportXLSX(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"word", "difficulty", "pattern", "sentence"},
		{"Frog", 3, "blends-r", "The frog jumps."},
		{"cake", 4, "magic-e-a"},
		{"bad word", 2, "cvc-short-a"},
		{"ship", 12, "digraph-sh"},
		{"crab", 3, "unknown"},
		{"cake", 5, "magic-e-a"},
	})

	cfg := DefaultImportConfig()
	cfg.Path = path
	result, err := ImportXLSX(cfg)
	require.NoError(t, err)

	require.Len(t, result.Items, 2)
	assert.Equal(t, "frog", result.Items[0].Text)
	assert.Equal(t, "The frog jumps.", result.Items[0].Sentence)
	assert.Equal(t, 4, result.Items[1].Difficulty)
	assert.Len(t, result.Rejected, 4)

	c, err := New(result.Items)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestImportXLSXBadColumn(t *testing.T) {
	cfg := DefaultImportConfig()
	cfg.TextColumn = "1"
	_, err := ImportXLSX(cfg)
	assert.Error(t, err)
}
