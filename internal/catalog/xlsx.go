package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/verte-zerg/kinetype/internal/model"
)

// ImportConfig describes the spreadsheet layout of a word list.
type ImportConfig struct {
	Path             string
	Sheet            string
	TextColumn       string
	DifficultyColumn string
	PatternColumn    string
	SentenceColumn   string
	// StartRow is the 1-based row of the first word.
	StartRow int
}

// DefaultImportConfig returns the layout text | difficulty | pattern | sentence
// with a header row.
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		Sheet:            "Sheet1",
		TextColumn:       "A",
		DifficultyColumn: "B",
		PatternColumn:    "C",
		SentenceColumn:   "D",
		StartRow:         2,
	}
}

// ImportResult holds the rows accepted and rejected by an import.
type ImportResult struct {
	Items    []model.WordItem
	Rejected []string
}

// ImportXLSX reads catalog items from an Excel workbook. Invalid rows are
// reported in Rejected rather than failing the import.
func ImportXLSX(cfg ImportConfig) (ImportResult, error) {
	cols, err := resolveColumns(cfg)
	if err != nil {
		return ImportResult{}, err
	}
	f, err := excelize.OpenFile(cfg.Path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheet := cfg.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	var result ImportResult
	seen := map[string]struct{}{}
	for i, row := range rows {
		rowNum := i + 1
		if rowNum < cfg.StartRow {
			continue
		}
		item, err := parseRow(row, cols)
		if err != nil {
			result.Rejected = append(result.Rejected, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		if item.Text == "" {
			continue
		}
		if _, dup := seen[item.Text]; dup {
			result.Rejected = append(result.Rejected, fmt.Sprintf("row %d: duplicate word %q", rowNum, item.Text))
			continue
		}
		seen[item.Text] = struct{}{}
		result.Items = append(result.Items, item)
	}
	return result, nil
}

type importColumns struct {
	text, difficulty, pattern, sentence int
}

func resolveColumns(cfg ImportConfig) (importColumns, error) {
	var cols importColumns
	var err error
	if cols.text, err = columnIndex(cfg.TextColumn); err != nil {
		return cols, err
	}
	if cols.difficulty, err = columnIndex(cfg.DifficultyColumn); err != nil {
		return cols, err
	}
	if cols.pattern, err = columnIndex(cfg.PatternColumn); err != nil {
		return cols, err
	}
	if cfg.SentenceColumn == "" {
		cols.sentence = -1
		return cols, nil
	}
	cols.sentence, err = columnIndex(cfg.SentenceColumn)
	return cols, err
}

func columnIndex(name string) (int, error) {
	n, err := excelize.ColumnNameToNumber(strings.TrimSpace(name))
	if err != nil {
		return 0, fmt.Errorf("invalid column %q: %w", name, err)
	}
	return n - 1, nil
}

func parseRow(row []string, cols importColumns) (model.WordItem, error) {
	cell := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	text := strings.ToLower(cell(cols.text))
	if text == "" {
		return model.WordItem{}, nil
	}
	if !validText(text) {
		return model.WordItem{}, fmt.Errorf("invalid word %q", text)
	}
	difficulty, err := strconv.Atoi(cell(cols.difficulty))
	if err != nil {
		return model.WordItem{}, fmt.Errorf("invalid difficulty %q", cell(cols.difficulty))
	}
	if difficulty < model.MinDifficulty || difficulty > model.MaxDifficulty {
		return model.WordItem{}, fmt.Errorf("difficulty %d out of range", difficulty)
	}
	pattern := strings.ToLower(cell(cols.pattern))
	group, ok := GroupForPattern(pattern)
	if !ok {
		return model.WordItem{}, fmt.Errorf("unknown pattern %q", pattern)
	}
	return model.WordItem{
		ID:         text,
		Text:       text,
		Difficulty: difficulty,
		Pattern:    pattern,
		Group:      group,
		Sentence:   cell(cols.sentence),
	}, nil
}
