package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/kinetype/internal/model"
)

//go:embed data/words.toml
var defaultCatalog string

type fileCatalog struct {
	Words []fileWord `toml:"word"`
}

type fileWord struct {
	ID         string `toml:"id,omitempty"`
	Text       string `toml:"text"`
	Difficulty int    `toml:"difficulty"`
	Pattern    string `toml:"pattern"`
	Sentence   string `toml:"sentence,omitempty"`
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	c, err := Parse(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in catalog: %w", err)
	}
	return c, nil
}

// Load reads a TOML catalog file. An empty path selects the built-in catalog.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a TOML catalog document.
func Parse(data string) (*Catalog, error) {
	var fc fileCatalog
	if _, err := toml.Decode(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	items := make([]model.WordItem, 0, len(fc.Words))
	for _, w := range fc.Words {
		items = append(items, model.WordItem{
			ID:         w.ID,
			Text:       w.Text,
			Difficulty: w.Difficulty,
			Pattern:    w.Pattern,
			Sentence:   w.Sentence,
		})
	}
	return New(items)
}

// Write encodes items as a TOML catalog document.
func Write(path string, items []model.WordItem) error {
	fc := fileCatalog{Words: make([]fileWord, 0, len(items))}
	for _, item := range items {
		fc.Words = append(fc.Words, fileWord{
			ID:         item.ID,
			Text:       item.Text,
			Difficulty: item.Difficulty,
			Pattern:    item.Pattern,
			Sentence:   item.Sentence,
		})
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create catalog: %w", err)
	}
	if err := toml.NewEncoder(file).Encode(fc); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close catalog: %w", err)
	}
	return nil
}
