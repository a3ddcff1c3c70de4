// Package catalog provides the immutable word catalog used for practice.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/verte-zerg/kinetype/internal/model"
)

// ErrEmpty is returned when a catalog has no items.
var ErrEmpty = errors.New("catalog is empty")

// Source supplies the static set of practice items.
type Source interface {
	AllWords() []model.WordItem
	Lookup(text string) (model.WordItem, bool)
	Filter(keep func(model.WordItem) bool) []model.WordItem
	MaxDifficulty() int
}

var _ Source = (*Catalog)(nil)

// Catalog is an immutable, queryable collection of practice items.
type Catalog struct {
	items   []model.WordItem
	byText  map[string]int
	ids     map[string]struct{}
	maxDiff int
}

// New validates items and builds a Catalog.
func New(items []model.WordItem) (*Catalog, error) {
	if len(items) == 0 {
		return nil, ErrEmpty
	}
	c := &Catalog{
		items:  make([]model.WordItem, 0, len(items)),
		byText: make(map[string]int, len(items)),
		ids:    make(map[string]struct{}, len(items)),
	}
	for i, item := range items {
		item.Text = strings.TrimSpace(item.Text)
		if !validText(item.Text) {
			return nil, fmt.Errorf("item %d: invalid word %q", i+1, item.Text)
		}
		if item.Difficulty < model.MinDifficulty || item.Difficulty > model.MaxDifficulty {
			return nil, fmt.Errorf("item %q: difficulty %d out of range %d-%d", item.Text, item.Difficulty, model.MinDifficulty, model.MaxDifficulty)
		}
		group, ok := GroupForPattern(item.Pattern)
		if !ok {
			return nil, fmt.Errorf("item %q: unknown pattern %q", item.Text, item.Pattern)
		}
		item.Group = group
		if item.ID == "" {
			item.ID = item.Text
		}
		if _, dup := c.byText[item.Text]; dup {
			return nil, fmt.Errorf("item %q: duplicate word", item.Text)
		}
		if _, dup := c.ids[item.ID]; dup {
			return nil, fmt.Errorf("item %q: duplicate id %q", item.Text, item.ID)
		}
		c.ids[item.ID] = struct{}{}
		c.byText[item.Text] = len(c.items)
		c.items = append(c.items, item)
		if item.Difficulty > c.maxDiff {
			c.maxDiff = item.Difficulty
		}
	}
	return c, nil
}

// AllWords returns a copy of every item.
func (c *Catalog) AllWords() []model.WordItem {
	return append([]model.WordItem(nil), c.items...)
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// MaxDifficulty returns the highest difficulty present.
func (c *Catalog) MaxDifficulty() int {
	return c.maxDiff
}

// Lookup finds an item by its word text.
func (c *Catalog) Lookup(text string) (model.WordItem, bool) {
	idx, ok := c.byText[strings.ToLower(text)]
	if !ok {
		return model.WordItem{}, false
	}
	return c.items[idx], true
}

// Filter returns the items accepted by keep, in catalog order.
func (c *Catalog) Filter(keep func(model.WordItem) bool) []model.WordItem {
	var out []model.WordItem
	for _, item := range c.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// GroupCount is the number of items per group and difficulty.
type GroupCount struct {
	Group        model.PhonicsGroup
	Total        int
	ByDifficulty [model.MaxDifficulty + 1]int
}

// Counts summarizes the catalog per phonics group.
func (c *Catalog) Counts() []GroupCount {
	byGroup := map[model.PhonicsGroup]*GroupCount{}
	for _, item := range c.items {
		gc, ok := byGroup[item.Group]
		if !ok {
			gc = &GroupCount{Group: item.Group}
			byGroup[item.Group] = gc
		}
		gc.Total++
		gc.ByDifficulty[item.Difficulty]++
	}
	out := make([]GroupCount, 0, len(byGroup))
	for _, gc := range byGroup {
		out = append(out, *gc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Group < out[j].Group })
	return out
}
