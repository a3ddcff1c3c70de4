// Package generator composes practice sessions from the word catalog and the
// learner's struggle ledger.
package generator

import (
	"fmt"
	"math"
	"sort"
	"unicode"

	"github.com/verte-zerg/kinetype/internal/catalog"
	"github.com/verte-zerg/kinetype/internal/model"
	"github.com/verte-zerg/kinetype/internal/random"
)

// Bucket names the source a session word was selected from.
type Bucket string

// Session buckets.
const (
	BucketStruggle   Bucket = "struggle"
	BucketNew        Bucket = "new"
	BucketConfidence Bucket = "confidence"
	BucketBooster    Bucket = "booster"
)

const (
	newWindow     = 1.0
	widenedWindow = 2.0
	// easyFloor is the difficulty always accepted as a confidence word.
	easyFloor = 2
)

var punctuation = []rune{'.', ',', '!', '?'}

// Word is a catalog item as it will be presented.
type Word struct {
	Item    model.WordItem
	Display string
	Bucket  Bucket
}

// Session is an ordered, duplicate-free practice set.
type Session struct {
	Words     []Word
	Requested int
	// InsufficientContent is set when the learner's level exceeds the
	// catalog's maximum difficulty.
	InsufficientContent bool
	MaxDifficulty       int
}

// Items returns the catalog items in presentation order.
func (s Session) Items() []model.WordItem {
	out := make([]model.WordItem, len(s.Words))
	for i, w := range s.Words {
		out[i] = w.Item
	}
	return out
}

// Generator produces randomized practice sessions.
type Generator struct {
	rnd random.Source
}

// New returns a Generator drawing from rnd.
func New(rnd random.Source) *Generator {
	return &Generator{rnd: rnd}
}

// Generate builds a session of up to spec.Size words. A bucket that cannot be
// filled passes its slots on (struggle to new, new to confidence); when
// nothing is left the session is shorter than requested.
func (g *Generator) Generate(cat catalog.Source, progress model.LearnerProgress, spec model.SessionSpec) (Session, error) {
	spec, err := spec.Normalize()
	if err != nil {
		return Session{}, err
	}
	if cat == nil {
		return Session{}, fmt.Errorf("generate session: %w", catalog.ErrEmpty)
	}
	level := model.ClampLevel(progress.CurrentLevel)

	struggleCount := bucketSize(spec.Size, spec.StrugglePct)
	newCount := bucketSize(spec.Size, spec.NewPct)
	confidenceCount := spec.Size - struggleCount - newCount

	sel := newSelection()

	struggle := g.struggleBucket(cat, progress, struggleCount, sel)
	newCount += struggleCount - len(struggle)

	fresh := g.newBucket(cat, level, newCount, sel)
	confidenceCount += newCount - len(fresh)

	confidence := g.confidenceBucket(cat, progress, level, confidenceCount, sel)

	boosters := spec.Boosters
	if boosters > len(confidence) {
		boosters = len(confidence)
	}
	rest := make([]Word, 0, len(struggle)+len(fresh)+len(confidence)-boosters)
	rest = append(rest, tag(confidence[boosters:], BucketConfidence)...)
	rest = append(rest, tag(fresh, BucketNew)...)
	rest = append(rest, tag(struggle, BucketStruggle)...)
	random.Shuffle(g.rnd, rest)

	words := append(tag(confidence[:boosters], BucketBooster), rest...)
	capsP := spec.Capitalization.Probability()
	punctP := spec.Punctuation.Probability()
	for i := range words {
		display := applyCaps(g.rnd, words[i].Item.Text, capsP)
		words[i].Display = applyPunct(g.rnd, display, punctP, punctuation)
	}

	return Session{
		Words:               words,
		Requested:           spec.Size,
		InsufficientContent: level > float64(cat.MaxDifficulty()),
		MaxDifficulty:       cat.MaxDifficulty(),
	}, nil
}

// struggleBucket takes ledger words furthest from graduation first, then
// tops up from the learner's weak phonics groups.
func (g *Generator) struggleBucket(cat catalog.Source, progress model.LearnerProgress, count int, sel *selection) []model.WordItem {
	if count <= 0 {
		return nil
	}
	entries := append([]model.StruggleEntry(nil), progress.StruggleEntries...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ConsecutiveCorrect < entries[j].ConsecutiveCorrect
	})

	var out []model.WordItem
	for _, e := range entries {
		if len(out) >= count {
			return out
		}
		item := ledgerItem(cat, e, progress.CurrentLevel)
		if sel.add(item) {
			out = append(out, item)
		}
	}
	if len(progress.WeakGroups) == 0 {
		return out
	}
	weak := cat.Filter(func(w model.WordItem) bool {
		return catalog.MatchesAny(w.Pattern, progress.WeakGroups)
	})
	random.Shuffle(g.rnd, weak)
	return append(out, sel.take(weak, count-len(out))...)
}

// newBucket draws items near the learner's level, widening once if short.
func (g *Generator) newBucket(cat catalog.Source, level float64, count int, sel *selection) []model.WordItem {
	if count <= 0 {
		return nil
	}
	center := math.Min(level, float64(cat.MaxDifficulty()))
	near := cat.Filter(func(w model.WordItem) bool {
		return math.Abs(float64(w.Difficulty)-center) <= newWindow
	})
	random.Shuffle(g.rnd, near)
	out := sel.take(near, count)
	if len(out) >= count {
		return out
	}
	wide := cat.Filter(func(w model.WordItem) bool {
		return math.Abs(float64(w.Difficulty)-center) <= widenedWindow
	})
	random.Shuffle(g.rnd, wide)
	return append(out, sel.take(wide, count-len(out))...)
}

// confidenceBucket draws easy words the learner is not struggling with.
func (g *Generator) confidenceBucket(cat catalog.Source, progress model.LearnerProgress, level float64, count int, sel *selection) []model.WordItem {
	if count <= 0 {
		return nil
	}
	struggling := make(map[string]struct{}, len(progress.StruggleEntries))
	for _, e := range progress.StruggleEntries {
		struggling[e.Word] = struct{}{}
	}
	easy := cat.Filter(func(w model.WordItem) bool {
		if _, ok := struggling[w.Text]; ok {
			return false
		}
		return float64(w.Difficulty) < level || w.Difficulty <= easyFloor
	})
	random.Shuffle(g.rnd, easy)
	return sel.take(easy, count)
}

// ledgerItem resolves a ledger word against the catalog. Words that left the
// catalog are still practiced at the learner's level.
func ledgerItem(cat catalog.Source, e model.StruggleEntry, level float64) model.WordItem {
	if item, ok := cat.Lookup(e.Word); ok {
		return item
	}
	return model.WordItem{
		ID:         e.Word,
		Text:       e.Word,
		Difficulty: int(math.Round(model.ClampLevel(level))),
		Group:      e.Group,
	}
}

func bucketSize(size int, pct float64) int {
	n := int(math.Floor(float64(size)*pct + 1e-9))
	if n < 0 {
		return 0
	}
	if n > size {
		return size
	}
	return n
}

func tag(items []model.WordItem, bucket Bucket) []Word {
	out := make([]Word, len(items))
	for i, item := range items {
		out[i] = Word{Item: item, Display: item.Text, Bucket: bucket}
	}
	return out
}

// selection tracks chosen word text so a session never repeats a word.
type selection struct {
	chosen map[string]struct{}
}

func newSelection() *selection {
	return &selection{chosen: map[string]struct{}{}}
}

func (s *selection) add(item model.WordItem) bool {
	if _, ok := s.chosen[item.Text]; ok {
		return false
	}
	s.chosen[item.Text] = struct{}{}
	return true
}

func (s *selection) take(items []model.WordItem, n int) []model.WordItem {
	var out []model.WordItem
	for _, item := range items {
		if len(out) >= n {
			break
		}
		if s.add(item) {
			out = append(out, item)
		}
	}
	return out
}

func applyCaps(rnd random.Source, word string, capsPct float64) string {
	if capsPct <= 0 {
		return word
	}
	if rnd.Float64() >= capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd random.Source, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 {
		return word
	}
	if rnd.Float64() >= punctPct {
		return word
	}
	punct := punctSet[rnd.Intn(len(punctSet))]
	return word + string(punct)
}
