// Package model defines shared data structures.
package model

import (
	"sort"
	"time"
)

// PhonicsGroup is a spelling-pattern category used to tag catalog items.
type PhonicsGroup string

// Phonics groups known to the catalog.
const (
	GroupCVC           PhonicsGroup = "cvc"
	GroupDigraphs      PhonicsGroup = "digraphs"
	GroupBlends        PhonicsGroup = "blends"
	GroupSilentE       PhonicsGroup = "silent-e"
	GroupVowelTeams    PhonicsGroup = "vowel-teams"
	GroupRControlled   PhonicsGroup = "r-controlled"
	GroupDiphthongs    PhonicsGroup = "diphthongs"
	GroupSuffixes      PhonicsGroup = "suffixes"
	GroupMultisyllable PhonicsGroup = "multisyllable"
)

// AllGroups lists every phonics group in display order.
var AllGroups = []PhonicsGroup{
	GroupCVC,
	GroupDigraphs,
	GroupBlends,
	GroupSilentE,
	GroupVowelTeams,
	GroupRControlled,
	GroupDiphthongs,
	GroupSuffixes,
	GroupMultisyllable,
}

// Level bounds for a learner's skill estimate.
const (
	MinLevel = 1.0
	MaxLevel = 10.0
)

// Difficulty bounds for catalog items.
const (
	MinDifficulty = 1
	MaxDifficulty = 10
)

// WordItem is a single practice item from the catalog.
type WordItem struct {
	ID         string
	Text       string
	Difficulty int
	// Pattern is the specific catalog sub-tag, e.g. "end-blends-st".
	Pattern  string
	Group    PhonicsGroup
	Sentence string
}

// StruggleEntry tracks a word the learner has struggled with at least once.
type StruggleEntry struct {
	Word               string
	Group              PhonicsGroup
	ConsecutiveCorrect int
	TotalAttempts      int
	UpdatedAt          time.Time
}

// LearnerProgress is the learner state consumed by session generation.
type LearnerProgress struct {
	CurrentLevel          float64
	HasCompletedPlacement bool
	WeakGroups            map[PhonicsGroup]struct{}
	StruggleEntries       []StruggleEntry
}

// NewLearnerProgress returns the progress of a learner without history.
func NewLearnerProgress() LearnerProgress {
	return LearnerProgress{
		CurrentLevel: MinLevel,
		WeakGroups:   map[PhonicsGroup]struct{}{},
	}
}

// WeakGroupList returns the weak groups sorted by name.
func (p LearnerProgress) WeakGroupList() []PhonicsGroup {
	return SortedGroups(p.WeakGroups)
}

// SortedGroups returns set members sorted by name.
func SortedGroups(set map[PhonicsGroup]struct{}) []PhonicsGroup {
	out := make([]PhonicsGroup, 0, len(set))
	for g := range set {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// GroupSet builds a set from a list of groups.
func GroupSet(groups []PhonicsGroup) map[PhonicsGroup]struct{} {
	set := make(map[PhonicsGroup]struct{}, len(groups))
	for _, g := range groups {
		set[g] = struct{}{}
	}
	return set
}

// ClampLevel keeps a level within [MinLevel, MaxLevel].
func ClampLevel(level float64) float64 {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// WordOutcome is the result of one attempted word.
type WordOutcome struct {
	WordID     string
	Word       string
	Group      PhonicsGroup
	Correct    bool
	Input      string
	TimeSpent  time.Duration
	Backspaces int
	Hesitation bool
}

// SessionSummary captures a finished practice session.
type SessionSummary struct {
	SessionID   string
	LearnerID   string
	FinishedAt  time.Time
	Words       int
	Correct     int
	Accuracy    float64
	AvgSeconds  float64
	LevelBefore float64
	LevelAfter  float64
}

// ProgressUpdate is a partial LearnerProgress write; nil fields are left
// unchanged.
type ProgressUpdate struct {
	CurrentLevel          *float64
	HasCompletedPlacement *bool
	WeakGroups            []PhonicsGroup
	SetWeakGroups         bool
}
