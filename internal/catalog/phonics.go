package catalog

import (
	"strings"

	"github.com/verte-zerg/kinetype/internal/model"
)

// groupPrefixes maps each phonics group to the catalog pattern prefixes it
// accepts. A weak group matches an item when the item's pattern starts with
// any of these prefixes.
var groupPrefixes = map[model.PhonicsGroup][]string{
	model.GroupCVC:           {"cvc-"},
	model.GroupDigraphs:      {"digraph-", "end-digraph-"},
	model.GroupBlends:        {"blends-", "end-blends-"},
	model.GroupSilentE:       {"silent-e-", "magic-e-"},
	model.GroupVowelTeams:    {"vowel-team-"},
	model.GroupRControlled:   {"r-controlled-", "bossy-r-"},
	model.GroupDiphthongs:    {"diphthong-"},
	model.GroupSuffixes:      {"suffix-", "inflection-"},
	model.GroupMultisyllable: {"multisyllable-", "compound-"},
}

// Prefixes returns the accepted pattern prefixes for a group.
func Prefixes(group model.PhonicsGroup) []string {
	return append([]string(nil), groupPrefixes[group]...)
}

// GroupForPattern resolves the phonics group of a catalog pattern. The longest
// matching prefix wins so "end-blends-st" never resolves through a shorter tag.
func GroupForPattern(pattern string) (model.PhonicsGroup, bool) {
	var (
		best    model.PhonicsGroup
		bestLen int
	)
	for _, group := range model.AllGroups {
		for _, prefix := range groupPrefixes[group] {
			if strings.HasPrefix(pattern, prefix) && len(prefix) > bestLen {
				best = group
				bestLen = len(prefix)
			}
		}
	}
	return best, bestLen > 0
}

// MatchesGroup reports whether a pattern belongs to the group.
func MatchesGroup(pattern string, group model.PhonicsGroup) bool {
	for _, prefix := range groupPrefixes[group] {
		if strings.HasPrefix(pattern, prefix) {
			return true
		}
	}
	return false
}

// MatchesAny reports whether a pattern belongs to any of the groups.
func MatchesAny(pattern string, groups map[model.PhonicsGroup]struct{}) bool {
	for group := range groups {
		if MatchesGroup(pattern, group) {
			return true
		}
	}
	return false
}
