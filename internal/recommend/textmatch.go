package recommend

import (
	"strings"
	"unicode"
)

type synonymFamily struct {
	key   string
	words []string
}

// synonymFamilies is ordered so matching is deterministic.
var synonymFamilies = []synonymFamily{
	{"beach", []string{"water", "coastal", "ocean", "sea"}},
	{"adventure", []string{"hiking", "outdoor", "extreme", "active"}},
	{"cultural", []string{"historical", "heritage", "traditional", "local"}},
	{"relaxation", []string{"spa", "peaceful", "calm", "zen"}},
	{"food", []string{"cuisine", "culinary", "dining", "gastronomy"}},
	{"warm", []string{"tropical", "hot", "sunny"}},
	{"cold", []string{"alpine", "nordic", "snowy", "winter"}},
}

// MatchPreference reports whether a user label and a destination tag refer
// to the same thing: after normalization one contains the other, or one
// contains a synonym family key while the other contains one of its words.
func MatchPreference(userLabel, destTag string) bool {
	a, b := normalizeLabel(userLabel), normalizeLabel(destTag)
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	return semanticMatch(a, b)
}

func semanticMatch(a, b string) bool {
	for _, fam := range synonymFamilies {
		if strings.Contains(a, fam.key) && containsAny(b, fam.words) {
			return true
		}
		if strings.Contains(b, fam.key) && containsAny(a, fam.words) {
			return true
		}
	}
	return false
}

// normalizeLabel lowercases and strips slashes, hyphens and whitespace.
func normalizeLabel(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '-' || isSpace(r) {
			return -1
		}
		return r
	}, strings.ToLower(s))
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}

// matchingLabels returns the user labels, in order, that match any tag.
func matchingLabels(userLabels, tags []string) []string {
	var out []string
	for _, label := range userLabels {
		if anyTagMatches(label, tags) {
			out = append(out, label)
		}
	}
	return out
}

func anyTagMatches(label string, tags []string) bool {
	for _, tag := range tags {
		if MatchPreference(label, tag) {
			return true
		}
	}
	return false
}
