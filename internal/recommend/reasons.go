package recommend

import (
	"strings"

	"destination-recommender/internal/models"
)

const maxReasons = 3

// reasonFacts is computed once per destination and shared by every rule.
type reasonFacts struct {
	profile         *models.UserProfile
	dest            *models.Destination
	preferenceMatch float64
	activityMatches []string
	climateMatch    string
}

type reasonRule struct {
	applies func(f *reasonFacts) bool
	format  func(f *reasonFacts) string
}

// reasonRules are evaluated in priority order.
var reasonRules = []reasonRule{
	{
		applies: func(f *reasonFacts) bool { return len(f.activityMatches) > 0 },
		format: func(f *reasonFacts) string {
			top := f.activityMatches[:min(2, len(f.activityMatches))]
			return "Perfect for " + strings.ToLower(strings.Join(top, " & "))
		},
	},
	{
		applies: func(f *reasonFacts) bool { return f.climateMatch != "" },
		format: func(f *reasonFacts) string {
			return "Ideal " + strings.ToLower(f.climateMatch) + " climate"
		},
	},
	{
		applies: func(f *reasonFacts) bool {
			return MatchBudget(f.profile.Preferences.Budget, f.dest.BudgetRange) > 0.7
		},
		format: func(*reasonFacts) string { return "Within your budget range" },
	},
	{
		applies: func(f *reasonFacts) bool { return f.preferenceMatch > 0.8 },
		format:  func(*reasonFacts) string { return "Exceptional match for your profile" },
	},
}

// Reasons explains a match in at most three sentences. preferenceMatch is the
// raw cosine fraction, not the rounded percentage.
func Reasons(profile *models.UserProfile, dest *models.Destination, preferenceMatch float64) []string {
	facts := &reasonFacts{
		profile:         profile,
		dest:            dest,
		preferenceMatch: preferenceMatch,
		activityMatches: matchingLabels(profile.Preferences.Activities, dest.Activities),
	}
	if climates := matchingLabels(profile.Preferences.Climate, dest.Climate); len(climates) > 0 {
		facts.climateMatch = climates[0]
	}

	reasons := make([]string, 0, maxReasons)
	for _, rule := range reasonRules {
		if len(reasons) == maxReasons {
			break
		}
		if rule.applies(facts) {
			reasons = append(reasons, rule.format(facts))
		}
	}
	return reasons
}
