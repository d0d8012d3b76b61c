package recommend

import (
	"slices"
	"strings"

	"destination-recommender/internal/models"
)

// Budget scale labels as offered by the survey.
const (
	BudgetLabelBudget = "Budget (₹43.5k-₹1.3L)"
	BudgetLabelMedium = "Medium (₹1.3L-₹3.5L)"
	BudgetLabelHigh   = "High (₹3.5L-₹7L)"
	BudgetLabelLuxury = "Luxury (₹7L+)"
)

const defaultBudgetLevel = 2

// budgetLevels maps survey labels and catalog aliases onto the 1..4 scale.
var budgetLevels = map[string]int{
	BudgetLabelBudget: 1,
	BudgetLabelMedium: 2,
	BudgetLabelHigh:   3,
	BudgetLabelLuxury: 4,
	"budget":          1,
	"medium":          2,
	"high":            3,
	"luxury":          4,
}

// BudgetLevel returns the 1..4 level of an exact label, or 2 if unknown.
func BudgetLevel(label string) int {
	if level, ok := budgetLevels[label]; ok {
		return level
	}
	return defaultBudgetLevel
}

// MatchBudget scores 1.0 for equal levels and loses 0.25 per level apart.
func MatchBudget(userLabel, destLabel string) float64 {
	diff := BudgetLevel(userLabel) - BudgetLevel(destLabel)
	if diff < 0 {
		diff = -diff
	}
	return max(0, 1-float64(diff)*0.25)
}

var lifestyleActivities = map[string][]string{
	"Active/Outdoorsy":   {"hiking", "adventure", "wildlife"},
	"Urban/Professional": {"cultural", "shopping", "nightlife"},
	"Family-oriented":    {"beach", "sightseeing", "cultural"},
	"Bohemian/Artistic":  {"cultural", "photography", "unique experiences"},
	"Minimalist":         {"relaxation", "nature", "simple experiences"},
}

const (
	ageWeight       = 0.3
	budgetWeight    = 0.4
	lifestyleWeight = 0.3
)

// DemographicMatch is the weighted average of age/activity, income/budget and
// lifestyle alignment. It exceeds 1 only when the lifestyle ratio does.
func DemographicMatch(profile *models.UserProfile, dest *models.Destination) float64 {
	var score, weights float64

	if ageAligned(profile.Age, dest.Activities) {
		score += ageWeight
	}
	weights += ageWeight

	score += MatchBudget(profile.Demographics.Income, dest.BudgetRange) * budgetWeight
	weights += budgetWeight

	score += lifestyleMatch(profile.Demographics.Lifestyle, dest.Activities) * lifestyleWeight
	weights += lifestyleWeight

	return score / weights
}

// ageAligned checks for the exact activity tag that suits the age bracket.
func ageAligned(age int, activities []string) bool {
	switch {
	case age < youngAgeLimit:
		return slices.Contains(activities, "nightlife")
	case age < seniorAgeStart:
		return slices.Contains(activities, "cultural")
	default:
		return slices.Contains(activities, "relaxation")
	}
}

// lifestyleMatch is the share of the lifestyle's preferred activities covered
// by destination tags. Tags are counted, not preferences, so the ratio can
// exceed 1. Matching is raw substring either way.
func lifestyleMatch(lifestyle string, activities []string) float64 {
	preferred := lifestyleActivities[lifestyle]

	matched := 0
	for _, activity := range activities {
		for _, pref := range preferred {
			if strings.Contains(activity, pref) || strings.Contains(pref, activity) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(max(len(preferred), 1))
}
