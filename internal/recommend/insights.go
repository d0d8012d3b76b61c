package recommend

import (
	"regexp"
	"strings"

	"destination-recommender/internal/models"
)

const maxInsights = 4

// currencyRange matches the rupee amounts inside a lowercased budget label.
var (
	currencyRange = regexp.MustCompile(`₹[\d,.L impactfulk\-+]+`)
	emptyParens   = regexp.MustCompile(`\(\s*\)`)
)

type insightRule struct {
	applies func(p *models.TravelPreferences) bool
	format  func(p *models.TravelPreferences) string
}

func always(*models.TravelPreferences) bool { return true }

var insightRules = []insightRule{
	{
		applies: always,
		format: func(p *models.TravelPreferences) string {
			return "You prefer " + strings.ToLower(p.TravelStyle) + " travel experiences"
		},
	},
	{
		applies: func(p *models.TravelPreferences) bool { return len(p.Activities) > 0 },
		format: func(p *models.TravelPreferences) string {
			top := p.Activities[:min(3, len(p.Activities))]
			return "Your ideal trip includes " + strings.ToLower(strings.Join(top, ", "))
		},
	},
	{
		applies: func(p *models.TravelPreferences) bool { return len(p.Climate) > 0 },
		format: func(p *models.TravelPreferences) string {
			return "You enjoy " + strings.ToLower(strings.Join(p.Climate, " and ")) + " climates"
		},
	},
	{
		applies: always,
		format: func(p *models.TravelPreferences) string {
			return "Your travel budget aligns with " + budgetTier(p.Budget) + " range destinations"
		},
	},
	{
		applies: func(p *models.TravelPreferences) bool { return len(p.Season) > 0 },
		format: func(p *models.TravelPreferences) string {
			return "You prefer traveling during " + strings.ToLower(strings.Join(p.Season, " and "))
		},
	},
}

// Insights summarizes a profile's preferences in at most four sentences.
func Insights(profile *models.UserProfile) []string {
	prefs := &profile.Preferences
	insights := make([]string, 0, maxInsights)
	for _, rule := range insightRules {
		if len(insights) == maxInsights {
			break
		}
		if rule.applies(prefs) {
			insights = append(insights, rule.format(prefs))
		}
	}
	return insights
}

// budgetTier reduces "Medium (₹1.3L-₹3.5L)" to "medium".
func budgetTier(label string) string {
	tier := currencyRange.ReplaceAllString(strings.ToLower(label), "")
	tier = emptyParens.ReplaceAllString(tier, "")
	return strings.Join(strings.Fields(tier), " ")
}
