package recommend

import "destination-recommender/internal/models"

// CollaborativeScore stands in for collaborative filtering: the mean of the
// destination's popularity and how well its tags line up with the profile.
func CollaborativeScore(profile *models.UserProfile, dest *models.Destination) float64 {
	popularity := dest.PopularityScore / 100
	return (popularity + preferenceAlignment(profile, dest)) / 2
}

// preferenceAlignment averages three checks: any climate match, the share of
// activities matched (0 for no activities) and any cuisine match.
func preferenceAlignment(profile *models.UserProfile, dest *models.Destination) float64 {
	prefs := profile.Preferences
	var total float64

	if anyLabelMatches(prefs.Climate, dest.Climate) {
		total++
	}

	if n := len(prefs.Activities); n > 0 {
		matched := len(matchingLabels(prefs.Activities, dest.Activities))
		total += min(1, float64(matched)/float64(n))
	}

	if anyLabelMatches(prefs.Cuisine, dest.Cuisine) {
		total++
	}

	return total / 3
}

func anyLabelMatches(labels, tags []string) bool {
	for _, label := range labels {
		if anyTagMatches(label, tags) {
			return true
		}
	}
	return false
}
