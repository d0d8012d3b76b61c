package recommend

import (
	"strings"
	"time"

	"destination-recommender/internal/models"
)

const defaultSeasonalScore = 50

// SeasonalBoost returns the destination's desirability for season in [0,1].
// A season missing from SeasonalTrends scores 50/100; an explicit 0 stays 0.
func SeasonalBoost(dest *models.Destination, season string) float64 {
	score, ok := dest.SeasonalTrends[strings.ToLower(season)]
	if !ok {
		score = defaultSeasonalScore
	}
	return score / 100
}

// SeasonForMonth quarters the calendar: Jan-Mar winter, Apr-Jun spring,
// Jul-Sep summer, Oct-Dec fall.
func SeasonForMonth(m time.Month) string {
	return models.Seasons[(int(m)-1)/3]
}

// CurrentSeason derives the season label from t's month.
func CurrentSeason(t time.Time) string {
	return SeasonForMonth(t.Month())
}

// IsSeason reports whether label is one of the four season labels.
func IsSeason(label string) bool {
	for _, s := range models.Seasons {
		if strings.EqualFold(s, label) {
			return true
		}
	}
	return false
}
