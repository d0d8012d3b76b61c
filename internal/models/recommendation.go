// internal/models/recommendation.go
package models

// Recommendation is one scored catalog entry. All scores are integer
// percentages in [0, 100].
type Recommendation struct {
	Destination      Destination `json:"destination"`
	PreferenceMatch  int         `json:"preferenceMatch"`
	DemographicMatch int         `json:"demographicMatch"`
	RelevanceScore   int         `json:"relevanceScore"`
	SeasonalBoost    int         `json:"seasonalBoost"`
	FinalScore       int         `json:"finalScore"`
	MatchReasons     []string    `json:"matchReasons"`
}

type RecommendationMetrics struct {
	TotalDestinations int     `json:"totalDestinations"`
	AverageMatch      int     `json:"averageMatch"`
	TopMatchScore     int     `json:"topMatchScore"`
	RankingAccuracy   float64 `json:"rankingAccuracy"`
	ProcessingTime    int64   `json:"processingTime"` // milliseconds
}

type RankingResult struct {
	Recommendations []Recommendation      `json:"recommendations"`
	Metrics         RecommendationMetrics `json:"metrics"`
}
