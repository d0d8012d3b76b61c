package rankdestinations

import (
	"strings"

	"destination-recommender/internal/common/errors"
	"destination-recommender/internal/common/validation"
	"destination-recommender/internal/models"
)

// Input names the traveler either inline or by a profile ID saved by
// build-traveler-profile. An inline profile wins when both are present.
type Input struct {
	Profile   *models.UserProfile `json:"profile,omitempty"`
	ProfileID string              `json:"profileId,omitempty"`
	Season    string              `json:"season,omitempty"`
	Limit     int                 `json:"limit,omitempty"`
}

// Output metrics always describe the full catalog run, even when
// Recommendations was truncated to the requested limit.
type Output struct {
	ProfileID       string                       `json:"profileId"`
	Season          string                       `json:"season"`
	Recommendations []models.Recommendation      `json:"recommendations"`
	Metrics         models.RecommendationMetrics `json:"metrics"`
	Cached          bool                         `json:"cached"`
}

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"properties": {
		"profile":   {"type": ["object", "null"]},
		"profileId": {"type": "string"},
		"season":    {"type": "string"},
		"limit":     {"type": "integer", "minimum": 0}
	}
}`)

// validateInput rejects variables whose shape cannot be decoded into Input.
func validateInput(vars map[string]interface{}) error {
	result, err := inputSchema.Validate(vars)
	if err != nil {
		return errors.NewInvalidProfileError(err.Error())
	}
	if !result.Valid {
		return errors.NewInvalidProfileError(strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}
