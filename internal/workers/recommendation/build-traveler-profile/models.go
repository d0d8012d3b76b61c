package buildtravelerprofile

import (
	"destination-recommender/internal/models"
	"destination-recommender/internal/traveler"
)

type Input struct {
	Answers traveler.Answers `json:"answers"`
}

type Output struct {
	Profile   *models.UserProfile `json:"profile"`
	ProfileID string              `json:"profileId"`
	Insights  []string            `json:"insights"`
}
