package recommend

import (
	"testing"

	"destination-recommender/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCollaborativeScore(t *testing.T) {
	profile := &models.UserProfile{Preferences: models.TravelPreferences{
		Climate:    []string{"Tropical/Warm"},
		Activities: []string{"Beach/Water Sports", "Nightlife"},
		Cuisine:    []string{"Seafood"},
	}}
	dest := &models.Destination{
		Climate:         []string{"tropical"},
		Activities:      []string{"beach", "snorkeling"},
		Cuisine:         []string{"indonesian"},
		PopularityScore: 80,
	}

	// alignment = (1 + 0.5 + 0) / 3
	assert.InDelta(t, 0.5, preferenceAlignment(profile, dest), 1e-9)
	assert.InDelta(t, 0.65, CollaborativeScore(profile, dest), 1e-9)
}

func TestPreferenceAlignment_EdgeCases(t *testing.T) {
	dest := &models.Destination{
		Climate:    []string{"alpine"},
		Activities: []string{"hiking", "skiing"},
		Cuisine:    []string{"swiss"},
	}

	t.Run("no activities contributes zero", func(t *testing.T) {
		p := &models.UserProfile{Preferences: models.TravelPreferences{Climate: []string{"Alpine/Mountain"}}}
		assert.InDelta(t, 1.0/3, preferenceAlignment(p, dest), 1e-9)
	})

	t.Run("every activity matched", func(t *testing.T) {
		p := &models.UserProfile{Preferences: models.TravelPreferences{
			Activities: []string{"Hiking/Adventure", "hiking"},
		}}
		assert.InDelta(t, 1.0/3, preferenceAlignment(p, dest), 1e-9)
	})

	t.Run("empty profile", func(t *testing.T) {
		assert.Equal(t, 0.0, preferenceAlignment(&models.UserProfile{}, dest))
	})
}
