package recommend

import (
	"testing"

	"destination-recommender/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReasons(t *testing.T) {
	tests := []struct {
		name            string
		prefs           models.TravelPreferences
		dest            models.Destination
		preferenceMatch float64
		want            []string
	}{
		{
			name:  "compound activity label matches plain tag",
			prefs: models.TravelPreferences{Activities: []string{"Hiking/Adventure"}, Budget: BudgetLabelBudget},
			dest:  models.Destination{Activities: []string{"hiking"}, BudgetRange: "luxury"},
			want:  []string{"Perfect for hiking/adventure"},
		},
		{
			name: "priority order truncated to three",
			prefs: models.TravelPreferences{
				Activities: []string{"Beach/Water Sports", "Nightlife", "Shopping"},
				Climate:    []string{"Temperate", "Tropical/Warm"},
				Budget:     BudgetLabelHigh,
			},
			dest: models.Destination{
				Activities:  []string{"beach", "nightlife", "shopping"},
				Climate:     []string{"tropical"},
				BudgetRange: "high",
			},
			preferenceMatch: 0.93,
			want: []string{
				"Perfect for beach/water sports & nightlife",
				"Ideal tropical/warm climate",
				"Within your budget range",
			},
		},
		{
			name:            "adjacent budget and exceptional match",
			prefs:           models.TravelPreferences{Budget: BudgetLabelMedium},
			dest:            models.Destination{BudgetRange: "high"},
			preferenceMatch: 0.81,
			want:            []string{"Within your budget range", "Exceptional match for your profile"},
		},
		{
			name:            "exactly 0.8 is not exceptional",
			prefs:           models.TravelPreferences{Budget: BudgetLabelBudget},
			dest:            models.Destination{BudgetRange: "high"},
			preferenceMatch: 0.8,
			want:            []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &models.UserProfile{Preferences: tt.prefs}
			got := Reasons(profile, &tt.dest, tt.preferenceMatch)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReasons_FirstIsActivityWhenAnyMatches(t *testing.T) {
	profile := &models.UserProfile{Preferences: models.TravelPreferences{
		Activities: []string{"Photography", "Wildlife/Nature"},
		Climate:    []string{"Tropical/Warm"},
		Budget:     BudgetLabelLuxury,
	}}
	dest := &models.Destination{
		Activities:  []string{"wildlife", "photography"},
		Climate:     []string{"sunny"},
		BudgetRange: "luxury",
	}

	got := Reasons(profile, dest, 0.99)
	require.Len(t, got, 3)
	assert.Equal(t, "Perfect for photography & wildlife/nature", got[0])
	assert.Equal(t, "Ideal tropical/warm climate", got[1])
}
