package recommend

import (
	"testing"

	"destination-recommender/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestBudgetLevel(t *testing.T) {
	tests := map[string]int{
		BudgetLabelBudget: 1,
		BudgetLabelMedium: 2,
		BudgetLabelHigh:   3,
		BudgetLabelLuxury: 4,
		"budget":          1,
		"medium":          2,
		"high":            3,
		"luxury":          4,
		"Luxury":          2, // exact-label lookup
		"":                2,
		"₹10L-₹20L":       2,
	}
	for label, want := range tests {
		assert.Equal(t, want, BudgetLevel(label), "label %q", label)
	}
}

func TestMatchBudget_ByLevelDistance(t *testing.T) {
	tests := []struct {
		user, dest string
		want       float64
	}{
		{BudgetLabelHigh, "high", 1.0},
		{BudgetLabelHigh, "luxury", 0.75},
		{"luxury", BudgetLabelHigh, 0.75},
		{BudgetLabelBudget, "high", 0.5},
		{BudgetLabelLuxury, "budget", 0.25},
		{"budget", BudgetLabelLuxury, 0.25},
		{"unknown", "medium", 1.0},
		{"unknown", "luxury", 0.5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchBudget(tt.user, tt.dest), "%s vs %s", tt.user, tt.dest)
	}
}

func TestDemographicMatch(t *testing.T) {
	profile := &models.UserProfile{
		Age: 25,
		Demographics: models.Demographics{
			Income:    BudgetLabelLuxury,
			Lifestyle: "Urban/Professional",
		},
	}
	dest := &models.Destination{
		Activities:  []string{"nightlife", "beach"},
		BudgetRange: "budget",
	}

	// 0.3 (age) + 0.25*0.4 (budget) + (1/3)*0.3 (lifestyle)
	assert.InDelta(t, 0.5, DemographicMatch(profile, dest), 1e-9)

	richer := *dest
	richer.BudgetRange = "luxury"
	assert.Greater(t, DemographicMatch(profile, &richer), DemographicMatch(profile, dest))
}

func TestDemographicMatch_LifestyleRatioNotCapped(t *testing.T) {
	profile := &models.UserProfile{
		Age: 35,
		Demographics: models.Demographics{
			Income:    BudgetLabelLuxury,
			Lifestyle: "Urban/Professional",
		},
	}
	dest := &models.Destination{
		Activities:  []string{"hiking", "cultural", "cultural tours", "shopping", "nightlife"},
		BudgetRange: "budget",
	}

	// 0.3 (age) + 0.25*0.4 (budget) + (4/3)*0.3 (lifestyle)
	assert.InDelta(t, 0.8, DemographicMatch(profile, dest), 1e-9)
}

func TestAgeAligned(t *testing.T) {
	tests := []struct {
		age        int
		activities []string
		want       bool
	}{
		{22, []string{"nightlife"}, true},
		{22, []string{"cultural"}, false},
		{29, []string{"nightlife tours"}, false},
		{30, []string{"cultural"}, true},
		{49, []string{"relaxation"}, false},
		{50, []string{"relaxation"}, true},
		{75, []string{"nightlife"}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ageAligned(tt.age, tt.activities), "age %d %v", tt.age, tt.activities)
	}
}

func TestLifestyleMatch(t *testing.T) {
	tests := []struct {
		name       string
		lifestyle  string
		activities []string
		want       float64
	}{
		{"two of three", "Active/Outdoorsy", []string{"hiking", "wildlife", "shopping"}, 2.0 / 3},
		{"substring either way", "Bohemian/Artistic", []string{"unique"}, 1.0 / 3},
		{"more tags than preferences", "Urban/Professional", []string{"cultural", "cultural tours", "shopping", "nightlife"}, 4.0 / 3},
		{"case sensitive", "Minimalist", []string{"Relaxation"}, 0},
		{"unknown lifestyle", "Not specified", []string{"hiking"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, lifestyleMatch(tt.lifestyle, tt.activities), 1e-9)
		})
	}
}
