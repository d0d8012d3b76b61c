// Package traveler turns raw survey answers into a vectorized UserProfile.
package traveler

import (
	_ "embed"
	"fmt"

	"destination-recommender/internal/common/errors"
	"destination-recommender/internal/common/validation"
	"destination-recommender/internal/models"
	"destination-recommender/internal/recommend"

	"github.com/google/uuid"
)

// Answers is the survey answer map as it arrives in process variables.
type Answers map[string]interface{}

// Defaults for unanswered questions.
const (
	DefaultAge         = 30
	DefaultLocation    = "Unknown"
	DefaultUnspecified = "Not specified"
	DefaultBudget      = recommend.BudgetLabelMedium
	DefaultTravelStyle = "Relaxed/Slow"
)

//go:embed survey.schema.json
var surveySchemaJSON string

var surveySchema = validation.MustCompile(surveySchemaJSON)

// newID is swapped in tests.
var newID = uuid.NewString

// Validate checks answers against the survey schema and returns every
// violation as "field: description".
func Validate(answers Answers) error {
	result, err := surveySchema.Validate(answers)
	if err != nil {
		return errors.NewInvalidProfileError(fmt.Sprintf("survey answers unreadable: %v", err))
	}
	if result.Valid {
		return nil
	}
	return errors.NewSurveyValidationFailedError(result.GetErrorMessages())
}

// BuildProfile validates answers, fills defaults, assigns an identity and
// derives the profile vector.
func BuildProfile(answers Answers) (*models.UserProfile, error) {
	if err := Validate(answers); err != nil {
		return nil, err
	}

	id := "user_" + newID()
	name := answers.str("name", "")
	if name == "" {
		name = "Traveler " + shortID(id)
	}

	profile := &models.UserProfile{
		ID:   id,
		Name: name,
		Age:  answers.integer("age", DefaultAge),
		Demographics: models.Demographics{
			Location:  answers.str("location", DefaultLocation),
			Income:    answers.str("income", DefaultUnspecified),
			Lifestyle: answers.str("lifestyle", DefaultUnspecified),
		},
		Preferences: models.TravelPreferences{
			Climate:       answers.strs("climate"),
			Activities:    answers.strs("activities"),
			Budget:        answers.str("budget", DefaultBudget),
			Accommodation: answers.strs("accommodation"),
			Cuisine:       answers.strs("cuisine"),
			TravelStyle:   answers.str("travelStyle", DefaultTravelStyle),
			Season:        answers.strs("season"),
		},
	}
	recommend.ApplyVector(profile)
	return profile, nil
}

func shortID(id string) string {
	const prefix = len("user_")
	if len(id) >= prefix+8 {
		return id[prefix : prefix+8]
	}
	return id[prefix:]
}

// Accessors below assume Validate has passed.

func (a Answers) str(key, def string) string {
	if s, ok := a[key].(string); ok && s != "" {
		return s
	}
	return def
}

func (a Answers) integer(key string, def int) int {
	switch v := a[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

func (a Answers) strs(key string) []string {
	switch v := a[key].(type) {
	case []string:
		return append([]string{}, v...)
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}
