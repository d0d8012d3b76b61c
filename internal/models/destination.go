// internal/models/destination.go
package models

// Destination is a read-only catalog record. DestinationVector is authored
// offline with the same dimension order as UserProfile.ProfileVector.
type Destination struct {
	ID                 string             `json:"id" yaml:"id"`
	Name               string             `json:"name" yaml:"name"`
	Country            string             `json:"country" yaml:"country"`
	Description        string             `json:"description" yaml:"description"`
	Image              string             `json:"image,omitempty" yaml:"image,omitempty"`
	Climate            []string           `json:"climate" yaml:"climate"`
	Activities         []string           `json:"activities" yaml:"activities"`
	BudgetRange        string             `json:"budgetRange" yaml:"budgetRange"`
	BestSeasons        []string           `json:"bestSeasons" yaml:"bestSeasons"`
	Cuisine            []string           `json:"cuisine" yaml:"cuisine"`
	AccommodationTypes []string           `json:"accommodationTypes" yaml:"accommodationTypes"`
	Coordinates        [2]float64         `json:"coordinates" yaml:"coordinates"`
	PopularityScore    float64            `json:"popularityScore" yaml:"popularityScore"`
	SeasonalTrends     map[string]float64 `json:"seasonalTrends" yaml:"seasonalTrends"`
	DestinationVector  []float64          `json:"destinationVector" yaml:"destinationVector"`
}

// Season labels accepted by the ranking engine.
const (
	SeasonSpring = "spring"
	SeasonSummer = "summer"
	SeasonFall   = "fall"
	SeasonWinter = "winter"
)

// Seasons lists the season labels in calendar order starting from winter.
var Seasons = []string{SeasonWinter, SeasonSpring, SeasonSummer, SeasonFall}
