// internal/models/traveler.go
package models

// VectorDimensions is the fixed length of every profile and destination vector.
const VectorDimensions = 7

// Vector component order: warmth, adventure, culture, luxury, social, nature, urban.
const (
	DimWarmth = iota
	DimAdventure
	DimCulture
	DimLuxury
	DimSocial
	DimNature
	DimUrban
)

// UserProfile is built once from survey answers. ProfileVector is derived from
// Preferences, Demographics and Age and must be recomputed after any edit.
type UserProfile struct {
	ID            string            `json:"id" yaml:"id"`
	Name          string            `json:"name" yaml:"name"`
	Age           int               `json:"age" yaml:"age"`
	Demographics  Demographics      `json:"demographics" yaml:"demographics"`
	Preferences   TravelPreferences `json:"preferences" yaml:"preferences"`
	ProfileVector []float64         `json:"profileVector" yaml:"profileVector"`
}

type Demographics struct {
	Location  string `json:"location" yaml:"location"`
	Income    string `json:"income" yaml:"income"`
	Lifestyle string `json:"lifestyle" yaml:"lifestyle"`
}

type TravelPreferences struct {
	Climate       []string `json:"climate" yaml:"climate"`
	Activities    []string `json:"activities" yaml:"activities"`
	Budget        string   `json:"budget" yaml:"budget"`
	Accommodation []string `json:"accommodation" yaml:"accommodation"`
	Cuisine       []string `json:"cuisine" yaml:"cuisine"`
	TravelStyle   string   `json:"travelStyle" yaml:"travelStyle"`
	Season        []string `json:"season" yaml:"season"`
}
