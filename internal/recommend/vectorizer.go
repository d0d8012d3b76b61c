package recommend

import (
	"strings"

	"destination-recommender/internal/models"
)

type vector [models.VectorDimensions]float64

type keyedDelta struct {
	keyword string
	delta   vector
}

var (
	warmClimates = []string{"tropical", "warm", "mediterranean", "desert"}
	coldClimates = []string{"nordic", "cold", "alpine", "mountain"}
)

const (
	warmClimateDelta = 0.3
	coldClimateDelta = -0.2
)

// activityDeltas is keyed by the normalized activity label (lowercase, no
// slashes or whitespace). Lookup is exact.
var activityDeltas = map[string]vector{
	"adventure":   {0, 0.4, 0, 0, 0, 0.2, 0},
	"hiking":      {0, 0.4, 0, 0, 0, 0.3, 0},
	"beach":       {0.3, 0.1, 0, 0.2, 0.1, 0.2, 0},
	"cultural":    {0, 0, 0.4, 0.1, 0, 0, 0.2},
	"historical":  {0, 0, 0.4, 0, 0, 0, 0.1},
	"nightlife":   {0, 0, 0, 0, 0.4, 0, 0.3},
	"shopping":    {0, 0, 0.1, 0.2, 0.2, 0, 0.3},
	"food":        {0, 0, 0.2, 0.2, 0.2, 0, 0.1},
	"relaxation":  {0.2, -0.2, 0, 0.3, -0.1, 0.2, 0},
	"spa":         {0.1, -0.2, 0, 0.4, 0, 0.1, 0},
	"wildlife":    {0, 0.2, 0.1, 0, 0, 0.4, 0},
	"nature":      {0, 0.1, 0, 0, 0, 0.4, 0},
	"photography": {0, 0.2, 0.2, 0, 0, 0.3, 0.1},
}

// budgetLuxury only knows the survey labels; catalog aliases contribute 0.
var budgetLuxury = map[string]float64{
	BudgetLabelBudget: -0.3,
	BudgetLabelMedium: 0,
	BudgetLabelHigh:   0.3,
	BudgetLabelLuxury: 0.5,
}

// styleDeltas is ordered; every keyword contained in the travel style adds
// its delta.
var styleDeltas = []keyedDelta{
	{"adventure", vector{0, 0.4, 0, -0.2, 0, 0.3, 0}},
	{"active", vector{0, 0.4, 0, -0.1, 0, 0.2, 0}},
	{"luxury", vector{0.2, 0, 0.1, 0.5, 0.1, 0, 0.2}},
	{"comfort", vector{0.2, -0.2, 0, 0.3, 0, 0, 0.1}},
	{"cultural", vector{0, 0, 0.5, 0, 0.1, 0, 0.2}},
	{"immersion", vector{0, 0.1, 0.4, 0, 0.2, 0.1, 0.1}},
	{"relaxed", vector{0.2, -0.3, 0.1, 0.2, -0.1, 0.2, 0}},
	{"slow", vector{0.1, -0.3, 0.2, 0.1, -0.1, 0.2, 0}},
}

const (
	youngAgeLimit  = 30
	seniorAgeStart = 50
)

// Vectorize maps a profile's preferences, demographics and age onto the
// 7-dimensional affinity vector. The result is always in [0,1] per component.
func Vectorize(profile *models.UserProfile) []float64 {
	var v vector
	prefs := profile.Preferences

	for _, climate := range prefs.Climate {
		c := strings.ToLower(climate)
		if containsAny(c, warmClimates) {
			v[models.DimWarmth] += warmClimateDelta
		}
		if containsAny(c, coldClimates) {
			v[models.DimWarmth] += coldClimateDelta
		}
	}

	for _, activity := range prefs.Activities {
		if delta, ok := activityDeltas[activityKey(activity)]; ok {
			v.add(delta)
		}
	}

	v[models.DimLuxury] += budgetLuxury[prefs.Budget]

	style := strings.ToLower(prefs.TravelStyle)
	for _, sd := range styleDeltas {
		if strings.Contains(style, sd.keyword) {
			v.add(sd.delta)
		}
	}

	switch {
	case profile.Age < youngAgeLimit:
		v[models.DimAdventure] += 0.2
		v[models.DimSocial] += 0.3
	case profile.Age >= seniorAgeStart:
		v[models.DimAdventure] -= 0.1
		v[models.DimCulture] += 0.2
		v[models.DimLuxury] += 0.1
	}

	return v.normalize()
}

// ApplyVector recomputes and stores profile.ProfileVector.
func ApplyVector(profile *models.UserProfile) {
	profile.ProfileVector = Vectorize(profile)
}

func (v *vector) add(delta vector) {
	for i := range v {
		v[i] += delta[i]
	}
}

// normalize applies the fixed affine map (v+1)/2 clamped to [0,1] whenever
// any component is non-zero. It is not a min-max rescale.
func (v *vector) normalize() []float64 {
	out := make([]float64, models.VectorDimensions)
	maxAbs := 0.0
	for _, c := range v {
		if a := abs(c); a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs == 0 {
		return out
	}
	for i, c := range v {
		out[i] = clamp01((c + 1) / 2)
	}
	return out
}

func activityKey(label string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || isSpace(r) {
			return -1
		}
		return r
	}, strings.ToLower(label))
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
