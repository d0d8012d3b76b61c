package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `[
  {"id": "bali", "name": "Bali", "country": "Indonesia",
   "climate": ["tropical"], "activities": ["beach", "hiking", "nightlife"],
   "budgetRange": "medium", "cuisine": ["seafood"], "popularityScore": 92,
   "seasonalTrends": {"winter": 70, "summer": 95},
   "destinationVector": [0.9, 0.7, 0.5, 0.5, 0.7, 0.8, 0.3]},
  {"id": "kyoto", "name": "Kyoto", "country": "Japan",
   "climate": ["temperate"], "activities": ["cultural", "historical"],
   "budgetRange": "high", "cuisine": ["japanese"], "popularityScore": 88,
   "seasonalTrends": {"spring": 98},
   "destinationVector": [0.5, 0.3, 1.0, 0.6, 0.4, 0.6, 0.6]}
]`

const testAnswers = `
age: 28
location: Asia
lifestyle: Active/Outdoorsy
climate: [Tropical/Warm]
activities: [Beach/Water Sports, Nightlife]
budget: Medium (₹1.3L-₹3.5L)
travelStyle: Adventure/Active
season: [Winter]
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRankCommand_JSON(t *testing.T) {
	catalogPath := writeTemp(t, "catalog.json", testCatalog)
	answersPath := writeTemp(t, "answers.yaml", testAnswers)

	out, err := run(t, "rank", "--catalog", catalogPath, "--answers", answersPath, "--season", "Winter", "--output", "json", "--limit", "1")
	require.NoError(t, err)

	var got struct {
		Season          string `json:"season"`
		Recommendations []struct {
			Destination struct {
				ID string `json:"id"`
			} `json:"destination"`
			FinalScore int `json:"finalScore"`
		} `json:"recommendations"`
		Metrics struct {
			TotalDestinations int `json:"totalDestinations"`
		} `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "winter", got.Season)
	require.Len(t, got.Recommendations, 1)
	assert.Equal(t, "bali", got.Recommendations[0].Destination.ID)
	assert.Equal(t, 2, got.Metrics.TotalDestinations)
}

func TestRankCommand_Table(t *testing.T) {
	catalogPath := writeTemp(t, "catalog.json", testCatalog)
	profilePath := writeTemp(t, "profile.json", `{"id": "user_cli", "age": 45,
		"preferences": {"activities": ["Cultural/Historical"], "travelStyle": "Cultural Immersion"}}`)

	out, err := run(t, "rank", "-c", catalogPath, "-p", profilePath, "-s", "spring")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[0], "SEASON(spring)")
	assert.Contains(t, out, "Kyoto")
	assert.Contains(t, out, "2 destinations")
}

func TestRankCommand_Errors(t *testing.T) {
	catalogPath := writeTemp(t, "catalog.json", testCatalog)
	answersPath := writeTemp(t, "answers.json", `{"age": 12}`)

	tests := []struct {
		name string
		args []string
	}{
		{"no profile source", []string{"rank", "-c", catalogPath}},
		{"invalid answers", []string{"rank", "-c", catalogPath, "-a", answersPath}},
		{"bad output", []string{"rank", "-c", catalogPath, "-a", answersPath, "-o", "xml"}},
		{"missing catalog", []string{"rank", "-c", filepath.Join(t.TempDir(), "none.json"), "-a", writeTemp(t, "ok.json", `{}`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestInsightsCommand(t *testing.T) {
	answersPath := writeTemp(t, "answers.yaml", testAnswers)

	out, err := run(t, "insights", "--answers", answersPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.NotEmpty(t, lines)
	assert.LessOrEqual(t, len(lines), 4)
}

func TestSeasonCommand(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2026-01-31", "winter"},
		{"2026-04-01", "spring"},
		{"2026-09-30", "summer"},
		{"2026-12-25", "fall"},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			out, err := run(t, "season", "--date", tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}

	_, err := run(t, "season", "--date", "31/01/2026")
	assert.Error(t, err)
}
