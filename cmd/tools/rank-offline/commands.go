package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"destination-recommender/internal/catalog"
	"destination-recommender/internal/common/logger"
	"destination-recommender/internal/models"
	"destination-recommender/internal/recommend"
	"destination-recommender/internal/traveler"
)

type profileFlags struct {
	profilePath string
	answersPath string
}

func (f *profileFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.profilePath, "profile", "p", "", "Traveler profile file (JSON or YAML)")
	cmd.Flags().StringVarP(&f.answersPath, "answers", "a", "", "Survey answers file (JSON or YAML)")
	cmd.MarkFlagsMutuallyExclusive("profile", "answers")
	cmd.MarkFlagsOneRequired("profile", "answers")
}

// load returns a profile with a freshly derived vector.
func (f *profileFlags) load() (*models.UserProfile, error) {
	if f.answersPath != "" {
		var answers traveler.Answers
		if err := decodeFile(f.answersPath, &answers); err != nil {
			return nil, err
		}
		return traveler.BuildProfile(answers)
	}

	var profile models.UserProfile
	if err := decodeFile(f.profilePath, &profile); err != nil {
		return nil, err
	}
	recommend.ApplyVector(&profile)
	return &profile, nil
}

func decodeFile(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, dst)
	default:
		err = json.Unmarshal(data, dst)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func newRootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "rank-offline",
		Short:         "Rank a destination catalog for a traveler without a workflow engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log ranking details to stderr")

	newLogger := func() logger.Logger {
		if !verbose {
			return logger.NewNoOpLogger()
		}
		return logger.NewStructured("debug", "console", "stderr")
	}

	root.AddCommand(newRankCommand(newLogger))
	root.AddCommand(newInsightsCommand())
	root.AddCommand(newSeasonCommand())
	return root
}

func newRankCommand(newLogger func() logger.Logger) *cobra.Command {
	var (
		pf          profileFlags
		catalogPath string
		season      string
		limit       int
		output      string
		parallelism int
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank every catalog destination for a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "json" && output != "table" {
				return fmt.Errorf("--output must be json or table, got %q", output)
			}

			profile, err := pf.load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			destinations, err := catalog.NewFileSource(catalogPath).Load(ctx)
			if err != nil {
				return err
			}

			season = strings.ToLower(season)
			if season == "" {
				season = recommend.CurrentSeason(time.Now())
			}

			engine := recommend.NewEngine(
				recommend.WithParallelism(parallelism),
				recommend.WithLogger(newLogger()),
			)
			result, err := engine.Rank(ctx, profile, destinations, season)
			if err != nil {
				return err
			}
			if limit > 0 && len(result.Recommendations) > limit {
				result.Recommendations = result.Recommendations[:limit]
			}

			if output == "table" {
				return writeTable(cmd.OutOrStdout(), season, result)
			}
			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
				"profileId":       profile.ID,
				"season":          season,
				"recommendations": result.Recommendations,
				"metrics":         result.Metrics,
			})
		},
	}

	pf.register(cmd)
	cmd.Flags().StringVarP(&catalogPath, "catalog", "c", "data/destinations.json", "Destination catalog file (JSON or YAML)")
	cmd.Flags().StringVarP(&season, "season", "s", "", "Season to rank for (default: current season)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the top N destinations")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table or json")
	cmd.Flags().IntVar(&parallelism, "parallelism", 4, "Destinations scored concurrently")
	return cmd
}

func newInsightsCommand() *cobra.Command {
	var pf profileFlags

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Print the travel insights derived from a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := pf.load()
			if err != nil {
				return err
			}
			for _, line := range recommend.Insights(profile) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	pf.register(cmd)
	return cmd
}

func newSeasonCommand() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "season",
		Short: "Print the season label for a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := time.Now()
			if date != "" {
				parsed, err := time.Parse(time.DateOnly, date)
				if err != nil {
					return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
				}
				t = parsed
			}
			fmt.Fprintln(cmd.OutOrStdout(), recommend.CurrentSeason(t))
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "Date as YYYY-MM-DD (default: today)")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, season string, result *models.RankingResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "RANK\tDESTINATION\tCOUNTRY\tFINAL\tPREF\tDEMO\tSEASON(%s)\tREASONS\n", season)
	for i, rec := range result.Recommendations {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			i+1,
			rec.Destination.Name,
			rec.Destination.Country,
			rec.FinalScore,
			rec.PreferenceMatch,
			rec.DemographicMatch,
			rec.SeasonalBoost,
			strings.Join(rec.MatchReasons, "; "),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	m := result.Metrics
	_, err := fmt.Fprintf(w, "\n%d destinations, average %d, top %d, accuracy %.1f%%, %dms\n",
		m.TotalDestinations, m.AverageMatch, m.TopMatchScore, m.RankingAccuracy, m.ProcessingTime)
	return err
}
