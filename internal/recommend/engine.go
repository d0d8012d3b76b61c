// Package recommend scores and ranks a destination catalog against a
// traveler profile.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"destination-recommender/internal/common/logger"
	"destination-recommender/internal/models"

	"golang.org/x/sync/errgroup"
)

// Blend weights; they sum to 1.
const (
	preferenceWeight    = 0.40
	demographicWeight   = 0.20
	seasonalWeight      = 0.25
	collaborativeWeight = 0.15
)

const (
	accuracyTopN     = 5
	accuracyBase     = 60.0
	accuracyCeiling  = 95.0
	slowRankingLimit = 500 * time.Millisecond
)

// ErrInvalidProfile is returned for a nil profile.
var ErrInvalidProfile = errors.New("invalid profile")

// ScoringError ties a scoring failure to the destination that caused it.
type ScoringError struct {
	DestinationID string
	Err           error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("score destination %s: %v", e.DestinationID, e.Err)
}

func (e *ScoringError) Unwrap() error { return e.Err }

type Engine struct {
	parallelism int
	log         logger.Logger
	now         func() time.Time
}

type Option func(*Engine)

// WithParallelism scores up to n destinations concurrently. n <= 1 scores
// sequentially. Output is identical either way.
func WithParallelism(n int) Option {
	return func(e *Engine) { e.parallelism = n }
}

func WithLogger(log logger.Logger) Option {
	return func(e *Engine) { e.log = log }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		parallelism: 1,
		log:         logger.NewNoOpLogger(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rank scores every destination, sorts by final score descending (catalog
// order breaks ties) and derives run metrics. Any scoring error aborts the
// whole run.
func (e *Engine) Rank(ctx context.Context, profile *models.UserProfile, catalog []models.Destination, season string) (*models.RankingResult, error) {
	if profile == nil {
		return nil, ErrInvalidProfile
	}
	start := e.now()

	recs, err := e.scoreAll(ctx, profile, catalog, season)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].FinalScore > recs[j].FinalScore
	})

	elapsed := e.now().Sub(start)
	metrics := summarize(recs)
	metrics.TotalDestinations = len(catalog)
	metrics.ProcessingTime = elapsed.Milliseconds()

	fields := map[string]interface{}{
		"profileId":    profile.ID,
		"season":       season,
		"destinations": len(catalog),
		"topScore":     metrics.TopMatchScore,
		"duration_ms":  metrics.ProcessingTime,
	}
	if elapsed > slowRankingLimit {
		e.log.Warn("ranking exceeded latency budget", fields)
	} else {
		e.log.Debug("ranking completed", fields)
	}

	return &models.RankingResult{Recommendations: recs, Metrics: metrics}, nil
}

func (e *Engine) scoreAll(ctx context.Context, profile *models.UserProfile, catalog []models.Destination, season string) ([]models.Recommendation, error) {
	recs := make([]models.Recommendation, len(catalog))

	if e.parallelism <= 1 || len(catalog) < 2 {
		for i := range catalog {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			rec, err := score(profile, &catalog[i], season)
			if err != nil {
				return nil, err
			}
			recs[i] = rec
		}
		return recs, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)
	for i := range catalog {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := score(profile, &catalog[i], season)
			if err != nil {
				return err
			}
			recs[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return recs, nil
}

// score computes one Recommendation. It only reads its inputs.
func score(profile *models.UserProfile, dest *models.Destination, season string) (models.Recommendation, error) {
	preference, err := Cosine(profile.ProfileVector, dest.DestinationVector)
	if err != nil {
		return models.Recommendation{}, &ScoringError{DestinationID: dest.ID, Err: err}
	}
	demographic := DemographicMatch(profile, dest)
	seasonal := SeasonalBoost(dest, season)
	collaborative := CollaborativeScore(profile, dest)

	relevance := preference*preferenceWeight +
		demographic*demographicWeight +
		seasonal*seasonalWeight +
		collaborative*collaborativeWeight

	return models.Recommendation{
		Destination:      *dest,
		PreferenceMatch:  percent(preference),
		DemographicMatch: percent(demographic),
		RelevanceScore:   percent(relevance),
		SeasonalBoost:    percent(seasonal),
		FinalScore:       percent(math.Min(1, relevance)),
		MatchReasons:     Reasons(profile, dest, preference),
	}, nil
}

// summarize derives the score statistics of an already sorted run.
func summarize(recs []models.Recommendation) models.RecommendationMetrics {
	m := models.RecommendationMetrics{RankingAccuracy: accuracyBase}
	if len(recs) == 0 {
		return m
	}

	sum := 0
	for _, r := range recs {
		sum += r.FinalScore
	}
	m.AverageMatch = roundHalfUp(float64(sum) / float64(len(recs)))
	m.TopMatchScore = recs[0].FinalScore
	m.RankingAccuracy = rankingAccuracy(recs)
	return m
}

// rankingAccuracy grows with the spread of the top five scores:
// min(95, 60 + 2*stddev).
func rankingAccuracy(recs []models.Recommendation) float64 {
	top := recs[:min(accuracyTopN, len(recs))]
	if len(top) == 0 {
		return accuracyBase
	}

	var mean float64
	for _, r := range top {
		mean += float64(r.FinalScore)
	}
	mean /= float64(len(top))

	var variance float64
	for _, r := range top {
		d := float64(r.FinalScore) - mean
		variance += d * d
	}
	variance /= float64(len(top))

	return math.Min(accuracyCeiling, accuracyBase+math.Sqrt(variance)*2)
}

// percent turns a [0,1] fraction into a rounded percentage clamped to 0..100.
func percent(x float64) int {
	p := roundHalfUp(x * 100)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
