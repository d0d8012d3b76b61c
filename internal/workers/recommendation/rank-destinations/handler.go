package rankdestinations

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"destination-recommender/internal/catalog"
	"destination-recommender/internal/common/database"
	"destination-recommender/internal/common/camunda"
	"destination-recommender/internal/common/errors"
	"destination-recommender/internal/common/logger"
	"destination-recommender/internal/common/metrics"
	"destination-recommender/internal/common/observability"
	"destination-recommender/internal/models"
	"destination-recommender/internal/recommend"
	"destination-recommender/internal/traveler"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	TaskType = "rank-destinations"
)

const (
	resultKeyPrefix  = "recommendations:"
	cacheLayerResult = "result"
)

// ResultKey is the Redis key a full ranking is cached under.
func ResultKey(profileID, season string) string {
	return resultKeyPrefix + profileID + ":" + season
}

type Handler struct {
	config     *Config
	store      *traveler.Store
	catalog    catalog.Source
	engine     *recommend.Engine
	redis      redis.Cmdable
	obs        *observability.Observability
	errHandler *errors.ErrorHandler
	retry      *camunda.RetryConfig
	logger     logger.Logger
	now        func() time.Time
}

func NewHandler(
	config *Config,
	store *traveler.Store,
	source catalog.Source,
	engine *recommend.Engine,
	rdb redis.Cmdable,
	obs *observability.Observability,
	log logger.Logger,
) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		store:      store,
		catalog:    source,
		engine:     engine,
		redis:      rdb,
		obs:        obs,
		errHandler: errors.NewErrorHandler(log),
		retry:      camunda.DefaultRetryConfig,
		logger:     log,
		now:        time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	vars, err := job.GetVariablesAsMap()
	if err != nil {
		h.fail(ctx, client, job, errors.NewInvalidProfileError(fmt.Sprintf("parse input: %v", err)), start)
		return
	}
	if err := validateInput(vars); err != nil {
		h.fail(ctx, client, job, err, start)
		return
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(ctx, client, job, errors.NewInvalidProfileError(fmt.Sprintf("parse input: %v", err)), start)
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, err, start)
		return
	}

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.fail(ctx, client, job, errors.NewInternalError(fmt.Errorf("encode output: %w", err)), start)
		return
	}
	h.finish(ctx, job.Key, start, func(sendCtx context.Context) error {
		_, err := cmd.Send(sendCtx)
		return err
	})
}

// Execute resolves the profile, ranks the catalog for the season and caches
// the full result.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, span := h.obs.StartSpan(ctx, observability.SpanRank)
	defer span.End()

	output, err := h.execute(ctx, input, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return output, nil
}

func (h *Handler) execute(ctx context.Context, input *Input, span trace.Span) (*Output, error) {
	season := strings.ToLower(strings.TrimSpace(input.Season))
	if season == "" {
		season = recommend.CurrentSeason(h.now())
	} else if !recommend.IsSeason(season) {
		h.logger.Warn("unknown season, every destination gets the neutral seasonal score", map[string]interface{}{
			"season": season,
		})
	}
	span.SetAttributes(attribute.String(observability.AttrSeason, season))

	inline := input.Profile != nil
	if !inline && input.ProfileID != "" {
		if cached, ok := h.cachedResult(ctx, input.ProfileID, season); ok {
			span.SetAttributes(attribute.String(observability.AttrCacheOutcome, metrics.CacheHit))
			h.obs.RecordRanking(ctx, season, true)
			return h.output(input, input.ProfileID, season, cached, true), nil
		}
	}

	profile, err := h.resolveProfile(ctx, input)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String(observability.AttrProfileID, profile.ID))

	destinations, err := h.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	result, err := h.engine.Rank(ctx, profile, destinations, season)
	if err != nil {
		return nil, mapRankError(err)
	}
	metrics.RankingDuration.Observe(time.Since(started).Seconds())
	metrics.DestinationsScored.Add(float64(len(destinations)))
	if len(result.Recommendations) > 0 {
		metrics.TopMatchScore.Observe(float64(result.Metrics.TopMatchScore))
	}
	span.SetAttributes(attribute.Int(observability.AttrTopScore, result.Metrics.TopMatchScore))
	h.obs.RecordRanking(ctx, season, false)

	// Only stored profiles are cached: an inline profile may reuse a stored
	// profile's ID with different preferences.
	if !inline && profile.ID != "" {
		h.cacheResult(ctx, profile.ID, season, result)
	}

	h.logger.Info("destinations ranked", map[string]interface{}{
		"profileId":    profile.ID,
		"season":       season,
		"destinations": result.Metrics.TotalDestinations,
		"topScore":     result.Metrics.TopMatchScore,
		"duration_ms":  result.Metrics.ProcessingTime,
	})

	return h.output(input, profile.ID, season, result, false), nil
}

// resolveProfile returns a private copy of the profile with a freshly
// derived vector. A supplied vector is never trusted.
func (h *Handler) resolveProfile(ctx context.Context, input *Input) (*models.UserProfile, error) {
	var profile *models.UserProfile
	switch {
	case input.Profile != nil:
		p := *input.Profile
		profile = &p
	case input.ProfileID != "":
		p, err := h.store.Get(ctx, input.ProfileID)
		if err != nil {
			return nil, err
		}
		profile = p
	default:
		return nil, errors.NewInvalidProfileError("profile or profileId is required")
	}

	recommend.ApplyVector(profile)
	return profile, nil
}

func (h *Handler) loadCatalog(ctx context.Context) ([]models.Destination, error) {
	ctx, span := h.obs.StartSpan(ctx, observability.SpanCatalogLoad,
		attribute.String(observability.AttrCatalogSrc, h.catalog.Name()))
	defer span.End()

	destinations, err := h.catalog.Load(ctx)
	if err != nil {
		span.RecordError(err)
		if ctx.Err() != nil {
			return nil, errors.NewTimeoutError("catalog", err)
		}
		return nil, errors.Normalize(err)
	}
	span.SetAttributes(attribute.Int(observability.AttrCatalogSize, len(destinations)))
	return destinations, nil
}

func (h *Handler) cachedResult(ctx context.Context, profileID, season string) (*models.RankingResult, bool) {
	var result models.RankingResult
	found, err := database.GetJSON(ctx, h.redis, ResultKey(profileID, season), &result)
	if err != nil {
		h.logger.Warn("result cache read failed", map[string]interface{}{
			"profileId": profileID,
			"error":     err,
		})
		return nil, false
	}
	if !found {
		metrics.CacheLookups.WithLabelValues(cacheLayerResult, metrics.CacheMiss).Inc()
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues(cacheLayerResult, metrics.CacheHit).Inc()
	return &result, true
}

// cacheResult is best effort; a failed write only costs a recomputation.
func (h *Handler) cacheResult(ctx context.Context, profileID, season string, result *models.RankingResult) {
	if err := database.SetJSON(ctx, h.redis, ResultKey(profileID, season), result, h.config.ResultCacheTTL); err != nil {
		h.logger.Warn("result cache write failed", map[string]interface{}{
			"profileId": profileID,
			"error":     err,
		})
	}
}

func (h *Handler) output(input *Input, profileID, season string, result *models.RankingResult, cached bool) *Output {
	limit := input.Limit
	if limit <= 0 {
		limit = h.config.DefaultLimit
	}
	recs := result.Recommendations
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return &Output{
		ProfileID:       profileID,
		Season:          season,
		Recommendations: recs,
		Metrics:         result.Metrics,
		Cached:          cached,
	}
}

func mapRankError(err error) error {
	var scoringErr *recommend.ScoringError
	switch {
	case stderrors.As(err, &scoringErr) && stderrors.Is(err, recommend.ErrDimensionMismatch):
		return errors.NewDimensionMismatchError(scoringErr.DestinationID, err)
	case stderrors.Is(err, recommend.ErrInvalidProfile):
		return errors.NewInvalidProfileError(err.Error())
	case stderrors.Is(err, context.DeadlineExceeded), stderrors.Is(err, context.Canceled):
		return errors.NewTimeoutError("ranking", err)
	}
	return errors.NewInternalError(err)
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	stdErr := errors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")
	h.errHandler.HandleJobError(context.Background(), client, job, stdErr)
}

// finish sends the completion, retrying transient broker errors, and records
// the job outcome. A completion that never reaches the broker is counted as
// failed; the broker reactivates the job once its timeout lapses.
func (h *Handler) finish(ctx context.Context, jobKey int64, start time.Time, send func(context.Context) error) error {
	err := camunda.ExecuteWithRetry(context.Background(), h.retry, send, "complete job")
	if err != nil {
		stdErr := errors.Normalize(err)
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": jobKey,
			"error":  stdErr,
		})
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		h.obs.RecordJobProcessed(ctx, TaskType, "failed")
		h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")
		return stdErr
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "success")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "success")
	return nil
}
