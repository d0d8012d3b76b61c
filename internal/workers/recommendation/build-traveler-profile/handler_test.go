package buildtravelerprofile

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"destination-recommender/internal/common/camunda"
	"destination-recommender/internal/common/config"
	"destination-recommender/internal/common/errors"
	"destination-recommender/internal/common/logger"
	"destination-recommender/internal/common/metrics"
	"destination-recommender/internal/common/observability"
	"destination-recommender/internal/models"
	"destination-recommender/internal/traveler"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func setupHandler(t *testing.T, rdb *redis.Client, opts ...observability.Option) (*Handler, *traveler.Store) {
	t.Helper()
	store, err := traveler.NewStore(rdb, 16, time.Hour)
	require.NoError(t, err)

	opts = append(opts, observability.WithRegisterer(prometheus.NewRegistry()))
	obs := observability.New("build-profile-test", opts...)
	t.Cleanup(obs.Shutdown)

	return NewHandler(createTestConfig(), store, obs, logger.NewTestLogger(t)), store
}

func surveyAnswers(t *testing.T) traveler.Answers {
	t.Helper()
	var answers traveler.Answers
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "Meera",
		"age": 34,
		"location": "Asia",
		"income": "High (₹3.5L-₹7L)",
		"lifestyle": "Urban/Professional",
		"climate": ["Mediterranean", "Temperate"],
		"activities": ["Food/Cuisine", "Cultural/Historical", "Shopping", "Nightlife"],
		"budget": "High (₹3.5L-₹7L)",
		"accommodation": ["Boutique/B&B"],
		"cuisine": ["Local/Traditional"],
		"travelStyle": "Cultural Immersion",
		"season": ["Fall"]
	}`), &answers))
	return answers
}

func TestExecute_BuildsAndStoresProfile(t *testing.T) {
	mr, rdb := setupRedis(t)
	recorder := tracetest.NewSpanRecorder()
	h, store := setupHandler(t, rdb, observability.WithSpanProcessor(recorder))
	ctx := context.Background()

	output, err := h.Execute(ctx, &Input{Answers: surveyAnswers(t)})
	require.NoError(t, err)

	profile := output.Profile
	require.NotNil(t, profile)
	assert.Equal(t, profile.ID, output.ProfileID)
	assert.Equal(t, "Meera", profile.Name)
	assert.Equal(t, 34, profile.Age)
	assert.Len(t, profile.ProfileVector, models.VectorDimensions)
	assert.NotEmpty(t, output.Insights)
	assert.LessOrEqual(t, len(output.Insights), 4)

	assert.True(t, mr.Exists(traveler.ProfileKey(profile.ID)))
	var cached models.UserProfile
	require.NoError(t, json.Unmarshal([]byte(mustGet(t, mr, traveler.ProfileKey(profile.ID))), &cached))
	assert.Equal(t, *profile, cached)

	stored, err := store.Get(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ProfileVector, stored.ProfileVector)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, observability.SpanBuildProfile, spans[0].Name())
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name      string
		answers   traveler.Answers
		redisDown bool
		wantCode  errors.ErrorCode
		retryable bool
	}{
		{
			name:     "invalid age",
			answers:  traveler.Answers{"age": 7},
			wantCode: errors.ErrCodeSurveyValidationFailed,
		},
		{
			name:     "climate given as text",
			answers:  traveler.Answers{"climate": "Tropical/Warm"},
			wantCode: errors.ErrCodeSurveyValidationFailed,
		},
		{
			name:      "redis unavailable",
			answers:   traveler.Answers{"age": 40},
			redisDown: true,
			wantCode:  errors.ErrCodeCacheOperationFailed,
			retryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mr, rdb := setupRedis(t)
			h, _ := setupHandler(t, rdb)
			if tt.redisDown {
				mr.Close()
			}

			_, err := h.Execute(context.Background(), &Input{Answers: tt.answers})
			require.Error(t, err)

			var stdErr *errors.StandardError
			require.True(t, stderrors.As(err, &stdErr))
			assert.Equal(t, tt.wantCode, stdErr.Code)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(&config.Config{Workers: map[string]config.WorkerConfig{
		TaskType: {Enabled: true, Timeout: 1500},
	}})
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)

	assert.Equal(t, 30*time.Second, LoadConfig(&config.Config{}).Timeout)
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	val, err := mr.Get(key)
	require.NoError(t, err)
	return val
}

func TestFinish_RecordsCompletionOutcome(t *testing.T) {
	_, rdb := setupRedis(t)
	h, _ := setupHandler(t, rdb)
	h.retry = &camunda.RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
	ctx := context.Background()

	completed := metrics.WorkerJobsCompleted.WithLabelValues(TaskType)
	failed := metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.ErrCodeExternalService))

	t.Run("transient send errors are retried", func(t *testing.T) {
		completedBefore, failedBefore := testutil.ToFloat64(completed), testutil.ToFloat64(failed)
		calls := 0
		err := h.finish(ctx, 42, time.Now(), func(context.Context) error {
			calls++
			if calls < 3 {
				return stderrors.New("rpc error: code = Unavailable")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, completedBefore+1, testutil.ToFloat64(completed))
		assert.Equal(t, failedBefore, testutil.ToFloat64(failed))
	})

	t.Run("unsent completion is counted as failed", func(t *testing.T) {
		completedBefore, failedBefore := testutil.ToFloat64(completed), testutil.ToFloat64(failed)
		calls := 0
		err := h.finish(ctx, 42, time.Now(), func(context.Context) error {
			calls++
			return stderrors.New("connection refused")
		})
		assert.Equal(t, errors.ErrCodeExternalService, errorCode(t, err))
		assert.Equal(t, 3, calls)
		assert.Equal(t, completedBefore, testutil.ToFloat64(completed))
		assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
	})
}

func errorCode(t *testing.T, err error) errors.ErrorCode {
	t.Helper()
	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr), "expected StandardError, got %v", err)
	return stdErr.Code
}
