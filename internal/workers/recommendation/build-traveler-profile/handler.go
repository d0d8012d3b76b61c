package buildtravelerprofile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"destination-recommender/internal/common/camunda"
	"destination-recommender/internal/common/errors"
	"destination-recommender/internal/common/logger"
	"destination-recommender/internal/common/metrics"
	"destination-recommender/internal/common/observability"
	"destination-recommender/internal/recommend"
	"destination-recommender/internal/traveler"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "build-traveler-profile"
)

type Handler struct {
	config     *Config
	store      *traveler.Store
	obs        *observability.Observability
	errHandler *errors.ErrorHandler
	retry      *camunda.RetryConfig
	logger     logger.Logger
}

func NewHandler(config *Config, store *traveler.Store, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		store:      store,
		obs:        obs,
		errHandler: errors.NewErrorHandler(log),
		retry:      camunda.DefaultRetryConfig,
		logger:     log,
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

// Execute builds, caches and summarizes a traveler profile from survey answers.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, span := h.obs.StartSpan(ctx, observability.SpanBuildProfile)
	defer span.End()

	profile, err := traveler.BuildProfile(input.Answers)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String(observability.AttrProfileID, profile.ID))

	if err := h.store.Save(ctx, profile); err != nil {
		span.RecordError(err)
		return nil, err
	}

	insights := recommend.Insights(profile)

	h.logger.Info("traveler profile built", map[string]interface{}{
		"profileId":   profile.ID,
		"travelStyle": profile.Preferences.TravelStyle,
		"insights":    len(insights),
	})

	return &Output{
		Profile:   profile,
		ProfileID: profile.ID,
		Insights:  insights,
	}, nil
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
