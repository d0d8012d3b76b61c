// cmd/recommender-worker/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"destination-recommender/internal/catalog"
	"destination-recommender/internal/common/camunda"
	"destination-recommender/internal/common/config"
	"destination-recommender/internal/common/database"
	"destination-recommender/internal/common/logger"
	"destination-recommender/internal/common/observability"
	"destination-recommender/internal/recommend"
	"destination-recommender/internal/traveler"

	btp "destination-recommender/internal/workers/recommendation/build-traveler-profile"
	rd "destination-recommender/internal/workers/recommendation/rank-destinations"
	"destination-recommender/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}
	if err := config.ValidateCatalog(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "invalid catalog config: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting recommender worker...",
		zap.String("environment", cfg.App.Environment),
		zap.String("catalogSource", cfg.Catalog.Source),
	)

	obsOpts := []observability.Option{}
	if cfg.Observability.JaegerEndpoint != "" {
		obsOpts = append(obsOpts, observability.WithJaegerEndpoint(cfg.Observability.JaegerEndpoint))
	}
	obs := observability.New(cfg.Observability.ServiceName, obsOpts...)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(camunda.ConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Catalog backend: only the configured one is dialed ---
	deps := catalog.Deps{Logger: log}
	switch cfg.Catalog.Source {
	case config.CatalogSourcePostgres:
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		deps.DB = pg.DB
		zapLog.Info("PostgreSQL connected successfully")

	case config.CatalogSourceElasticsearch:
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		deps.ES = esClient.Client
		zapLog.Info("Elasticsearch connected successfully")
	}

	source, err := catalog.New(cfg.Catalog, deps)
	if err != nil {
		zapLog.Fatal("catalog source init failed", zap.Error(err))
	}
	if items, err := source.Load(ctx); err != nil {
		zapLog.Warn("initial catalog load failed, workers will retry per job", zap.Error(err))
	} else {
		zapLog.Info("catalog loaded", zap.Int("destinations", len(items)))
	}

	store, err := traveler.NewStore(
		redis.Client,
		cfg.Recommendation.ProfileCacheSize,
		time.Duration(cfg.Recommendation.ProfileCacheTTL)*time.Second,
	)
	if err != nil {
		zapLog.Fatal("profile store init failed", zap.Error(err))
	}

	engine := recommend.NewEngine(
		recommend.WithParallelism(cfg.Recommendation.Parallelism),
		recommend.WithLogger(log.WithFields(map[string]interface{}{"component": "engine"})),
	)

	// --- Register workers ---
	registryPath := os.Getenv("ACTIVITY_REGISTRY_PATH")
	if registryPath == "" {
		registryPath = "configs/activity-registry.json"
	}
	if reg, err := registry.LoadRegistry(registryPath); err != nil {
		zapLog.Warn("activity registry unavailable", zap.String("path", registryPath), zap.Error(err))
	} else {
		served := []string{btp.TaskType, rd.TaskType}
		for _, taskType := range reg.Unserved(served) {
			zapLog.Warn("implemented activity has no worker in this service", zap.String("taskType", taskType))
		}
		for _, taskType := range served {
			activity, ok := reg.Find(taskType)
			if !ok {
				zapLog.Warn("task type missing from activity registry", zap.String("taskType", taskType))
				continue
			}
			zapLog.Info("Registering activity",
				zap.String("taskType", taskType),
				zap.String("timeout", activity.Timeout),
				zap.Strings("errorCodes", activity.ErrorCodes),
			)
		}
	}

	buildHandler := btp.NewHandler(btp.LoadConfig(cfg), store, obs, log)
	rankHandler := rd.NewHandler(rd.LoadConfig(cfg), store, source, engine, redis.Client, obs, log)

	workers := []*camunda.CamundaWorker{
		camunda.StartWorker(zeebe.GetClient(), btp.TaskType, config.GetWorkerConfig(cfg, btp.TaskType), buildHandler.Handle, zapLog),
		camunda.StartWorker(zeebe.GetClient(), rd.TaskType, config.GetWorkerConfig(cfg, rd.TaskType), rankHandler.Handle, zapLog),
	}

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{"redis": "ok", "zeebe": "ok", "catalogBreaker": source.State().String()}
		status := http.StatusOK
		if err := redis.Ping(checkCtx); err != nil {
			checks["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if err := zeebe.HealthCheck(checkCtx); err != nil {
			checks["zeebe"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		checks["status"] = "ready"
		if status != http.StatusOK {
			checks["status"] = "not ready"
		}
		writeStatus(w, status, checks)
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: cfg.Observability.MetricsAddress, Handler: mux}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	for _, w := range workers {
		w.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Recommender worker stopped")
}

func writeStatus(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
