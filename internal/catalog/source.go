// Package catalog loads the read-only destination catalog from a file,
// Postgres or Elasticsearch.
package catalog

import (
	"context"
	"database/sql"
	"time"

	"destination-recommender/internal/common/config"
	"destination-recommender/internal/common/errors"
	"destination-recommender/internal/common/logger"
	"destination-recommender/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

// Source yields the full catalog in its authored order.
type Source interface {
	Load(ctx context.Context) ([]models.Destination, error)
	Name() string
}

// Deps carries the clients a source may need. Only the one matching the
// configured source has to be set.
type Deps struct {
	DB     *sql.DB
	ES     *elasticsearch.Client
	Logger logger.Logger
}

// New builds the configured source and wraps it in a ResilientSource.
func New(cfg config.CatalogConfig, deps Deps) (*ResilientSource, error) {
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}

	var primary Source
	switch cfg.Source {
	case config.CatalogSourceFile:
		primary = NewFileSource(cfg.Path)
	case config.CatalogSourcePostgres:
		if deps.DB == nil {
			return nil, errors.NewCatalogSourceUnsupportedError("postgres (no database connection)")
		}
		primary = NewPostgresSource(deps.DB, cfg.Table)
	case config.CatalogSourceElasticsearch:
		if deps.ES == nil {
			return nil, errors.NewCatalogSourceUnsupportedError("elasticsearch (no client)")
		}
		primary = NewElasticsearchSource(deps.ES, cfg.Index, cfg.MaxItems)
	default:
		return nil, errors.NewCatalogSourceUnsupportedError(cfg.Source)
	}

	opts := []ResilientOption{WithLogger(deps.Logger)}
	if cfg.Fallback != "" && cfg.Source != config.CatalogSourceFile {
		opts = append(opts, WithFallback(NewFileSource(cfg.Fallback)))
	}
	if cfg.Breaker.Enabled {
		opts = append(opts, WithBreaker(BreakerSettings{
			FailureThreshold: uint32(cfg.Breaker.FailureThreshold),
			OpenTimeout:      time.Duration(cfg.Breaker.OpenTimeout) * time.Millisecond,
			MaxHalfOpen:      uint32(cfg.Breaker.MaxHalfOpen),
		}))
	}
	return NewResilientSource(primary, opts...), nil
}

// loadFailed wraps a source failure unless it already carries a code.
func loadFailed(source string, err error) error {
	if _, ok := err.(*errors.StandardError); ok {
		return err
	}
	return errors.NewCatalogLoadFailedError(source, err)
}
