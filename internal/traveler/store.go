package traveler

import (
	"context"
	"time"

	"destination-recommender/internal/common/database"
	"destination-recommender/internal/common/errors"
	"destination-recommender/internal/common/metrics"
	"destination-recommender/internal/models"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
)

const (
	profileKeyPrefix = "traveler:profile:"
	defaultCacheSize = 1024
)

// Cache layer labels for recommendation_cache_lookups_total.
const (
	CacheLayerMemory = "memory"
	CacheLayerRedis  = "redis"
)

// ProfileKey is the Redis key a profile is stored under.
func ProfileKey(id string) string {
	return profileKeyPrefix + id
}

// Store keeps built profiles in an in-process LRU in front of Redis, so the
// ranking worker can resolve a profile by ID alone.
type Store struct {
	redis redis.Cmdable
	local *lru.Cache[string, models.UserProfile]
	ttl   time.Duration
}

// NewStore builds a Store. size <= 0 selects the default LRU size; a zero
// ttl keeps Redis entries forever.
func NewStore(rdb redis.Cmdable, size int, ttl time.Duration) (*Store, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	local, err := lru.New[string, models.UserProfile](size)
	if err != nil {
		return nil, err
	}
	return &Store{redis: rdb, local: local, ttl: ttl}, nil
}

func (s *Store) Save(ctx context.Context, profile *models.UserProfile) error {
	if err := database.SetJSON(ctx, s.redis, ProfileKey(profile.ID), profile, s.ttl); err != nil {
		return errors.NewCacheOperationFailedError("save profile", err)
	}
	s.local.Add(profile.ID, *profile)
	return nil
}

// Get returns a copy of the stored profile, or PROFILE_NOT_FOUND.
func (s *Store) Get(ctx context.Context, id string) (*models.UserProfile, error) {
	if profile, ok := s.local.Get(id); ok {
		metrics.CacheLookups.WithLabelValues(CacheLayerMemory, metrics.CacheHit).Inc()
		return &profile, nil
	}
	metrics.CacheLookups.WithLabelValues(CacheLayerMemory, metrics.CacheMiss).Inc()

	var profile models.UserProfile
	found, err := database.GetJSON(ctx, s.redis, ProfileKey(id), &profile)
	if err != nil {
		return nil, errors.NewCacheOperationFailedError("get profile", err)
	}
	if !found {
		metrics.CacheLookups.WithLabelValues(CacheLayerRedis, metrics.CacheMiss).Inc()
		return nil, errors.NewProfileNotFoundError(id)
	}
	metrics.CacheLookups.WithLabelValues(CacheLayerRedis, metrics.CacheHit).Inc()

	s.local.Add(id, profile)
	return &profile, nil
}
