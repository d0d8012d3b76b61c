package traveler

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"destination-recommender/internal/common/errors"
	"destination-recommender/internal/common/metrics"
	"destination-recommender/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func codeOf(t *testing.T, err error) errors.ErrorCode {
	t.Helper()
	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr), "expected StandardError, got %v", err)
	return stdErr.Code
}

func TestStore_SaveAndGet(t *testing.T) {
	mr, rdb := setupRedis(t)
	store, err := NewStore(rdb, 8, time.Hour)
	require.NoError(t, err)
	ctx := context.Background()

	profile := &models.UserProfile{ID: "user_a", Name: "Asha", Age: 41}
	require.NoError(t, store.Save(ctx, profile))
	assert.True(t, mr.Exists("traveler:profile:user_a"))
	assert.Equal(t, time.Hour, mr.TTL("traveler:profile:user_a"))

	hitsBefore := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues(CacheLayerMemory, metrics.CacheHit))
	got, err := store.Get(ctx, "user_a")
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.Name)
	assert.Equal(t, hitsBefore+1, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues(CacheLayerMemory, metrics.CacheHit)))

	got.Name = "changed"
	again, err := store.Get(ctx, "user_a")
	require.NoError(t, err)
	assert.Equal(t, "Asha", again.Name, "callers receive copies")
}

func TestStore_FallsBackToRedis(t *testing.T) {
	mr, rdb := setupRedis(t)
	require.NoError(t, mr.Set("traveler:profile:user_b", `{"id":"user_b","name":"Ravi","age":63}`))

	store, err := NewStore(rdb, 0, 0)
	require.NoError(t, err)

	got, err := store.Get(context.Background(), "user_b")
	require.NoError(t, err)
	assert.Equal(t, 63, got.Age)

	// Second read is served from memory even after Redis loses the key.
	mr.Del("traveler:profile:user_b")
	got, err = store.Get(context.Background(), "user_b")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", got.Name)
}

func TestStore_NotFound(t *testing.T) {
	_, rdb := setupRedis(t)
	store, err := NewStore(rdb, 4, time.Minute)
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "user_missing")
	assert.Equal(t, errors.ErrCodeProfileNotFound, codeOf(t, err))
}

func TestStore_RedisFailures(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store, err := NewStore(db, 4, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	mock.ExpectGet("traveler:profile:user_c").SetErr(assert.AnError)
	_, err = store.Get(ctx, "user_c")
	assert.Equal(t, errors.ErrCodeCacheOperationFailed, codeOf(t, err))
	assert.ErrorIs(t, err, assert.AnError)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveWhenRedisDown(t *testing.T) {
	mr, rdb := setupRedis(t)
	store, err := NewStore(rdb, 4, time.Minute)
	require.NoError(t, err)
	mr.Close()

	err = store.Save(context.Background(), &models.UserProfile{ID: "user_d"})
	assert.Equal(t, errors.ErrCodeCacheOperationFailed, codeOf(t, err))

	_, err = store.Get(context.Background(), "user_d")
	assert.Error(t, err, "a failed save must not populate memory")
}
