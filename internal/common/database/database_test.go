package database

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"destination-recommender/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedThing struct {
	ID    string   `json:"id"`
	Tags  []string `json:"tags"`
	Score int      `json:"score"`
}

func TestRedisJSONRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx))

	var miss cachedThing
	found, err := GetJSON(ctx, client.Client, "thing:1", &miss)
	require.NoError(t, err)
	assert.False(t, found)

	want := cachedThing{ID: "1", Tags: []string{"beach"}, Score: 87}
	require.NoError(t, SetJSON(ctx, client.Client, "thing:1", want, time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("thing:1"))

	var got cachedThing
	found, err = GetJSON(ctx, client.Client, "thing:1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)
}

func TestGetJSON_CorruptValue(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("thing:bad", "{not json"))
	client, _ := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer client.Close()

	var got cachedThing
	found, err := GetJSON(context.Background(), client.Client, "thing:bad", &got)
	assert.False(t, found)
	assert.Error(t, err)
}

func TestGetJSON_TransportError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectGet("thing:2").SetErr(assert.AnError)

	var got cachedThing
	found, err := GetJSON(context.Background(), db, "thing:2", &got)
	assert.False(t, found)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestElasticsearchPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	es, err := NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)
	assert.NoError(t, es.Ping(context.Background()))
}

func TestNewPostgres_DoesNotDial(t *testing.T) {
	pg, err := NewPostgres(config.PostgresConfig{
		Host: "127.0.0.1", Port: 1, User: "u", Database: "d", SSLMode: "disable",
		MaxConnections: 2, MaxIdle: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, pg.DB.Stats().MaxOpenConnections)
	assert.NoError(t, pg.Close())
}
