// internal/common/database/database_test.go
package database

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"proposal-engine/internal/common/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisClient_Ping(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer client.Close()

	require.NoError(t, client.Ping(context.Background()))

	mr.Close()
	assert.Error(t, client.Ping(context.Background()))
}

func TestPostgresClient_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	client := &PostgresClient{DB: db}
	mock.ExpectPing()
	assert.NoError(t, client.Ping(context.Background()))

	mock.ExpectClose()
	assert.NoError(t, client.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPostgres_ConfiguresPool(t *testing.T) {
	client, err := NewPostgres(config.PostgresConfig{
		Host: "localhost", Port: 5432, User: "engine", Database: "proposals",
		SSLMode: "disable", MaxConnections: 4, MaxIdle: 2,
	})
	require.NoError(t, err)
	defer client.Close()
	assert.Equal(t, 4, client.DB.Stats().MaxOpenConnections)
}

func TestElasticsearchClient_Ping(t *testing.T) {
	status := http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(status)
	}))
	defer srv.Close()

	client, err := NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)
	assert.NoError(t, client.Ping(context.Background()))

	status = http.StatusServiceUnavailable
	assert.Error(t, client.Ping(context.Background()))

	_, err = NewElasticsearch(config.ElasticsearchConfig{})
	assert.Error(t, err)
}
