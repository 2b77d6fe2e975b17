package checklist

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"proposal-engine/internal/common/errors"
	"proposal-engine/internal/engine/rules"
	"proposal-engine/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisStore(t *testing.T, opts ...RedisOption) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, opts...), mr
}

func TestRedisStore_LoadMissingReturnsNil(t *testing.T) {
	store, _ := newMiniredisStore(t)

	p, err := store.Load(context.Background(), Key{SessionID: "s", SectionID: "overview"})
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestRedisStore_EngineParityWithMemory(t *testing.T) {
	store, _ := newMiniredisStore(t)
	ctx := context.Background()

	steps := func(e *Engine) *models.SectionProgress {
		_, err := e.InitializeSection(ctx, "s", "requirements")
		require.NoError(t, err)
		_, err = e.UpdateChecklistItem(ctx, "s", "requirements", "extract-requirements", true)
		require.NoError(t, err)
		p, err := e.BatchUpdate(ctx, "s", "requirements", []models.ItemUpdate{
			{ItemID: "assign-owners", Completed: true},
			{ItemID: "ghost", Completed: true},
		})
		require.NoError(t, err)
		return p
	}

	viaRedis := steps(newTestEngine(t, WithStore(store)))
	viaMemory := steps(newTestEngine(t))
	assert.Equal(t, viaMemory, viaRedis)

	reloaded, err := store.Load(ctx, Key{SessionID: "s", SectionID: "requirements"})
	require.NoError(t, err)
	assert.Equal(t, viaRedis, reloaded)
	assert.True(t, reloaded.CanProceed)
}

func TestRedisStore_KeysAndTTL(t *testing.T) {
	store, mr := newMiniredisStore(t, WithKeyPrefix("proposal"), WithTTL(time.Hour))
	e := New(rules.Default(), WithStore(store))
	ctx := context.Background()

	_, err := e.InitializeSection(ctx, "tenant:1", "overview")
	require.NoError(t, err)
	_, err = e.InitializeSection(ctx, "tenant", "1:overview")
	require.NoError(t, err)

	assert.True(t, mr.Exists("proposal:tenant%3A1:overview"))
	assert.True(t, mr.Exists("proposal:tenant:1%3Aoverview"))
	assert.Equal(t, time.Hour, mr.TTL("proposal:tenant%3A1:overview"))

	mr.FastForward(2 * time.Hour)
	p, err := store.Load(ctx, Key{SessionID: "tenant:1", SectionID: "overview"})
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestRedisStore_ConcurrentUpdatesAreNotLost(t *testing.T) {
	store, _ := newMiniredisStore(t, WithTxRetries(50))
	e := New(rules.Default(), WithStore(store))
	ctx := context.Background()

	tmpl, _ := rules.Default().Section("overview")
	var wg sync.WaitGroup
	errs := make(chan error, len(tmpl.Items))
	for _, item := range tmpl.Items {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := e.UpdateChecklistItem(ctx, "s", "overview", id, true)
			errs <- err
		}(item.ID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	p, err := e.InitializeSection(ctx, "s", "overview")
	require.NoError(t, err)
	assert.Equal(t, 100, p.OverallProgress)
}

func TestRedisStore_UpdateFuncErrorIsReturnedUnwrapped(t *testing.T) {
	store, mr := newMiniredisStore(t)
	e := New(rules.Default(), WithStore(store), WithEnforceDependencies(true))

	_, err := e.UpdateChecklistItem(context.Background(), "s", "review", "final-qa", true)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDependenciesUnmet, errors.CodeOf(err))
	assert.Empty(t, mr.Keys(), "nothing written when the update is rejected")
}

func TestRedisStore_Failures(t *testing.T) {
	key := Key{SessionID: "s", SectionID: "overview"}

	t.Run("get error", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectGet("checklist:s:overview").SetErr(fmt.Errorf("connection refused"))

		_, err := NewRedisStore(client).Load(context.Background(), key)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeStateStoreFailed, errors.CodeOf(err))
		assert.True(t, errors.IsRetryable(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupt value", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectGet("checklist:s:overview").SetVal("{not json")

		_, err := NewRedisStore(client).Load(context.Background(), key)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeStateStoreFailed, errors.CodeOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("engine surfaces store failure", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectGet("checklist:s:overview").SetErr(fmt.Errorf("i/o timeout"))

		e := New(rules.Default(), WithStore(NewRedisStore(client)))
		_, err := e.InitializeSection(context.Background(), "s", "overview")
		assert.Equal(t, errors.ErrCodeStateStoreFailed, errors.CodeOf(err))
	})

	t.Run("server down during update", func(t *testing.T) {
		store, mr := newMiniredisStore(t)
		mr.Close()

		e := New(rules.Default(), WithStore(store))
		_, err := e.UpdateChecklistItem(context.Background(), "s", "overview", "review-rfp", true)
		assert.Equal(t, errors.ErrCodeStateStoreFailed, errors.CodeOf(err))
	})
}
