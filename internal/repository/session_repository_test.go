package repository

import (
	"context"
	"testing"
	"time"

	"invoice-service/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := NewSessionRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.CreateSession(ctx, &models.Session{ID: "s-1", ExpiresAt: time.Now().Add(time.Hour)}))

	active, err := repo.IsSessionActive(ctx, "s-1")
	require.NoError(t, err)
	assert.True(t, active)
	assert.True(t, mr.TTL("invoice_session:s-1") > 0)

	require.NoError(t, repo.DeleteSession(ctx, "s-1"))
	active, err = repo.IsSessionActive(ctx, "s-1")
	require.NoError(t, err)
	assert.False(t, active)

	assert.Error(t, repo.CreateSession(ctx, &models.Session{ID: "s-2", ExpiresAt: time.Now().Add(-time.Minute)}))
}

func TestSessionRepository_RedisExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := NewSessionRepository(client)
	ctx := context.Background()
	require.NoError(t, repo.CreateSession(ctx, &models.Session{ID: "s-1", ExpiresAt: time.Now().Add(time.Minute)}))

	mr.FastForward(2 * time.Minute)

	active, err := repo.IsSessionActive(ctx, "s-1")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestSessionRepository_Memory(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	require.NoError(t, repo.CreateSession(ctx, &models.Session{ID: "s-1", ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, repo.CreateSession(ctx, &models.Session{ID: "old", ExpiresAt: time.Now().Add(-time.Second)}))

	active, _ := repo.IsSessionActive(ctx, "s-1")
	assert.True(t, active)
	active, _ = repo.IsSessionActive(ctx, "old")
	assert.False(t, active)

	require.NoError(t, repo.DeleteSession(ctx, "s-1"))
	active, _ = repo.IsSessionActive(ctx, "s-1")
	assert.False(t, active)
}
