// internal/store/cache_test.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ambit-engine/internal/common/logger"
	"ambit-engine/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type stubLister struct {
	pool  []models.Opportunity
	err   error
	calls int
}

func (s *stubLister) ListAllOpportunities(ctx context.Context) ([]models.Opportunity, error) {
	s.calls++
	return s.pool, s.err
}

func setupCache(t *testing.T, inner *stubLister, ttl time.Duration) (*CachedOpportunityStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewCachedOpportunityStore(inner, rdb, ttl, logger.NewNoOpLogger()), mr
}

// ==========================
// Snapshot behavior
// ==========================

func TestCachedStore_MissThenHit(t *testing.T) {
	inner := &stubLister{pool: []models.Opportunity{{ID: 1, Title: "Asphalt paving"}}}
	cache, mr := setupCache(t, inner, time.Minute)
	ctx := context.Background()

	first, err := cache.ListAllOpportunities(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 1)
	assert.Equal(t, 1, inner.calls)
	assert.True(t, mr.Exists(poolSnapshotKey))

	second, err := cache.ListAllOpportunities(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls, "second read must come from the snapshot")
}

func TestCachedStore_TTLExpiry(t *testing.T) {
	inner := &stubLister{pool: []models.Opportunity{{ID: 1, Title: "Asphalt paving"}}}
	cache, mr := setupCache(t, inner, time.Minute)
	ctx := context.Background()

	_, err := cache.ListAllOpportunities(ctx)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = cache.ListAllOpportunities(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedStore_CorruptSnapshotFallsThrough(t *testing.T) {
	inner := &stubLister{pool: []models.Opportunity{{ID: 1, Title: "Asphalt paving"}}}
	cache, mr := setupCache(t, inner, time.Minute)
	ctx := context.Background()

	require.NoError(t, mr.Set(poolSnapshotKey, "{not json"))

	pool, err := cache.ListAllOpportunities(ctx)
	require.NoError(t, err)
	assert.Len(t, pool, 1)
	assert.Equal(t, 1, inner.calls)

	// The corrupt snapshot was replaced with a good one.
	val, err := mr.Get(poolSnapshotKey)
	require.NoError(t, err)
	var cached []models.Opportunity
	require.NoError(t, json.Unmarshal([]byte(val), &cached))
	assert.Equal(t, inner.pool, cached)
}

func TestCachedStore_InnerErrorPropagates(t *testing.T) {
	inner := &stubLister{err: errors.New("connection refused")}
	cache, _ := setupCache(t, inner, time.Minute)

	_, err := cache.ListAllOpportunities(context.Background())
	assert.Error(t, err)
}

func TestCachedStore_Invalidate(t *testing.T) {
	inner := &stubLister{pool: []models.Opportunity{{ID: 1, Title: "Asphalt paving"}}}
	cache, mr := setupCache(t, inner, time.Minute)
	ctx := context.Background()

	_, err := cache.ListAllOpportunities(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists(poolSnapshotKey))

	cache.Invalidate(ctx)

	assert.False(t, mr.Exists(poolSnapshotKey))
}
