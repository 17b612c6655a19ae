// internal/store/cache.go
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"ambit-engine/internal/common/logger"
	"ambit-engine/internal/common/metrics"
	"ambit-engine/internal/models"
)

const poolSnapshotKey = "opportunities:pool:snapshot"

type opportunityLister interface {
	ListAllOpportunities(ctx context.Context) ([]models.Opportunity, error)
}

// CachedOpportunityStore keeps a short-TTL read snapshot of the full pool in
// Redis so concurrent match requests don't each hit Postgres. The cache is an
// optimization only: any Redis failure falls through to the inner store.
type CachedOpportunityStore struct {
	inner  opportunityLister
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedOpportunityStore(inner opportunityLister, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedOpportunityStore {
	return &CachedOpportunityStore{
		inner:  inner,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "pool-cache"}),
	}
}

func (s *CachedOpportunityStore) ListAllOpportunities(ctx context.Context) ([]models.Opportunity, error) {
	if val, err := s.redis.Get(ctx, poolSnapshotKey).Result(); err == nil {
		var pool []models.Opportunity
		if err := json.Unmarshal([]byte(val), &pool); err == nil {
			metrics.PoolCacheHits.WithLabelValues("hit").Inc()
			return pool, nil
		}
		// Corrupt snapshot; drop it and fall through.
		_ = s.redis.Del(ctx, poolSnapshotKey).Err()
	} else if err != redis.Nil {
		metrics.PoolCacheHits.WithLabelValues("error").Inc()
		s.logger.Warn("pool snapshot read failed", map[string]interface{}{"error": err.Error()})
	}

	pool, err := s.inner.ListAllOpportunities(ctx)
	if err != nil {
		return nil, err
	}
	metrics.PoolCacheHits.WithLabelValues("miss").Inc()

	if data, err := json.Marshal(pool); err == nil {
		if err := s.redis.Set(ctx, poolSnapshotKey, data, s.ttl).Err(); err != nil {
			s.logger.Warn("pool snapshot write failed", map[string]interface{}{"error": err.Error()})
		}
	}

	return pool, nil
}

// Invalidate drops the snapshot so the next request sees fresh data. Called
// after admin inserts and ingestion runs.
func (s *CachedOpportunityStore) Invalidate(ctx context.Context) {
	if err := s.redis.Del(ctx, poolSnapshotKey).Err(); err != nil && err != redis.Nil {
		s.logger.Warn("pool snapshot invalidate failed", map[string]interface{}{"error": err.Error()})
	}
}
