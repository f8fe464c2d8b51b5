package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zirdl/bunubon/models"
	"go.uber.org/zap"
)

const (
	DashboardCachePrefix  = "dashboard:summary:v"
	DashboardVersionKey   = "dashboard:version"
	DefaultDashboardTTL   = 10 * time.Minute
	cacheVersionRetries   = 3
	cacheVersionRetryWait = 50 * time.Millisecond
)

// CacheManager caches dashboard aggregates under a version number. Writes bump
// the version so every older entry becomes unreachable and ages out by TTL.
// A nil Redis client turns every method into a no-op.
type CacheManager struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCacheManager(rdb *redis.Client, logger *zap.Logger) *CacheManager {
	return &CacheManager{redis: rdb, ttl: DefaultDashboardTTL, logger: logger}
}

// GetSummary returns the cached summary for the current version.
func (cm *CacheManager) GetSummary(ctx context.Context) (*models.DashboardSummary, bool) {
	if cm == nil || cm.redis == nil {
		return nil, false
	}
	version, err := cm.getCacheVersion(ctx)
	if err != nil {
		return nil, false
	}

	raw, err := cm.redis.Get(ctx, summaryKey(version)).Bytes()
	if err != nil {
		return nil, false
	}

	var summary models.DashboardSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		cm.logger.Warn("Failed to unmarshal cached dashboard summary", zap.Error(err))
		return nil, false
	}
	return &summary, true
}

// SetSummary caches summary under the current version.
func (cm *CacheManager) SetSummary(ctx context.Context, summary *models.DashboardSummary) {
	if cm == nil || cm.redis == nil {
		return
	}
	version, err := cm.getCacheVersion(ctx)
	if err != nil {
		return
	}

	b, err := json.Marshal(summary)
	if err != nil {
		cm.logger.Warn("Failed to marshal dashboard summary for cache", zap.Error(err))
		return
	}
	if err := cm.redis.Set(ctx, summaryKey(version), b, cm.ttl).Err(); err != nil {
		cm.logger.Warn("Failed to cache dashboard summary", zap.Error(err))
	}
}

// Invalidate bumps the cache version.
func (cm *CacheManager) Invalidate(ctx context.Context) {
	if cm == nil || cm.redis == nil {
		return
	}
	newVersion, err := cm.redis.Incr(ctx, DashboardVersionKey).Result()
	if err != nil {
		cm.logger.Error("Failed to invalidate dashboard cache", zap.Error(err))
		return
	}
	cm.logger.Debug("Dashboard cache invalidated", zap.Int64("new_version", newVersion))
}

func (cm *CacheManager) getCacheVersion(ctx context.Context) (int64, error) {
	for i := 0; i < cacheVersionRetries; i++ {
		ver, err := cm.redis.Get(ctx, DashboardVersionKey).Int64()
		if err == nil && ver > 0 {
			return ver, nil
		}

		if errors.Is(err, redis.Nil) {
			// SetNX so a concurrent Invalidate is not overwritten.
			if err := cm.redis.SetNX(ctx, DashboardVersionKey, 1, 0).Err(); err == nil {
				continue
			}
		}

		if i < cacheVersionRetries-1 {
			time.Sleep(cacheVersionRetryWait)
		}
	}
	return 0, fmt.Errorf("failed to get cache version after %d retries", cacheVersionRetries)
}

func summaryKey(version int64) string {
	return fmt.Sprintf("%s%d", DashboardCachePrefix, version)
}
