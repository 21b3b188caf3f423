package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

const DefaultAnalysisTTL = 6 * time.Hour

var _ domain.AnalysisCache = (*RedisAnalysisCache)(nil)

// RedisAnalysisCache stores insight reports as JSON under
// analysis:<user>:g<generation>:<day>:lag=<bool>. The generation counter
// lives at analysis-gen:<user> and is bumped by Invalidate.
type RedisAnalysisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisAnalysisCache(rdb *redis.Client, ttl time.Duration) *RedisAnalysisCache {
	if ttl <= 0 {
		ttl = DefaultAnalysisTTL
	}
	return &RedisAnalysisCache{
		rdb: rdb,
		ttl: ttl,
	}
}

func analysisKey(userID string, gen int64, asOf time.Time, useLag bool) string {
	return fmt.Sprintf("analysis:%s:g%d:%s:lag=%t", userID, gen, domain.DayKey(domain.Day(asOf)), useLag)
}

func generationKey(userID string) string {
	return "analysis-gen:" + userID
}

// Generation returns 0 for a user whose cache was never invalidated.
func (c *RedisAnalysisCache) Generation(ctx context.Context, userID string) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache: generation %s: %w", userID, err)
	}
	return gen, nil
}

func (c *RedisAnalysisCache) Get(ctx context.Context, userID string, gen int64, asOf time.Time, useLag bool) (*domain.InsightReport, error) {
	key := analysisKey(userID, gen, asOf, useLag)

	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("cache: get %s: %w", key, err)
	}

	var report domain.InsightReport
	if err := json.Unmarshal(val, &report); err != nil {
		log.Warn().Str("key", key).Msg("Corrupted analysis cache entry, cleaning up key")
		c.rdb.Del(ctx, key)
		return nil, domain.ErrCacheMiss
	}
	return &report, nil
}

func (c *RedisAnalysisCache) Set(ctx context.Context, userID string, gen int64, asOf time.Time, report *domain.InsightReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("cache: marshal report: %w", err)
	}

	key := analysisKey(userID, gen, asOf, report.UseLag)
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}

// Invalidate advances the user's generation, then drops the user's stored
// reports. A report written concurrently under an old generation is
// unreachable and expires with the TTL.
func (c *RedisAnalysisCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.rdb.Incr(ctx, generationKey(userID)).Err(); err != nil {
		return fmt.Errorf("cache: bump generation %s: %w", userID, err)
	}

	pattern := fmt.Sprintf("analysis:%s:*", userID)

	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache: scan %s: %w", pattern, err)
	}

	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache: invalidate %s: %w", userID, err)
	}
	return nil
}
