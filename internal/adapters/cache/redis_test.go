package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/config"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	_ = godotenv.Load("../../../.env")

	rdb, err := NewRedisClient(config.RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", "secret_redis_pass_local"),
		DB:       1,
	})
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}

	require.NoError(t, rdb.FlushDB(context.Background()).Err(), "Failed to flush test DB")
	return rdb
}

func TestRedisClient_Integration(t *testing.T) {
	rdb := setupRedis(t)
	defer rdb.Close()

	ctx := context.Background()

	t.Run("Connection Ping", func(t *testing.T) {
		pong, err := rdb.Ping(ctx).Result()
		assert.NoError(t, err)
		assert.Equal(t, "PONG", pong)
	})

	t.Run("Expire Check", func(t *testing.T) {
		key := "test_expire"
		require.NoError(t, rdb.Set(ctx, key, "expire_me", 1*time.Second).Err())

		time.Sleep(1100 * time.Millisecond)

		_, err := rdb.Get(ctx, key).Result()
		assert.ErrorIs(t, err, redis.Nil, "Errors need to be of type 'redis.Nil'")
	})
}

func TestAnalysisKey(t *testing.T) {
	day := time.Date(2024, 4, 15, 18, 45, 0, 0, time.UTC)

	assert.Equal(t, "analysis:u-1:g0:2024-04-15:lag=false", analysisKey("u-1", 0, day, false))
	assert.Equal(t, "analysis:u-1:g7:2024-04-15:lag=true", analysisKey("u-1", 7, day, true))
	assert.Equal(t, "analysis-gen:u-1", generationKey("u-1"))
}

func TestRedisAnalysisCache_Integration(t *testing.T) {
	rdb := setupRedis(t)
	defer rdb.Close()

	ctx := context.Background()
	cache := NewRedisAnalysisCache(rdb, time.Minute)
	day := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)

	report := &domain.InsightReport{
		HabitAnalysis: domain.HabitAnalysis{
			Correlations: []domain.Correlation{
				{HabitKey: "exercise", Coefficient: 0.62, SampleSize: 20, Significance: domain.SignificanceHigh},
			},
			TotalDays:      20,
			SufficientData: true,
		},
		AsOf:          "2024-04-15",
		LoggingStreak: domain.Streak{Current: 4, Longest: 9},
	}

	t.Run("Miss before Set", func(t *testing.T) {
		gen, err := cache.Generation(ctx, "u-1")
		require.NoError(t, err)
		assert.Equal(t, int64(0), gen)

		_, err = cache.Get(ctx, "u-1", gen, day, false)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("Round trip keeps the lag variant apart", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "u-1", 0, day, report))

		got, err := cache.Get(ctx, "u-1", 0, day, false)
		require.NoError(t, err)
		assert.Equal(t, report, got)

		_, err = cache.Get(ctx, "u-1", 0, day, true)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("Corrupted entry is treated as a miss", func(t *testing.T) {
		key := analysisKey("u-2", 0, day, false)
		require.NoError(t, rdb.Set(ctx, key, "{not json", time.Minute).Err())

		_, err := cache.Get(ctx, "u-2", 0, day, false)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.Equal(t, int64(0), rdb.Exists(ctx, key).Val())
	})

	t.Run("Invalidate drops only the user's keys", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "u-1", 0, day.AddDate(0, 0, -1), report))
		require.NoError(t, cache.Set(ctx, "u-3", 0, day, report))

		require.NoError(t, cache.Invalidate(ctx, "u-1"))

		gen, err := cache.Generation(ctx, "u-1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), gen)
		_, err = cache.Get(ctx, "u-1", gen, day, false)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.Equal(t, int64(0), rdb.Exists(ctx, analysisKey("u-1", 0, day, false)).Val())

		_, err = cache.Get(ctx, "u-3", 0, day, false)
		assert.NoError(t, err)
	})

	t.Run("Report computed before a write is never served after it", func(t *testing.T) {
		before, err := cache.Generation(ctx, "u-4")
		require.NoError(t, err)

		require.NoError(t, cache.Invalidate(ctx, "u-4"))
		require.NoError(t, cache.Set(ctx, "u-4", before, day, report))

		after, err := cache.Generation(ctx, "u-4")
		require.NoError(t, err)
		assert.Greater(t, after, before)

		_, err = cache.Get(ctx, "u-4", after, day, false)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})
}
