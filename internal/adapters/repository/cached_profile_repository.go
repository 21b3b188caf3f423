package repository

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

const profileCacheTTL = 30 * time.Minute

var _ domain.ProfileRepository = (*CachedProfileRepository)(nil)

// CachedProfileRepository is a read-through Redis decorator. The profile is
// read on every morning analysis but changes rarely.
type CachedProfileRepository struct {
	next  domain.ProfileRepository
	cache *redis.Client
}

func NewCachedProfileRepository(next domain.ProfileRepository, cache *redis.Client) *CachedProfileRepository {
	return &CachedProfileRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedProfileRepository) cacheKey(userID string) string {
	return fmt.Sprintf("profile:%s", userID)
}

func (r *CachedProfileRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Del(ctx, r.cacheKey(userID)).Err(); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to invalidate profile cache")
	}
}

func (r *CachedProfileRepository) Get(ctx context.Context, userID string) (*domain.HealthProfile, error) {
	key := r.cacheKey(userID)

	val, err := r.cache.Get(ctx, key).Bytes()
	if err == nil {
		var profile domain.HealthProfile
		if err := json.Unmarshal(val, &profile); err == nil {
			return &profile, nil
		}

		log.Warn().Str("user_id", userID).Msg("Corrupted profile cache entry, cleaning up key")
		r.cache.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Msg("Redis read error")
	}

	profile, err := r.next.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(profile); err == nil {
		if setErr := r.cache.Set(ctx, key, data, profileCacheTTL).Err(); setErr != nil {
			log.Warn().Err(setErr).Msg("Redis set error")
		}
	}

	return profile, nil
}

func (r *CachedProfileRepository) Save(ctx context.Context, profile *domain.HealthProfile) error {
	if err := r.next.Save(ctx, profile); err != nil {
		return err
	}
	r.invalidate(ctx, profile.UserID)
	return nil
}
