package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

// RefreshQueue schedules a background recomputation of a user's insights.
// Enqueue must not block.
type RefreshQueue interface {
	Enqueue(userID string)
}

type ReadingService struct {
	repo  domain.ReadingRepository
	cache domain.AnalysisCache
	queue RefreshQueue
}

func NewReadingService(repo domain.ReadingRepository, cache domain.AnalysisCache, queue RefreshQueue) *ReadingService {
	return &ReadingService{
		repo:  repo,
		cache: cache,
		queue: queue,
	}
}

type RecordReadingInput struct {
	UserID        string
	Date          time.Time
	HRVMs         float64
	RestingHR     float64
	RecoveryScore *float64
	Source        string
}

// Record stores the reading for its calendar day, replacing an earlier one.
func (s *ReadingService) Record(ctx context.Context, input RecordReadingInput) (*domain.BiometricReading, error) {
	reading, err := domain.NewBiometricReading(input.UserID, input.Date, input.HRVMs, input.RestingHR, input.RecoveryScore, input.Source)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByDate(ctx, reading.UserID, reading.Date)
	switch {
	case err == nil:
		reading.ID = existing.ID
		reading.CreatedAt = existing.CreatedAt
	case !errors.Is(err, domain.ErrReadingNotFound):
		return nil, fmt.Errorf("reading service: lookup failed: %w", err)
	}

	if err := s.repo.Upsert(ctx, reading); err != nil {
		return nil, fmt.Errorf("reading service: upsert failed: %w", err)
	}

	afterWrite(ctx, s.cache, s.queue, reading.UserID)
	return reading, nil
}

func (s *ReadingService) List(ctx context.Context, userID string, from, to time.Time) ([]domain.BiometricReading, error) {
	from, to, err := normaliseRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID, from, to)
}

// afterWrite drops cached analyses and schedules a refresh. Cache failures
// are logged, never returned.
func afterWrite(ctx context.Context, cache domain.AnalysisCache, queue RefreshQueue, userID string) {
	if cache != nil {
		if err := cache.Invalidate(ctx, userID); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("Failed to invalidate analysis cache")
		}
	}
	if queue != nil {
		queue.Enqueue(userID)
	}
}

func normaliseRange(from, to time.Time) (time.Time, time.Time, error) {
	from, to = domain.Day(from), domain.Day(to)
	if from.After(to) {
		return from, to, domain.ErrInvalidDateRange
	}
	return from, to, nil
}
