package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

type HabitLogService struct {
	repo  domain.HabitLogRepository
	cache domain.AnalysisCache
	queue RefreshQueue
}

func NewHabitLogService(repo domain.HabitLogRepository, cache domain.AnalysisCache, queue RefreshQueue) *HabitLogService {
	return &HabitLogService{
		repo:  repo,
		cache: cache,
		queue: queue,
	}
}

type LogHabitsInput struct {
	UserID string
	Date   time.Time
	Patch  domain.HabitEntryPatch
}

// Log merges the patch into the day's entry, creating it if needed.
func (s *HabitLogService) Log(ctx context.Context, input LogHabitsInput) (*domain.HabitEntry, error) {
	entry, err := s.repo.GetByDate(ctx, input.UserID, domain.Day(input.Date))
	if err != nil {
		if !errors.Is(err, domain.ErrEntryNotFound) {
			return nil, fmt.Errorf("habit log service: lookup failed: %w", err)
		}
		entry, err = domain.NewHabitEntry(input.UserID, input.Date)
		if err != nil {
			return nil, err
		}
	}

	input.Patch.ApplyTo(entry)

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, entry); err != nil {
		return nil, fmt.Errorf("habit log service: upsert failed: %w", err)
	}

	afterWrite(ctx, s.cache, s.queue, entry.UserID)
	return entry, nil
}

func (s *HabitLogService) GetByDate(ctx context.Context, userID string, date time.Time) (*domain.HabitEntry, error) {
	return s.repo.GetByDate(ctx, userID, domain.Day(date))
}

func (s *HabitLogService) List(ctx context.Context, userID string, from, to time.Time) ([]domain.HabitEntry, error) {
	from, to, err := normaliseRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID, from, to)
}
