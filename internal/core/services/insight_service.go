package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/insights"
)

const DefaultAnalysisWindowDays = 90

type InsightService struct {
	readings   domain.ReadingRepository
	habits     domain.HabitLogRepository
	cache      domain.AnalysisCache
	windowDays int
}

func NewInsightService(readings domain.ReadingRepository, habits domain.HabitLogRepository, cache domain.AnalysisCache, windowDays int) *InsightService {
	if windowDays <= 0 {
		windowDays = DefaultAnalysisWindowDays
	}
	return &InsightService{
		readings:   readings,
		habits:     habits,
		cache:      cache,
		windowDays: windowDays,
	}
}

// Snapshot is the materialised input of one analysis run.
type Snapshot struct {
	Habits   []domain.HabitEntry
	Readings []domain.BiometricReading
}

// LoadSnapshot reads habits and readings for the analysis window ending at
// asOf. With lag enabled the reading window extends one day further so the
// last habit day can still pair.
func (s *InsightService) LoadSnapshot(ctx context.Context, userID string, asOf time.Time) (Snapshot, error) {
	to := domain.Day(asOf)
	from := to.AddDate(0, 0, -(s.windowDays - 1))

	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		habits, err := s.habits.ListByUser(gctx, userID, from, to)
		if err != nil {
			return fmt.Errorf("load habits: %w", err)
		}
		snap.Habits = habits
		return nil
	})

	g.Go(func() error {
		readings, err := s.readings.ListByUser(gctx, userID, from, to.AddDate(0, 0, 1))
		if err != nil {
			return fmt.Errorf("load readings: %w", err)
		}
		snap.Readings = readings
		return nil
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, fmt.Errorf("insight service: %w", err)
	}
	return snap, nil
}

// Report returns the cached analysis for (user, day, lag) or computes and
// caches it. The cache generation is read before the data, so a write that
// lands mid-computation leaves the stored report unreachable.
func (s *InsightService) Report(ctx context.Context, userID string, asOf time.Time, useLag bool) (*domain.InsightReport, error) {
	gen, cacheable := s.generation(ctx, userID)
	if cacheable {
		cached, err := s.cache.Get(ctx, userID, gen, asOf, useLag)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			log.Warn().Err(err).Str("user_id", userID).Msg("Analysis cache read failed")
		}
	}

	snap, err := s.LoadSnapshot(ctx, userID, asOf)
	if err != nil {
		return nil, err
	}

	report := insights.BuildReport(snap.Habits, snap.Readings, asOf, useLag)

	if cacheable {
		if err := s.cache.Set(ctx, userID, gen, asOf, &report); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("Analysis cache write failed")
		}
	}
	return &report, nil
}

func (s *InsightService) generation(ctx context.Context, userID string) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	gen, err := s.cache.Generation(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Analysis cache generation unavailable, bypassing cache")
		return 0, false
	}
	return gen, true
}

// TopHabits ranks the correlations by impact. limit <= 0 returns them all.
func (s *InsightService) TopHabits(ctx context.Context, userID string, asOf time.Time, limit int) ([]domain.Correlation, error) {
	report, err := s.Report(ctx, userID, asOf, false)
	if err != nil {
		return nil, err
	}

	ranked := insights.RankByImpact(report.Correlations)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func (s *InsightService) Recommendations(ctx context.Context, userID string, asOf time.Time, maxCount int) ([]domain.Recommendation, error) {
	report, err := s.Report(ctx, userID, asOf, false)
	if err != nil {
		return nil, err
	}
	if !report.SufficientData {
		return []domain.Recommendation{}, nil
	}

	snap, err := s.LoadSnapshot(ctx, userID, asOf)
	if err != nil {
		return nil, err
	}

	ranked := insights.RankByImpact(report.Correlations)
	return insights.GenerateRecommendations(ranked, snap.Habits, maxCount), nil
}

// TodaysFocus returns nil when there is nothing to recommend.
func (s *InsightService) TodaysFocus(ctx context.Context, userID string, today time.Time) (*domain.Recommendation, error) {
	recs, err := s.Recommendations(ctx, userID, today, insights.DefaultMaxRecommendations)
	if err != nil {
		return nil, err
	}

	entry, err := s.habits.GetByDate(ctx, userID, domain.Day(today))
	if err != nil {
		if !errors.Is(err, domain.ErrEntryNotFound) {
			return nil, fmt.Errorf("insight service: load today's log: %w", err)
		}
		entry = nil
	}

	return insights.GetTodaysFocus(recs, entry), nil
}
