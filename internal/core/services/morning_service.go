package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/insights"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/morning"
)

const (
	averageWindowDays = 7
	trendWindowDays   = 30
	// trendThreshold is the relative change between the halves of the trend
	// window that counts as improving or declining.
	trendThreshold = 0.05
	minTrendPoints = 4
)

type MorningService struct {
	readings domain.ReadingRepository
	habits   domain.HabitLogRepository
	profiles domain.ProfileRepository
	plans    domain.PlanRepository
	insights *InsightService
}

func NewMorningService(readings domain.ReadingRepository, habits domain.HabitLogRepository, profiles domain.ProfileRepository, plans domain.PlanRepository, insightService *InsightService) *MorningService {
	return &MorningService{
		readings: readings,
		habits:   habits,
		profiles: profiles,
		plans:    plans,
		insights: insightService,
	}
}

type MorningInput struct {
	UserID        string
	Date          time.Time
	YesterdayPlan *domain.PlanAdherence
}

// Analyze assembles today's morning request from storage and runs the
// engine. A missing reading for the day is ErrReadingNotFound; every other
// missing input degrades the analysis instead of failing it.
func (s *MorningService) Analyze(ctx context.Context, input MorningInput) (*domain.DailyAnalysis, error) {
	today := domain.Day(input.Date)
	yesterday := today.AddDate(0, 0, -1)

	if input.YesterdayPlan != nil {
		plan := *input.YesterdayPlan
		plan.UserID = input.UserID
		plan.Date = yesterday
		if err := plan.Validate(); err != nil {
			return nil, err
		}
		if err := s.plans.SaveAdherence(ctx, &plan); err != nil {
			return nil, fmt.Errorf("morning service: save adherence: %w", err)
		}
	}

	var (
		reading *domain.BiometricReading
		history []domain.BiometricReading
		entry   *domain.HabitEntry
		profile *domain.HealthProfile
		plan    *domain.PlanAdherence
		report  *domain.InsightReport
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		reading, err = s.readings.GetByDate(gctx, input.UserID, today)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = s.readings.ListByUser(gctx, input.UserID, today.AddDate(0, 0, -trendWindowDays), yesterday)
		return err
	})
	g.Go(func() error {
		var err error
		entry, err = s.habits.GetByDate(gctx, input.UserID, today)
		if errors.Is(err, domain.ErrEntryNotFound) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		profile, err = s.profiles.Get(gctx, input.UserID)
		if errors.Is(err, domain.ErrProfileNotFound) {
			profile = &domain.HealthProfile{UserID: input.UserID}
			return nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		plan, err = s.plans.GetAdherence(gctx, input.UserID, yesterday)
		if errors.Is(err, domain.ErrAdherenceNotFound) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		report, err = s.insights.Report(gctx, input.UserID, today, false)
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrReadingNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("morning service: %w", err)
	}

	req := morning.Request{
		Today:         BuildTodayData(reading, entry, history, today),
		YesterdayPlan: plan,
		Profile:       *profile,
	}
	if report.SufficientData {
		req.Correlations = insights.RankByImpact(report.Correlations)
	}

	analysis := morning.GenerateMorningAnalysis(req)
	return &analysis, nil
}

// BuildTodayData derives the 7-day average and 30-day trend from history
// (readings strictly before today). Without history the average equals
// today's HRV.
func BuildTodayData(reading *domain.BiometricReading, entry *domain.HabitEntry, history []domain.BiometricReading, today time.Time) morning.TodayData {
	data := morning.TodayData{
		HRV:           reading.HRVMs,
		SevenDayAvg:   reading.HRVMs,
		RecoveryScore: reading.RecoveryScore,
	}

	if entry != nil && entry.Sleep != nil {
		hours := entry.Sleep.Hours
		data.SleepHours = &hours
	}

	cutoff := domain.Day(today).AddDate(0, 0, -averageWindowDays)
	var week, month []float64
	for _, r := range history {
		if !r.Date.Before(domain.Day(today)) {
			continue
		}
		month = append(month, r.HRVMs)
		if !r.Date.Before(cutoff) {
			week = append(week, r.HRVMs)
		}
	}

	if len(week) > 0 {
		data.SevenDayAvg = insights.Mean(week)
	}
	data.Trend = Trend(month)
	return data
}

// Trend compares the mean of the later half of values against the earlier
// half. values must be in chronological order.
func Trend(values []float64) string {
	if len(values) < minTrendPoints {
		return ""
	}

	mid := len(values) / 2
	earlier := insights.Mean(values[:mid])
	later := insights.Mean(values[mid:])
	if earlier == 0 {
		return domain.TrendStable
	}

	change := (later - earlier) / earlier
	switch {
	case change > trendThreshold:
		return domain.TrendImproving
	case change < -trendThreshold:
		return domain.TrendDeclining
	default:
		return domain.TrendStable
	}
}
