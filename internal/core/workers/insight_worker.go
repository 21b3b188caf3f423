package workers

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/insights"
)

const (
	queueSize         = 100
	defaultWindowDays = 90
)

type ReadingLister interface {
	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]domain.BiometricReading, error)
}

type HabitLister interface {
	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]domain.HabitEntry, error)
}

type RefreshJob struct {
	UserID string
}

// InsightWorker recomputes a user's insight report after new data arrives
// and stores it in the analysis cache, so the next read is a hit.
type InsightWorker struct {
	readings   ReadingLister
	habits     HabitLister
	cache      domain.AnalysisCache
	windowDays int
	now        func() time.Time
	jobs       chan RefreshJob
}

func NewInsightWorker(readings ReadingLister, habits HabitLister, cache domain.AnalysisCache, windowDays int) *InsightWorker {
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}
	return &InsightWorker{
		readings:   readings,
		habits:     habits,
		cache:      cache,
		windowDays: windowDays,
		now:        time.Now,
		jobs:       make(chan RefreshJob, queueSize),
	}
}

// WithClock replaces the time source used to pick the analysis day.
func (w *InsightWorker) WithClock(now func() time.Time) *InsightWorker {
	w.now = now
	return w
}

func (w *InsightWorker) Start(ctx context.Context) {
	go func() {
		log.Info().Msg("Insight worker started")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Info().Msg("Insight worker shutting down")
				return
			}
		}
	}()
}

// Enqueue never blocks; when the queue is full the job is dropped and the
// next read recomputes on demand.
func (w *InsightWorker) Enqueue(userID string) {
	select {
	case w.jobs <- RefreshJob{UserID: userID}:
	default:
		log.Warn().Str("user_id", userID).Msg("Insight worker queue full, dropping job")
	}
}

func (w *InsightWorker) processJob(ctx context.Context, job RefreshJob) {
	if w.cache == nil {
		return
	}

	today := domain.Day(w.now().UTC())
	from := today.AddDate(0, 0, -(w.windowDays - 1))

	gen, err := w.cache.Generation(ctx, job.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", job.UserID).Msg("Worker failed to read cache generation")
		return
	}

	habits, err := w.habits.ListByUser(ctx, job.UserID, from, today)
	if err != nil {
		log.Error().Err(err).Str("user_id", job.UserID).Msg("Worker failed to load habit logs")
		return
	}

	readings, err := w.readings.ListByUser(ctx, job.UserID, from, today.AddDate(0, 0, 1))
	if err != nil {
		log.Error().Err(err).Str("user_id", job.UserID).Msg("Worker failed to load readings")
		return
	}

	report := insights.BuildReport(habits, readings, today, false)
	if err := w.cache.Set(ctx, job.UserID, gen, today, &report); err != nil {
		log.Error().Err(err).Str("user_id", job.UserID).Msg("Worker failed to warm analysis cache")
		return
	}

	log.Debug().
		Str("user_id", job.UserID).
		Int("days", report.TotalDays).
		Int("correlations", len(report.Correlations)).
		Msg("Insight report refreshed")
}
