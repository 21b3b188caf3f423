package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidUserID    = errors.New("invalid user id")
	ErrInvalidDateRange = errors.New("invalid date range (from must not be after to)")
	ErrCacheMiss        = errors.New("cache miss")
)

type ReadingRepository interface {
	// Upsert stores the reading for (user, date). An existing reading for the
	// same day is overwritten (last write wins).
	Upsert(ctx context.Context, reading *BiometricReading) error

	// GetByDate returns the reading for a calendar day or ErrReadingNotFound.
	GetByDate(ctx context.Context, userID string, date time.Time) (*BiometricReading, error)

	// ListByUser returns readings with from <= date <= to, oldest first.
	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]BiometricReading, error)
}

type HabitLogRepository interface {
	// Upsert stores the entry for (user, date), replacing any previous one.
	// Merging partial re-logs is the caller's job.
	Upsert(ctx context.Context, entry *HabitEntry) error

	GetByDate(ctx context.Context, userID string, date time.Time) (*HabitEntry, error)

	// ListByUser returns entries with from <= date <= to, oldest first.
	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]HabitEntry, error)
}

type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*HealthProfile, error)
	Save(ctx context.Context, profile *HealthProfile) error
}

type PlanRepository interface {
	GetAdherence(ctx context.Context, userID string, date time.Time) (*PlanAdherence, error)
	SaveAdherence(ctx context.Context, adherence *PlanAdherence) error
}

// AnalysisCache stores derived insight reports under a per-user generation.
// Invalidate advances the generation, so a report stored with a generation
// read before a write is never returned after it. Implementations return
// ErrCacheMiss when nothing is stored for the key.
type AnalysisCache interface {
	Generation(ctx context.Context, userID string) (int64, error)
	Get(ctx context.Context, userID string, gen int64, asOf time.Time, useLag bool) (*InsightReport, error)
	Set(ctx context.Context, userID string, gen int64, asOf time.Time, report *InsightReport) error
	Invalidate(ctx context.Context, userID string) error
}
