package services

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

type MockReadingRepository struct {
	mock.Mock
}

func (m *MockReadingRepository) Upsert(ctx context.Context, reading *domain.BiometricReading) error {
	return m.Called(ctx, reading).Error(0)
}

func (m *MockReadingRepository) GetByDate(ctx context.Context, userID string, date time.Time) (*domain.BiometricReading, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BiometricReading), args.Error(1)
}

func (m *MockReadingRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]domain.BiometricReading, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BiometricReading), args.Error(1)
}

type MockHabitLogRepository struct {
	mock.Mock
}

func (m *MockHabitLogRepository) Upsert(ctx context.Context, entry *domain.HabitEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockHabitLogRepository) GetByDate(ctx context.Context, userID string, date time.Time) (*domain.HabitEntry, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HabitEntry), args.Error(1)
}

func (m *MockHabitLogRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]domain.HabitEntry, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HabitEntry), args.Error(1)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Get(ctx context.Context, userID string) (*domain.HealthProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HealthProfile), args.Error(1)
}

func (m *MockProfileRepository) Save(ctx context.Context, profile *domain.HealthProfile) error {
	return m.Called(ctx, profile).Error(0)
}

type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) GetAdherence(ctx context.Context, userID string, date time.Time) (*domain.PlanAdherence, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlanAdherence), args.Error(1)
}

func (m *MockPlanRepository) SaveAdherence(ctx context.Context, adherence *domain.PlanAdherence) error {
	return m.Called(ctx, adherence).Error(0)
}

type MockAnalysisCache struct {
	mock.Mock
}

func (m *MockAnalysisCache) Generation(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnalysisCache) Get(ctx context.Context, userID string, gen int64, asOf time.Time, useLag bool) (*domain.InsightReport, error) {
	args := m.Called(ctx, userID, gen, asOf, useLag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InsightReport), args.Error(1)
}

func (m *MockAnalysisCache) Set(ctx context.Context, userID string, gen int64, asOf time.Time, report *domain.InsightReport) error {
	return m.Called(ctx, userID, gen, asOf, report).Error(0)
}

func (m *MockAnalysisCache) Invalidate(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type recordingQueue struct {
	mu    sync.Mutex
	users []string
}

func (q *recordingQueue) Enqueue(userID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.users = append(q.users, userID)
}

func (q *recordingQueue) Jobs() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.users...)
}

var testDay = time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)

// exerciseHistory returns n days ending at testDay with exercise on every
// other day; exercise days carry 5 ms more HRV.
func exerciseHistory(userID string, n int) ([]domain.HabitEntry, []domain.BiometricReading) {
	var habits []domain.HabitEntry
	var readings []domain.BiometricReading
	for i := 0; i < n; i++ {
		date := testDay.AddDate(0, 0, -(n - 1 - i))
		e := domain.HabitEntry{UserID: userID, Date: date, Sleep: &domain.SleepLog{Hours: 7, Quality: 3}, StressLevel: intPtr(3)}
		hrv := 50.0 + float64(i%3)*0.5
		if i%2 == 0 {
			e.Exercise = &domain.ExerciseLog{Type: "run", DurationMins: 30, Intensity: domain.IntensityModerate}
			hrv += 5
		}
		habits = append(habits, e)
		readings = append(readings, domain.BiometricReading{UserID: userID, Date: date, HRVMs: hrv, RestingHR: 55})
	}
	return habits, readings
}

func intPtr(v int) *int { return &v }
