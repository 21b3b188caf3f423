package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/insights"
)

func newInsightFixture(n int) (*InsightService, *MockReadingRepository, *MockHabitLogRepository, *MockAnalysisCache) {
	readings := new(MockReadingRepository)
	habits := new(MockHabitLogRepository)
	cache := new(MockAnalysisCache)

	cache.On("Generation", mock.Anything, "u-1").Return(int64(0), nil).Maybe()

	h, r := exerciseHistory("u-1", n)
	habits.On("ListByUser", mock.Anything, "u-1", mock.Anything, mock.Anything).Return(h, nil)
	readings.On("ListByUser", mock.Anything, "u-1", mock.Anything, mock.Anything).Return(r, nil)

	return NewInsightService(readings, habits, cache, 0), readings, habits, cache
}

func TestInsightService_Report(t *testing.T) {
	ctx := context.Background()

	t.Run("Cache hit skips storage", func(t *testing.T) {
		readings := new(MockReadingRepository)
		habits := new(MockHabitLogRepository)
		cache := new(MockAnalysisCache)
		service := NewInsightService(readings, habits, cache, 30)

		cached := &domain.InsightReport{AsOf: "2024-04-15"}
		cache.On("Generation", ctx, "u-1").Return(int64(0), nil)
		cache.On("Get", ctx, "u-1", int64(0), testDay, false).Return(cached, nil)

		got, err := service.Report(ctx, "u-1", testDay, false)

		require.NoError(t, err)
		assert.Same(t, cached, got)
		readings.AssertNotCalled(t, "ListByUser")
		habits.AssertNotCalled(t, "ListByUser")
	})

	t.Run("Cache miss computes and stores", func(t *testing.T) {
		service, readings, habits, cache := newInsightFixture(20)
		cache.On("Get", ctx, "u-1", int64(0), testDay, false).Return(nil, domain.ErrCacheMiss)
		cache.On("Set", ctx, "u-1", int64(0), testDay, mock.AnythingOfType("*domain.InsightReport")).Return(nil)

		got, err := service.Report(ctx, "u-1", testDay, false)

		require.NoError(t, err)
		assert.Equal(t, 20, got.TotalDays)
		assert.True(t, got.SufficientData)
		assert.Equal(t, "2024-04-15", got.AsOf)
		assert.Equal(t, 20, got.LoggingStreak.Current)
		cache.AssertExpectations(t)

		habits.AssertCalled(t, "ListByUser", mock.Anything, "u-1", testDay.AddDate(0, 0, -89), testDay)
		readings.AssertCalled(t, "ListByUser", mock.Anything, "u-1", testDay.AddDate(0, 0, -89), testDay.AddDate(0, 0, 1))
	})

	t.Run("Broken cache still answers", func(t *testing.T) {
		service, _, _, cache := newInsightFixture(10)
		cache.On("Get", ctx, "u-1", int64(0), testDay, true).Return(nil, errors.New("redis timeout"))
		cache.On("Set", ctx, "u-1", int64(0), testDay, mock.Anything).Return(errors.New("redis timeout"))

		got, err := service.Report(ctx, "u-1", testDay, true)

		require.NoError(t, err)
		assert.True(t, got.UseLag)
	})

	t.Run("Report is stored under the generation read before loading", func(t *testing.T) {
		readings := new(MockReadingRepository)
		habits := new(MockHabitLogRepository)
		cache := new(MockAnalysisCache)
		service := NewInsightService(readings, habits, cache, 30)

		h, r := exerciseHistory("u-1", 10)
		cache.On("Generation", ctx, "u-1").Return(int64(3), nil).Once()
		cache.On("Get", ctx, "u-1", int64(3), testDay, false).Return(nil, domain.ErrCacheMiss)
		habits.On("ListByUser", mock.Anything, "u-1", mock.Anything, mock.Anything).Return(h, nil)
		readings.On("ListByUser", mock.Anything, "u-1", mock.Anything, mock.Anything).Return(r, nil)
		cache.On("Set", ctx, "u-1", int64(3), testDay, mock.Anything).Return(nil)

		_, err := service.Report(ctx, "u-1", testDay, false)

		require.NoError(t, err)
		cache.AssertExpectations(t)
	})

	t.Run("Unreadable generation bypasses the cache", func(t *testing.T) {
		readings := new(MockReadingRepository)
		habits := new(MockHabitLogRepository)
		cache := new(MockAnalysisCache)
		service := NewInsightService(readings, habits, cache, 30)

		h, r := exerciseHistory("u-1", 10)
		cache.On("Generation", ctx, "u-1").Return(int64(0), errors.New("redis timeout"))
		habits.On("ListByUser", mock.Anything, "u-1", mock.Anything, mock.Anything).Return(h, nil)
		readings.On("ListByUser", mock.Anything, "u-1", mock.Anything, mock.Anything).Return(r, nil)

		got, err := service.Report(ctx, "u-1", testDay, false)

		require.NoError(t, err)
		assert.Equal(t, 10, got.TotalDays)
		cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Storage failure is returned", func(t *testing.T) {
		readings := new(MockReadingRepository)
		habits := new(MockHabitLogRepository)
		dbErr := errors.New("db down")
		habits.On("ListByUser", mock.Anything, "u-1", mock.Anything, mock.Anything).Return(nil, dbErr)
		readings.On("ListByUser", mock.Anything, "u-1", mock.Anything, mock.Anything).Return([]domain.BiometricReading{}, nil)

		service := NewInsightService(readings, habits, nil, 30)

		_, err := service.Report(ctx, "u-1", testDay, false)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestInsightService_TopHabits(t *testing.T) {
	ctx := context.Background()
	service, _, _, cache := newInsightFixture(20)
	cache.On("Get", ctx, "u-1", int64(0), testDay, false).Return(nil, domain.ErrCacheMiss)
	cache.On("Set", ctx, "u-1", int64(0), testDay, mock.Anything).Return(nil)

	top, err := service.TopHabits(ctx, "u-1", testDay, 1)

	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, insights.HabitExercise, top[0].HabitKey)
}

func TestInsightService_Recommendations(t *testing.T) {
	ctx := context.Background()

	t.Run("Sufficient data yields an increase for exercise", func(t *testing.T) {
		service, _, _, cache := newInsightFixture(20)
		cache.On("Get", ctx, "u-1", int64(0), testDay, false).Return(nil, domain.ErrCacheMiss)
		cache.On("Set", ctx, "u-1", int64(0), testDay, mock.Anything).Return(nil)

		recs, err := service.Recommendations(ctx, "u-1", testDay, 3)

		require.NoError(t, err)
		require.NotEmpty(t, recs)
		assert.Equal(t, insights.HabitExercise, recs[0].HabitKey)
		assert.Equal(t, domain.ActionIncrease, recs[0].Action)
	})

	t.Run("Insufficient data yields an empty list", func(t *testing.T) {
		service, _, _, cache := newInsightFixture(10)
		cache.On("Get", ctx, "u-1", int64(0), testDay, false).Return(nil, domain.ErrCacheMiss)
		cache.On("Set", ctx, "u-1", int64(0), testDay, mock.Anything).Return(nil)

		recs, err := service.Recommendations(ctx, "u-1", testDay, 3)

		require.NoError(t, err)
		assert.NotNil(t, recs)
		assert.Empty(t, recs)
	})
}

func TestInsightService_TodaysFocus(t *testing.T) {
	ctx := context.Background()

	t.Run("No log today", func(t *testing.T) {
		service, _, habits, cache := newInsightFixture(20)
		cache.On("Get", ctx, "u-1", int64(0), testDay, false).Return(nil, domain.ErrCacheMiss)
		cache.On("Set", ctx, "u-1", int64(0), testDay, mock.Anything).Return(nil)
		habits.On("GetByDate", ctx, "u-1", testDay).Return(nil, domain.ErrEntryNotFound)

		focus, err := service.TodaysFocus(ctx, "u-1", testDay)

		require.NoError(t, err)
		require.NotNil(t, focus)
		assert.Equal(t, insights.HabitExercise, focus.HabitKey)
	})

	t.Run("Nothing to recommend", func(t *testing.T) {
		service, _, habits, cache := newInsightFixture(5)
		cache.On("Get", ctx, "u-1", int64(0), testDay, false).Return(nil, domain.ErrCacheMiss)
		cache.On("Set", ctx, "u-1", int64(0), testDay, mock.Anything).Return(nil)
		habits.On("GetByDate", ctx, "u-1", testDay).Return(nil, domain.ErrEntryNotFound)

		focus, err := service.TodaysFocus(ctx, "u-1", testDay)

		require.NoError(t, err)
		assert.Nil(t, focus)
	})
}
