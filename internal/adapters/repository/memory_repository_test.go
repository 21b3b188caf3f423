package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

var day = time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)

func TestInMemoryReadingRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryReadingRepository()

	for i := 0; i < 5; i++ {
		r := &domain.BiometricReading{UserID: "u-1", Date: day.AddDate(0, 0, -i).Add(7 * time.Hour), HRVMs: 50 + float64(i)}
		require.NoError(t, repo.Upsert(ctx, r))
		assert.NotEmpty(t, r.ID)
	}
	require.NoError(t, repo.Upsert(ctx, &domain.BiometricReading{UserID: "u-2", Date: day, HRVMs: 70}))

	t.Run("Same day overwrites", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, &domain.BiometricReading{UserID: "u-1", Date: day.Add(22 * time.Hour), HRVMs: 61}))

		got, err := repo.GetByDate(ctx, "u-1", day)
		require.NoError(t, err)
		assert.Equal(t, 61.0, got.HRVMs)
		assert.Equal(t, day, got.Date)
	})

	t.Run("Range is inclusive and ordered", func(t *testing.T) {
		got, err := repo.ListByUser(ctx, "u-1", day.AddDate(0, 0, -3), day)
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.Equal(t, day.AddDate(0, 0, -3), got[0].Date)
		assert.Equal(t, day, got[3].Date)
	})

	t.Run("Missing day", func(t *testing.T) {
		_, err := repo.GetByDate(ctx, "u-1", day.AddDate(0, 0, 1))
		assert.ErrorIs(t, err, domain.ErrReadingNotFound)
	})
}

func TestInMemoryHabitLogRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryHabitLogRepository()

	units := 2.0
	entry := &domain.HabitEntry{
		UserID:   "u-1",
		Date:     day,
		Exercise: &domain.ExerciseLog{Type: "run", DurationMins: 30, Intensity: domain.IntensityHigh},
		Alcohol:  domain.AlcoholLog{Consumed: true, Units: &units},
	}
	require.NoError(t, repo.Upsert(ctx, entry))

	t.Run("Stored copy is isolated from the caller", func(t *testing.T) {
		entry.Exercise.DurationMins = 999

		got, err := repo.GetByDate(ctx, "u-1", day)
		require.NoError(t, err)
		assert.Equal(t, 30, got.Exercise.DurationMins)

		got.Exercise.Type = "swim"
		again, _ := repo.GetByDate(ctx, "u-1", day)
		assert.Equal(t, "run", again.Exercise.Type)
	})

	t.Run("List filters by user", func(t *testing.T) {
		got, err := repo.ListByUser(ctx, "u-2", day.AddDate(0, 0, -30), day)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("Missing day", func(t *testing.T) {
		_, err := repo.GetByDate(ctx, "u-1", day.AddDate(0, 0, -1))
		assert.ErrorIs(t, err, domain.ErrEntryNotFound)
	})
}

func TestInMemoryProfileAndPlanRepositories(t *testing.T) {
	ctx := context.Background()

	profiles := NewInMemoryProfileRepository()
	_, err := profiles.Get(ctx, "u-1")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	require.NoError(t, profiles.Save(ctx, &domain.HealthProfile{UserID: "u-1", Age: 30}))
	p, err := profiles.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 30, p.Age)

	plans := NewInMemoryPlanRepository()
	_, err = plans.GetAdherence(ctx, "u-1", day)
	assert.ErrorIs(t, err, domain.ErrAdherenceNotFound)

	require.NoError(t, plans.SaveAdherence(ctx, &domain.PlanAdherence{UserID: "u-1", Date: day.Add(20 * time.Hour), CompletedActions: 2, TotalActions: 4}))
	a, err := plans.GetAdherence(ctx, "u-1", day)
	require.NoError(t, err)
	assert.Equal(t, 2, a.CompletedActions)
}

func TestInMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryUserRepository()

	user, err := domain.NewUser("id-1", "ada@example.com")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, user))

	dup, _ := domain.NewUser("id-2", "ADA@example.com")
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrEmailAlreadyExists)

	got, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)

	_, err = repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
