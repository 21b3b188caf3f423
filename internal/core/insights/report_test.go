package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

func TestLoggingStreak(t *testing.T) {
	today := time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC)
	daysAgo := func(n int) time.Time {
		return today.AddDate(0, 0, -n)
	}
	logged := func(offsets ...int) ([]domain.HabitEntry, []domain.BiometricReading) {
		var habits []domain.HabitEntry
		var readings []domain.BiometricReading
		for _, n := range offsets {
			habits = append(habits, domain.HabitEntry{Date: daysAgo(n)})
			readings = append(readings, domain.BiometricReading{Date: daysAgo(n), HRVMs: 50})
		}
		return habits, readings
	}

	tests := []struct {
		name        string
		offsets     []int
		wantCurrent int
		wantLongest int
	}{
		{"Empty", nil, 0, 0},
		{"Single day today", []int{0}, 1, 1},
		{"Single day yesterday (still alive)", []int{1}, 1, 1},
		{"Single day 2 days ago (broken)", []int{2}, 0, 1},
		{"Perfect run", []int{0, 1, 2}, 3, 3},
		{"Gap breaks the current run", []int{0, 1, 4}, 2, 2},
		{"Longest run in the past", []int{0, 10, 11, 12}, 1, 3},
		{"Unsorted input", []int{2, 0, 1}, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			habits, readings := logged(tt.offsets...)
			got := LoggingStreak(habits, readings, today)
			assert.Equal(t, tt.wantCurrent, got.Current, "Current streak mismatch")
			assert.Equal(t, tt.wantLongest, got.Longest, "Longest streak mismatch")
		})
	}

	t.Run("Days without a reading do not count", func(t *testing.T) {
		habits, readings := logged(0, 1, 2)
		got := LoggingStreak(habits, readings[:1], today)
		assert.Equal(t, domain.Streak{Current: 1, Longest: 1}, got)
	})

	t.Run("Duplicate habit logs on one day count once", func(t *testing.T) {
		habits, readings := logged(0, 1)
		habits = append(habits, domain.HabitEntry{Date: today.Add(2 * time.Hour)})
		got := LoggingStreak(habits, readings, today)
		assert.Equal(t, domain.Streak{Current: 2, Longest: 2}, got)
	})
}

func TestBuildReport(t *testing.T) {
	habits, readings := exerciseDataset(20)
	asOf := day(19)

	report := BuildReport(habits, readings, asOf, false)

	assert.Equal(t, "2024-03-20", report.AsOf)
	assert.False(t, report.UseLag)
	assert.Equal(t, 20, report.TotalDays)
	assert.True(t, report.SufficientData)
	assert.Equal(t, domain.Streak{Current: 20, Longest: 20}, report.LoggingStreak)
	assert.NotEmpty(t, report.Correlations)
}
