package insights

import (
	"sort"
	"time"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

// BuildReport runs the analyzer and attaches the logging streak as of asOf.
func BuildReport(habits []domain.HabitEntry, readings []domain.BiometricReading, asOf time.Time, useLag bool) domain.InsightReport {
	return domain.InsightReport{
		HabitAnalysis: AnalyzeAllHabits(habits, readings, useLag),
		AsOf:          domain.DayKey(asOf),
		UseLag:        useLag,
		LoggingStreak: LoggingStreak(habits, readings, asOf),
	}
}

// LoggingStreak counts runs of consecutive days that have both a habit log
// and a reading. The current run stays alive if its last day is today or
// yesterday.
func LoggingStreak(habits []domain.HabitEntry, readings []domain.BiometricReading, today time.Time) domain.Streak {
	readingDays := make(map[string]bool, len(readings))
	for _, r := range readings {
		readingDays[domain.DayKey(r.Date)] = true
	}

	seen := make(map[string]bool)
	var days []time.Time
	for _, h := range habits {
		day := domain.Day(h.Date)
		key := domain.DayKey(day)
		if !readingDays[key] || seen[key] {
			continue
		}
		seen[key] = true
		days = append(days, day)
	}

	if len(days) == 0 {
		return domain.Streak{}
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].After(days[j])
	})

	var streak domain.Streak

	gap := domain.Day(today).Sub(days[0]).Hours() / 24
	if gap >= 0 && gap <= 1 {
		streak.Current = 1
		for i := 0; i < len(days)-1; i++ {
			if days[i].Sub(days[i+1]).Hours() != 24 {
				break
			}
			streak.Current++
		}
	}

	run := 1
	for i := 0; i < len(days)-1; i++ {
		if days[i].Sub(days[i+1]).Hours() == 24 {
			run++
			continue
		}
		if run > streak.Longest {
			streak.Longest = run
		}
		run = 1
	}
	if run > streak.Longest {
		streak.Longest = run
	}

	return streak
}
