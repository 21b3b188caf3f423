package insights

import (
	"fmt"
	"math"
	"sort"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

const (
	DefaultMaxRecommendations = 5

	// increaseFrequencyCeiling: habits done at least this often need no push.
	increaseFrequencyCeiling = 0.7
	// decreaseFrequencyFloor: habits done at most this often are not worth cutting.
	decreaseFrequencyFloor = 0.3
	// minUsableCoefficient drops weak low-confidence correlations.
	minUsableCoefficient = 0.2
	// untrackedFrequency is used for habits without a tracked adherence flag.
	untrackedFrequency = 0.5
)

// frequencyFlags are the binary habits whose adherence is measured. The
// second result is false when the day carries no value for the habit.
var frequencyFlags = map[string]func(domain.HabitEntry) (bool, bool){
	HabitExercise:     func(e domain.HabitEntry) (bool, bool) { return e.Exercise != nil, true },
	HabitMeditation:   func(e domain.HabitEntry) (bool, bool) { return e.Meditation.Practiced, true },
	HabitAlcohol:      func(e domain.HabitEntry) (bool, bool) { return e.Alcohol.Consumed, true },
	HabitColdExposure: func(e domain.HabitEntry) (bool, bool) { return e.ColdExposure, true },
	HabitHighSleepQuality: func(e domain.HabitEntry) (bool, bool) {
		if e.Sleep == nil {
			return false, false
		}
		return e.Sleep.Quality >= 4, true
	},
	HabitLowStress: func(e domain.HabitEntry) (bool, bool) {
		if e.StressLevel == nil {
			return false, false
		}
		return *e.StressLevel <= 2, true
	},
}

// HabitFrequencies returns, per tracked flag, the fraction of days logging
// that habit on which the flag was set. Flags never logged report 0.
func HabitFrequencies(habits []domain.HabitEntry) map[string]float64 {
	freq := make(map[string]float64, len(frequencyFlags))
	for key, flag := range frequencyFlags {
		set, observed := 0, 0
		for _, h := range habits {
			on, ok := flag(h)
			if !ok {
				continue
			}
			observed++
			if on {
				set++
			}
		}
		if observed == 0 {
			freq[key] = 0
			continue
		}
		freq[key] = float64(set) / float64(observed)
	}
	return freq
}

// GenerateRecommendations turns ranked correlations into at most maxCount
// increase/decrease actions, weighted by how far current adherence is from
// the helpful direction. maxCount <= 0 means DefaultMaxRecommendations.
func GenerateRecommendations(correlations []domain.Correlation, habits []domain.HabitEntry, maxCount int) []domain.Recommendation {
	if maxCount <= 0 {
		maxCount = DefaultMaxRecommendations
	}

	freq := HabitFrequencies(habits)
	recs := make([]domain.Recommendation, 0, len(correlations))

	for _, c := range correlations {
		if c.Significance == domain.SignificanceLow && math.Abs(c.Coefficient) < minUsableCoefficient {
			continue
		}

		f, tracked := freq[c.HabitKey]
		if !tracked {
			f = untrackedFrequency
		}

		switch {
		case c.Coefficient > 0 && f < increaseFrequencyCeiling:
			recs = append(recs, domain.Recommendation{
				HabitKey:       c.HabitKey,
				HabitLabel:     c.HabitLabel,
				Action:         domain.ActionIncrease,
				ImpactScore:    c.Coefficient * (1 - f) * 100,
				Message:        fmt.Sprintf("%s is linked to higher HRV for you. You currently do it on %.0f%% of days; try adding it more often.", c.HabitLabel, f*100),
				ExpectedImpact: expectedImpact(c),
			})
		case c.Coefficient < 0 && f > decreaseFrequencyFloor:
			recs = append(recs, domain.Recommendation{
				HabitKey:       c.HabitKey,
				HabitLabel:     c.HabitLabel,
				Action:         domain.ActionDecrease,
				ImpactScore:    math.Abs(c.Coefficient) * f * 100,
				Message:        fmt.Sprintf("%s is linked to lower HRV for you. It shows up on %.0f%% of days; try cutting back.", c.HabitLabel, f*100),
				ExpectedImpact: expectedImpact(c),
			})
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].ImpactScore > recs[j].ImpactScore
	})

	if len(recs) > maxCount {
		recs = recs[:maxCount]
	}
	return recs
}

func expectedImpact(c domain.Correlation) string {
	diff := math.Abs(c.PercentageDiff)
	if c.Coefficient >= 0 {
		return fmt.Sprintf("Up to %.0f%% higher HRV on days with %s (correlation, not causation)", diff, c.HabitLabel)
	}
	return fmt.Sprintf("Up to %.0f%% higher HRV on days without %s (correlation, not causation)", diff, c.HabitLabel)
}

// satisfiedToday reports whether the habit behind key is already logged
// for today.
func satisfiedToday(key string, today *domain.HabitEntry) bool {
	if today == nil {
		return false
	}
	switch key {
	case HabitExercise:
		return today.Exercise != nil
	case HabitMeditation:
		return today.Meditation.Practiced
	case HabitColdExposure:
		return today.ColdExposure
	}
	return false
}

// GetTodaysFocus picks the single recommendation to highlight today: the
// best increase not already done today, then the best increase, then the
// best recommendation overall. It returns nil for an empty list.
func GetTodaysFocus(recs []domain.Recommendation, today *domain.HabitEntry) *domain.Recommendation {
	if len(recs) == 0 {
		return nil
	}

	var firstIncrease *domain.Recommendation
	for i := range recs {
		if recs[i].Action != domain.ActionIncrease {
			continue
		}
		if firstIncrease == nil {
			firstIncrease = &recs[i]
		}
		if !satisfiedToday(recs[i].HabitKey, today) {
			focus := recs[i]
			return &focus
		}
	}

	if firstIncrease != nil {
		focus := *firstIncrease
		return &focus
	}
	focus := recs[0]
	return &focus
}
