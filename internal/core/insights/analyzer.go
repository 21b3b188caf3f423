package insights

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

const (
	// MinSamples is the number of joined days required before a habit is
	// correlated at all.
	MinSamples = 7

	// SufficientDataDays gates whether correlation insights may be shown.
	SufficientDataDays = 14
)

var ErrUnknownHabitKind = errors.New("insights: unknown habit kind")

// AnalyzeAllHabits correlates every habit of the default catalog with HRV.
func AnalyzeAllHabits(habits []domain.HabitEntry, readings []domain.BiometricReading, useLag bool) domain.HabitAnalysis {
	return AnalyzeCatalog(DefaultCatalog(), habits, readings, useLag)
}

// AnalyzeCatalog correlates each definition of catalog with HRV. A habit
// that cannot be analysed is logged and left out; it never aborts the rest.
func AnalyzeCatalog(catalog []HabitDefinition, habits []domain.HabitEntry, readings []domain.BiometricReading, useLag bool) domain.HabitAnalysis {
	correlations := make([]domain.Correlation, 0, len(catalog))

	for _, def := range catalog {
		c, ok, err := analyzeHabit(def, habits, readings, useLag)
		if err != nil {
			log.Warn().Err(err).Str("habit", def.Key).Msg("Skipping habit correlation")
			continue
		}
		if !ok {
			continue
		}
		correlations = append(correlations, c)
	}

	return domain.HabitAnalysis{
		Correlations:   correlations,
		TotalDays:      len(habits),
		SufficientData: len(habits) >= SufficientDataDays,
	}
}

func analyzeHabit(def HabitDefinition, habits []domain.HabitEntry, readings []domain.BiometricReading, useLag bool) (c domain.Correlation, ok bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			c, ok, err = domain.Correlation{}, false, fmt.Errorf("insights: extractor for %q panicked: %v", def.Key, rec)
		}
	}()

	if def.Extract == nil {
		return c, false, fmt.Errorf("insights: habit %q has no extractor", def.Key)
	}

	series := Align(habits, readings, def.Extract, useLag)
	n := series.Len()
	if n < MinSamples {
		return c, false, nil
	}

	r, err := Pearson(series.Values, series.HRV)
	if err != nil {
		return c, false, err
	}

	var with, without float64
	switch def.Kind {
	case domain.HabitKindBinary:
		with, without = splitBinary(series)
	case domain.HabitKindNumeric:
		with, without = splitMedian(series)
	default:
		return c, false, fmt.Errorf("%w: %q", ErrUnknownHabitKind, def.Kind)
	}

	sig := Assess(r, n)

	return domain.Correlation{
		HabitKey:             def.Key,
		HabitLabel:           def.Label,
		Coefficient:          r,
		AvgValueWithHabit:    with,
		AvgValueWithoutHabit: without,
		PercentageDiff:       PercentageDiff(with, without),
		SampleSize:           n,
		Significance:         sig.Level,
	}, true, nil
}

// splitBinary averages HRV on days with and without the habit.
func splitBinary(s Series) (with, without float64) {
	var on, off []float64
	for i, v := range s.Values {
		if v != 0 {
			on = append(on, s.HRV[i])
		} else {
			off = append(off, s.HRV[i])
		}
	}
	return Mean(on), Mean(off)
}

// splitMedian dichotomises a continuous habit at the value found at index
// n/2 of the sorted values: days at or above it count as "with".
func splitMedian(s Series) (with, without float64) {
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)
	threshold := sorted[len(sorted)/2]

	var upper, lower []float64
	for i, v := range s.Values {
		if v >= threshold {
			upper = append(upper, s.HRV[i])
		} else {
			lower = append(lower, s.HRV[i])
		}
	}
	return Mean(upper), Mean(lower)
}
