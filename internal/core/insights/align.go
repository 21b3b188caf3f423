package insights

import (
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

// Extractor reads a numeric value for one habit from a day's log. ok is
// false when the entry carries no value for the habit.
type Extractor func(entry domain.HabitEntry) (value float64, ok bool)

// Series holds same-length habit and HRV vectors joined by date.
type Series struct {
	Dates  []string
	Values []float64
	HRV    []float64
}

func (s Series) Len() int {
	return len(s.Values)
}

// Align pairs each habit entry with the HRV reading of the same day, or of
// the following day when useLag is set. Days missing on either side are
// dropped; nothing is interpolated.
func Align(habits []domain.HabitEntry, readings []domain.BiometricReading, extract Extractor, useLag bool) Series {
	hrvByDate := make(map[string]float64, len(readings))
	for _, r := range readings {
		hrvByDate[domain.DayKey(r.Date)] = r.HRVMs
	}

	var s Series
	for _, h := range habits {
		value, ok := extract(h)
		if !ok {
			continue
		}

		readingDate := domain.Day(h.Date)
		if useLag {
			readingDate = readingDate.AddDate(0, 0, 1)
		}
		key := domain.DayKey(readingDate)

		hrv, found := hrvByDate[key]
		if !found {
			continue
		}

		s.Dates = append(s.Dates, key)
		s.Values = append(s.Values, value)
		s.HRV = append(s.HRV, hrv)
	}
	return s
}
