package insights

import (
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

// HabitDefinition describes one correlatable habit. Definitions are static.
type HabitDefinition struct {
	Key     string
	Label   string
	Kind    domain.HabitKind
	Extract Extractor
}

const (
	HabitExercise              = "exercise"
	HabitExerciseDuration      = "exercise_duration"
	HabitHighIntensityExercise = "high_intensity_exercise"
	HabitMeditation            = "meditation"
	HabitMeditationDuration    = "meditation_duration"
	HabitAlcohol               = "alcohol"
	HabitAlcoholUnits          = "alcohol_units"
	HabitColdExposure          = "cold_exposure"
	HabitSleepHours            = "sleep_hours"
	HabitSleepQuality          = "sleep_quality"
	HabitHighSleepQuality      = "high_sleep_quality"
	HabitStressLevel           = "stress_level"
	HabitLowStress             = "low_stress"
)

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// DefaultCatalog lists the habits analysed for every user. Its order is the
// tie-break order of the impact ranking.
func DefaultCatalog() []HabitDefinition {
	return []HabitDefinition{
		{
			Key: HabitExercise, Label: "Exercise", Kind: domain.HabitKindBinary,
			Extract: func(e domain.HabitEntry) (float64, bool) {
				return boolValue(e.Exercise != nil), true
			},
		},
		{
			Key: HabitExerciseDuration, Label: "Exercise duration", Kind: domain.HabitKindNumeric,
			Extract: func(e domain.HabitEntry) (float64, bool) {
				if e.Exercise == nil {
					return 0, false
				}
				return float64(e.Exercise.DurationMins), true
			},
		},
		{
			Key: HabitHighIntensityExercise, Label: "High-intensity exercise", Kind: domain.HabitKindBinary,
			Extract: func(e domain.HabitEntry) (float64, bool) {
				if e.Exercise == nil {
					return 0, false
				}
				return boolValue(e.Exercise.Intensity == domain.IntensityHigh), true
			},
		},
		{
			Key: HabitMeditation, Label: "Meditation", Kind: domain.HabitKindBinary,
			Extract: func(e domain.HabitEntry) (float64, bool) {
				return boolValue(e.Meditation.Practiced), true
			},
		},
		{
			Key: HabitMeditationDuration, Label: "Meditation duration", Kind: domain.HabitKindNumeric,
			Extract: func(e domain.HabitEntry) (float64, bool) {
				if !e.Meditation.Practiced || e.Meditation.DurationMins == nil {
					return 0, false
				}
				return float64(*e.Meditation.DurationMins), true
			},
		},
		{
			Key: HabitAlcohol, Label: "Alcohol", Kind: domain.HabitKindBinary,
			Extract: func(e domain.HabitEntry) (float64, bool) {
				return boolValue(e.Alcohol.Consumed), true
			},
		},
		{
			Key: HabitAlcoholUnits, Label: "Alcohol units", Kind: domain.HabitKindNumeric,
			Extract: func(e domain.HabitEntry) (float64, bool) {
				if !e.Alcohol.Consumed || e.Alcohol.Units == nil {
					return 0, false
				}
				return *e.Alcohol.Units, true
			},
		},
		{
			Key: HabitColdExposure, Label: "Cold exposure", Kind: domain.HabitKindBinary,
			Extract: func(e domain.HabitEntry) (float64, bool) {
				return boolValue(e.ColdExposure), true
			},
		},
		{
			Key: HabitSleepHours, Label: "Sleep hours", Kind: domain.HabitKindNumeric,
			Extract: func(e domain.HabitEntry) (float64, bool) {
				if e.Sleep == nil {
					return 0, false
				}
				return e.Sleep.Hours, true
			},
		},
		{
			Key: HabitSleepQuality, Label: "Sleep quality", Kind: domain.HabitKindNumeric,
			Extract: func(e domain.HabitEntry) (float64, bool) {
				if e.Sleep == nil {
					return 0, false
				}
				return float64(e.Sleep.Quality), true
			},
		},
		{
			Key: HabitHighSleepQuality, Label: "High sleep quality", Kind: domain.HabitKindBinary,
			Extract: func(e domain.HabitEntry) (float64, bool) {
				if e.Sleep == nil {
					return 0, false
				}
				return boolValue(e.Sleep.Quality >= 4), true
			},
		},
		{
			Key: HabitStressLevel, Label: "Stress level", Kind: domain.HabitKindNumeric,
			Extract: func(e domain.HabitEntry) (float64, bool) {
				if e.StressLevel == nil {
					return 0, false
				}
				return float64(*e.StressLevel), true
			},
		},
		{
			Key: HabitLowStress, Label: "Low stress", Kind: domain.HabitKindBinary,
			Extract: func(e domain.HabitEntry) (float64, bool) {
				if e.StressLevel == nil {
					return 0, false
				}
				return boolValue(*e.StressLevel <= 2), true
			},
		},
	}
}
