package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEntryNotFound        = errors.New("habit entry not found")
	ErrInvalidSleepHours    = errors.New("sleep hours must be between 0 and 24")
	ErrInvalidSleepQuality  = errors.New("sleep quality must be between 1 and 5")
	ErrInvalidStressLevel   = errors.New("stress level must be between 1 and 5")
	ErrInvalidDuration      = errors.New("duration cannot be negative")
	ErrInvalidAlcoholUnits  = errors.New("alcohol units cannot be negative")
	ErrInvalidIntensity     = errors.New("invalid exercise intensity (must be low, moderate, or high)")
	ErrEntryMissingDate     = errors.New("date is required")
	ErrExerciseTypeRequired = errors.New("exercise type is required")
)

const (
	IntensityLow      = "low"
	IntensityModerate = "moderate"
	IntensityHigh     = "high"
)

type SleepLog struct {
	Hours   float64 `json:"hours"`
	Quality int     `json:"quality"`
}

type ExerciseLog struct {
	Type         string `json:"type"`
	DurationMins int    `json:"durationMins"`
	Intensity    string `json:"intensity"`
}

type AlcoholLog struct {
	Consumed bool     `json:"consumed"`
	Units    *float64 `json:"units,omitempty"`
}

type MeditationLog struct {
	Practiced    bool `json:"practiced"`
	DurationMins *int `json:"durationMins,omitempty"`
}

// HabitEntry is the lifestyle log for a single calendar day. Sleep and
// StressLevel stay nil until the user logs them.
type HabitEntry struct {
	ID           string        `json:"id"`
	UserID       string        `json:"userId"`
	Date         time.Time     `json:"date"`
	Sleep        *SleepLog     `json:"sleep,omitempty"`
	Exercise     *ExerciseLog  `json:"exercise,omitempty"`
	Alcohol      AlcoholLog    `json:"alcohol"`
	Meditation   MeditationLog `json:"meditation"`
	StressLevel  *int          `json:"stressLevel,omitempty"`
	ColdExposure bool          `json:"coldExposure"`
	Notes        string        `json:"notes,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

func NewHabitEntry(userID string, date time.Time) (*HabitEntry, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidUserID
	}
	if date.IsZero() {
		return nil, ErrEntryMissingDate
	}

	now := time.Now().UTC()
	return &HabitEntry{
		UserID:    userID,
		Date:      Day(date),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (e *HabitEntry) Validate() error {
	if strings.TrimSpace(e.UserID) == "" {
		return ErrInvalidUserID
	}
	if e.Date.IsZero() {
		return ErrEntryMissingDate
	}
	if e.Sleep != nil {
		if e.Sleep.Hours < 0 || e.Sleep.Hours > 24 {
			return ErrInvalidSleepHours
		}
		if e.Sleep.Quality < 1 || e.Sleep.Quality > 5 {
			return ErrInvalidSleepQuality
		}
	}
	if e.StressLevel != nil && (*e.StressLevel < 1 || *e.StressLevel > 5) {
		return ErrInvalidStressLevel
	}
	if e.Exercise != nil {
		if strings.TrimSpace(e.Exercise.Type) == "" {
			return ErrExerciseTypeRequired
		}
		if e.Exercise.DurationMins < 0 {
			return ErrInvalidDuration
		}
		switch e.Exercise.Intensity {
		case IntensityLow, IntensityModerate, IntensityHigh:
		default:
			return ErrInvalidIntensity
		}
	}
	if e.Alcohol.Units != nil && *e.Alcohol.Units < 0 {
		return ErrInvalidAlcoholUnits
	}
	if e.Meditation.DurationMins != nil && *e.Meditation.DurationMins < 0 {
		return ErrInvalidDuration
	}
	return nil
}

// HabitEntryPatch carries a partial re-log of a day. Nil fields leave the
// stored value untouched.
type HabitEntryPatch struct {
	Sleep        *SleepLog
	Exercise     *ExerciseLog
	NoExercise   bool
	Alcohol      *AlcoholLog
	Meditation   *MeditationLog
	StressLevel  *int
	ColdExposure *bool
	Notes        *string
}

func (p HabitEntryPatch) ApplyTo(e *HabitEntry) {
	if p.Sleep != nil {
		sleep := *p.Sleep
		e.Sleep = &sleep
	}
	if p.NoExercise {
		e.Exercise = nil
	} else if p.Exercise != nil {
		ex := *p.Exercise
		ex.Intensity = strings.ToLower(strings.TrimSpace(ex.Intensity))
		e.Exercise = &ex
	}
	if p.Alcohol != nil {
		e.Alcohol = *p.Alcohol
		if !e.Alcohol.Consumed {
			e.Alcohol.Units = nil
		}
	}
	if p.Meditation != nil {
		e.Meditation = *p.Meditation
		if !e.Meditation.Practiced {
			e.Meditation.DurationMins = nil
		}
	}
	if p.StressLevel != nil {
		stress := *p.StressLevel
		e.StressLevel = &stress
	}
	if p.ColdExposure != nil {
		e.ColdExposure = *p.ColdExposure
	}
	if p.Notes != nil {
		e.Notes = strings.TrimSpace(*p.Notes)
	}
	e.UpdatedAt = time.Now().UTC()
}
