package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrProfileNotFound     = errors.New("health profile not found")
	ErrAdherenceNotFound   = errors.New("plan adherence not found")
	ErrInvalidAge          = errors.New("age must be between 0 and 120")
	ErrInvalidGender       = errors.New("invalid gender (must be male, female, or empty)")
	ErrInvalidTargetHRV    = errors.New("target hrv must be greater than zero")
	ErrInvalidActionCounts = errors.New("completed actions must be between 0 and total actions")
	ErrInvalidDayQuality   = errors.New("day quality must be between 1 and 5")
)

// FocusArea is the single decision that drives the tone of a day's plan.
type FocusArea string

const (
	FocusRecovery    FocusArea = "Recovery"
	FocusMaintenance FocusArea = "Maintenance"
	FocusPush        FocusArea = "Push"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

type StatusAssessment struct {
	HRVPercentile float64 `json:"hrvPercentile"`
	VsSevenDayAvg float64 `json:"vsSevenDayAvg"`
	RecoveryState string  `json:"recoveryState"`
}

type PlanItem struct {
	Priority       int    `json:"priority"`
	Category       string `json:"category"`
	Action         string `json:"action"`
	Timing         string `json:"timing"`
	ExpectedImpact string `json:"expectedImpact"`
	Reasoning      string `json:"reasoning"`
}

type GoalProgress struct {
	TargetHRV             float64 `json:"targetHRV"`
	CurrentHRV            float64 `json:"currentHRV"`
	Gap                   float64 `json:"gap"`
	OnTrack               bool    `json:"onTrack"`
	EstimatedDaysToTarget int     `json:"estimatedDaysToTarget"`
}

// DailyAnalysis is the morning plan handed to the presentation layer.
type DailyAnalysis struct {
	Status               StatusAssessment `json:"status"`
	Insights             []string         `json:"insights"`
	PreviousDayLearnings []string         `json:"previousDayLearnings"`
	FocusArea            FocusArea        `json:"focusArea"`
	Reasoning            string           `json:"reasoning"`
	Recommendations      []PlanItem       `json:"recommendations"`
	GoalProgress         *GoalProgress    `json:"goalProgress,omitempty"`
	EstimatedEndOfDayHRV float64          `json:"estimatedEndOfDayHRV"`
}

// HealthProfile holds the goal and context fields a user supplies once.
type HealthProfile struct {
	UserID        string    `json:"userId" db:"user_id"`
	Age           int       `json:"age" db:"age"`
	Gender        string    `json:"gender" db:"gender"`
	TargetHRV     *float64  `json:"targetHRV,omitempty" db:"target_hrv"`
	PrimaryGoal   string    `json:"primaryGoal" db:"primary_goal"`
	ActivityLevel string    `json:"activityLevel" db:"activity_level"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

func (p *HealthProfile) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return ErrInvalidUserID
	}
	if p.Age < 0 || p.Age > 120 {
		return ErrInvalidAge
	}
	switch p.Gender {
	case "", GenderMale, GenderFemale:
	default:
		return ErrInvalidGender
	}
	if p.TargetHRV != nil && *p.TargetHRV <= 0 {
		return ErrInvalidTargetHRV
	}
	return nil
}

// PlanAdherence records how much of a day's plan the user completed.
type PlanAdherence struct {
	UserID           string    `json:"userId" db:"user_id"`
	Date             time.Time `json:"date" db:"date"`
	CompletedActions int       `json:"completedActions" db:"completed_actions"`
	TotalActions     int       `json:"totalActions" db:"total_actions"`
	DayQuality       *int      `json:"dayQuality,omitempty" db:"day_quality"`
	Notes            string    `json:"notes,omitempty" db:"notes"`
}

func (a *PlanAdherence) Validate() error {
	if a.TotalActions < 0 || a.CompletedActions < 0 || a.CompletedActions > a.TotalActions {
		return ErrInvalidActionCounts
	}
	if a.DayQuality != nil && (*a.DayQuality < 1 || *a.DayQuality > 5) {
		return ErrInvalidDayQuality
	}
	return nil
}
