package morning

import (
	"fmt"
	"math"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

const (
	baselineHRVMale   = 60.0
	baselineHRVFemale = 65.0
	baselineAge       = 40
	baselineAgeSlope  = 0.5

	wellRecoveredScore     = 67
	moderatelyRecoveredMin = 34

	hrvDeviationMs = 5.0

	minRestfulSleep = 7.0
	fullSleep       = 8.0

	strongCorrelation    = 0.3
	insightsPerDirection = 2

	onTrackFraction = 0.10

	// weeklyImprovementMs is the flat rate assumed for goal estimates.
	weeklyImprovementMs = 1.0
)

const (
	RecoveryStateWell     = "Well Recovered"
	RecoveryStateModerate = "Moderately Recovered"
	RecoveryStateNeeds    = "Needs Recovery"
	RecoveryStateUnknown  = "Unknown"
)

// Stage 1: status assessment.

type StatusInput struct {
	HRV           float64
	SevenDayAvg   float64
	RecoveryScore *float64
	SleepHours    *float64
	Trend         string
	Age           int
	Gender        string
}

type StatusOutput struct {
	Status   domain.StatusAssessment
	Insights []string
}

// HRVPercentile places hrv against an age and gender adjusted baseline,
// clamped to [1, 99] and left unrounded. An age of 0 means unknown and uses
// the baseline age.
func HRVPercentile(hrv float64, age int, gender string) float64 {
	base := baselineHRVMale
	if gender == domain.GenderFemale {
		base = baselineHRVFemale
	}
	if age <= 0 {
		age = baselineAge
	}

	baseline := base - float64(age-baselineAge)*baselineAgeSlope
	if baseline <= 0 {
		return 99
	}

	p := 50 + (hrv-baseline)/baseline*50
	return math.Max(1, math.Min(99, p))
}

func RecoveryState(score *float64) string {
	switch {
	case score == nil:
		return RecoveryStateUnknown
	case *score >= wellRecoveredScore:
		return RecoveryStateWell
	case *score >= moderatelyRecoveredMin:
		return RecoveryStateModerate
	default:
		return RecoveryStateNeeds
	}
}

func AssessStatus(in StatusInput) StatusOutput {
	delta := in.HRV - in.SevenDayAvg

	out := StatusOutput{
		Status: domain.StatusAssessment{
			HRVPercentile: HRVPercentile(in.HRV, in.Age, in.Gender),
			VsSevenDayAvg: delta,
			RecoveryState: RecoveryState(in.RecoveryScore),
		},
		Insights: []string{},
	}

	switch {
	case delta > hrvDeviationMs:
		out.Insights = append(out.Insights, fmt.Sprintf("Your HRV is %.0f ms above your 7-day average, a sign your body has absorbed recent load.", delta))
	case delta < -hrvDeviationMs:
		out.Insights = append(out.Insights, fmt.Sprintf("Your HRV is %.0f ms below your 7-day average, so your nervous system is still under strain.", -delta))
	}

	if in.SleepHours != nil {
		switch h := *in.SleepHours; {
		case h < minRestfulSleep:
			out.Insights = append(out.Insights, fmt.Sprintf("You slept %.1f hours, short of the 7 hours recovery needs.", h))
		case h >= fullSleep:
			out.Insights = append(out.Insights, fmt.Sprintf("You slept %.1f hours, enough for full overnight recovery.", h))
		}
	}

	switch in.Trend {
	case domain.TrendImproving:
		out.Insights = append(out.Insights, "Your 30-day HRV trend is improving. Keep the routines that got you here.")
	case domain.TrendDeclining:
		out.Insights = append(out.Insights, "Your 30-day HRV trend is declining. Accumulated stress or short sleep may be adding up.")
	}

	return out
}

// Stage 2: previous-day learning.

// LearnFromPreviousDay turns yesterday's adherence record into feedback.
// A nil record yields an empty list.
func LearnFromPreviousDay(plan *domain.PlanAdherence) []string {
	learnings := []string{}
	if plan == nil {
		return learnings
	}

	var rate float64
	if plan.TotalActions > 0 {
		rate = float64(plan.CompletedActions) / float64(plan.TotalActions)
	}

	switch {
	case rate >= 0.7:
		learnings = append(learnings, fmt.Sprintf("You completed %.0f%% of yesterday's plan. That consistency is what moves HRV.", rate*100))
	case rate >= 0.4:
		learnings = append(learnings, fmt.Sprintf("You completed %.0f%% of yesterday's plan. Pick the one action that matters most and protect it today.", rate*100))
	case rate > 0:
		learnings = append(learnings, fmt.Sprintf("You completed %.0f%% of yesterday's plan. Today's plan is short; start with the first item.", rate*100))
	}

	if plan.DayQuality != nil {
		switch q := *plan.DayQuality; {
		case q >= 4:
			learnings = append(learnings, "You rated yesterday a good day. Note what went right and repeat it.")
		case q <= 2:
			learnings = append(learnings, "Yesterday was tough. Go easy on yourself and focus on recovery basics.")
		}
	}

	return learnings
}

// Stage 3: correlation insights.

// CorrelationInsights phrases the strongest helpful and harmful habits from
// a ranked correlation list.
func CorrelationInsights(ranked []domain.Correlation) []string {
	var positive, negative []string

	for _, c := range ranked {
		switch {
		case c.Coefficient > strongCorrelation && len(positive) < insightsPerDirection:
			positive = append(positive, fmt.Sprintf("%s: your HRV is %.0f%% higher on days with it.", c.HabitLabel, math.Abs(c.PercentageDiff)))
		case c.Coefficient < -strongCorrelation && len(negative) < insightsPerDirection:
			negative = append(negative, fmt.Sprintf("%s: your HRV is %.0f%% lower on days with it.", c.HabitLabel, math.Abs(c.PercentageDiff)))
		}
	}

	return append(append([]string{}, positive...), negative...)
}

// Stage 4: goal alignment.

type GoalInput struct {
	TargetHRV  *float64
	CurrentHRV float64
}

// AlignGoal returns nil when no target is set.
func AlignGoal(in GoalInput) *domain.GoalProgress {
	if in.TargetHRV == nil {
		return nil
	}

	target := *in.TargetHRV
	gap := target - in.CurrentHRV

	progress := &domain.GoalProgress{
		TargetHRV:  target,
		CurrentHRV: in.CurrentHRV,
		Gap:        gap,
		OnTrack:    gap <= target*onTrackFraction,
	}
	if gap > 0 {
		progress.EstimatedDaysToTarget = int(math.Ceil(gap / weeklyImprovementMs * 7))
	}
	return progress
}

// Stage 5: focus-area decision.

type FocusInput struct {
	HRV           float64
	SevenDayAvg   float64
	RecoveryScore *float64
	SleepHours    *float64
}

type FocusDecision struct {
	Area      domain.FocusArea
	Reasoning string
}

// DecideFocus evaluates the rules in priority order; the first match wins.
// Missing optional inputs never satisfy a rule.
func DecideFocus(in FocusInput) FocusDecision {
	lowRecovery := in.RecoveryScore != nil && *in.RecoveryScore < 33
	shortSleep := in.SleepHours != nil && *in.SleepHours < 6
	highRecovery := in.RecoveryScore != nil && *in.RecoveryScore > 66

	switch {
	case in.HRV < in.SevenDayAvg || lowRecovery || shortSleep:
		return FocusDecision{Area: domain.FocusRecovery, Reasoning: reasoningRecovery}
	case in.HRV > in.SevenDayAvg && highRecovery:
		return FocusDecision{Area: domain.FocusPush, Reasoning: reasoningPush}
	default:
		return FocusDecision{Area: domain.FocusMaintenance, Reasoning: reasoningMaintenance}
	}
}

// Stage 6: recommendation generation.

// GeneratePlan returns the focus-specific action items followed by one item
// restating the user's primary goal.
func GeneratePlan(area domain.FocusArea, primaryGoal string) []domain.PlanItem {
	templates, ok := planTemplates[area]
	if !ok {
		templates = planTemplates[domain.FocusMaintenance]
	}

	plan := make([]domain.PlanItem, 0, len(templates)+1)
	plan = append(plan, templates...)
	return append(plan, goalItem(primaryGoal))
}

// EstimateEndOfDayHRV is a directional estimate, not a prediction.
func EstimateEndOfDayHRV(area domain.FocusArea, hrv float64) float64 {
	switch area {
	case domain.FocusRecovery:
		return hrv + 5
	case domain.FocusPush:
		return hrv - 3
	default:
		return hrv + 1
	}
}
