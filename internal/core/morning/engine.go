// Package morning builds the daily plan from today's biometrics, yesterday's
// adherence, ranked habit correlations and the user's goal profile.
//
// Every stage is a pure function with its own input and output types, so
// GenerateMorningAnalysis is deterministic for a given Request.
package morning

import (
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

func GenerateMorningAnalysis(req Request) domain.DailyAnalysis {
	today := req.Today

	status := AssessStatus(StatusInput{
		HRV:           today.HRV,
		SevenDayAvg:   today.SevenDayAvg,
		RecoveryScore: today.RecoveryScore,
		SleepHours:    today.SleepHours,
		Trend:         today.Trend,
		Age:           req.Profile.Age,
		Gender:        req.Profile.Gender,
	})

	learnings := LearnFromPreviousDay(req.YesterdayPlan)

	insights := append(status.Insights, CorrelationInsights(req.Correlations)...)

	goal := AlignGoal(GoalInput{
		TargetHRV:  req.Profile.TargetHRV,
		CurrentHRV: today.HRV,
	})

	focus := DecideFocus(FocusInput{
		HRV:           today.HRV,
		SevenDayAvg:   today.SevenDayAvg,
		RecoveryScore: today.RecoveryScore,
		SleepHours:    today.SleepHours,
	})

	return domain.DailyAnalysis{
		Status:               status.Status,
		Insights:             insights,
		PreviousDayLearnings: learnings,
		FocusArea:            focus.Area,
		Reasoning:            focus.Reasoning,
		Recommendations:      GeneratePlan(focus.Area, req.Profile.PrimaryGoal),
		GoalProgress:         goal,
		EstimatedEndOfDayHRV: EstimateEndOfDayHRV(focus.Area, today.HRV),
	}
}
