package morning

import (
	"fmt"
	"strings"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

const (
	reasoningRecovery    = "Your body is signalling incomplete recovery, so today is about restoring your nervous system rather than adding load."
	reasoningPush        = "HRV is above your recent average and recovery is strong, so your body is ready to handle a harder training stimulus."
	reasoningMaintenance = "Your markers are steady, so today is about consistent, moderate habits that keep HRV on its current path."

	defaultGoal = "improving your overall HRV"
)

var planTemplates = map[domain.FocusArea][]domain.PlanItem{
	domain.FocusRecovery: {
		{
			Priority:       1,
			Category:       "breathwork",
			Action:         "10 minutes of slow breathing at 6 breaths per minute",
			Timing:         "Morning, before your first coffee",
			ExpectedImpact: "Can raise HRV within the session and lower resting heart rate",
			Reasoning:      "Slow exhalations stimulate the vagus nerve and shift you toward parasympathetic activity.",
		},
		{
			Priority:       1,
			Category:       "sleep",
			Action:         "Be in bed 30 minutes earlier than usual",
			Timing:         "Evening",
			ExpectedImpact: "Extra deep sleep supports overnight HRV recovery",
			Reasoning:      "Most autonomic recovery happens during deep sleep in the first half of the night.",
		},
		{
			Priority:       2,
			Category:       "movement",
			Action:         "20-30 minute easy walk or light mobility work instead of intense training",
			Timing:         "Afternoon",
			ExpectedImpact: "Promotes circulation without adding training stress",
			Reasoning:      "Light movement aids recovery while hard efforts would deepen the deficit.",
		},
		{
			Priority:       2,
			Category:       "stress",
			Action:         "Avoid alcohol and limit caffeine after noon",
			Timing:         "All day",
			ExpectedImpact: "Removes two common suppressors of overnight HRV",
			Reasoning:      "Alcohol and late caffeine both keep sympathetic activity elevated during sleep.",
		},
	},
	domain.FocusPush: {
		{
			Priority:       1,
			Category:       "training",
			Action:         "High-intensity session: intervals or heavy strength work",
			Timing:         "Late morning or early afternoon",
			ExpectedImpact: "Builds fitness while your body can absorb the load",
			Reasoning:      "High HRV with strong recovery marks the best window for productive stress.",
		},
		{
			Priority:       2,
			Category:       "nutrition",
			Action:         "Eat 25-40 g of protein within two hours after training",
			Timing:         "Post-workout",
			ExpectedImpact: "Supports muscle repair and faster recovery",
			Reasoning:      "Protein after hard work provides the building blocks for adaptation.",
		},
		{
			Priority:       2,
			Category:       "hydration",
			Action:         "Drink at least 2.5 litres of water with electrolytes around training",
			Timing:         "All day",
			ExpectedImpact: "Keeps blood volume and HRV stable under load",
			Reasoning:      "Dehydration lowers stroke volume and suppresses HRV the following morning.",
		},
	},
	domain.FocusMaintenance: {
		{
			Priority:       1,
			Category:       "training",
			Action:         "30-45 minutes of steady zone 2 cardio",
			Timing:         "Morning or afternoon",
			ExpectedImpact: "Steady aerobic work builds HRV over weeks",
			Reasoning:      "Moderate cardio improves vagal tone without heavy recovery cost.",
		},
		{
			Priority:       2,
			Category:       "nutrition",
			Action:         "Include leafy greens, nuts or seeds for magnesium and omega-3s",
			Timing:         "Lunch and dinner",
			ExpectedImpact: "Micronutrient support for autonomic function",
			Reasoning:      "Magnesium and omega-3 intake are both associated with higher HRV.",
		},
		{
			Priority:       2,
			Category:       "sleep",
			Action:         "Keep bedtime and wake time within 30 minutes of your usual schedule",
			Timing:         "Evening",
			ExpectedImpact: "Consistent timing stabilises overnight HRV",
			Reasoning:      "A regular circadian rhythm is one of the strongest predictors of stable HRV.",
		},
	},
}

func goalItem(primaryGoal string) domain.PlanItem {
	goal := strings.TrimSpace(primaryGoal)
	if goal == "" {
		goal = defaultGoal
	}

	return domain.PlanItem{
		Priority:       3,
		Category:       "goal",
		Action:         fmt.Sprintf("Take one small step today toward your goal: %s", goal),
		Timing:         "Any time today",
		ExpectedImpact: "Keeps daily actions tied to what you care about",
		Reasoning:      "Small daily actions aligned with a stated goal compound over time.",
	}
}
